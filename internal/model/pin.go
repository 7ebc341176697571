package model

import (
	"golang.org/x/crypto/bcrypt"
)

// PINLength is the required PIN length
const PINLength = 4

// ValidPIN reports whether the value is a well-formed 4-digit PIN.
func ValidPIN(pin string) bool {
	if len(pin) != PINLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HashPIN hashes a PIN for storage on a Player record.
func HashPIN(pin string) (string, error) {
	if !ValidPIN(pin) {
		return "", ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN compares an entered PIN against the player's stored hash.
func (p *Player) CheckPIN(pin string) bool {
	if p.PINHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(pin)) == nil
}
