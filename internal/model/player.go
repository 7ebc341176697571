package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlayerID uniquely identifies a roster member. IDs are pre-seeded and
// never reassigned.
type PlayerID int64

// Player represents a roster member with a cumulative earnings balance.
//
// Earnings are mutated only by the approval engine, and only upward.
type Player struct {
	ID       PlayerID        `json:"id"`
	Name     string          `json:"name"`
	Earnings decimal.Decimal `json:"earnings"`

	// ExternalID is the identity-provider account key. Empty means no
	// external identity is linked; unique across the directory when set.
	ExternalID string `json:"external_id,omitempty"`

	// Email is the contact address recorded when a profile is claimed.
	// Empty means the profile is still claimable.
	Email string `json:"email,omitempty"`

	// PINHash is the bcrypt hash of the player's 4-digit PIN. Empty means
	// PIN login is not available for this player.
	PINHash string `json:"pin_hash,omitempty"`

	IsAdmin bool `json:"is_admin"`

	ImageURL string `json:"image_url,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Claimed reports whether the player can log in at all: a player is claimed
// once either a PIN or an external identity is attached.
func (p *Player) Claimed() bool {
	return p.PINHash != "" || p.ExternalID != ""
}

// Linked reports whether an external identity is attached.
func (p *Player) Linked() bool {
	return p.ExternalID != ""
}

// MatchesEmail compares the player's contact email case-insensitively.
func (p *Player) MatchesEmail(email string) bool {
	return p.Email != "" && strings.EqualFold(p.Email, email)
}
