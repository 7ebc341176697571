package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerUnclaimed = errors.New("player has no login credentials")
	ErrProfileClaimed  = errors.New("profile is already claimed")
	ErrNotAdmin        = errors.New("administrator access required")

	// PIN errors
	ErrInvalidPIN = errors.New("invalid PIN")

	// Request errors
	ErrRequestNotFound   = errors.New("winnings request not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNoWinnerSelected  = errors.New("no winner selected")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStaleState signals that a concurrent transition already moved the
	// request out of the expected state. Surfaced, never silently
	// overwritten.
	ErrStaleState = errors.New("request state has changed")
)
