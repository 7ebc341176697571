package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestID uniquely identifies a winnings request
type RequestID string

// RequestStatus is the lifecycle state of a winnings request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// WinningsRequest is a submitted, unverified claim that a player won a
// given amount, pending administrator review. Requests are append-only:
// denial is recorded, never erased.
type WinningsRequest struct {
	ID       RequestID `json:"id"`
	PlayerID PlayerID  `json:"player_id"`

	// PlayerName is denormalized so requests render without a join.
	PlayerName string `json:"player_name"`

	Amount     decimal.Decimal `json:"amount"`
	Tournament string          `json:"tournament,omitempty"`
	Status     RequestStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Terminal reports whether the request has left the pending state.
// Terminal requests are immutable.
func (r *WinningsRequest) Terminal() bool {
	return r.Status != StatusPending
}

// ValidTransition reports whether a status transition is one of the two
// legal edges: pending->approved or pending->denied.
func ValidTransition(from, to RequestStatus) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusDenied)
}
