package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

// Storage defines the interface to the shared backing store. It is the
// sole point of serialization for concurrent clients.
type Storage interface {
	// Player directory operations

	// SavePlayer inserts or replaces a player record. Used by roster
	// seeding; lifecycle mutations go through the conditional operations
	// below.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// ListPlayers returns the directory ordered by earnings descending
	// (player id ascending on ties).
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// AddPlayerEarnings atomically increments a player's earnings by a
	// positive amount and returns the updated record. The increment is a
	// single conditional update at the store, not a client-side
	// read-then-write, so concurrent approvals cannot lose an increment.
	AddPlayerEarnings(ctx context.Context, id model.PlayerID, amount decimal.Decimal) (*model.Player, error)

	// LinkPlayerIdentity attaches an external identity and contact email
	// to a player. Succeeds when the player is unlinked, or when the same
	// identity is already attached (idempotent re-link); returns
	// model.ErrProfileClaimed when a different identity or email holds
	// the profile.
	LinkPlayerIdentity(ctx context.Context, id model.PlayerID, externalID, email string) (*model.Player, error)

	// Winnings request ledger operations (append-only)

	SaveRequest(ctx context.Context, req *model.WinningsRequest) error
	GetRequest(ctx context.Context, id model.RequestID) (*model.WinningsRequest, error)
	// ListRequests returns all requests, newest first.
	ListRequests(ctx context.Context) ([]*model.WinningsRequest, error)

	// TransitionRequest moves a request from one status to another as a
	// compare-and-set: if the current status is not `from`, it fails with
	// model.ErrStaleState and writes nothing.
	TransitionRequest(ctx context.Context, id model.RequestID, from, to model.RequestStatus) (*model.WinningsRequest, error)
}
