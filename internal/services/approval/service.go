package approval

import (
	"context"
	"log/slog"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Service transitions winnings requests between states and applies the
// corresponding balance mutation to the player directory.
//
// Approve is two store writes: the status compare-and-set, then an atomic
// earnings increment. The increment happens server-side in the store, so
// concurrent approvals for the same player cannot lose an update; if the
// increment itself fails, the status transition is reverted so a failed
// attempt leaves durable state unchanged and the operation stays
// retryable.
type Service struct {
	storage storage.Storage
	hub     *notify.Hub
	logger  *slog.Logger
}

// New creates a new approval engine
func New(storage storage.Storage, hub *notify.Hub, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		hub:     hub,
		logger:  logger.With(slog.String("component", "approval")),
	}
}

// Approve moves a pending request to approved and credits the author's
// earnings. Fails with model.ErrStaleState if the request is no longer
// pending; a non-pending request never mutates earnings.
func (s *Service) Approve(ctx context.Context, id model.RequestID) error {
	req, err := s.storage.TransitionRequest(ctx, id, model.StatusPending, model.StatusApproved)
	if err != nil {
		return err
	}

	if _, err := s.storage.AddPlayerEarnings(ctx, req.PlayerID, req.Amount); err != nil {
		// Revert so no approved status exists without its earnings
		// increment. If the revert also fails the request stays approved
		// with earnings uncredited; that is logged loudly rather than
		// hidden.
		if _, revertErr := s.storage.TransitionRequest(ctx, id, model.StatusApproved, model.StatusPending); revertErr != nil {
			s.logger.Error("approval revert failed - request approved without earnings credit",
				slog.String("request_id", string(id)),
				slog.Any("credit_error", err),
				slog.Any("revert_error", revertErr))
		}
		return err
	}

	s.logger.Info("winnings approved",
		slog.String("request_id", string(id)),
		slog.String("player", req.PlayerName),
		slog.String("amount", req.Amount.String()))
	s.hub.Publish(model.TableRequests)
	s.hub.Publish(model.TablePlayers)
	return nil
}

// Deny moves a pending request to denied. No balance effect. Same
// staleness guard as Approve.
func (s *Service) Deny(ctx context.Context, id model.RequestID) error {
	req, err := s.storage.TransitionRequest(ctx, id, model.StatusPending, model.StatusDenied)
	if err != nil {
		return err
	}

	s.logger.Info("winnings denied",
		slog.String("request_id", string(id)),
		slog.String("player", req.PlayerName))
	s.hub.Publish(model.TableRequests)
	return nil
}
