package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/clock"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Service is the append-only winnings request ledger.
type Service struct {
	storage storage.Storage
	hub     *notify.Hub
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new ledger service
func New(storage storage.Storage, hub *notify.Hub, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		hub:     hub,
		clock:   clk,
		logger:  logger.With(slog.String("component", "ledger")),
	}
}

// Submit records a pending winnings claim for a roster member. Validation
// failures are rejected before any store write.
func (s *Service) Submit(ctx context.Context, authorID model.PlayerID, amount decimal.Decimal, tournament string) (*model.WinningsRequest, error) {
	if authorID == 0 {
		return nil, model.ErrNoWinnerSelected
	}
	if amount.Sign() <= 0 {
		return nil, model.ErrInvalidAmount
	}

	player, err := s.storage.GetPlayer(ctx, authorID)
	if err != nil {
		return nil, err
	}

	req := &model.WinningsRequest{
		ID:         model.RequestID(uuid.NewString()),
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Amount:     amount,
		Tournament: tournament,
		Status:     model.StatusPending,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.storage.SaveRequest(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("winnings claim submitted",
		slog.String("request_id", string(req.ID)),
		slog.String("player", req.PlayerName),
		slog.String("amount", req.Amount.String()))
	s.hub.Publish(model.TableRequests)
	return req, nil
}

// Requests returns all requests, newest first.
func (s *Service) Requests(ctx context.Context) ([]*model.WinningsRequest, error) {
	return s.storage.ListRequests(ctx)
}

// PendingRequests returns only requests awaiting review, newest first.
func (s *Service) PendingRequests(ctx context.Context) ([]*model.WinningsRequest, error) {
	requests, err := s.storage.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]*model.WinningsRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == model.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}
