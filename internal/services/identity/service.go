package identity

import (
	"context"
	"log/slog"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Service binds external-identity accounts to unclaimed player profiles.
type Service struct {
	storage storage.Storage
	hub     *notify.Hub
	logger  *slog.Logger
}

// New creates a new identity linker
func New(storage storage.Storage, hub *notify.Hub, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		hub:     hub,
		logger:  logger.With(slog.String("component", "identity")),
	}
}

// Link attaches an external identity and contact email to a player.
//
// Link is idempotent: re-invoking with the same arguments after a partial
// failure converges to the same end state. Linking a player already held
// by a different identity fails with model.ErrProfileClaimed; that is a
// caller decision, not something to retry.
func (s *Service) Link(ctx context.Context, playerID model.PlayerID, email, externalID string) (*model.Player, error) {
	player, err := s.storage.LinkPlayerIdentity(ctx, playerID, externalID, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile linked",
		slog.Int64("player_id", int64(playerID)),
		slog.String("player", player.Name))
	s.hub.Publish(model.TablePlayers)
	return player, nil
}

// BackfillLink runs Link asynchronously, best effort. Used by the session
// resolver to self-heal a player matched by email with no stored external
// key; failure is logged but never blocks the resolution that triggered
// it. The done channel (closed on completion) is for tests.
func (s *Service) BackfillLink(ctx context.Context, playerID model.PlayerID, email, externalID string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Link(ctx, playerID, email, externalID); err != nil {
			s.logger.Warn("identity backfill failed",
				slog.Int64("player_id", int64(playerID)),
				slog.Any("error", err))
		}
	}()
	return done
}

// ClaimablePlayers returns the profiles a new external identity may claim:
// exactly those with no contact email recorded.
func (s *Service) ClaimablePlayers(ctx context.Context) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	claimable := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.Email == "" {
			claimable = append(claimable, p)
		}
	}
	return claimable, nil
}
