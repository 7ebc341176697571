package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// seed is a pre-seeded roster entry. PINs are assigned out of band; a
// player with no PIN and no external identity cannot log in until claimed.
type seed struct {
	id       model.PlayerID
	name     string
	earnings string
	imageURL string
	photoURL string
	isAdmin  bool
}

// seeds is the initial tour roster. IDs are stable and never reassigned.
var seeds = []seed{
	{1, "Phil", "65", "/assets/images/phil_caricature.jpg", "/assets/images/phil_photo.png", true},
	{2, "Lewis", "9", "/assets/images/lewis_caricature.jpg", "/assets/images/lewis_photo.png", false},
	{3, "Hulse", "0", "/assets/images/hulse_caricature.png", "/assets/images/hulse_photo.png", false},
	{4, "Bully", "18.25", "/assets/images/bully_caricature.png", "/assets/images/bully_photo.jpg", true},
	{5, "Andy", "0", "/assets/images/andy_caricature.jpg", "/assets/images/andy_photo.png", false},
	{6, "Geoff", "0", "/assets/images/geoff_caricature.jpg", "/assets/images/geoff_photo.jpg", false},
	{7, "Tiger", "63", "/assets/images/tiger_caricature.jpg", "/assets/images/tiger_photo.jpg", false},
	{8, "Glyn", "0", "/assets/images/glyn_caricature.png", "/assets/images/glyn_photo.png", false},
}

// Fallback returns the read-only roster snapshot served in degraded mode
// when the backing store is unreachable.
func Fallback() []*model.Player {
	players := make([]*model.Player, 0, len(seeds))
	for _, s := range seeds {
		players = append(players, s.player())
	}
	return players
}

func (s seed) player() *model.Player {
	return &model.Player{
		ID:       s.id,
		Name:     s.name,
		Earnings: decimal.RequireFromString(s.earnings),
		ImageURL: s.imageURL,
		PhotoURL: s.photoURL,
		IsAdmin:  s.isAdmin,
	}
}

// Seed uploads the roster to the store. Missing rows are inserted with
// their seed earnings; existing rows keep their earnings and link state but
// have display assets and the admin flag refreshed to match the seed
// definitions. Per-row failures are logged and skipped so a partial outage
// never blocks startup.
func Seed(ctx context.Context, store storage.Storage, logger *slog.Logger) {
	logger = logger.With(slog.String("component", "roster"))

	for _, s := range seeds {
		existing, err := store.GetPlayer(ctx, s.id)
		if err != nil {
			if !errors.Is(err, model.ErrPlayerNotFound) {
				logger.Warn("roster check failed",
					slog.String("player", s.name),
					slog.Any("error", err))
				continue
			}
			if err := store.SavePlayer(ctx, s.player()); err != nil {
				logger.Warn("roster insert failed",
					slog.String("player", s.name),
					slog.Any("error", err))
			}
			continue
		}

		existing.ImageURL = s.imageURL
		existing.PhotoURL = s.photoURL
		existing.IsAdmin = s.isAdmin
		if err := store.SavePlayer(ctx, existing); err != nil {
			logger.Warn("roster refresh failed",
				slog.String("player", s.name),
				slog.Any("error", err))
		}
	}

	logger.Info("roster seed complete", slog.Int("players", len(seeds)))
}
