package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players  map[model.PlayerID]*model.Player
	requests map[model.RequestID]*model.WinningsRequest

	// requestOrder preserves insertion order so ListRequests can return
	// newest first even when timestamps collide.
	requestOrder []model.RequestID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]*model.Player),
		requests: make(map[model.RequestID]*model.WinningsRequest),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player directory operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		copied := *p
		players = append(players, &copied)
	}
	sort.Slice(players, func(i, j int) bool {
		if cmp := players[i].Earnings.Cmp(players[j].Earnings); cmp != 0 {
			return cmp > 0
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) AddPlayerEarnings(ctx context.Context, id model.PlayerID, amount decimal.Decimal) (*model.Player, error) {
	if amount.Sign() <= 0 {
		return nil, model.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player.Earnings = player.Earnings.Add(amount)
	copied := *player
	return &copied, nil
}

func (s *Storage) LinkPlayerIdentity(ctx context.Context, id model.PlayerID, externalID, email string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	if !linkable(player, externalID, email) {
		return nil, model.ErrProfileClaimed
	}
	player.ExternalID = externalID
	player.Email = email
	copied := *player
	return &copied, nil
}

// linkable reports whether the link is a no-op re-link or a fresh claim of
// an unclaimed profile.
func linkable(p *model.Player, externalID, email string) bool {
	if p.ExternalID != "" {
		return p.ExternalID == externalID
	}
	return p.Email == "" || p.MatchesEmail(email)
}

// Winnings request ledger operations

func (s *Storage) SaveRequest(ctx context.Context, req *model.WinningsRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; !exists {
		s.requestOrder = append(s.requestOrder, req.ID)
	}
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *Storage) GetRequest(ctx context.Context, id model.RequestID) (*model.WinningsRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *Storage) ListRequests(ctx context.Context) ([]*model.WinningsRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requests := make([]*model.WinningsRequest, 0, len(s.requestOrder))
	// Walk insertion order backwards: newest first
	for i := len(s.requestOrder) - 1; i >= 0; i-- {
		if req, ok := s.requests[s.requestOrder[i]]; ok {
			copied := *req
			requests = append(requests, &copied)
		}
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (s *Storage) TransitionRequest(ctx context.Context, id model.RequestID, from, to model.RequestStatus) (*model.WinningsRequest, error) {
	if !model.ValidTransition(from, to) && !model.ValidTransition(to, from) {
		return nil, model.ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	if req.Status != from {
		return nil, model.ErrStaleState
	}
	req.Status = to
	copied := *req
	return &copied, nil
}
