package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// maxTxRetries bounds optimistic transaction retries under contention
const maxTxRetries = 5

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player directory operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Pipeline the write and the index membership together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, playersIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	keys, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Player{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Index entry without a row
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
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

	key := playerKey(id)
	var updated *model.Player

	// WATCH-based compare-and-set: the increment is computed against the
	// watched value and the write aborts if another client touched the
	// player in between.
	err := s.withTxRetries(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		player.Earnings = player.Earnings.Add(amount)

		next, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &player
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) LinkPlayerIdentity(ctx context.Context, id model.PlayerID, externalID, email string) (*model.Player, error) {
	key := playerKey(id)
	var updated *model.Player

	err := s.withTxRetries(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		if !linkable(&player, externalID, email) {
			return model.ErrProfileClaimed
		}
		player.ExternalID = externalID
		player.Email = email

		next, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &player
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
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
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	key := requestKey(req.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, requestsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRequest(ctx context.Context, id model.RequestID) (*model.WinningsRequest, error) {
	data, err := s.client.Get(ctx, requestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRequestNotFound
		}
		return nil, err
	}

	var req model.WinningsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Storage) ListRequests(ctx context.Context) ([]*model.WinningsRequest, error) {
	keys, err := s.client.SMembers(ctx, requestsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.WinningsRequest{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	requests := make([]*model.WinningsRequest, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var req model.WinningsRequest
		if err := json.Unmarshal([]byte(val.(string)), &req); err != nil {
			continue
		}
		requests = append(requests, &req)
	}

	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID > requests[j].ID
	})
	return requests, nil
}

func (s *Storage) TransitionRequest(ctx context.Context, id model.RequestID, from, to model.RequestStatus) (*model.WinningsRequest, error) {
	if !model.ValidTransition(from, to) && !model.ValidTransition(to, from) {
		return nil, model.ErrInvalidTransition
	}

	key := requestKey(id)
	var updated *model.WinningsRequest

	err := s.withTxRetries(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRequestNotFound
			}
			return err
		}

		var req model.WinningsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		if req.Status != from {
			return model.ErrStaleState
		}
		req.Status = to

		next, err := json.Marshal(&req)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// withTxRetries runs fn under WATCH on key, retrying on optimistic lock
// failures.
func (s *Storage) withTxRetries(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
