package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/services/approval"
	"github.com/ChampneyBull/dubai-app/internal/services/ledger"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Config holds configuration for the client cache
type Config struct {
	// LoadTimeout bounds the initial players+requests fetch; on expiry
	// the cache degrades to the fallback roster, read-only.
	LoadTimeout time.Duration
	// Fallback is the stale roster served when the store is unreachable.
	Fallback []*model.Player
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		LoadTimeout: 4 * time.Second,
	}
}

// Client is the read-through cache a connected scoreboard holds against
// the shared store. All remote operations stay non-blocking from the UI's
// point of view: approvals and denials flip the cached status immediately
// and reconcile with the store afterwards, rolling back on failure. Change
// cues from the notifier trigger a full refetch of the affected table.
type Client struct {
	storage   storage.Storage
	hub       *notify.Hub
	approvals *approval.Service
	ledger    *ledger.Service
	cfg       Config
	logger    *slog.Logger

	mu       sync.RWMutex
	players  []*model.Player
	requests []*model.WinningsRequest
	degraded bool

	sub  *notify.Subscription
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a new client cache
func New(
	storage storage.Storage,
	hub *notify.Hub,
	approvals *approval.Service,
	ledger *ledger.Service,
	cfg Config,
	logger *slog.Logger,
) *Client {
	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = DefaultConfig().LoadTimeout
	}
	return &Client{
		storage:   storage,
		hub:       hub,
		approvals: approvals,
		ledger:    ledger,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "client")),
		done:      make(chan struct{}),
	}
}

// Load performs the initial bounded fetch of both tables. A timeout or
// store failure is not fatal: the cache falls back to the stale local
// roster and flags itself degraded.
func (c *Client) Load(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, c.cfg.LoadTimeout)
	defer cancel()

	players, err := c.storage.ListPlayers(loadCtx)
	if err != nil {
		c.logger.Warn("initial load failed - falling back to local roster",
			slog.Any("error", err))
		c.mu.Lock()
		c.players = c.cfg.Fallback
		c.requests = nil
		c.degraded = true
		c.mu.Unlock()
		return
	}

	requests, err := c.storage.ListRequests(loadCtx)
	if err != nil {
		c.logger.Warn("request load failed", slog.Any("error", err))
		requests = nil
	}

	c.mu.Lock()
	c.players = players
	c.requests = requests
	c.degraded = false
	c.mu.Unlock()
}

// Start subscribes to change cues and refetches the affected table until
// Close is called. Must be paired with Close to avoid leaking the
// subscription.
func (c *Client) Start(ctx context.Context) {
	c.sub = c.hub.Subscribe(model.TablePlayers, model.TableRequests)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case event, ok := <-c.sub.C:
				if !ok {
					return
				}
				c.refetch(ctx, event.Table)
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close tears down the subscription loop
func (c *Client) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.sub != nil {
		c.hub.Unsubscribe(c.sub)
	}
	c.wg.Wait()
}

// Players returns the cached directory, earnings descending.
func (c *Client) Players() []*model.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.players
}

// Requests returns the cached ledger, newest first.
func (c *Client) Requests() []*model.WinningsRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requests
}

// Degraded reports whether the cache is serving the stale fallback roster.
func (c *Client) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// SubmitWinnings validates and submits a claim, then refreshes the cached
// ledger. Validation failures surface before any remote call.
func (c *Client) SubmitWinnings(ctx context.Context, authorID model.PlayerID, amount decimal.Decimal, tournament string) (*model.WinningsRequest, error) {
	req, err := c.ledger.Submit(ctx, authorID, amount, tournament)
	if err != nil {
		return nil, err
	}
	c.refetch(ctx, model.TableRequests)
	return req, nil
}

// Approve optimistically marks the cached request approved, then runs the
// remote approval. On failure the cached status rolls back to pending and
// the error is returned to the caller.
func (c *Client) Approve(ctx context.Context, id model.RequestID) error {
	c.setCachedStatus(id, model.StatusApproved)

	if err := c.approvals.Approve(ctx, id); err != nil {
		c.setCachedStatus(id, model.StatusPending)
		return err
	}

	c.refetch(ctx, model.TablePlayers)
	return nil
}

// Deny optimistically marks the cached request denied, then runs the
// remote denial, rolling back on failure.
func (c *Client) Deny(ctx context.Context, id model.RequestID) error {
	c.setCachedStatus(id, model.StatusDenied)

	if err := c.approvals.Deny(ctx, id); err != nil {
		c.setCachedStatus(id, model.StatusPending)
		return err
	}
	return nil
}

// setCachedStatus flips the local status of one cached request
func (c *Client) setCachedStatus(id model.RequestID, status model.RequestStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.requests {
		if r.ID == id {
			r.Status = status
			return
		}
	}
}

// refetch reloads one table from the store. Cues are advisory: a failed
// refetch keeps the previous cache and waits for the next cue.
func (c *Client) refetch(ctx context.Context, table model.Table) {
	switch table {
	case model.TablePlayers:
		players, err := c.storage.ListPlayers(ctx)
		if err != nil {
			c.logger.Warn("players refetch failed", slog.Any("error", err))
			return
		}
		c.mu.Lock()
		c.players = players
		c.degraded = false
		c.mu.Unlock()
	case model.TableRequests:
		requests, err := c.storage.ListRequests(ctx)
		if err != nil {
			c.logger.Warn("requests refetch failed", slog.Any("error", err))
			return
		}
		c.mu.Lock()
		c.requests = requests
		c.mu.Unlock()
	}
}
