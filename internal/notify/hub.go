package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

// subscriptionBuffer is the per-subscriber event buffer size
const subscriptionBuffer = 16

// Subscription is a long-lived listener for table-change cues. Events on C
// are advisory triggers for a refetch, not diffs; delivery is
// at-least-once and unordered. Callers must Unsubscribe on teardown to
// avoid leaking the channel across reconnects.
type Subscription struct {
	C      <-chan model.ChangeEvent
	send   chan model.ChangeEvent
	tables map[model.Table]bool
}

// wants reports whether the subscription listens to the given table
func (s *Subscription) wants(table model.Table) bool {
	return len(s.tables) == 0 || s.tables[table]
}

// Hub fans table-change cues out to all subscribed clients. It is
// deliberately decoupled from the store client so it can be swapped or
// mocked in tests.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]bool
	closed bool
	logger *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]bool),
		logger: logger.With(slog.String("component", "notify")),
	}
}

// Subscribe registers a listener for the given tables. With no tables, the
// subscription receives cues for every table.
func (h *Hub) Subscribe(tables ...model.Table) *Subscription {
	send := make(chan model.ChangeEvent, subscriptionBuffer)
	sub := &Subscription{
		C:      send,
		send:   send,
		tables: make(map[model.Table]bool, len(tables)),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(send)
		return sub
	}
	h.subs[sub] = true
	return sub
}

// Unsubscribe removes a listener and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// Publish delivers a change cue for a table to every interested
// subscriber. Slow subscribers with a full buffer are skipped; they will
// converge on their next cue or refetch.
func (h *Hub) Publish(table model.Table) {
	event := model.ChangeEvent{Table: table, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	dropped := 0
	for sub := range h.subs {
		if !sub.wants(table) {
			continue
		}
		select {
		case sub.send <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("change cue dropped - subscriber buffer full",
			slog.String("table", string(table)),
			slog.Int("dropped", dropped))
	}
}

// Close shuts down the hub and closes all subscriber channels
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.send)
		delete(h.subs, sub)
	}
}

// SubscriberCount returns the number of active subscriptions
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
