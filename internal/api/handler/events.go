package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ChampneyBull/dubai-app/internal/api/apierr"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
)

const keepaliveInterval = 30 * time.Second

// EventHandler streams change events over server-sent events. Clients
// receive advisory cues naming the table that changed and refetch on
// their own schedule; events carry no row data.
type EventHandler struct {
	hub    *notify.Hub
	logger *slog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(hub *notify.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse")),
	}
}

// Stream handles GET /api/v1/events
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	h.logger.Debug("sse client connected", slog.String("remote", r.RemoteAddr))

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("sse client disconnected", slog.String("remote", r.RemoteAddr))
			return
		case ev, open := <-sub.C:
			if !open {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				h.logger.Debug("sse write failed", slog.String("error", err.Error()))
				return
			}
			flusher.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev model.ChangeEvent) error {
	_, err := fmt.Fprintf(w, "event: %s-changed\ndata: %d\n\n", ev.Table, ev.At.UnixMilli())
	return err
}
