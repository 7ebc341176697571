package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ChampneyBull/dubai-app/internal/api/handler"
	"github.com/ChampneyBull/dubai-app/internal/api/middleware"
	basemw "github.com/ChampneyBull/dubai-app/internal/middleware"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/services/approval"
	"github.com/ChampneyBull/dubai-app/internal/services/identity"
	"github.com/ChampneyBull/dubai-app/internal/services/ledger"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Storage        storage.Storage
	SessionService *session.Service
	Linker         *identity.Service
	Ledger         *ledger.Service
	Approvals      *approval.Service
	Hub            *notify.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.SessionService)
	playerHandler := handler.NewPlayerHandler(cfg.Storage, cfg.Linker)
	requestHandler := handler.NewRequestHandler(cfg.Ledger, cfg.Approvals)
	eventHandler := handler.NewEventHandler(cfg.Hub, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.SessionService)
	adminMiddleware := middleware.Admin()
	loggingMiddleware := basemw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (PIN login needs no session)
	api.HandleFunc("/auth/pin", authHandler.LoginPIN).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Player routes: the leaderboard is public, claiming a profile is not
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/claimable", playerHandler.Claimable).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/claim", playerHandler.Claim).Methods(http.MethodPost)

	// Winnings request routes (all require auth)
	requests := api.PathPrefix("/requests").Subrouter()
	requests.Use(authMiddleware)
	requests.HandleFunc("", requestHandler.List).Methods(http.MethodGet)
	requests.HandleFunc("", requestHandler.Submit).Methods(http.MethodPost)

	// Review routes require an admin session
	review := requests.PathPrefix("/{id}").Subrouter()
	review.Use(adminMiddleware)
	review.HandleFunc("/approve", requestHandler.Approve).Methods(http.MethodPost)
	review.HandleFunc("/deny", requestHandler.Deny).Methods(http.MethodPost)

	// Change event stream (no auth; events carry no row data)
	api.HandleFunc("/events", eventHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
