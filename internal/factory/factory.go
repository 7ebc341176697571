package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/authprovider"
	"github.com/ChampneyBull/dubai-app/internal/dependencies/clock"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/roster"
	"github.com/ChampneyBull/dubai-app/internal/services/approval"
	"github.com/ChampneyBull/dubai-app/internal/services/identity"
	"github.com/ChampneyBull/dubai-app/internal/services/ledger"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
	"github.com/ChampneyBull/dubai-app/internal/storage"
	"github.com/ChampneyBull/dubai-app/internal/storage/memory"
	redisstorage "github.com/ChampneyBull/dubai-app/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock    clock.Clock
	Provider authprovider.Provider

	// Services
	Hub            *notify.Hub
	Linker         *identity.Service
	LedgerService  *ledger.Service
	Approvals      *approval.Service
	SessionService *session.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Provider is the external identity provider (optional)
	// If nil, external sign-in is disabled and only PIN login works
	Provider authprovider.Provider
	// Snapshots holds cached player state for offline resume (optional)
	// If nil, snapshots are kept in memory
	Snapshots session.SnapshotStore
	// SessionConfig holds session service settings (optional)
	// If zero value, defaults apply and the fallback roster is used
	SessionConfig session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	provider := cfg.Provider
	if provider == nil {
		provider = authprovider.NewDisabled()
	}

	snapshots := cfg.Snapshots
	if snapshots == nil {
		snapshots = session.NewMemorySnapshot()
	}

	sessionCfg := cfg.SessionConfig
	if sessionCfg.Fallback == nil {
		sessionCfg.Fallback = roster.Fallback()
	}

	return newWithDependencies(store, clk, provider, snapshots, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	provider authprovider.Provider,
	snapshots session.SnapshotStore,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	// Create services
	hub := notify.NewHub(logger)
	linker := identity.New(store, hub, logger)
	ledgerService := ledger.New(store, hub, clk, logger)
	approvals := approval.New(store, hub, logger)
	sessionService := session.New(store, provider, linker, snapshots, clk, sessionCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Provider:       provider,
		Hub:            hub,
		Linker:         linker,
		LedgerService:  ledgerService,
		Approvals:      approvals,
		SessionService: sessionService,
	}
}
