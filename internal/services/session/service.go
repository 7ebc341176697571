package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/authprovider"
	"github.com/ChampneyBull/dubai-app/internal/dependencies/clock"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/identity"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
)

// State classifies the outcome of a resolution
type State string

const (
	// StateLoggedOut means no usable identity was found
	StateLoggedOut State = "logged_out"
	// StateAuthenticated means the identity resolved to a player
	StateAuthenticated State = "authenticated"
	// StateUnclaimed means an external identity has no matching player and
	// must be handed to the claim flow
	StateUnclaimed State = "unclaimed"
)

// Resolution is the outcome of mapping an authentication event to a player.
type Resolution struct {
	State    State
	Player   *model.Player
	Identity *model.ExternalIdentity

	// Degraded is set when the directory could not be fetched in time and
	// the resolution ran against the stale local roster snapshot,
	// read-only.
	Degraded bool
}

// Session is a token-bearing authenticated session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	External  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the session service
type Config struct {
	// DirectoryTimeout bounds each player-directory fetch during
	// resolution; on expiry the resolver degrades to the fallback roster.
	DirectoryTimeout time.Duration
	// SessionCheckTimeout bounds the initial provider session check.
	SessionCheckTimeout time.Duration
	SessionDuration     time.Duration
	// Fallback is the stale read-only roster served in degraded mode.
	Fallback []*model.Player
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		DirectoryTimeout:    4 * time.Second,
		SessionCheckTimeout: 3 * time.Second,
		SessionDuration:     24 * time.Hour,
	}
}

// Service resolves authentication events to player identities and owns the
// token sessions minted from them. It has an explicit lifecycle: construct
// at app start, Watch for provider changes, tear down on logout.
type Service struct {
	storage   storage.Storage
	provider  authprovider.Provider
	linker    *identity.Service
	snapshots SnapshotStore
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new session service
func New(
	storage storage.Storage,
	provider authprovider.Provider,
	linker *identity.Service,
	snapshots SnapshotStore,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.DirectoryTimeout == 0 {
		cfg.DirectoryTimeout = DefaultConfig().DirectoryTimeout
	}
	if cfg.SessionCheckTimeout == 0 {
		cfg.SessionCheckTimeout = DefaultConfig().SessionCheckTimeout
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:   storage,
		provider:  provider,
		linker:    linker,
		snapshots: snapshots,
		clock:     clk,
		logger:    logger.With(slog.String("component", "session")),
		cfg:       cfg,
		sessions:  make(map[string]*Session),
	}
}

// LoginPIN authenticates a selected player with an entered PIN and mints a
// session. On failure only the entered PIN is discarded; the caller keeps
// its player selection.
func (s *Service) LoginPIN(ctx context.Context, playerID model.PlayerID, pin string) (*Session, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.Claimed() {
		return nil, model.ErrPlayerUnclaimed
	}
	if !player.CheckPIN(pin) {
		return nil, model.ErrInvalidPIN
	}

	// Persist for silent resumption; a failed save is not a failed login
	if err := s.snapshots.Save(player); err != nil {
		s.logger.Warn("session snapshot save failed", slog.Any("error", err))
	}

	s.logger.Info("pin login", slog.String("player", player.Name))
	return s.createSession(player, false), nil
}

// Bootstrap performs the initial resolution at app start: a bounded
// provider session check, then external resolution or local snapshot
// resumption.
func (s *Service) Bootstrap(ctx context.Context) Resolution {
	checkCtx, cancel := context.WithTimeout(ctx, s.cfg.SessionCheckTimeout)
	defer cancel()

	ident, err := s.provider.GetSession(checkCtx)
	if err != nil {
		if !errors.Is(err, authprovider.ErrNoSession) {
			s.logger.Warn("provider session check failed", slog.Any("error", err))
		}
		return s.resumeLocal()
	}

	return s.ResolveExternal(ctx, *ident)
}

// ResolveExternal maps a provider identity to a player. It fetches a fresh
// directory on every call because the directory may have changed since the
// provider session began.
func (s *Service) ResolveExternal(ctx context.Context, ident model.ExternalIdentity) Resolution {
	players, degraded := s.fetchDirectory(ctx)

	match := matchPlayer(players, ident)
	if match == nil {
		s.logger.Info("external identity unclaimed", slog.String("email", ident.Email))
		return Resolution{State: StateUnclaimed, Identity: &ident, Degraded: degraded}
	}

	// Self-healing: matched by email but no external key stored yet.
	// Backfill in the background; its failure never blocks this
	// resolution.
	if !match.Linked() && !degraded {
		s.logger.Info("backfilling external key",
			slog.String("player", match.Name))
		s.linker.BackfillLink(context.WithoutCancel(ctx), match.ID, ident.Email, ident.ID)
	}

	s.logger.Info("external identity resolved",
		slog.String("player", match.Name),
		slog.Bool("degraded", degraded))
	return Resolution{State: StateAuthenticated, Player: match, Identity: &ident, Degraded: degraded}
}

// Watch re-runs resolution on every provider auth-state change: login,
// token refresh, and sign-out all land here, each against a fresh
// directory fetch. The returned function unregisters the watcher.
func (s *Service) Watch(ctx context.Context, handler func(Resolution)) (unsubscribe func()) {
	return s.provider.OnAuthStateChange(func(ident *model.ExternalIdentity) {
		if ident == nil {
			// Provider session ended; a PIN snapshot still counts
			handler(s.resumeLocal())
			return
		}
		handler(s.ResolveExternal(ctx, *ident))
	})
}

// CreateExternalSession mints a token session for an externally resolved
// player.
func (s *Service) CreateExternalSession(player *model.Player) *Session {
	return s.createSession(player, true)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Logout tears the session down: token invalidated, snapshot cleared,
// provider signed out.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.InvalidateSession(token)
	if err := s.snapshots.Clear(); err != nil {
		s.logger.Warn("snapshot clear failed", slog.Any("error", err))
	}
	return s.provider.SignOut(ctx)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// resumeLocal resolves from the persisted PIN snapshot, if any
func (s *Service) resumeLocal() Resolution {
	player, ok := s.snapshots.Load()
	if !ok {
		return Resolution{State: StateLoggedOut}
	}
	s.logger.Info("resumed local session", slog.String("player", player.Name))
	return Resolution{State: StateAuthenticated, Player: player}
}

// fetchDirectory loads the player directory within the configured bound,
// degrading to the stale fallback roster rather than blocking.
func (s *Service) fetchDirectory(ctx context.Context) ([]*model.Player, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.DirectoryTimeout)
	defer cancel()

	players, err := s.storage.ListPlayers(fetchCtx)
	if err != nil {
		s.logger.Warn("directory fetch failed - using fallback roster",
			slog.Any("error", err))
		return s.cfg.Fallback, true
	}
	return players, false
}

// matchPlayer searches the directory for an identity match, external key
// equality first, then case-insensitive email equality.
func matchPlayer(players []*model.Player, ident model.ExternalIdentity) *model.Player {
	for _, p := range players {
		if p.ExternalID != "" && p.ExternalID == ident.ID {
			return p
		}
	}
	for _, p := range players {
		if p.MatchesEmail(ident.Email) {
			return p
		}
	}
	return nil
}

// createSession creates a new token session for a player
func (s *Service) createSession(player *model.Player, external bool) *Session {
	token := generateToken()
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		PlayerID:  player.ID,
		Player:    *player,
		External:  external,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}

// DisplayName derives a name for an unclaimed identity, falling back to
// the email local part the way the claim screen greets new users.
func DisplayName(ident model.ExternalIdentity) string {
	if ident.Name != "" {
		return ident.Name
	}
	if at := strings.Index(ident.Email, "@"); at > 0 {
		return ident.Email[:at]
	}
	return ident.Email
}
