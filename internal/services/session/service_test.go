package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/mocks"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/services/identity"
	"github.com/ChampneyBull/dubai-app/internal/storage"
	"github.com/ChampneyBull/dubai-app/internal/storage/memory"
	"github.com/ChampneyBull/dubai-app/internal/testutil"
)

// failingDirectory wraps a storage and fails every ListPlayers call.
type failingDirectory struct {
	storage.Storage
}

func (f *failingDirectory) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return nil, errors.New("directory unavailable")
}

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	provider *mocks.MockProvider
	clock    *mocks.MockClock
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.provider = mocks.NewMockProvider()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.service = s.newService(s.storage)
}

func (s *ServiceSuite) newService(store storage.Storage) *Service {
	logger := testutil.NopLogger()
	hub := notify.NewHub(logger)
	linker := identity.New(store, hub, logger)
	cfg := DefaultConfig()
	cfg.Fallback = []*model.Player{{ID: 1, Name: "Phil", Earnings: decimal.NewFromInt(65)}}
	return New(store, s.provider, linker, NewMemorySnapshot(), s.clock, cfg, logger)
}

func (s *ServiceSuite) seedPlayer(id model.PlayerID, name, pin string) *model.Player {
	player := &model.Player{ID: id, Name: name}
	if pin != "" {
		hash, err := model.HashPIN(pin)
		s.Require().NoError(err)
		player.PINHash = hash
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	return player
}

// PIN login tests

func (s *ServiceSuite) TestLoginPIN() {
	s.seedPlayer(1, "Phil", "4821")

	session, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(1), session.PlayerID)
	s.Equal("Phil", session.Player.Name)
	s.False(session.External)
	s.NotEmpty(session.Token)
}

func (s *ServiceSuite) TestLoginPINWrongPIN() {
	s.seedPlayer(1, "Phil", "4821")

	_, err := s.service.LoginPIN(s.ctx, 1, "0000")
	s.ErrorIs(err, model.ErrInvalidPIN)
}

func (s *ServiceSuite) TestLoginPINUnclaimedPlayer() {
	s.seedPlayer(5, "Andy", "")

	_, err := s.service.LoginPIN(s.ctx, 5, "4821")
	s.ErrorIs(err, model.ErrPlayerUnclaimed)
}

func (s *ServiceSuite) TestLoginPINUnknownPlayer() {
	_, err := s.service.LoginPIN(s.ctx, 999, "4821")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestLoginPINSavesSnapshot() {
	s.seedPlayer(1, "Phil", "4821")

	_, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	res := s.service.Bootstrap(s.ctx)
	s.Equal(StateAuthenticated, res.State)
	s.Equal("Phil", res.Player.Name)
}

// Bootstrap tests

func (s *ServiceSuite) TestBootstrapLoggedOut() {
	res := s.service.Bootstrap(s.ctx)
	s.Equal(StateLoggedOut, res.State)
	s.Nil(res.Player)
	s.False(res.Degraded)
}

func (s *ServiceSuite) TestBootstrapProviderErrorFallsBackToLocal() {
	s.provider.Err = errors.New("provider down")

	res := s.service.Bootstrap(s.ctx)
	s.Equal(StateLoggedOut, res.State)
}

func (s *ServiceSuite) TestBootstrapResolvesProviderSession() {
	player := s.seedPlayer(1, "Phil", "")
	player.ExternalID = "ext-phil"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.provider.Session = &model.ExternalIdentity{ID: "ext-phil", Email: "phil@example.com"}

	res := s.service.Bootstrap(s.ctx)
	s.Equal(StateAuthenticated, res.State)
	s.Equal("Phil", res.Player.Name)
	s.False(res.Degraded)
}

// External resolution tests

func (s *ServiceSuite) TestResolveExternalMatchByExternalID() {
	player := s.seedPlayer(1, "Phil", "")
	player.ExternalID = "ext-phil"
	player.Email = "old@example.com"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	// External key wins even when the email differs
	res := s.service.ResolveExternal(s.ctx, model.ExternalIdentity{
		ID:    "ext-phil",
		Email: "new@example.com",
	})
	s.Equal(StateAuthenticated, res.State)
	s.Equal(model.PlayerID(1), res.Player.ID)
}

func (s *ServiceSuite) TestResolveExternalMatchByEmailBackfills() {
	player := s.seedPlayer(2, "Lewis", "")
	player.Email = "Lewis@Example.com"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	res := s.service.ResolveExternal(s.ctx, model.ExternalIdentity{
		ID:    "ext-lewis",
		Email: "lewis@example.com",
	})
	s.Equal(StateAuthenticated, res.State)
	s.Equal(model.PlayerID(2), res.Player.ID)

	// The missing external key is written back asynchronously
	s.Require().Eventually(func() bool {
		stored, err := s.storage.GetPlayer(s.ctx, 2)
		return err == nil && stored.ExternalID == "ext-lewis"
	}, time.Second, 10*time.Millisecond)
}

func (s *ServiceSuite) TestResolveExternalUnclaimed() {
	s.seedPlayer(1, "Phil", "")

	res := s.service.ResolveExternal(s.ctx, model.ExternalIdentity{
		ID:    "ext-new",
		Email: "newcomer@example.com",
	})
	s.Equal(StateUnclaimed, res.State)
	s.Nil(res.Player)
	s.Require().NotNil(res.Identity)
	s.Equal("newcomer@example.com", res.Identity.Email)
}

func (s *ServiceSuite) TestResolveExternalDegradedUsesFallback() {
	service := s.newService(&failingDirectory{Storage: s.storage})

	res := service.ResolveExternal(s.ctx, model.ExternalIdentity{
		ID:    "ext-unknown",
		Email: "unknown@example.com",
	})
	s.Equal(StateUnclaimed, res.State)
	s.True(res.Degraded)
}

func (s *ServiceSuite) TestResolveExternalDegradedSkipsBackfill() {
	player := s.seedPlayer(2, "Lewis", "")
	player.Email = "lewis@example.com"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	failing := &failingDirectory{Storage: s.storage}
	service := s.newService(failing)
	service.cfg.Fallback = []*model.Player{{ID: 2, Name: "Lewis", Email: "lewis@example.com"}}

	res := service.ResolveExternal(s.ctx, model.ExternalIdentity{
		ID:    "ext-lewis",
		Email: "lewis@example.com",
	})
	s.Equal(StateAuthenticated, res.State)
	s.True(res.Degraded)

	// No backfill against stale fallback data
	time.Sleep(50 * time.Millisecond)
	stored, err := s.storage.GetPlayer(s.ctx, 2)
	s.Require().NoError(err)
	s.Empty(stored.ExternalID)
}

// Watch tests

func (s *ServiceSuite) TestWatchResolvesOnAuthChange() {
	player := s.seedPlayer(1, "Phil", "")
	player.ExternalID = "ext-phil"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	results := make(chan Resolution, 1)
	unsubscribe := s.service.Watch(s.ctx, func(res Resolution) {
		results <- res
	})
	defer unsubscribe()

	s.provider.EmitAuthChange(&model.ExternalIdentity{ID: "ext-phil", Email: "phil@example.com"})

	select {
	case res := <-results:
		s.Equal(StateAuthenticated, res.State)
		s.Equal("Phil", res.Player.Name)
	case <-time.After(time.Second):
		s.FailNow("no resolution received")
	}
}

func (s *ServiceSuite) TestWatchSignOutResumesLocal() {
	results := make(chan Resolution, 1)
	unsubscribe := s.service.Watch(s.ctx, func(res Resolution) {
		results <- res
	})
	defer unsubscribe()

	s.Require().NoError(s.provider.SignOut(s.ctx))

	select {
	case res := <-results:
		s.Equal(StateLoggedOut, res.State)
	case <-time.After(time.Second):
		s.FailNow("no resolution received")
	}
}

func (s *ServiceSuite) TestWatchUnsubscribe() {
	unsubscribe := s.service.Watch(s.ctx, func(Resolution) {})
	s.Equal(1, s.provider.HandlerCount())

	unsubscribe()
	s.Equal(0, s.provider.HandlerCount())
}

// Session lifecycle tests

func (s *ServiceSuite) TestValidateSession() {
	s.seedPlayer(1, "Phil", "4821")

	session, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
}

func (s *ServiceSuite) TestValidateSessionExpired() {
	s.seedPlayer(1, "Phil", "4821")

	session, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestLogout() {
	s.seedPlayer(1, "Phil", "4821")

	session, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, session.Token))

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	// Snapshot cleared: bootstrap starts logged out
	res := s.service.Bootstrap(s.ctx)
	s.Equal(StateLoggedOut, res.State)

	s.Equal(1, s.provider.SignOuts)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	s.seedPlayer(1, "Phil", "4821")

	old, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	fresh, err := s.service.LoginPIN(s.ctx, 1, "4821")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		ident model.ExternalIdentity
		want  string
	}{
		{"uses name when present", model.ExternalIdentity{Name: "Phil", Email: "phil@example.com"}, "Phil"},
		{"falls back to email local part", model.ExternalIdentity{Email: "phil@example.com"}, "phil"},
		{"plain string when no at sign", model.ExternalIdentity{Email: "phil"}, "phil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.ident); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
