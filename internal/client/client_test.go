package client

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
	"github.com/ChampneyBull/dubai-app/internal/services/approval"
	"github.com/ChampneyBull/dubai-app/internal/services/ledger"
	"github.com/ChampneyBull/dubai-app/internal/storage"
	"github.com/ChampneyBull/dubai-app/internal/storage/memory"
	"github.com/ChampneyBull/dubai-app/internal/testutil"
)

// failingStore wraps a storage and fails selected operations on demand.
type failingStore struct {
	storage.Storage
	failList   bool
	failCredit bool
}

func (f *failingStore) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	if f.failList {
		return nil, errors.New("store unavailable")
	}
	return f.Storage.ListPlayers(ctx)
}

func (f *failingStore) AddPlayerEarnings(ctx context.Context, id model.PlayerID, amount decimal.Decimal) (*model.Player, error) {
	if f.failCredit {
		return nil, errors.New("store unavailable")
	}
	return f.Storage.AddPlayerEarnings(ctx, id, amount)
}

type ClientSuite struct {
	suite.Suite
	storage   *memory.Storage
	failing   *failingStore
	hub       *notify.Hub
	approvals *approval.Service
	ledger    *ledger.Service
	client    *Client
	ctx       context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.failing = &failingStore{Storage: s.storage}
	s.hub = notify.NewHub(logger)
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.approvals = approval.New(s.failing, s.hub, logger)
	s.ledger = ledger.New(s.failing, s.hub, clk, logger)
	s.ctx = context.Background()

	cfg := DefaultConfig()
	cfg.Fallback = []*model.Player{{ID: 1, Name: "Phil", Earnings: decimal.NewFromInt(65)}}
	s.client = New(s.failing, s.hub, s.approvals, s.ledger, cfg, logger)

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:       1,
		Name:     "Phil",
		Earnings: decimal.NewFromInt(65),
	}))
}

func (s *ClientSuite) TearDownTest() {
	s.client.Close()
	s.hub.Close()
}

func (s *ClientSuite) TestLoad() {
	s.client.Load(s.ctx)

	players := s.client.Players()
	s.Require().Len(players, 1)
	s.Equal("Phil", players[0].Name)
	s.False(s.client.Degraded())
}

func (s *ClientSuite) TestLoadFailureFallsBack() {
	s.failing.failList = true

	s.client.Load(s.ctx)

	players := s.client.Players()
	s.Require().Len(players, 1)
	s.Equal("Phil", players[0].Name)
	s.True(s.client.Degraded())
}

func (s *ClientSuite) TestRefetchClearsDegraded() {
	s.failing.failList = true
	s.client.Load(s.ctx)
	s.Require().True(s.client.Degraded())

	s.failing.failList = false
	s.client.Start(s.ctx)

	s.hub.Publish(model.TablePlayers)

	s.Require().Eventually(func() bool {
		return !s.client.Degraded()
	}, time.Second, 10*time.Millisecond)
}

func (s *ClientSuite) TestChangeCueTriggersRefetch() {
	s.client.Load(s.ctx)
	s.client.Start(s.ctx)

	_, err := s.ledger.Submit(s.ctx, 1, decimal.NewFromInt(10), "The Open")
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return len(s.client.Requests()) == 1
	}, time.Second, 10*time.Millisecond)
}

func (s *ClientSuite) TestFailedRefetchKeepsPreviousCache() {
	s.client.Load(s.ctx)
	s.client.Start(s.ctx)
	s.Require().Len(s.client.Players(), 1)

	s.failing.failList = true
	s.hub.Publish(model.TablePlayers)

	// Cache keeps serving the last good directory
	time.Sleep(50 * time.Millisecond)
	s.Require().Len(s.client.Players(), 1)
	s.Equal("Phil", s.client.Players()[0].Name)
}

func (s *ClientSuite) TestSubmitWinnings() {
	s.client.Load(s.ctx)

	req, err := s.client.SubmitWinnings(s.ctx, 1, decimal.RequireFromString("12.50"), "The Open")
	s.Require().NoError(err)
	s.Equal(model.StatusPending, req.Status)

	requests := s.client.Requests()
	s.Require().Len(requests, 1)
	s.Equal(req.ID, requests[0].ID)
}

func (s *ClientSuite) TestSubmitWinningsValidation() {
	s.client.Load(s.ctx)

	_, err := s.client.SubmitWinnings(s.ctx, 0, decimal.NewFromInt(10), "")
	s.ErrorIs(err, model.ErrNoWinnerSelected)

	_, err = s.client.SubmitWinnings(s.ctx, 1, decimal.Zero, "")
	s.ErrorIs(err, model.ErrInvalidAmount)
}

func (s *ClientSuite) TestApprove() {
	s.client.Load(s.ctx)

	req, err := s.client.SubmitWinnings(s.ctx, 1, decimal.NewFromInt(10), "")
	s.Require().NoError(err)

	s.Require().NoError(s.client.Approve(s.ctx, req.ID))

	cached := s.client.Requests()
	s.Require().Len(cached, 1)
	s.Equal(model.StatusApproved, cached[0].Status)

	player, err := s.storage.GetPlayer(s.ctx, 1)
	s.Require().NoError(err)
	s.True(player.Earnings.Equal(decimal.NewFromInt(75)))
}

func (s *ClientSuite) TestApproveFailureRollsBack() {
	s.client.Load(s.ctx)

	req, err := s.client.SubmitWinnings(s.ctx, 1, decimal.NewFromInt(10), "")
	s.Require().NoError(err)

	s.failing.failCredit = true

	err = s.client.Approve(s.ctx, req.ID)
	s.Require().Error(err)

	// Optimistic flip rolled back
	cached := s.client.Requests()
	s.Require().Len(cached, 1)
	s.Equal(model.StatusPending, cached[0].Status)

	// Durable state untouched
	player, err := s.storage.GetPlayer(s.ctx, 1)
	s.Require().NoError(err)
	s.True(player.Earnings.Equal(decimal.NewFromInt(65)))

	stored, err := s.storage.GetRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusPending, stored.Status)
}

func (s *ClientSuite) TestDeny() {
	s.client.Load(s.ctx)

	req, err := s.client.SubmitWinnings(s.ctx, 1, decimal.NewFromInt(10), "")
	s.Require().NoError(err)

	s.Require().NoError(s.client.Deny(s.ctx, req.ID))

	cached := s.client.Requests()
	s.Require().Len(cached, 1)
	s.Equal(model.StatusDenied, cached[0].Status)

	player, err := s.storage.GetPlayer(s.ctx, 1)
	s.Require().NoError(err)
	s.True(player.Earnings.Equal(decimal.NewFromInt(65)))
}

func (s *ClientSuite) TestCloseIsIdempotent() {
	s.client.Load(s.ctx)
	s.client.Start(s.ctx)

	s.client.Close()
	s.client.Close()
}
