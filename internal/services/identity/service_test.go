package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/notify"
	"github.com/ChampneyBull/dubai-app/internal/storage/memory"
	"github.com/ChampneyBull/dubai-app/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	hub     *notify.Hub
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.hub = notify.NewHub(logger)
	s.service = New(s.storage, s.hub, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestLink() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 2, Name: "Lewis"}))

	sub := s.hub.Subscribe(model.TablePlayers)
	defer s.hub.Unsubscribe(sub)

	linked, err := s.service.Link(s.ctx, 2, "lewis@example.com", "ext-lewis")
	s.Require().NoError(err)
	s.Equal("ext-lewis", linked.ExternalID)
	s.Equal("lewis@example.com", linked.Email)

	select {
	case ev := <-sub.C:
		s.Equal(model.TablePlayers, ev.Table)
	case <-time.After(time.Second):
		s.FailNow("no change event published")
	}
}

func (s *ServiceSuite) TestLinkIdempotent() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 2, Name: "Lewis"}))

	_, err := s.service.Link(s.ctx, 2, "lewis@example.com", "ext-lewis")
	s.Require().NoError(err)

	// Retrying after a partial failure converges to the same state
	linked, err := s.service.Link(s.ctx, 2, "lewis@example.com", "ext-lewis")
	s.Require().NoError(err)
	s.Equal("ext-lewis", linked.ExternalID)
}

func (s *ServiceSuite) TestLinkConflict() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 2, Name: "Lewis"}))

	_, err := s.service.Link(s.ctx, 2, "lewis@example.com", "ext-lewis")
	s.Require().NoError(err)

	_, err = s.service.Link(s.ctx, 2, "other@example.com", "ext-other")
	s.ErrorIs(err, model.ErrProfileClaimed)
}

func (s *ServiceSuite) TestLinkNotFound() {
	_, err := s.service.Link(s.ctx, 999, "nobody@example.com", "ext-nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestBackfillLink() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 2, Name: "Lewis"}))

	done := s.service.BackfillLink(s.ctx, 2, "lewis@example.com", "ext-lewis")

	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("backfill did not complete")
	}

	stored, err := s.storage.GetPlayer(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal("ext-lewis", stored.ExternalID)
}

func (s *ServiceSuite) TestBackfillLinkFailureIsSilent() {
	// No such player: the backfill logs and moves on
	done := s.service.BackfillLink(s.ctx, 999, "nobody@example.com", "ext-nobody")

	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("backfill did not complete")
	}
}

func (s *ServiceSuite) TestClaimablePlayers() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 1, Name: "Phil", Email: "phil@example.com"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 5, Name: "Andy"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 6, Name: "Geoff"}))

	claimable, err := s.service.ClaimablePlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(claimable, 2)
	for _, p := range claimable {
		s.Empty(p.Email)
	}
}
