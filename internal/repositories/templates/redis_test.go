package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/repositories/templates"
	"github.com/d20tracker/d20-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	cleanup func()
	repo    templates.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := templates.NewRedis(&templates.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestCreateGetDelete() {
	created, err := s.repo.Create(s.ctx, templates.CreateInput{Template: testutils.GoblinTemplate(4)})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, templates.GetInput{ID: created.Template.ID})
	s.Require().NoError(err)
	s.Equal("Goblin", got.Template.Name)
	s.Require().Len(got.Template.Attacks, 1)
	s.Equal("Scimitar", got.Template.Attacks[0].Name)

	_, err = s.repo.Delete(s.ctx, templates.DeleteInput{ID: created.Template.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, templates.GetInput{ID: created.Template.ID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, templates.DeleteInput{ID: created.Template.ID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, templates.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, templates.CreateInput{Template: testutils.GoblinTemplate(0)})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestListByCampaignSortedByName() {
	_, err := s.repo.Create(s.ctx, templates.CreateInput{Template: testutils.OgreTemplate(1)})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, templates.CreateInput{Template: testutils.GoblinTemplate(1)})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, templates.CreateInput{Template: testutils.GoblinTemplate(2)})
	s.Require().NoError(err)

	out, err := s.repo.ListByCampaign(s.ctx, templates.ListByCampaignInput{CampaignID: 1})
	s.Require().NoError(err)
	s.Require().Len(out.Templates, 2)
	s.Equal("Goblin", out.Templates[0].Name)
	s.Equal("Ogre", out.Templates[1].Name)
}
