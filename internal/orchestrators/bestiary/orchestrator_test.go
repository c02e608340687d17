package bestiary_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/d20tracker/d20-api/internal/clients/dndsu"
	dndsumock "github.com/d20tracker/d20-api/internal/clients/dndsu/mock"
	"github.com/d20tracker/d20-api/internal/clients/srd"
	srdmock "github.com/d20tracker/d20-api/internal/clients/srd/mock"
	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/orchestrators/bestiary"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/templates"
	"github.com/d20tracker/d20-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	cleanup      func()
	mockBestiary *dndsumock.MockClient
	mockSRD      *srdmock.MockClient
	orchestrator bestiary.Service
	campaignID   int64
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockBestiary = dndsumock.NewMockClient(s.ctrl)
	s.mockSRD = srdmock.NewMockClient(s.ctrl)

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	campaignRepo, err := campaigns.NewRedis(&campaigns.RedisConfig{Client: client})
	s.Require().NoError(err)
	templateRepo, err := templates.NewRedis(&templates.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.orchestrator, err = bestiary.NewOrchestrator(&bestiary.Config{
		CampaignRepo: campaignRepo,
		TemplateRepo: templateRepo,
		Bestiary:     s.mockBestiary,
		SRD:          s.mockSRD,
	})
	s.Require().NoError(err)

	created, err := campaignRepo.Create(s.ctx, campaigns.CreateInput{
		Campaign: &entities.Campaign{Name: "Tomb of Annihilation", OwnerID: testutils.GMUserID},
	})
	s.Require().NoError(err)
	s.campaignID = created.Campaign.ID
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestNewOrchestratorRequiresClients() {
	_, err := bestiary.NewOrchestrator(&bestiary.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Bestiary")
	s.Contains(err.Error(), "SRD")
}

func (s *OrchestratorTestSuite) TestCreateAndListTemplates() {
	for _, name := range []string{"zombie", "Ghoul"} {
		_, err := s.orchestrator.CreateTemplate(s.ctx, &bestiary.CreateTemplateInput{
			CampaignID: s.campaignID,
			UserID:     testutils.GMUserID,
			Name:       name,
			MaxHP:      22,
			AC:         8,
			Attacks:    []entities.Attack{{Name: "Slam", HitBonus: 3, DamageDice: 1, DamageDie: 6}},
		})
		s.Require().NoError(err)
	}

	out, err := s.orchestrator.ListTemplates(s.ctx, &bestiary.ListTemplatesInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Templates, 2)
	s.Equal("Ghoul", out.Templates[0].Name)
	s.Equal("zombie", out.Templates[1].Name)
	s.Equal("Slam", out.Templates[1].Attacks[0].Name)
}

func (s *OrchestratorTestSuite) TestCreateTemplateValidation() {
	_, err := s.orchestrator.CreateTemplate(s.ctx, &bestiary.CreateTemplateInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		Name:       "Shade",
		MaxHP:      0,
		Attacks:    []entities.Attack{{Name: " "}},
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "max_hp")
	s.Contains(err.Error(), "attacks[0].name")
}

func (s *OrchestratorTestSuite) TestTemplatesAreGameMasterOnly() {
	_, err := s.orchestrator.CreateTemplate(s.ctx, &bestiary.CreateTemplateInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
		Name:       "Ghoul",
		MaxHP:      22,
	})
	s.True(errors.IsPermissionDenied(err))

	_, err = s.orchestrator.ListTemplates(s.ctx, &bestiary.ListTemplatesInput{
		CampaignID: s.campaignID,
		UserID:     testutils.StrangerUserID,
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestDeleteTemplate() {
	created, err := s.orchestrator.CreateTemplate(s.ctx, &bestiary.CreateTemplateInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		Name:       "Ghoul",
		MaxHP:      22,
	})
	s.Require().NoError(err)

	s.Run("wrong campaign", func() {
		other, err := s.orchestrator.CreateTemplate(s.ctx, &bestiary.CreateTemplateInput{
			CampaignID: s.campaignID, UserID: testutils.GMUserID, Name: "Other", MaxHP: 1,
		})
		s.Require().NoError(err)
		_, err = s.orchestrator.DeleteTemplate(s.ctx, &bestiary.DeleteTemplateInput{
			CampaignID: 999, TemplateID: other.Template.ID, UserID: testutils.GMUserID,
		})
		s.True(errors.IsNotFound(err))
	})

	_, err = s.orchestrator.DeleteTemplate(s.ctx, &bestiary.DeleteTemplateInput{
		CampaignID: s.campaignID,
		TemplateID: created.Template.ID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.DeleteTemplate(s.ctx, &bestiary.DeleteTemplateInput{
		CampaignID: s.campaignID,
		TemplateID: created.Template.ID,
		UserID:     testutils.GMUserID,
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestImportTemplate() {
	url := "https://next.dnd.su/bestiary/93-ghoul/"
	s.mockBestiary.EXPECT().
		FetchCreature(s.ctx, url).
		Return(&dndsu.Creature{
			Name:               "Гуль",
			AC:                 12,
			HP:                 22,
			Dexterity:          15,
			InitiativeModifier: 2,
			SourceURL:          url,
		}, nil)

	out, err := s.orchestrator.ImportTemplate(s.ctx, &bestiary.ImportTemplateInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		URL:        url,
	})
	s.Require().NoError(err)
	s.NotZero(out.Template.ID)
	s.Equal("Гуль", out.Template.Name)
	s.Equal(22, out.Template.MaxHP)
	s.Equal(2, out.Template.InitiativeModifier)
	s.Equal(url, out.Template.SourceURL)
}

func (s *OrchestratorTestSuite) TestImportTemplateErrors() {
	s.Run("fetch failure keeps its code", func() {
		s.mockBestiary.EXPECT().
			FetchCreature(s.ctx, "/bestiary/1-x/").
			Return(nil, errors.NotFound("bestiary page not found"))

		_, err := s.orchestrator.ImportTemplate(s.ctx, &bestiary.ImportTemplateInput{
			CampaignID: s.campaignID, UserID: testutils.GMUserID, URL: "/bestiary/1-x/",
		})
		s.True(errors.IsNotFound(err))
	})

	s.Run("no fetch for strangers", func() {
		_, err := s.orchestrator.ImportTemplate(s.ctx, &bestiary.ImportTemplateInput{
			CampaignID: s.campaignID, UserID: testutils.StrangerUserID, URL: "/bestiary/1-x/",
		})
		s.True(errors.IsPermissionDenied(err))
	})

	s.Run("blank url", func() {
		_, err := s.orchestrator.ImportTemplate(s.ctx, &bestiary.ImportTemplateInput{
			CampaignID: s.campaignID, UserID: testutils.GMUserID,
		})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestSearchReference() {
	s.mockSRD.EXPECT().
		SearchMonsters(s.ctx, "gob", 5).
		Return([]*srd.Monster{{Key: "goblin", Name: "Goblin"}}, nil)

	out, err := s.orchestrator.SearchReference(s.ctx, &bestiary.SearchReferenceInput{Query: "gob", Limit: 5})
	s.Require().NoError(err)
	s.Require().Len(out.Monsters, 1)
	s.Equal("goblin", out.Monsters[0].Key)
}
