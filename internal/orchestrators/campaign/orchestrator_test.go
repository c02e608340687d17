package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/orchestrators/campaign"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	"github.com/d20tracker/d20-api/internal/pkg/idgen"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/character"
	"github.com/d20tracker/d20-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	cleanup      func()
	orchestrator campaign.Service
	clock        *clock.Fixed
	campaignID   int64
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	s.clock = clock.NewFixed(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))
	campaignRepo, err := campaigns.NewRedis(&campaigns.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	characterRepo, err := character.NewRedis(&character.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.orchestrator, err = campaign.NewOrchestrator(&campaign.Config{
		CampaignRepo:  campaignRepo,
		CharacterRepo: characterRepo,
		Clock:         s.clock,
		InviteTokens:  idgen.NewSequential("inv"),
	})
	s.Require().NoError(err)

	out, err := s.orchestrator.CreateCampaign(s.ctx, &campaign.CreateCampaignInput{
		Name:   "Curse of Strahd",
		UserID: testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.campaignID = out.Campaign.ID
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) createInvite(input *campaign.CreateInviteInput) *entities.Invite {
	input.CampaignID = s.campaignID
	input.UserID = testutils.GMUserID
	out, err := s.orchestrator.CreateInvite(s.ctx, input)
	s.Require().NoError(err)
	return out.Invite
}

func (s *OrchestratorTestSuite) addObserver() {
	inv := s.createInvite(&campaign.CreateInviteInput{})
	_, err := s.orchestrator.JoinByInvite(s.ctx, &campaign.JoinByInviteInput{
		Token:  inv.Token,
		UserID: testutils.ObserverUserID,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) join(token string, userID int64) (*campaign.JoinByInviteOutput, error) {
	return s.orchestrator.JoinByInvite(s.ctx, &campaign.JoinByInviteInput{Token: token, UserID: userID})
}

func (s *OrchestratorTestSuite) TestCreateCampaignRequiresName() {
	_, err := s.orchestrator.CreateCampaign(s.ctx, &campaign.CreateCampaignInput{UserID: testutils.GMUserID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestOwnerIsGameMaster() {
	out, err := s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Equal("Curse of Strahd", out.Campaign.Name)
	s.Equal(entities.MemberRoleGM, out.Role)

	owned, err := s.orchestrator.ListCampaigns(s.ctx, &campaign.ListCampaignsInput{UserID: testutils.GMUserID})
	s.Require().NoError(err)
	s.Len(owned.Campaigns, 1)
}

func (s *OrchestratorTestSuite) TestGetCampaignAccess() {
	_, err := s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.StrangerUserID,
	})
	s.True(errors.IsPermissionDenied(err))

	_, err = s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: 999,
		UserID:     testutils.GMUserID,
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestObservers() {
	s.addObserver()

	out, err := s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
	})
	s.Require().NoError(err)
	s.Equal(entities.MemberRoleObserver, out.Role)

	observed, err := s.orchestrator.ListObservedCampaigns(s.ctx, &campaign.ListCampaignsInput{
		UserID: testutils.ObserverUserID,
	})
	s.Require().NoError(err)
	s.Require().Len(observed.Campaigns, 1)
	s.Equal(s.campaignID, observed.Campaigns[0].ID)

	// the owner observes nothing
	observed, err = s.orchestrator.ListObservedCampaigns(s.ctx, &campaign.ListCampaignsInput{
		UserID: testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Empty(observed.Campaigns)

	_, err = s.orchestrator.RemoveMember(s.ctx, &campaign.RemoveMemberInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		MemberID:   testutils.ObserverUserID,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestMembershipGuards() {
	s.Run("only the gm creates invites", func() {
		_, err := s.orchestrator.CreateInvite(s.ctx, &campaign.CreateInviteInput{
			CampaignID: s.campaignID,
			UserID:     testutils.StrangerUserID,
		})
		s.True(errors.IsPermissionDenied(err))
	})

	s.Run("only the gm lists members", func() {
		_, err := s.orchestrator.ListMembers(s.ctx, &campaign.ListMembersInput{
			CampaignID: s.campaignID,
			UserID:     testutils.StrangerUserID,
		})
		s.True(errors.IsPermissionDenied(err))
	})

	s.Run("gm cannot be removed", func() {
		_, err := s.orchestrator.RemoveMember(s.ctx, &campaign.RemoveMemberInput{
			CampaignID: s.campaignID,
			UserID:     testutils.GMUserID,
			MemberID:   testutils.GMUserID,
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("unknown member", func() {
		_, err := s.orchestrator.RemoveMember(s.ctx, &campaign.RemoveMemberInput{
			CampaignID: s.campaignID,
			UserID:     testutils.GMUserID,
			MemberID:   testutils.StrangerUserID,
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestCharacterLifecycle() {
	created, err := s.orchestrator.CreateCharacter(s.ctx, &campaign.CreateCharacterInput{
		CampaignID:     s.campaignID,
		UserID:         testutils.GMUserID,
		Name:           " Ireena ",
		AC:             12,
		BaseInitiative: 2,
	})
	s.Require().NoError(err)
	s.Equal("Ireena", created.Character.Name)

	name, ac, initiative := "Ireena Kolyana", 14, 3
	updated, err := s.orchestrator.UpdateCharacter(s.ctx, &campaign.UpdateCharacterInput{
		CharacterID:    created.Character.ID,
		UserID:         testutils.GMUserID,
		Name:           &name,
		AC:             &ac,
		BaseInitiative: &initiative,
	})
	s.Require().NoError(err)
	s.Equal("Ireena Kolyana", updated.Character.Name)
	s.Equal(14, updated.Character.AC)
	s.Equal(s.campaignID, updated.Character.CampaignID)

	// partial update keeps the rest
	ac = 16
	updated, err = s.orchestrator.UpdateCharacter(s.ctx, &campaign.UpdateCharacterInput{
		CharacterID: created.Character.ID,
		UserID:      testutils.GMUserID,
		AC:          &ac,
	})
	s.Require().NoError(err)
	s.Equal("Ireena Kolyana", updated.Character.Name)
	s.Equal(16, updated.Character.AC)
	s.Equal(3, updated.Character.BaseInitiative)

	blank := " "
	_, err = s.orchestrator.UpdateCharacter(s.ctx, &campaign.UpdateCharacterInput{
		CharacterID: created.Character.ID,
		UserID:      testutils.GMUserID,
		Name:        &blank,
	})
	s.True(errors.IsInvalidArgument(err))

	s.addObserver()
	listed, err := s.orchestrator.ListCharacters(s.ctx, &campaign.ListCharactersInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
	})
	s.Require().NoError(err)
	s.Require().Len(listed.Characters, 1)
	s.Equal(3, listed.Characters[0].BaseInitiative)

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CharacterID: created.Character.ID,
		UserID:      testutils.ObserverUserID,
	})
	s.True(errors.IsPermissionDenied(err))

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CharacterID: created.Character.ID,
		UserID:      testutils.GMUserID,
	})
	s.Require().NoError(err)

	listed, err = s.orchestrator.ListCharacters(s.ctx, &campaign.ListCharactersInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Empty(listed.Characters)
}

func (s *OrchestratorTestSuite) TestCreateCharacterValidation() {
	_, err := s.orchestrator.CreateCharacter(s.ctx, &campaign.CreateCharacterInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		AC:         -1,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "name")
	s.Contains(err.Error(), "ac")

	_, err = s.orchestrator.CreateCharacter(s.ctx, &campaign.CreateCharacterInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
		Name:       "Rahadin",
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestCreateInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{ExpiresIn: 48 * time.Hour, MaxUses: 3})

	s.Equal("inv_1", inv.Token)
	s.Equal(s.campaignID, inv.CampaignID)
	s.Equal(testutils.GMUserID, inv.CreatedBy)
	s.True(inv.Active)
	s.Require().NotNil(inv.ExpiresAt)
	s.True(inv.ExpiresAt.Equal(s.clock.Now().Add(48 * time.Hour)))
	s.Require().NotNil(inv.MaxUses)
	s.Equal(3, *inv.MaxUses)

	open := s.createInvite(&campaign.CreateInviteInput{})
	s.Equal("inv_2", open.Token)
	s.Nil(open.ExpiresAt)
	s.Nil(open.MaxUses)
}

func (s *OrchestratorTestSuite) TestCreateInviteValidation() {
	_, err := s.orchestrator.CreateInvite(s.ctx, &campaign.CreateInviteInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		ExpiresIn:  -time.Hour,
		MaxUses:    -1,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "expires_in")
	s.Contains(err.Error(), "max_uses")

	_, err = s.orchestrator.CreateInvite(s.ctx, &campaign.CreateInviteInput{CampaignID: 999, UserID: testutils.GMUserID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCheckInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{})

	out, err := s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: inv.Token})
	s.Require().NoError(err)
	s.Equal("Curse of Strahd", out.Campaign.Name)
	s.Equal(inv.Token, out.Invite.Token)

	_, err = s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestJoinByInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{})

	out, err := s.join(inv.Token, testutils.ObserverUserID)
	s.Require().NoError(err)
	s.True(out.Joined)
	s.Equal(entities.MemberRoleObserver, out.Role)
	s.Equal(s.campaignID, out.Campaign.ID)

	got, err := s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
	})
	s.Require().NoError(err)
	s.Equal(entities.MemberRoleObserver, got.Role)

	s.Run("joining twice does not use the invite again", func() {
		again, err := s.join(inv.Token, testutils.ObserverUserID)
		s.Require().NoError(err)
		s.False(again.Joined)
		s.Equal(entities.MemberRoleObserver, again.Role)

		checked, err := s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: inv.Token})
		s.Require().NoError(err)
		s.Equal(1, checked.Invite.Uses)
	})

	s.Run("the gm keeps their role", func() {
		owner, err := s.join(inv.Token, testutils.GMUserID)
		s.Require().NoError(err)
		s.False(owner.Joined)
		s.Equal(entities.MemberRoleGM, owner.Role)
	})

	s.Run("unknown token", func() {
		_, err := s.join("missing", testutils.StrangerUserID)
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestJoinByExpiredInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{ExpiresIn: 24 * time.Hour})
	s.clock.Advance(24*time.Hour + time.Second)

	_, err := s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: inv.Token})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "expired")

	_, err = s.join(inv.Token, testutils.ObserverUserID)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "expired")

	_, err = s.orchestrator.GetCampaign(s.ctx, &campaign.GetCampaignInput{
		CampaignID: s.campaignID,
		UserID:     testutils.ObserverUserID,
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *OrchestratorTestSuite) TestJoinByExhaustedInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{MaxUses: 1})

	_, err := s.join(inv.Token, testutils.ObserverUserID)
	s.Require().NoError(err)

	_, err = s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: inv.Token})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "use limit")

	_, err = s.join(inv.Token, testutils.StrangerUserID)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "use limit")

	members, err := s.orchestrator.ListMembers(s.ctx, &campaign.ListMembersInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Len(members.Members, 2)
}

func (s *OrchestratorTestSuite) TestJoinByDeactivatedInvite() {
	inv := s.createInvite(&campaign.CreateInviteInput{})

	_, err := s.orchestrator.DeactivateInvite(s.ctx, &campaign.DeactivateInviteInput{
		CampaignID: s.campaignID,
		UserID:     testutils.StrangerUserID,
		Token:      inv.Token,
	})
	s.True(errors.IsPermissionDenied(err))

	_, err = s.orchestrator.DeactivateInvite(s.ctx, &campaign.DeactivateInviteInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
		Token:      inv.Token,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.CheckInvite(s.ctx, &campaign.CheckInviteInput{Token: inv.Token})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "deactivated")

	_, err = s.join(inv.Token, testutils.ObserverUserID)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "deactivated")
}

func (s *OrchestratorTestSuite) TestDeactivateInviteOfAnotherCampaign() {
	other, err := s.orchestrator.CreateCampaign(s.ctx, &campaign.CreateCampaignInput{
		Name:   "Tomb of Annihilation",
		UserID: testutils.GMUserID,
	})
	s.Require().NoError(err)
	inv := s.createInvite(&campaign.CreateInviteInput{})

	_, err = s.orchestrator.DeactivateInvite(s.ctx, &campaign.DeactivateInviteInput{
		CampaignID: other.Campaign.ID,
		UserID:     testutils.GMUserID,
		Token:      inv.Token,
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestListMembers() {
	s.clock.Advance(time.Hour)
	s.addObserver()

	out, err := s.orchestrator.ListMembers(s.ctx, &campaign.ListMembersInput{
		CampaignID: s.campaignID,
		UserID:     testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Members, 2)
	s.Equal(testutils.GMUserID, out.Members[0].UserID)
	s.Equal(entities.MemberRoleGM, out.Members[0].Role)
	s.Equal(testutils.ObserverUserID, out.Members[1].UserID)
	s.Equal(entities.MemberRoleObserver, out.Members[1].Role)
	s.True(out.Members[1].JoinedAt.Equal(s.clock.Now()))
}

func (s *OrchestratorTestSuite) TestGetUserStats() {
	_, err := s.orchestrator.CreateCampaign(s.ctx, &campaign.CreateCampaignInput{
		Name:   "Tomb of Annihilation",
		UserID: testutils.GMUserID,
	})
	s.Require().NoError(err)
	s.addObserver()

	gm, err := s.orchestrator.GetUserStats(s.ctx, &campaign.GetUserStatsInput{UserID: testutils.GMUserID})
	s.Require().NoError(err)
	s.Equal(2, gm.OwnedCampaigns)
	s.Equal(0, gm.ObservedCampaigns)

	observer, err := s.orchestrator.GetUserStats(s.ctx, &campaign.GetUserStatsInput{UserID: testutils.ObserverUserID})
	s.Require().NoError(err)
	s.Equal(0, observer.OwnedCampaigns)
	s.Equal(1, observer.ObservedCampaigns)
}
