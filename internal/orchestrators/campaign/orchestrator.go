// Package campaign manages campaigns, their membership and invites, and the
// player characters that encounters draw from.
package campaign

//go:generate mockgen -destination=mock/mock_service.go -package=campaignmock github.com/d20tracker/d20-api/internal/orchestrators/campaign Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	"github.com/d20tracker/d20-api/internal/pkg/idgen"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/character"
)

// Service defines the interface for campaign operations
type Service interface {
	CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*CreateCampaignOutput, error)
	GetCampaign(ctx context.Context, input *GetCampaignInput) (*GetCampaignOutput, error)
	// ListCampaigns returns the campaigns the user owns
	ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)
	// ListObservedCampaigns returns the campaigns the user observes
	ListObservedCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)
	RemoveMember(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error)
	ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error)
	// GetUserStats counts the campaigns the user owns and observes
	GetUserStats(ctx context.Context, input *GetUserStatsInput) (*GetUserStatsOutput, error)

	CreateInvite(ctx context.Context, input *CreateInviteInput) (*CreateInviteOutput, error)
	// CheckInvite reports whether a token can still be used to join
	CheckInvite(ctx context.Context, input *CheckInviteInput) (*CheckInviteOutput, error)
	// JoinByInvite makes the caller an observer of the invite's campaign
	JoinByInvite(ctx context.Context, input *JoinByInviteInput) (*JoinByInviteOutput, error)
	DeactivateInvite(ctx context.Context, input *DeactivateInviteInput) (*DeactivateInviteOutput, error)

	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)
}

// Config holds the dependencies for the campaign orchestrator
type Config struct {
	CampaignRepo  campaigns.Repository
	CharacterRepo character.Repository
	// Clock decides invite expiry. Defaults to the system clock.
	Clock clock.Clock
	// InviteTokens issues invite tokens. Defaults to idgen.NewToken.
	InviteTokens idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	campaignRepo  campaigns.Repository
	characterRepo character.Repository
	clock         clock.Clock
	inviteTokens  idgen.Generator
}

// NewOrchestrator creates a new campaign orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		campaignRepo:  cfg.CampaignRepo,
		characterRepo: cfg.CharacterRepo,
		clock:         cfg.Clock,
		inviteTokens:  cfg.InviteTokens,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.inviteTokens == nil {
		o.inviteTokens = idgen.NewToken()
	}
	return o, nil
}

func (o *orchestrator) CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*CreateCampaignOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := errors.NewValidationBuilder().NotBlank("name", input.Name).Build(); err != nil {
		return nil, err
	}

	out, err := o.campaignRepo.Create(ctx, campaigns.CreateInput{
		Campaign: &entities.Campaign{Name: strings.TrimSpace(input.Name), OwnerID: input.UserID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create campaign")
	}

	slog.InfoContext(ctx, "Created campaign", "campaign_id", out.Campaign.ID, "owner_id", input.UserID)
	return &CreateCampaignOutput{Campaign: out.Campaign}, nil
}

func (o *orchestrator) GetCampaign(ctx context.Context, input *GetCampaignInput) (*GetCampaignOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	campaign, role, err := o.requireMember(ctx, input.CampaignID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetCampaignOutput{Campaign: campaign, Role: role}, nil
}

func (o *orchestrator) ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.campaignRepo.ListByOwner(ctx, campaigns.ListByOwnerInput{OwnerID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}
	return &ListCampaignsOutput{Campaigns: out.Campaigns}, nil
}

func (o *orchestrator) ListObservedCampaigns(
	ctx context.Context,
	input *ListCampaignsInput,
) (*ListCampaignsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.campaignRepo.ListByMember(ctx, campaigns.ListByMemberInput{
		UserID: input.UserID,
		Role:   entities.MemberRoleObserver,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list observed campaigns")
	}
	return &ListCampaignsOutput{Campaigns: out.Campaigns}, nil
}

func (o *orchestrator) RemoveMember(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	campaign, err := o.requireGM(ctx, input.CampaignID, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.MemberID == campaign.OwnerID {
		return nil, errors.InvalidArgument("the game master cannot be removed")
	}

	if _, err := o.campaignRepo.RemoveMember(ctx, campaigns.RemoveMemberInput{
		CampaignID: input.CampaignID,
		UserID:     input.MemberID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to remove member")
	}

	slog.InfoContext(ctx, "Removed member", "campaign_id", input.CampaignID, "user_id", input.MemberID)
	return &RemoveMemberOutput{}, nil
}

func (o *orchestrator) ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	out, err := o.campaignRepo.ListMembers(ctx, campaigns.ListMembersInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list members")
	}
	return &ListMembersOutput{Members: out.Members}, nil
}

func (o *orchestrator) GetUserStats(ctx context.Context, input *GetUserStatsInput) (*GetUserStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	owned, err := o.campaignRepo.ListByOwner(ctx, campaigns.ListByOwnerInput{OwnerID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count owned campaigns")
	}
	observed, err := o.campaignRepo.ListByMember(ctx, campaigns.ListByMemberInput{
		UserID: input.UserID,
		Role:   entities.MemberRoleObserver,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count observed campaigns")
	}

	return &GetUserStatsOutput{
		OwnedCampaigns:    len(owned.Campaigns),
		ObservedCampaigns: len(observed.Campaigns),
	}, nil
}

func (o *orchestrator) CreateInvite(ctx context.Context, input *CreateInviteInput) (*CreateInviteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	if input.ExpiresIn < 0 {
		vb.Field("expires_in", "must not be negative")
	}
	vb.Min("max_uses", input.MaxUses, 0)
	if err := vb.Build(); err != nil {
		return nil, err
	}
	if _, err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	inv := &entities.Invite{
		Token:      o.inviteTokens.Generate(),
		CampaignID: input.CampaignID,
		CreatedBy:  input.UserID,
		CreatedAt:  now,
		Active:     true,
	}
	if input.ExpiresIn > 0 {
		expires := now.Add(input.ExpiresIn)
		inv.ExpiresAt = &expires
	}
	if input.MaxUses > 0 {
		limit := input.MaxUses
		inv.MaxUses = &limit
	}

	out, err := o.campaignRepo.CreateInvite(ctx, campaigns.CreateInviteInput{Invite: inv})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create invite")
	}

	slog.InfoContext(ctx, "Created invite", "campaign_id", input.CampaignID, "user_id", input.UserID)
	return &CreateInviteOutput{Invite: out.Invite}, nil
}

func (o *orchestrator) CheckInvite(ctx context.Context, input *CheckInviteInput) (*CheckInviteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := errors.NewValidationBuilder().NotBlank("token", input.Token).Build(); err != nil {
		return nil, err
	}

	out, err := o.campaignRepo.GetInvite(ctx, campaigns.GetInviteInput{Token: input.Token})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get invite")
	}
	if err := o.usable(out.Invite); err != nil {
		return nil, err
	}

	got, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: out.Invite.CampaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %d", out.Invite.CampaignID)
	}
	return &CheckInviteOutput{Invite: out.Invite, Campaign: got.Campaign}, nil
}

func (o *orchestrator) JoinByInvite(ctx context.Context, input *JoinByInviteInput) (*JoinByInviteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := errors.NewValidationBuilder().NotBlank("invite_token", input.Token).Build(); err != nil {
		return nil, err
	}

	redeemed, err := o.campaignRepo.RedeemInvite(ctx, campaigns.RedeemInviteInput{
		Token:  input.Token,
		UserID: input.UserID,
		Check:  o.usable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to join campaign")
	}

	got, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: redeemed.Invite.CampaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %d", redeemed.Invite.CampaignID)
	}

	if redeemed.Joined {
		slog.InfoContext(ctx, "Joined campaign by invite",
			"campaign_id", got.Campaign.ID,
			"user_id", input.UserID,
			"uses", redeemed.Invite.Uses,
		)
	}
	return &JoinByInviteOutput{Campaign: got.Campaign, Role: redeemed.Role, Joined: redeemed.Joined}, nil
}

func (o *orchestrator) DeactivateInvite(
	ctx context.Context,
	input *DeactivateInviteInput,
) (*DeactivateInviteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	got, err := o.campaignRepo.GetInvite(ctx, campaigns.GetInviteInput{Token: input.Token})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get invite")
	}
	if got.Invite.CampaignID != input.CampaignID {
		return nil, errors.NotFound("invite not found")
	}

	if _, err := o.campaignRepo.DeactivateInvite(ctx, campaigns.DeactivateInviteInput{Token: input.Token}); err != nil {
		return nil, errors.Wrap(err, "failed to deactivate invite")
	}

	slog.InfoContext(ctx, "Deactivated invite", "campaign_id", input.CampaignID)
	return &DeactivateInviteOutput{}, nil
}

// usable rejects invites that were deactivated, have expired or ran out of
// uses, checked in that order
func (o *orchestrator) usable(inv *entities.Invite) error {
	switch {
	case !inv.Active:
		return errors.InvalidArgument("invite has been deactivated")
	case inv.ExpiresAt != nil && inv.ExpiresAt.Before(o.clock.Now()):
		return errors.InvalidArgument("invite has expired")
	case inv.MaxUses != nil && inv.Uses >= *inv.MaxUses:
		return errors.InvalidArgument("invite has reached its use limit")
	}
	return nil
}

func (o *orchestrator) CreateCharacter(
	ctx context.Context,
	input *CreateCharacterInput,
) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateCharacter(input.Name, input.AC); err != nil {
		return nil, err
	}
	if _, err := o.requireGM(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	out, err := o.characterRepo.Create(ctx, character.CreateInput{
		Character: &entities.Character{
			CampaignID:     input.CampaignID,
			Name:           strings.TrimSpace(input.Name),
			AC:             input.AC,
			BaseInitiative: input.BaseInitiative,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	slog.InfoContext(ctx, "Created character",
		"character_id", out.Character.ID,
		"campaign_id", input.CampaignID,
	)
	return &CreateCharacterOutput{Character: out.Character}, nil
}

func (o *orchestrator) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, _, err := o.requireMember(ctx, input.CampaignID, input.UserID); err != nil {
		return nil, err
	}

	out, err := o.characterRepo.ListByCampaign(ctx, character.ListByCampaignInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	return &ListCharactersOutput{Characters: out.Characters}, nil
}

func (o *orchestrator) UpdateCharacter(
	ctx context.Context,
	input *UpdateCharacterInput,
) (*UpdateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	existing, err := o.characterForGM(ctx, input.CharacterID, input.UserID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
	}
	if input.AC != nil {
		updated.AC = *input.AC
	}
	if input.BaseInitiative != nil {
		updated.BaseInitiative = *input.BaseInitiative
	}
	if err := validateCharacter(updated.Name, updated.AC); err != nil {
		return nil, err
	}

	out, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: &updated})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update character %d", input.CharacterID)
	}
	return &UpdateCharacterOutput{Character: out.Character}, nil
}

func (o *orchestrator) DeleteCharacter(
	ctx context.Context,
	input *DeleteCharacterInput,
) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, err := o.characterForGM(ctx, input.CharacterID, input.UserID); err != nil {
		return nil, err
	}

	if _, err := o.characterRepo.Delete(ctx, character.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %d", input.CharacterID)
	}

	slog.InfoContext(ctx, "Deleted character", "character_id", input.CharacterID)
	return &DeleteCharacterOutput{}, nil
}

func (o *orchestrator) requireGM(ctx context.Context, campaignID, userID int64) (*entities.Campaign, error) {
	out, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: campaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %d", campaignID)
	}
	if out.Campaign.OwnerID != userID {
		return nil, errors.PermissionDenied("only the game master can do this")
	}
	return out.Campaign, nil
}

func (o *orchestrator) requireMember(
	ctx context.Context,
	campaignID, userID int64,
) (*entities.Campaign, entities.MemberRole, error) {
	out, err := o.campaignRepo.Get(ctx, campaigns.GetInput{ID: campaignID})
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to get campaign %d", campaignID)
	}
	member, err := o.campaignRepo.GetMemberRole(ctx, campaigns.GetMemberRoleInput{
		CampaignID: campaignID,
		UserID:     userID,
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to check access to campaign %d", campaignID)
	}
	if member.Role == "" {
		return nil, "", errors.PermissionDenied("no access to this campaign")
	}
	return out.Campaign, member.Role, nil
}

func (o *orchestrator) characterForGM(ctx context.Context, characterID, userID int64) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %d", characterID)
	}
	if _, err := o.requireGM(ctx, out.Character.CampaignID, userID); err != nil {
		return nil, err
	}
	return out.Character, nil
}

func validateCharacter(name string, ac int) error {
	return errors.NewValidationBuilder().
		NotBlank("name", name).
		Min("ac", ac, 0).
		Build()
}
