package campaign

import (
	"time"

	"github.com/d20tracker/d20-api/internal/entities"
)

// CreateCampaignInput contains the request data for creating a campaign
type CreateCampaignInput struct {
	Name   string
	UserID int64
}

// CreateCampaignOutput contains the created campaign
type CreateCampaignOutput struct {
	Campaign *entities.Campaign
}

// GetCampaignInput contains the request data for fetching a campaign
type GetCampaignInput struct {
	CampaignID int64
	UserID     int64
}

// GetCampaignOutput contains the campaign and the caller's role in it
type GetCampaignOutput struct {
	Campaign *entities.Campaign
	Role     entities.MemberRole
}

// ListCampaignsInput contains the request data for listing campaigns
type ListCampaignsInput struct {
	UserID int64
}

// ListCampaignsOutput contains a list of campaigns
type ListCampaignsOutput struct {
	Campaigns []*entities.Campaign
}

// RemoveMemberInput revokes a user's access to a campaign
type RemoveMemberInput struct {
	CampaignID int64
	UserID     int64
	MemberID   int64
}

// RemoveMemberOutput is empty on success
type RemoveMemberOutput struct{}

// ListMembersInput contains the request data for listing a campaign's members
type ListMembersInput struct {
	CampaignID int64
	UserID     int64
}

// ListMembersOutput contains the members in join order
type ListMembersOutput struct {
	Members []*entities.Member
}

// GetUserStatsInput contains the request data for a user's campaign counts
type GetUserStatsInput struct {
	UserID int64
}

// GetUserStatsOutput contains a user's campaign counts
type GetUserStatsOutput struct {
	OwnedCampaigns    int
	ObservedCampaigns int
}

// CreateInviteInput contains the request data for creating an invite. Zero
// ExpiresIn never expires and zero MaxUses is unlimited.
type CreateInviteInput struct {
	CampaignID int64
	UserID     int64
	ExpiresIn  time.Duration
	MaxUses    int
}

// CreateInviteOutput contains the created invite
type CreateInviteOutput struct {
	Invite *entities.Invite
}

// CheckInviteInput contains the token to check
type CheckInviteInput struct {
	Token string
}

// CheckInviteOutput contains a usable invite and its campaign
type CheckInviteOutput struct {
	Invite   *entities.Invite
	Campaign *entities.Campaign
}

// JoinByInviteInput contains the request data for joining through an invite
type JoinByInviteInput struct {
	Token  string
	UserID int64
}

// JoinByInviteOutput contains the joined campaign and the caller's role.
// Joined is false when the caller was already a member.
type JoinByInviteOutput struct {
	Campaign *entities.Campaign
	Role     entities.MemberRole
	Joined   bool
}

// DeactivateInviteInput contains the request data for revoking an invite
type DeactivateInviteInput struct {
	CampaignID int64
	UserID     int64
	Token      string
}

// DeactivateInviteOutput is empty on success
type DeactivateInviteOutput struct{}

// CreateCharacterInput contains the request data for creating a player character
type CreateCharacterInput struct {
	CampaignID     int64
	UserID         int64
	Name           string
	AC             int
	BaseInitiative int
}

// CreateCharacterOutput contains the created character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// ListCharactersInput contains the request data for listing a campaign's characters
type ListCharactersInput struct {
	CampaignID int64
	UserID     int64
}

// ListCharactersOutput contains a list of characters
type ListCharactersOutput struct {
	Characters []*entities.Character
}

// UpdateCharacterInput changes the editable fields of a character. Nil
// fields keep their current value.
type UpdateCharacterInput struct {
	CharacterID    int64
	UserID         int64
	Name           *string
	AC             *int
	BaseInitiative *int
}

// UpdateCharacterOutput contains the updated character
type UpdateCharacterOutput struct {
	Character *entities.Character
}

// DeleteCharacterInput contains the request data for deleting a character
type DeleteCharacterInput struct {
	CharacterID int64
	UserID      int64
}

// DeleteCharacterOutput is empty on success
type DeleteCharacterOutput struct{}
