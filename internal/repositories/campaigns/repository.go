// Package campaigns persists campaigns, their membership and invites
package campaigns

import (
	"context"

	"github.com/d20tracker/d20-api/internal/entities"
)

// Repository defines the storage interface for campaigns
type Repository interface {
	// Create stores a campaign and records the owner as its game master
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a campaign by ID
	// Returns errors.NotFound if the campaign doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByOwner returns the campaigns a user owns, oldest first
	ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListOutput, error)

	// ListByMember returns the campaigns where a user holds the given role
	ListByMember(ctx context.Context, input ListByMemberInput) (*ListOutput, error)

	// SetMember grants a user a role in a campaign
	// Returns errors.NotFound if the campaign doesn't exist
	SetMember(ctx context.Context, input SetMemberInput) (*SetMemberOutput, error)

	// RemoveMember revokes a user's membership
	// Returns errors.NotFound if the campaign or the membership doesn't exist
	RemoveMember(ctx context.Context, input RemoveMemberInput) (*RemoveMemberOutput, error)

	// GetMemberRole reports a user's role in a campaign, if any
	// Returns errors.NotFound if the campaign doesn't exist
	GetMemberRole(ctx context.Context, input GetMemberRoleInput) (*GetMemberRoleOutput, error)

	// ListMembers returns a campaign's members in join order
	// Returns errors.NotFound if the campaign doesn't exist
	ListMembers(ctx context.Context, input ListMembersInput) (*ListMembersOutput, error)

	// CreateInvite stores a new invite under its token
	// Returns errors.InvalidArgument for validation failures or a token in use
	// Returns errors.NotFound if the campaign doesn't exist
	CreateInvite(ctx context.Context, input CreateInviteInput) (*CreateInviteOutput, error)

	// GetInvite loads an invite by token
	// Returns errors.NotFound if the token is unknown
	GetInvite(ctx context.Context, input GetInviteInput) (*GetInviteOutput, error)

	// DeactivateInvite marks an invite unusable
	// Returns errors.NotFound if the token is unknown
	// Returns errors.Aborted if the write kept conflicting
	DeactivateInvite(ctx context.Context, input DeactivateInviteInput) (*DeactivateInviteOutput, error)

	// RedeemInvite adds the user to the invite's campaign as an observer and
	// bumps the invite's use count in one transaction. Check runs against the
	// current invite first and its error aborts the redeem. A user who is
	// already a member keeps their role and the count is not bumped.
	// Returns errors.NotFound if the token is unknown
	// Returns errors.Aborted if the write kept conflicting
	RedeemInvite(ctx context.Context, input RedeemInviteInput) (*RedeemInviteOutput, error)
}

// CreateInput defines the input for creating a campaign
type CreateInput struct {
	Campaign *entities.Campaign
}

// CreateOutput defines the output for creating a campaign
type CreateOutput struct {
	Campaign *entities.Campaign
}

// GetInput defines the input for getting a campaign
type GetInput struct {
	ID int64
}

// GetOutput defines the output for getting a campaign
type GetOutput struct {
	Campaign *entities.Campaign
}

// ListByOwnerInput defines the input for listing owned campaigns
type ListByOwnerInput struct {
	OwnerID int64
}

// ListByMemberInput defines the input for listing campaigns by membership
type ListByMemberInput struct {
	UserID int64
	Role   entities.MemberRole
}

// ListOutput defines the output of the list operations
type ListOutput struct {
	Campaigns []*entities.Campaign
}

// SetMemberInput defines the input for granting membership
type SetMemberInput struct {
	CampaignID int64
	UserID     int64
	Role       entities.MemberRole
}

// SetMemberOutput defines the output for granting membership
type SetMemberOutput struct{}

// RemoveMemberInput defines the input for revoking membership
type RemoveMemberInput struct {
	CampaignID int64
	UserID     int64
}

// RemoveMemberOutput defines the output for revoking membership
type RemoveMemberOutput struct{}

// GetMemberRoleInput defines the input for looking up a membership
type GetMemberRoleInput struct {
	CampaignID int64
	UserID     int64
}

// GetMemberRoleOutput defines the output for looking up a membership.
// Role is empty when the user is not a member.
type GetMemberRoleOutput struct {
	Role entities.MemberRole
}

// ListMembersInput defines the input for listing a campaign's members
type ListMembersInput struct {
	CampaignID int64
}

// ListMembersOutput defines the output for listing a campaign's members
type ListMembersOutput struct {
	Members []*entities.Member
}

// CreateInviteInput defines the input for storing an invite
type CreateInviteInput struct {
	Invite *entities.Invite
}

// CreateInviteOutput defines the output for storing an invite
type CreateInviteOutput struct {
	Invite *entities.Invite
}

// GetInviteInput defines the input for loading an invite
type GetInviteInput struct {
	Token string
}

// GetInviteOutput defines the output for loading an invite
type GetInviteOutput struct {
	Invite *entities.Invite
}

// DeactivateInviteInput defines the input for deactivating an invite
type DeactivateInviteInput struct {
	Token string
}

// DeactivateInviteOutput defines the output for deactivating an invite
type DeactivateInviteOutput struct {
	Invite *entities.Invite
}

// RedeemInviteInput defines the input for joining through an invite
type RedeemInviteInput struct {
	Token  string
	UserID int64
	Check  func(inv *entities.Invite) error
}

// RedeemInviteOutput defines the output for joining through an invite.
// Joined is false when the user was already a member.
type RedeemInviteOutput struct {
	Invite *entities.Invite
	Role   entities.MemberRole
	Joined bool
}
