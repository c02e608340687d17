package entities

import "time"

// MemberRole is a user's role inside a campaign
type MemberRole string

const (
	// MemberRoleGM is the campaign owner
	MemberRoleGM MemberRole = "gm"
	// MemberRoleObserver can watch active encounters
	MemberRoleObserver MemberRole = "observer"
)

// Campaign groups encounters, characters and templates under one owner
type Campaign struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Character is a player character record in a campaign
type Character struct {
	ID             int64  `json:"id"`
	CampaignID     int64  `json:"campaign_id"`
	Name           string `json:"name"`
	AC             int    `json:"ac"`
	BaseInitiative int    `json:"base_initiative"`
}

// Template is a reusable creature stat block, the enemy library entry
type Template struct {
	ID                 int64    `json:"id"`
	CampaignID         int64    `json:"campaign_id"`
	Name               string   `json:"name"`
	MaxHP              int      `json:"max_hp"`
	AC                 int      `json:"ac"`
	InitiativeModifier int      `json:"initiative_modifier"`
	Attacks            []Attack `json:"attacks,omitempty"`
	SourceURL          string   `json:"source_url,omitempty"`
}

// Member is one user's membership in a campaign
type Member struct {
	UserID   int64      `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// Invite lets whoever holds Token join a campaign as an observer. Nil
// ExpiresAt never expires and nil MaxUses is unlimited.
type Invite struct {
	Token      string     `json:"token"`
	CampaignID int64      `json:"campaign_id"`
	CreatedBy  int64      `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    *int       `json:"max_uses,omitempty"`
	Uses       int        `json:"uses"`
	Active     bool       `json:"active"`
}
