package encounter

import (
	"github.com/d20tracker/d20-api/internal/engine"
	"github.com/d20tracker/d20-api/internal/entities"
)

// CreateEncounterInput defines the request for creating an encounter
type CreateEncounterInput struct {
	CampaignID int64
	Name       string
	UserID     int64
}

// CreateEncounterOutput defines the response for creating an encounter
type CreateEncounterOutput struct {
	Encounter *entities.Encounter
	Cursor    entities.Cursor
}

// PlayerInput adds a player character with the initiative total they rolled
type PlayerInput struct {
	CharacterID int64
	Initiative  int
}

// TemplateInput adds Count creatures from a library template
type TemplateInput struct {
	TemplateID int64
	Count      int
}

// AddRosterInput defines the request for populating an encounter
type AddRosterInput struct {
	EncounterID int64
	Players     []PlayerInput
	Uniques     []engine.CreatureSpec
	Groups      []engine.GroupSpec
}

// AddRosterOutput defines the response for populating an encounter
type AddRosterOutput struct {
	Participants []*entities.Participant
}

// AddRosterToActiveInput defines the request for reinforcing an encounter,
// usually while it is running
type AddRosterToActiveInput struct {
	EncounterID int64
	Templates   []TemplateInput
	Uniques     []engine.CreatureSpec
	Groups      []engine.GroupSpec
}

// AddRosterToActiveOutput defines the response for reinforcing an encounter.
// SkippedTemplateIDs lists templates that no longer exist.
type AddRosterToActiveOutput struct {
	Participants       []*entities.Participant
	SkippedTemplateIDs []int64
}

// StartEncounterInput defines the request for starting an encounter
type StartEncounterInput struct {
	EncounterID int64
}

// StartEncounterOutput defines the response for starting an encounter.
// Started is false when the roster was empty and nothing changed.
type StartEncounterOutput struct {
	Encounter *entities.Encounter
	Cursor    entities.Cursor
	Started   bool
}

// NextTurnInput defines the request for advancing the turn
type NextTurnInput struct {
	EncounterID int64
}

// NextTurnOutput defines the response for advancing the turn.
// Current is the participant now acting, nil when the roster is empty.
type NextTurnOutput struct {
	Encounter *entities.Encounter
	Cursor    entities.Cursor
	Advanced  bool
	Current   *entities.Participant
}

// FinishEncounterInput defines the request for finishing an encounter
type FinishEncounterInput struct {
	EncounterID int64
}

// FinishEncounterOutput defines the response for finishing an encounter
type FinishEncounterOutput struct {
	Encounter *entities.Encounter
}

// DeleteEncounterInput defines the request for deleting an encounter
type DeleteEncounterInput struct {
	EncounterID int64
}

// DeleteEncounterOutput defines the response for deleting an encounter
type DeleteEncounterOutput struct{}

// ApplyHPDeltaInput defines the request for changing hit points.
// MemberIndex picks a group member.
type ApplyHPDeltaInput struct {
	ParticipantID int64
	MemberIndex   *int
	Delta         int
}

// ApplyHPDeltaOutput defines the response for changing hit points.
// Applied is false when the target was not valid and nothing changed.
type ApplyHPDeltaOutput struct {
	Participant *entities.Participant
	Applied     bool
}

// GetStateInput defines the request for an encounter view
type GetStateInput struct {
	EncounterID int64
	Role        engine.Role
}

// GetStateOutput defines the response for an encounter view
type GetStateOutput struct {
	View *engine.View
}

// ListMyEncountersInput defines the request for a game master's open encounters
type ListMyEncountersInput struct {
	GMID int64
}

// ListActiveEncountersInput defines the request for a campaign's running encounters
type ListActiveEncountersInput struct {
	CampaignID int64
	UserID     int64
}

// ListEncountersOutput defines the response of the list operations.
// CampaignNames maps campaign IDs to names and is only filled by ListMyEncounters.
type ListEncountersOutput struct {
	Encounters    []*entities.Encounter
	CampaignNames map[int64]string
}
