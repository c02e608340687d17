// Package encounters persists encounters together with their turn cursor
// and participants.
package encounters

import (
	"context"

	"github.com/d20tracker/d20-api/internal/entities"
)

// Repository defines the storage interface for encounters
type Repository interface {
	// Create stores a new encounter and its initial cursor. The encounter ID
	// is assigned by the store.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get loads the encounter, its cursor and all participants
	// Returns errors.NotFound if the encounter doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update runs Mutate against a fresh snapshot and commits the parts it
	// reports as changed, plus any appended participants, as one atomic unit.
	// Only the encounter, cursor and roster keys are watched, so participant
	// HP writes never conflict with it. Mutate may run more than once when a
	// concurrent writer touched those keys.
	// Returns errors.NotFound if the encounter doesn't exist
	// Returns errors.Aborted if the write kept conflicting
	// Returns whatever Mutate returns, with nothing written
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes the encounter, its cursor and its participants
	// Returns errors.NotFound if the encounter doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// GetParticipant loads a single participant
	// Returns errors.NotFound if the participant doesn't exist
	GetParticipant(ctx context.Context, input GetParticipantInput) (*GetParticipantOutput, error)

	// UpdateParticipant runs Mutate against a fresh copy of one participant
	// and commits it atomically
	// Returns errors.NotFound if the participant doesn't exist
	// Returns errors.Aborted if the write kept conflicting
	UpdateParticipant(ctx context.Context, input UpdateParticipantInput) (*UpdateParticipantOutput, error)

	// ListByGM returns the encounters run by a game master, newest first
	ListByGM(ctx context.Context, input ListByGMInput) (*ListOutput, error)

	// ListByCampaign returns the encounters of a campaign, newest first
	ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListOutput, error)
}

// Snapshot is the persisted state of one encounter. Participants are
// ordered by ascending ID, which is creation order.
type Snapshot struct {
	Encounter    *entities.Encounter
	Cursor       entities.Cursor
	Participants []*entities.Participant
}

// CreateInput defines the input for creating an encounter
type CreateInput struct {
	Encounter *entities.Encounter
}

// CreateOutput defines the output for creating an encounter
type CreateOutput struct {
	Encounter *entities.Encounter
	Cursor    entities.Cursor
}

// GetInput defines the input for loading an encounter
type GetInput struct {
	ID int64
}

// GetOutput defines the output for loading an encounter
type GetOutput struct {
	Snapshot *Snapshot
}

// Changes names the parts of a snapshot that Mutate edited. Participants
// appended to the snapshot are inserted regardless. Edits to participants
// that already exist are not written; UpdateParticipant owns those.
type Changes struct {
	Encounter bool
	Cursor    bool
}

// Any reports whether c names something to write
func (c Changes) Any() bool {
	return c.Encounter || c.Cursor
}

// MutateFunc edits a snapshot in place and reports what it changed.
// Participants appended with a zero ID receive an ID. Nothing is written
// when Changes is empty and no participant was appended.
type MutateFunc func(s *Snapshot) (Changes, error)

// UpdateInput defines the input for updating an encounter
type UpdateInput struct {
	ID     int64
	Mutate MutateFunc
}

// UpdateOutput defines the output for updating an encounter
type UpdateOutput struct {
	Snapshot *Snapshot
	Changed  bool
}

// DeleteInput defines the input for deleting an encounter
type DeleteInput struct {
	ID int64
}

// DeleteOutput defines the output for deleting an encounter
type DeleteOutput struct{}

// GetParticipantInput defines the input for loading a participant
type GetParticipantInput struct {
	ID int64
}

// GetParticipantOutput defines the output for loading a participant
type GetParticipantOutput struct {
	Participant *entities.Participant
}

// UpdateParticipantInput defines the input for updating a participant
type UpdateParticipantInput struct {
	ID     int64
	Mutate func(p *entities.Participant) (bool, error)
}

// UpdateParticipantOutput defines the output for updating a participant
type UpdateParticipantOutput struct {
	Participant *entities.Participant
	Changed     bool
}

// ListByGMInput defines the input for listing a game master's encounters.
// An empty Statuses matches every status.
type ListByGMInput struct {
	GMID     int64
	Statuses []entities.EncounterStatus
}

// ListByCampaignInput defines the input for listing a campaign's encounters.
// An empty Statuses matches every status.
type ListByCampaignInput struct {
	CampaignID int64
	Statuses   []entities.EncounterStatus
}

// ListOutput defines the output of the list operations
type ListOutput struct {
	Encounters []*entities.Encounter
}
