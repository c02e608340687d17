package entities

import "time"

// EncounterStatus is the lifecycle state of an encounter
type EncounterStatus string

const (
	// EncounterStatusDraft is an encounter still being assembled
	EncounterStatusDraft EncounterStatus = "draft"
	// EncounterStatusActive is an encounter whose turn order is running
	EncounterStatusActive EncounterStatus = "active"
	// EncounterStatusFinished is an encounter that has ended
	EncounterStatusFinished EncounterStatus = "finished"
)

// Encounter is a combat scene inside a campaign
type Encounter struct {
	ID         int64           `json:"id"`
	CampaignID int64           `json:"campaign_id"`
	Name       string          `json:"name"`
	Status     EncounterStatus `json:"status"`
	GMID       int64           `json:"gm_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Cursor points at the seat whose turn it is. Round starts at 1 and Index
// is a position in seating order, not a participant identity.
type Cursor struct {
	Round int `json:"round"`
	Index int `json:"current_index"`
}

// NewCursor returns the cursor every encounter starts with
func NewCursor() Cursor {
	return Cursor{Round: 1, Index: 0}
}
