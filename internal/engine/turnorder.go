package engine

import (
	"sort"

	"github.com/d20tracker/d20-api/internal/entities"
)

// SeatingOrder returns participants sorted by initiative, highest first,
// ties broken by ascending ID. The input slice is left untouched.
func SeatingOrder(participants []*entities.Participant) []*entities.Participant {
	seats := append([]*entities.Participant(nil), participants...)
	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].Initiative != seats[j].Initiative {
			return seats[i].Initiative > seats[j].Initiative
		}
		return seats[i].ID < seats[j].ID
	})
	return seats
}

// Start activates the encounter and rewinds the cursor to round 1, seat 0.
// It does nothing and returns false when there are no seats.
func Start(encounter *entities.Encounter, cursor *entities.Cursor, seats int) bool {
	if seats == 0 {
		return false
	}
	encounter.Status = entities.EncounterStatusActive
	*cursor = entities.NewCursor()
	return true
}

// AdvanceTurn moves the cursor to the next seat, wrapping into a new round
// after the last one. It returns false when there are no seats.
func AdvanceTurn(cursor *entities.Cursor, seats int) bool {
	if seats == 0 {
		return false
	}
	cursor.Index++
	if cursor.Index >= seats {
		cursor.Index = 0
		cursor.Round++
	}
	return true
}

// Finish ends the encounter regardless of its current status
func Finish(encounter *entities.Encounter) {
	encounter.Status = entities.EncounterStatusFinished
}

// CurrentSeat returns the participant at the cursor, or nil when the index
// is past the end of the roster.
func CurrentSeat(seats []*entities.Participant, cursor entities.Cursor) *entities.Participant {
	if cursor.Index < 0 || cursor.Index >= len(seats) {
		return nil
	}
	return seats[cursor.Index]
}
