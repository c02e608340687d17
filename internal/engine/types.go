package engine

import "github.com/d20tracker/d20-api/internal/entities"

// PlayerEntry adds a player character with an initiative total the player
// rolled at the table.
type PlayerEntry struct {
	CharacterID     int64
	Name            string
	InitiativeTotal int
}

// CreatureSpec describes a single creature whose initiative is rolled
type CreatureSpec struct {
	Name               string
	MaxHP              int
	AC                 int
	InitiativeModifier int
	IsEnemy            bool
	Attacks            []entities.Attack
}

// GroupSpec describes Count identical creatures sharing one seat
type GroupSpec struct {
	CreatureSpec
	Count int
}

// BuildRosterInput is one batch of roster additions
type BuildRosterInput struct {
	EncounterID int64
	Players     []PlayerEntry
	Uniques     []CreatureSpec
	Groups      []GroupSpec
}

// BuildRosterOutput holds the new participants, not yet persisted.
// Order is players, then uniques, then groups.
type BuildRosterOutput struct {
	Participants []*entities.Participant
}

// AddTemplate queues count creatures built from a template. A count of one
// becomes a unique creature, anything larger a group. Template creatures are
// always enemies.
func (in *BuildRosterInput) AddTemplate(t *entities.Template, count int) {
	spec := CreatureSpec{
		Name:               t.Name,
		MaxHP:              t.MaxHP,
		AC:                 t.AC,
		InitiativeModifier: t.InitiativeModifier,
		IsEnemy:            true,
		Attacks:            t.Attacks,
	}
	if count == 1 {
		in.Uniques = append(in.Uniques, spec)
		return
	}
	in.Groups = append(in.Groups, GroupSpec{CreatureSpec: spec, Count: count})
}

// Empty reports whether the batch adds nothing
func (in *BuildRosterInput) Empty() bool {
	return len(in.Players) == 0 && len(in.Uniques) == 0 && len(in.Groups) == 0
}
