package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
)

const initiativeDie = 20

// RosterBuilder turns structured roster input into participants
type RosterBuilder interface {
	Build(input *BuildRosterInput) (*BuildRosterOutput, error)
}

// RosterBuilderConfig configures NewRosterBuilder
type RosterBuilderConfig struct {
	Roller dice.Roller
}

// Validate validates the config
func (cfg *RosterBuilderConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

type rosterBuilder struct {
	roller dice.Roller
}

// NewRosterBuilder creates a RosterBuilder rolling initiative with cfg.Roller
func NewRosterBuilder(cfg *RosterBuilderConfig) (RosterBuilder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &rosterBuilder{roller: cfg.Roller}, nil
}

// Build validates the whole batch before creating anything, so a malformed
// entry rejects the batch.
func (b *rosterBuilder) Build(input *BuildRosterInput) (*BuildRosterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateRoster(input); err != nil {
		return nil, err
	}

	out := &BuildRosterOutput{
		Participants: make([]*entities.Participant, 0, len(input.Players)+len(input.Uniques)+len(input.Groups)),
	}

	for _, p := range input.Players {
		out.Participants = append(out.Participants, &entities.Participant{
			EncounterID: input.EncounterID,
			Kind:        entities.ParticipantKindPlayer,
			Name:        p.Name,
			Initiative:  p.InitiativeTotal,
			Player:      &entities.PlayerDetails{CharacterID: p.CharacterID},
		})
	}

	for _, u := range input.Uniques {
		initiative, err := b.rollInitiative(u.InitiativeModifier)
		if err != nil {
			return nil, err
		}
		maxHP := u.MaxHP
		out.Participants = append(out.Participants, &entities.Participant{
			EncounterID: input.EncounterID,
			Kind:        entities.ParticipantKindUnique,
			Name:        u.Name,
			Initiative:  initiative,
			IsEnemy:     u.IsEnemy,
			Attacks:     u.Attacks,
			Creature: &entities.CreatureDetails{
				HP: entities.HitPoints{Current: maxHP, Max: &maxHP},
				AC: u.AC,
			},
		})
	}

	for _, g := range input.Groups {
		initiative, err := b.rollInitiative(g.InitiativeModifier)
		if err != nil {
			return nil, err
		}
		members := make([]int, g.Count)
		for i := range members {
			members[i] = g.MaxHP
		}
		out.Participants = append(out.Participants, &entities.Participant{
			EncounterID: input.EncounterID,
			Kind:        entities.ParticipantKindGroup,
			Name:        g.Name,
			Initiative:  initiative,
			IsEnemy:     g.IsEnemy,
			Attacks:     g.Attacks,
			Group: &entities.GroupDetails{
				MaxHP:    g.MaxHP,
				AC:       g.AC,
				MemberHP: members,
			},
		})
	}

	return out, nil
}

func (b *rosterBuilder) rollInitiative(modifier int) (int, error) {
	roll, err := b.roller.Roll(initiativeDie)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll initiative")
	}
	return roll + modifier, nil
}

func validateRoster(input *BuildRosterInput) error {
	vb := errors.NewValidationBuilder()

	for i, p := range input.Players {
		if p.CharacterID <= 0 {
			vb.RequiredField(fmt.Sprintf("players[%d].character_id", i))
		}
		vb.NotBlank(fmt.Sprintf("players[%d].name", i), p.Name)
	}
	for i, u := range input.Uniques {
		validateCreature(vb, fmt.Sprintf("uniques[%d]", i), &u)
	}
	for i, g := range input.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		validateCreature(vb, field, &g.CreatureSpec)
		vb.Min(field+".count", g.Count, 1)
	}

	return vb.Build()
}

func validateCreature(vb *errors.ValidationBuilder, field string, c *CreatureSpec) {
	vb.NotBlank(field+".name", c.Name).
		Min(field+".max_hp", c.MaxHP, 1).
		Min(field+".ac", c.AC, 0)
}
