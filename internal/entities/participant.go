package entities

// ParticipantKind discriminates the participant payload
type ParticipantKind string

const (
	// ParticipantKindPlayer is a player character linked to a character record
	ParticipantKindPlayer ParticipantKind = "player_character"
	// ParticipantKindUnique is a single named creature
	ParticipantKindUnique ParticipantKind = "unique_npc"
	// ParticipantKindGroup is a group of identical creatures sharing one seat
	ParticipantKindGroup ParticipantKind = "npc_group"
)

// HitPoints tracks a single pool. A nil Max means no upper clamp.
type HitPoints struct {
	Current int  `json:"current"`
	Max     *int `json:"max,omitempty"`
}

// Attack is display-only reference data for a creature
type Attack struct {
	Name        string `json:"name"`
	HitBonus    int    `json:"hit_bonus"`
	DamageDice  int    `json:"damage_dice"`
	DamageDie   int    `json:"damage_die"`
	DamageBonus int    `json:"damage_bonus"`
	DamageType  string `json:"damage_type,omitempty"`
	Range       string `json:"range,omitempty"`
}

// PlayerDetails is the payload of a player character. HP is nil while
// hit point tracking is disabled for the character.
type PlayerDetails struct {
	CharacterID int64      `json:"character_id"`
	HP          *HitPoints `json:"hp,omitempty"`
}

// CreatureDetails is the payload of a unique creature
type CreatureDetails struct {
	HP HitPoints `json:"hp"`
	AC int       `json:"ac"`
}

// GroupDetails is the payload of a creature group. Every member starts at
// MaxHP and is tracked independently.
type GroupDetails struct {
	MaxHP    int   `json:"max_hp"`
	AC       int   `json:"ac"`
	MemberHP []int `json:"member_hp"`
}

// Count returns the number of members in the group
func (g *GroupDetails) Count() int {
	return len(g.MemberHP)
}

// Participant is one seat in an encounter's turn order. Exactly one of
// Player, Creature, Group is set, matching Kind.
type Participant struct {
	ID          int64           `json:"id"`
	EncounterID int64           `json:"encounter_id"`
	Kind        ParticipantKind `json:"kind"`
	Name        string          `json:"name"`
	Initiative  int             `json:"initiative"`
	IsEnemy     bool            `json:"is_enemy"`
	Attacks     []Attack        `json:"attacks,omitempty"`

	Player   *PlayerDetails   `json:"player,omitempty"`
	Creature *CreatureDetails `json:"creature,omitempty"`
	Group    *GroupDetails    `json:"group,omitempty"`
}

// IsGroup reports whether the participant is a creature group
func (p *Participant) IsGroup() bool {
	return p.Kind == ParticipantKindGroup && p.Group != nil
}

// HitPoints returns the scalar hit point pool, or nil when the participant
// is a group or does not track hit points.
func (p *Participant) HitPoints() *HitPoints {
	switch p.Kind {
	case ParticipantKindPlayer:
		if p.Player != nil {
			return p.Player.HP
		}
	case ParticipantKindUnique:
		if p.Creature != nil {
			return &p.Creature.HP
		}
	}
	return nil
}

// ArmorClass returns the participant AC, nil for players
func (p *Participant) ArmorClass() *int {
	switch {
	case p.Kind == ParticipantKindUnique && p.Creature != nil:
		ac := p.Creature.AC
		return &ac
	case p.IsGroup():
		ac := p.Group.AC
		return &ac
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing
func (p *Participant) Clone() *Participant {
	c := *p
	if p.Attacks != nil {
		c.Attacks = append([]Attack(nil), p.Attacks...)
	}
	if p.Player != nil {
		pd := *p.Player
		if p.Player.HP != nil {
			pd.HP = p.Player.HP.clone()
		}
		c.Player = &pd
	}
	if p.Creature != nil {
		cd := *p.Creature
		cd.HP = *p.Creature.HP.clone()
		c.Creature = &cd
	}
	if p.Group != nil {
		gd := *p.Group
		gd.MemberHP = append([]int(nil), p.Group.MemberHP...)
		c.Group = &gd
	}
	return &c
}

func (h *HitPoints) clone() *HitPoints {
	c := *h
	if h.Max != nil {
		m := *h.Max
		c.Max = &m
	}
	return &c
}
