package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
)

// Role selects how much of an encounter a viewer may see
type Role string

const (
	// RoleGameMaster sees everything
	RoleGameMaster Role = "game_master"
	// RolePlayer does not see enemy hit points
	RolePlayer Role = "player"
	// RoleSpectator does not see armor class or attacks
	RoleSpectator Role = "spectator"
)

// ParseRole accepts the canonical role names and the short aliases used by
// the mini-app (gm, observer). Empty means player.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "game_master", "gm":
		return RoleGameMaster, nil
	case "player", "":
		return RolePlayer, nil
	case "spectator", "observer":
		return RoleSpectator, nil
	}
	return "", errors.InvalidArgumentf("unknown role %q", s)
}

// View is a role-filtered snapshot of an encounter
type View struct {
	EncounterID   int64                    `json:"encounter_id"`
	EncounterName string                   `json:"encounter_name"`
	CampaignID    int64                    `json:"campaign_id"`
	CampaignName  string                   `json:"campaign_name"`
	Status        entities.EncounterStatus `json:"status"`
	Round         int                      `json:"round"`
	CurrentIndex  int                      `json:"current_index"`
	Participants  []*Row                   `json:"participants"`
}

// Row is one displayed combatant. Groups expand into one row per member,
// all sharing the group's seat.
type Row struct {
	DisplayID     string                   `json:"id"`
	ParticipantID int64                    `json:"participant_id"`
	MemberIndex   *int                     `json:"member_index,omitempty"`
	Kind          entities.ParticipantKind `json:"kind"`
	Name          string                   `json:"name"`
	Initiative    int                      `json:"initiative"`
	IsEnemy       bool                     `json:"is_enemy"`
	IsAlive       bool                     `json:"is_alive"`
	Seat          int                      `json:"seat"`
	IsCurrent     bool                     `json:"is_current"`
	CurrentHP     *int                     `json:"current_hp"`
	MaxHP         *int                     `json:"max_hp"`
	AC            *int                     `json:"ac"`
	Attacks       []entities.Attack        `json:"attacks"`
}

// ProjectInput is everything needed to render one view
type ProjectInput struct {
	Encounter    *entities.Encounter
	Cursor       entities.Cursor
	Participants []*entities.Participant
	CampaignName string
	Role         Role
}

// Project renders the encounter for a role. Rows follow seating order.
func Project(input *ProjectInput) *View {
	enc := input.Encounter
	view := &View{
		EncounterID:   enc.ID,
		EncounterName: enc.Name,
		CampaignID:    enc.CampaignID,
		CampaignName:  input.CampaignName,
		Status:        enc.Status,
		Round:         input.Cursor.Round,
		CurrentIndex:  input.Cursor.Index,
		Participants:  []*Row{},
	}

	active := enc.Status == entities.EncounterStatusActive
	for seat, p := range SeatingOrder(input.Participants) {
		current := active && seat == input.Cursor.Index
		for _, row := range expand(p) {
			row.Seat = seat
			row.IsCurrent = current
			redact(row, input.Role)
			view.Participants = append(view.Participants, row)
		}
	}

	return view
}

func expand(p *entities.Participant) []*Row {
	base := Row{
		ParticipantID: p.ID,
		Kind:          p.Kind,
		Name:          p.Name,
		Initiative:    p.Initiative,
		IsEnemy:       p.IsEnemy,
		AC:            p.ArmorClass(),
		Attacks:       p.Attacks,
	}

	if !p.IsGroup() {
		row := base
		row.DisplayID = strconv.FormatInt(p.ID, 10)
		if hp := p.HitPoints(); hp != nil {
			row.CurrentHP = intPtr(hp.Current)
			if hp.Max != nil {
				row.MaxHP = intPtr(*hp.Max)
			}
		}
		row.IsAlive = row.CurrentHP == nil || *row.CurrentHP > 0
		return []*Row{&row}
	}

	rows := make([]*Row, 0, p.Group.Count())
	for i, hp := range p.Group.MemberHP {
		row := base
		row.DisplayID = MemberDisplayID(p.ID, i)
		row.MemberIndex = intPtr(i)
		row.Name = fmt.Sprintf("%s #%d", p.Name, i+1)
		row.CurrentHP = intPtr(hp)
		row.MaxHP = intPtr(p.Group.MaxHP)
		row.IsAlive = hp > 0
		rows = append(rows, &row)
	}
	return rows
}

func redact(row *Row, role Role) {
	switch role {
	case RolePlayer:
		if row.IsEnemy {
			row.CurrentHP = nil
			row.MaxHP = nil
		}
	case RoleSpectator:
		row.AC = nil
		row.Attacks = nil
	}
}

// MemberDisplayID is the view identifier of one group member
func MemberDisplayID(participantID int64, memberIndex int) string {
	return fmt.Sprintf("%d:%d", participantID, memberIndex)
}

// ParseDisplayID maps a view identifier back to the participant record and,
// for group rows, the member index.
func ParseDisplayID(id string) (int64, *int, error) {
	head, tail, member := strings.Cut(id, ":")
	participantID, err := strconv.ParseInt(head, 10, 64)
	if err != nil || participantID <= 0 {
		return 0, nil, errors.InvalidArgumentf("invalid participant id %q", id)
	}
	if !member {
		return participantID, nil, nil
	}
	idx, err := strconv.Atoi(tail)
	if err != nil || idx < 0 {
		return 0, nil, errors.InvalidArgumentf("invalid participant id %q", id)
	}
	return participantID, &idx, nil
}

func intPtr(v int) *int {
	return &v
}
