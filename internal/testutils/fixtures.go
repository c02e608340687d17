package testutils

import (
	"github.com/d20tracker/d20-api/internal/entities"
)

// Fixture user ids
const (
	GMUserID       int64 = 1001
	ObserverUserID int64 = 2002
	StrangerUserID int64 = 3003
)

// GoblinTemplate returns a template used across tests
func GoblinTemplate(campaignID int64) *entities.Template {
	return &entities.Template{
		CampaignID:         campaignID,
		Name:               "Goblin",
		MaxHP:              7,
		AC:                 15,
		InitiativeModifier: 2,
		Attacks: []entities.Attack{
			{Name: "Scimitar", HitBonus: 4, DamageDice: 1, DamageDie: 6, DamageBonus: 2, DamageType: "slashing", Range: "5 ft."},
		},
	}
}

// OgreTemplate returns a second template with a distinct modifier
func OgreTemplate(campaignID int64) *entities.Template {
	return &entities.Template{
		CampaignID:         campaignID,
		Name:               "Ogre",
		MaxHP:              59,
		AC:                 11,
		InitiativeModifier: -1,
	}
}

// UniqueParticipant returns a unique creature participant with full hit points
func UniqueParticipant(id int64, name string, initiative, maxHP int) *entities.Participant {
	m := maxHP
	return &entities.Participant{
		ID:         id,
		Kind:       entities.ParticipantKindUnique,
		Name:       name,
		Initiative: initiative,
		IsEnemy:    true,
		Creature: &entities.CreatureDetails{
			HP: entities.HitPoints{Current: maxHP, Max: &m},
			AC: 13,
		},
	}
}

// PlayerParticipant returns a player participant without hit point tracking
func PlayerParticipant(id int64, name string, initiative int) *entities.Participant {
	return &entities.Participant{
		ID:         id,
		Kind:       entities.ParticipantKindPlayer,
		Name:       name,
		Initiative: initiative,
		Player:     &entities.PlayerDetails{CharacterID: id * 10},
	}
}

// GroupParticipant returns a group whose members all start at maxHP
func GroupParticipant(id int64, name string, initiative, maxHP, count int) *entities.Participant {
	members := make([]int, count)
	for i := range members {
		members[i] = maxHP
	}
	return &entities.Participant{
		ID:         id,
		Kind:       entities.ParticipantKindGroup,
		Name:       name,
		Initiative: initiative,
		IsEnemy:    true,
		Group: &entities.GroupDetails{
			MaxHP:    maxHP,
			AC:       12,
			MemberHP: members,
		},
	}
}
