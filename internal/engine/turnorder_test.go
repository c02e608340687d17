package engine_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/d20tracker/d20-api/internal/engine"
	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/testutils"
)

type TurnOrderTestSuite struct {
	suite.Suite
	encounter *entities.Encounter
	cursor    entities.Cursor
}

func TestTurnOrderSuite(t *testing.T) {
	suite.Run(t, new(TurnOrderTestSuite))
}

func (s *TurnOrderTestSuite) SetupTest() {
	s.encounter = &entities.Encounter{ID: 1, Status: entities.EncounterStatusDraft}
	s.cursor = entities.NewCursor()
}

func (s *TurnOrderTestSuite) TestSeatingOrder() {
	participants := []*entities.Participant{
		testutils.PlayerParticipant(3, "C", 12),
		testutils.PlayerParticipant(1, "A", 15),
		testutils.PlayerParticipant(2, "B", 15),
		testutils.PlayerParticipant(4, "D", 20),
	}

	seats := engine.SeatingOrder(participants)

	var ids []int64
	for _, p := range seats {
		ids = append(ids, p.ID)
	}
	s.Equal([]int64{4, 1, 2, 3}, ids)
	s.Equal(int64(3), participants[0].ID, "input must not be reordered")
}

func (s *TurnOrderTestSuite) TestStartEmptyRosterIsNoop() {
	s.cursor = entities.Cursor{Round: 3, Index: 2}

	s.False(engine.Start(s.encounter, &s.cursor, 0))
	s.Equal(entities.EncounterStatusDraft, s.encounter.Status)
	s.Equal(entities.Cursor{Round: 3, Index: 2}, s.cursor)
}

func (s *TurnOrderTestSuite) TestStartResets() {
	s.cursor = entities.Cursor{Round: 4, Index: 1}
	s.encounter.Status = entities.EncounterStatusActive

	s.True(engine.Start(s.encounter, &s.cursor, 3))
	s.Equal(entities.EncounterStatusActive, s.encounter.Status)
	s.Equal(entities.Cursor{Round: 1, Index: 0}, s.cursor)
}

func (s *TurnOrderTestSuite) TestAdvanceWraps() {
	s.Require().True(engine.Start(s.encounter, &s.cursor, 3))

	steps := []entities.Cursor{
		{Round: 1, Index: 1},
		{Round: 1, Index: 2},
		{Round: 2, Index: 0},
		{Round: 2, Index: 1},
	}
	for _, expected := range steps {
		s.True(engine.AdvanceTurn(&s.cursor, 3))
		s.Equal(expected, s.cursor)
	}
}

func (s *TurnOrderTestSuite) TestAdvanceEmptyRosterIsNoop() {
	s.False(engine.AdvanceTurn(&s.cursor, 0))
	s.Equal(entities.NewCursor(), s.cursor)
}

func (s *TurnOrderTestSuite) TestAdvanceAfterRosterGrowth() {
	s.cursor = entities.Cursor{Round: 2, Index: 1}

	// a third seat was added mid-round; the cursor keeps its position
	s.True(engine.AdvanceTurn(&s.cursor, 3))
	s.Equal(entities.Cursor{Round: 2, Index: 2}, s.cursor)
}

func (s *TurnOrderTestSuite) TestFinishFromAnyStatus() {
	for _, status := range []entities.EncounterStatus{
		entities.EncounterStatusDraft,
		entities.EncounterStatusActive,
		entities.EncounterStatusFinished,
	} {
		s.encounter.Status = status
		engine.Finish(s.encounter)
		s.Equal(entities.EncounterStatusFinished, s.encounter.Status)
	}
}

func (s *TurnOrderTestSuite) TestCurrentSeat() {
	seats := engine.SeatingOrder([]*entities.Participant{
		testutils.PlayerParticipant(1, "A", 10),
		testutils.PlayerParticipant(2, "B", 18),
	})

	s.Equal(int64(2), engine.CurrentSeat(seats, entities.Cursor{Round: 1, Index: 0}).ID)
	s.Nil(engine.CurrentSeat(seats, entities.Cursor{Round: 1, Index: 2}))
}
