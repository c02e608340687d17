package encounters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
	"github.com/d20tracker/d20-api/internal/repositories/encounters"
	"github.com/d20tracker/d20-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redisclient.Client
	cleanup func()
	clock   *clock.Fixed
	repo    encounters.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewFixed(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))

	repo, err := encounters.NewRedis(&encounters.RedisConfig{
		Client: s.client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) createEncounter(campaignID, gmID int64) *entities.Encounter {
	out, err := s.repo.Create(s.ctx, encounters.CreateInput{
		Encounter: &entities.Encounter{CampaignID: campaignID, GMID: gmID, Name: "Ambush"},
	})
	s.Require().NoError(err)
	return out.Encounter
}

func (s *RedisRepositoryTestSuite) addParticipants(id int64, ps ...*entities.Participant) *encounters.Snapshot {
	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: id,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			for _, p := range ps {
				snap.Participants = append(snap.Participants, p.Clone())
			}
			return encounters.Changes{}, nil
		},
	})
	s.Require().NoError(err)
	return out.Snapshot
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := encounters.NewRedis(nil)
	s.Error(err)

	_, err = encounters.NewRedis(&encounters.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	first := s.createEncounter(3, 77)
	second := s.createEncounter(3, 77)

	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)
	s.Equal(entities.EncounterStatusDraft, first.Status)
	s.Equal(s.clock.Now(), first.CreatedAt)

	out, err := s.repo.Get(s.ctx, encounters.GetInput{ID: first.ID})
	s.Require().NoError(err)
	s.Equal("Ambush", out.Snapshot.Encounter.Name)
	s.Equal(entities.Cursor{Round: 1, Index: 0}, out.Snapshot.Cursor)
	s.Empty(out.Snapshot.Participants)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, encounters.GetInput{ID: 99})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, encounters.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateAssignsParticipantIDs() {
	enc := s.createEncounter(1, 1)

	snap := s.addParticipants(enc.ID,
		testutils.PlayerParticipant(0, "Aria", 12),
		testutils.GroupParticipant(0, "Wolf", 8, 11, 3),
	)
	s.Require().Len(snap.Participants, 2)
	s.Equal(int64(1), snap.Participants[0].ID)
	s.Equal(int64(2), snap.Participants[1].ID)
	s.Equal(enc.ID, snap.Participants[1].EncounterID)

	snap = s.addParticipants(enc.ID, testutils.UniqueParticipant(0, "Ogre", 3, 59))
	s.Require().Len(snap.Participants, 3)
	s.Equal(int64(3), snap.Participants[2].ID)

	out, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Snapshot.Participants, 3)
	s.Equal([]int{11, 11, 11}, out.Snapshot.Participants[1].Group.MemberHP)
	s.Equal(59, *out.Snapshot.Participants[2].Creature.HP.Max)
}

func (s *RedisRepositoryTestSuite) TestUpdateCursorAndStatus() {
	enc := s.createEncounter(1, 1)

	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			snap.Encounter.Status = entities.EncounterStatusActive
			snap.Cursor = entities.Cursor{Round: 3, Index: 1}
			return encounters.Changes{Encounter: true, Cursor: true}, nil
		},
	})
	s.Require().NoError(err)
	s.True(out.Changed)

	got, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Equal(entities.EncounterStatusActive, got.Snapshot.Encounter.Status)
	s.Equal(entities.Cursor{Round: 3, Index: 1}, got.Snapshot.Cursor)
}

func (s *RedisRepositoryTestSuite) TestUpdateNoChangeSkipsWrite() {
	enc := s.createEncounter(1, 1)

	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			snap.Cursor.Round = 50
			return encounters.Changes{}, nil
		},
	})
	s.Require().NoError(err)
	s.False(out.Changed)

	got, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Equal(1, got.Snapshot.Cursor.Round)
}

func (s *RedisRepositoryTestSuite) TestUpdateMutateErrorWritesNothing() {
	enc := s.createEncounter(1, 1)

	_, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			snap.Participants = append(snap.Participants, testutils.PlayerParticipant(0, "Aria", 1))
			return encounters.Changes{}, errors.InvalidArgument("bad roster")
		},
	})
	s.True(errors.IsInvalidArgument(err))

	got, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Empty(got.Snapshot.Participants)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	_, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: 42,
		Mutate: func(*encounters.Snapshot) (encounters.Changes, error) {
			return encounters.Changes{Encounter: true}, nil
		},
	})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Update(s.ctx, encounters.UpdateInput{ID: 42})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateRetriesOnConflict() {
	enc := s.createEncounter(1, 1)
	attempts := 0

	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			attempts++
			if attempts == 1 {
				// a competing writer lands between read and commit
				s.Require().NoError(s.client.Set(s.ctx, "encounter:1:cursor", `{"round":1,"current_index":1}`, 0).Err())
			}
			snap.Cursor.Index++
			return encounters.Changes{Cursor: true}, nil
		},
	})
	s.Require().NoError(err)
	s.Equal(2, attempts)
	s.Equal(2, out.Snapshot.Cursor.Index)
}

func (s *RedisRepositoryTestSuite) TestUpdateGivesUpAfterRetries() {
	repo, err := encounters.NewRedis(&encounters.RedisConfig{Client: s.client, MaxTxRetries: 2})
	s.Require().NoError(err)
	enc := s.createEncounter(1, 1)

	_, err = repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			s.Require().NoError(s.client.Set(s.ctx, "encounter:1:cursor", `{"round":9,"current_index":0}`, 0).Err())
			return encounters.Changes{Cursor: true}, nil
		},
	})
	s.True(errors.IsAborted(err))
}

func (s *RedisRepositoryTestSuite) TestCursorUpdateIgnoresConcurrentHPChange() {
	enc := s.createEncounter(1, 1)
	snap := s.addParticipants(enc.ID,
		testutils.UniqueParticipant(0, "Orc", 10, 15),
		testutils.PlayerParticipant(0, "Aria", 12),
	)
	orc := snap.Participants[0].ID
	attempts := 0

	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			attempts++
			if attempts == 1 {
				// an HP change lands between read and commit
				_, err := s.repo.UpdateParticipant(s.ctx, encounters.UpdateParticipantInput{
					ID: orc,
					Mutate: func(p *entities.Participant) (bool, error) {
						p.Creature.HP.Current = 3
						return true, nil
					},
				})
				s.Require().NoError(err)
			}
			snap.Cursor.Index++
			return encounters.Changes{Cursor: true}, nil
		},
	})
	s.Require().NoError(err)
	s.Equal(1, attempts)
	s.True(out.Changed)

	got, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Equal(1, got.Snapshot.Cursor.Index)
	s.Equal(3, got.Snapshot.Participants[0].Creature.HP.Current)
}

func (s *RedisRepositoryTestSuite) TestUpdateWritesOnlyReportedParts() {
	enc := s.createEncounter(1, 1)
	s.addParticipants(enc.ID, testutils.UniqueParticipant(0, "Orc", 10, 15))

	_, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			snap.Encounter.Name = "Renamed"
			snap.Participants[0].Creature.HP.Current = 1
			snap.Cursor.Round = 4
			return encounters.Changes{Cursor: true}, nil
		},
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.Require().NoError(err)
	s.Equal(4, got.Snapshot.Cursor.Round)
	s.Equal("Ambush", got.Snapshot.Encounter.Name)
	s.Equal(15, got.Snapshot.Participants[0].Creature.HP.Current)
}

func (s *RedisRepositoryTestSuite) TestRosterAppendConflictsWithCursorUpdate() {
	enc := s.createEncounter(1, 1)
	s.addParticipants(enc.ID, testutils.PlayerParticipant(0, "Aria", 12))
	attempts := 0

	out, err := s.repo.Update(s.ctx, encounters.UpdateInput{
		ID: enc.ID,
		Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
			attempts++
			if attempts == 1 {
				s.addParticipants(enc.ID, testutils.PlayerParticipant(0, "Borin", 8))
			}
			snap.Cursor.Index = len(snap.Participants) - 1
			return encounters.Changes{Cursor: true}, nil
		},
	})
	s.Require().NoError(err)
	s.Equal(2, attempts)
	s.Equal(1, out.Snapshot.Cursor.Index)
	s.Len(out.Snapshot.Participants, 2)
}

func (s *RedisRepositoryTestSuite) TestUpdateParticipant() {
	enc := s.createEncounter(1, 1)
	snap := s.addParticipants(enc.ID, testutils.UniqueParticipant(0, "Orc", 10, 15))
	id := snap.Participants[0].ID

	out, err := s.repo.UpdateParticipant(s.ctx, encounters.UpdateParticipantInput{
		ID: id,
		Mutate: func(p *entities.Participant) (bool, error) {
			p.Creature.HP.Current = 4
			return true, nil
		},
	})
	s.Require().NoError(err)
	s.True(out.Changed)

	got, err := s.repo.GetParticipant(s.ctx, encounters.GetParticipantInput{ID: id})
	s.Require().NoError(err)
	s.Equal(4, got.Participant.Creature.HP.Current)

	_, err = s.repo.UpdateParticipant(s.ctx, encounters.UpdateParticipantInput{
		ID:     id + 100,
		Mutate: func(*entities.Participant) (bool, error) { return true, nil },
	})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestDeleteCascades() {
	enc := s.createEncounter(5, 9)
	snap := s.addParticipants(enc.ID,
		testutils.PlayerParticipant(0, "Aria", 12),
		testutils.UniqueParticipant(0, "Orc", 10, 15),
	)

	_, err := s.repo.Delete(s.ctx, encounters.DeleteInput{ID: enc.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, encounters.GetInput{ID: enc.ID})
	s.True(errors.IsNotFound(err))
	for _, p := range snap.Participants {
		_, err = s.repo.GetParticipant(s.ctx, encounters.GetParticipantInput{ID: p.ID})
		s.True(errors.IsNotFound(err))
	}

	list, err := s.repo.ListByCampaign(s.ctx, encounters.ListByCampaignInput{CampaignID: 5})
	s.Require().NoError(err)
	s.Empty(list.Encounters)

	_, err = s.repo.Delete(s.ctx, encounters.DeleteInput{ID: enc.ID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListFilters() {
	draft := s.createEncounter(1, 10)
	active := s.createEncounter(1, 10)
	other := s.createEncounter(2, 20)
	finished := s.createEncounter(1, 10)

	for id, status := range map[int64]entities.EncounterStatus{
		active.ID:   entities.EncounterStatusActive,
		other.ID:    entities.EncounterStatusActive,
		finished.ID: entities.EncounterStatusFinished,
	} {
		_, err := s.repo.Update(s.ctx, encounters.UpdateInput{
			ID: id,
			Mutate: func(snap *encounters.Snapshot) (encounters.Changes, error) {
				snap.Encounter.Status = status
				return encounters.Changes{Encounter: true}, nil
			},
		})
		s.Require().NoError(err)
	}

	mine, err := s.repo.ListByGM(s.ctx, encounters.ListByGMInput{
		GMID:     10,
		Statuses: []entities.EncounterStatus{entities.EncounterStatusDraft, entities.EncounterStatusActive},
	})
	s.Require().NoError(err)
	s.Require().Len(mine.Encounters, 2)
	s.Equal(active.ID, mine.Encounters[0].ID)
	s.Equal(draft.ID, mine.Encounters[1].ID)

	running, err := s.repo.ListByCampaign(s.ctx, encounters.ListByCampaignInput{
		CampaignID: 1,
		Statuses:   []entities.EncounterStatus{entities.EncounterStatusActive},
	})
	s.Require().NoError(err)
	s.Require().Len(running.Encounters, 1)
	s.Equal(active.ID, running.Encounters[0].ID)

	all, err := s.repo.ListByCampaign(s.ctx, encounters.ListByCampaignInput{CampaignID: 1})
	s.Require().NoError(err)
	s.Len(all.Encounters, 3)
}
