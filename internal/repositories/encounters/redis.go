package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
)

const (
	encounterSeqKey   = "encounter:seq"
	participantSeqKey = "participant:seq"

	campaignIndexPrefix = "encounter:campaign:"
	gmIndexPrefix       = "encounter:gm:"

	defaultMaxTxRetries = 8

	// Error messages
	errEncounterNil     = "encounter cannot be nil"
	errEncounterIDEmpty = "encounter ID must be positive"
	errMutateNil        = "mutate func cannot be nil"
)

func encounterKey(id int64) string     { return fmt.Sprintf("encounter:%d", id) }
func cursorKey(id int64) string        { return fmt.Sprintf("encounter:%d:cursor", id) }
func rosterKey(id int64) string        { return fmt.Sprintf("encounter:%d:participants", id) }
func participantKey(id int64) string   { return fmt.Sprintf("participant:%d", id) }
func campaignIndexKey(id int64) string { return campaignIndexPrefix + strconv.FormatInt(id, 10) }
func gmIndexKey(id int64) string       { return gmIndexPrefix + strconv.FormatInt(id, 10) }

type redisRepository struct {
	client     redisclient.Client
	clock      clock.Clock
	maxRetries int
}

// RedisConfig contains configuration for the Redis encounter repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// MaxTxRetries bounds optimistic transaction retries. Zero uses the default.
	MaxTxRetries int
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed encounter repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	retries := cfg.MaxTxRetries
	if retries <= 0 {
		retries = defaultMaxTxRetries
	}

	return &redisRepository{
		client:     cfg.Client,
		clock:      c,
		maxRetries: retries,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Encounter == nil {
		return nil, errors.InvalidArgument(errEncounterNil)
	}

	id, err := r.client.Incr(ctx, encounterSeqKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate encounter id")
	}

	enc := *input.Encounter
	enc.ID = id
	if enc.Status == "" {
		enc.Status = entities.EncounterStatusDraft
	}
	if enc.CreatedAt.IsZero() {
		enc.CreatedAt = r.clock.Now()
	}
	cursor := entities.NewCursor()

	encData, err := json.Marshal(&enc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal encounter")
	}
	cursorData, err := json.Marshal(&cursor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal cursor")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, encounterKey(id), encData, 0)
	pipe.Set(ctx, cursorKey(id), cursorData, 0)
	pipe.SAdd(ctx, campaignIndexKey(enc.CampaignID), id)
	pipe.SAdd(ctx, gmIndexKey(enc.GMID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create encounter")
	}

	return &CreateOutput{Encounter: &enc, Cursor: cursor}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	snap, err := loadSnapshot(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Snapshot: snap}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}
	if input.Mutate == nil {
		return nil, errors.InvalidArgument(errMutateNil)
	}

	var out *UpdateOutput
	txf := func(tx *redis.Tx) error {
		snap, err := loadSnapshot(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		known := make(map[int64]struct{}, len(snap.Participants))
		for _, p := range snap.Participants {
			known[p.ID] = struct{}{}
		}

		changes, err := input.Mutate(snap)
		if err != nil {
			return err
		}

		// anything not loaded above is new, including participants that got
		// an ID during an attempt that lost the race
		var fresh []*entities.Participant
		for _, p := range snap.Participants {
			if _, ok := known[p.ID]; !ok {
				fresh = append(fresh, p)
			}
		}
		if !changes.Any() && len(fresh) == 0 {
			out = &UpdateOutput{Snapshot: snap}
			return nil
		}

		if len(fresh) > 0 {
			last, err := tx.IncrBy(ctx, participantSeqKey, int64(len(fresh))).Result()
			if err != nil {
				return errors.Wrap(err, "failed to allocate participant ids")
			}
			first := last - int64(len(fresh)) + 1
			for i, p := range fresh {
				p.ID = first + int64(i)
				p.EncounterID = input.ID
			}
		}

		writes, err := marshalChanges(snap, changes, fresh)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key, data := range writes {
				pipe.Set(ctx, key, data, 0)
			}
			for _, p := range fresh {
				pipe.SAdd(ctx, rosterKey(input.ID), p.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		sortParticipants(snap.Participants)
		out = &UpdateOutput{Snapshot: snap, Changed: true}
		return nil
	}

	if err := r.watch(ctx, txf, encounterKey(input.ID), cursorKey(input.ID), rosterKey(input.ID)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	txf := func(tx *redis.Tx) error {
		enc, err := loadEncounter(ctx, tx, input.ID)
		if err != nil {
			return err
		}
		members, err := tx.SMembers(ctx, rosterKey(input.ID)).Result()
		if err != nil {
			return errors.Wrap(err, "failed to list participants")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			keys := []string{encounterKey(input.ID), cursorKey(input.ID), rosterKey(input.ID)}
			for _, m := range members {
				keys = append(keys, "participant:"+m)
			}
			pipe.Del(ctx, keys...)
			pipe.SRem(ctx, campaignIndexKey(enc.CampaignID), input.ID)
			pipe.SRem(ctx, gmIndexKey(enc.GMID), input.ID)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, encounterKey(input.ID), rosterKey(input.ID)); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

func (r *redisRepository) GetParticipant(ctx context.Context, input GetParticipantInput) (*GetParticipantOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument("participant ID must be positive")
	}

	p, err := loadParticipant(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetParticipantOutput{Participant: p}, nil
}

func (r *redisRepository) UpdateParticipant(
	ctx context.Context,
	input UpdateParticipantInput,
) (*UpdateParticipantOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument("participant ID must be positive")
	}
	if input.Mutate == nil {
		return nil, errors.InvalidArgument(errMutateNil)
	}

	var out *UpdateParticipantOutput
	txf := func(tx *redis.Tx) error {
		p, err := loadParticipant(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		changed, err := input.Mutate(p)
		if err != nil {
			return err
		}
		out = &UpdateParticipantOutput{Participant: p, Changed: changed}
		if !changed {
			return nil
		}

		data, err := json.Marshal(p)
		if err != nil {
			return errors.Wrap(err, "failed to marshal participant")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, participantKey(input.ID), data, 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, participantKey(input.ID)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *redisRepository) ListByGM(ctx context.Context, input ListByGMInput) (*ListOutput, error) {
	return r.listIndex(ctx, gmIndexKey(input.GMID), input.Statuses)
}

func (r *redisRepository) ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListOutput, error) {
	return r.listIndex(ctx, campaignIndexKey(input.CampaignID), input.Statuses)
}

func (r *redisRepository) listIndex(
	ctx context.Context,
	indexKey string,
	statuses []entities.EncounterStatus,
) (*ListOutput, error) {
	members, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read encounter index")
	}
	if len(members) == 0 {
		return &ListOutput{Encounters: []*entities.Encounter{}}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = "encounter:" + m
	}
	loaded, err := redisclient.MGetJSON[entities.Encounter](ctx, r.client, keys)
	if err != nil {
		return nil, err
	}

	// entries whose encounter is gone are skipped by MGetJSON
	out := make([]*entities.Encounter, 0, len(loaded))
	for _, enc := range loaded {
		if len(statuses) == 0 || slices.Contains(statuses, enc.Status) {
			out = append(out, enc)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return &ListOutput{Encounters: out}, nil
}

// watch runs txf under WATCH, retrying when a watched key changed
func (r *redisRepository) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var domainErr *errors.Error
		if errors.As(err, &domainErr) {
			return err
		}
		return errors.Wrap(err, "encounter transaction failed")
	}
	return errors.Abortedf("encounter write conflicted %d times", r.maxRetries)
}

func loadEncounter(ctx context.Context, c redis.Cmdable, id int64) (*entities.Encounter, error) {
	return redisclient.GetJSON[entities.Encounter](ctx, c, encounterKey(id), fmt.Sprintf("encounter %d not found", id))
}

func loadParticipant(ctx context.Context, c redis.Cmdable, id int64) (*entities.Participant, error) {
	return redisclient.GetJSON[entities.Participant](ctx, c, participantKey(id), fmt.Sprintf("participant %d not found", id))
}

// loadSnapshot reads an encounter aggregate
func loadSnapshot(ctx context.Context, c redis.Cmdable, id int64) (*Snapshot, error) {
	enc, err := loadEncounter(ctx, c, id)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Encounter: enc, Cursor: entities.NewCursor()}

	cursorData, err := c.Get(ctx, cursorKey(id)).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(cursorData, &snap.Cursor); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal cursor")
		}
	case !errors.Is(err, redis.Nil):
		return nil, errors.Wrapf(err, "failed to get cursor for encounter %d", id)
	}

	members, err := c.SMembers(ctx, rosterKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list participants")
	}
	if len(members) == 0 {
		return snap, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = "participant:" + m
	}

	participants, err := redisclient.MGetJSON[entities.Participant](ctx, c, keys)
	if err != nil {
		return nil, err
	}
	snap.Participants = participants
	sortParticipants(snap.Participants)

	return snap, nil
}

// marshalChanges encodes the keys an update writes: the encounter and cursor
// when changes names them, and every fresh participant
func marshalChanges(snap *Snapshot, changes Changes, fresh []*entities.Participant) (map[string][]byte, error) {
	id := snap.Encounter.ID
	writes := make(map[string][]byte, len(fresh)+2)

	if changes.Encounter {
		data, err := json.Marshal(snap.Encounter)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal encounter")
		}
		writes[encounterKey(id)] = data
	}
	if changes.Cursor {
		data, err := json.Marshal(&snap.Cursor)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal cursor")
		}
		writes[cursorKey(id)] = data
	}
	for _, p := range fresh {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal participant")
		}
		writes[participantKey(p.ID)] = data
	}
	return writes, nil
}

func sortParticipants(ps []*entities.Participant) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}

var _ Repository = (*redisRepository)(nil)
