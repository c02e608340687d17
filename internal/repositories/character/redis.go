package character

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
)

const (
	characterSeqKey    = "character:seq"
	characterKeyPrefix = "character:"
	campaignIndexFmt   = "campaign:%d:characters"

	// Error messages
	errCharacterNil      = "character cannot be nil"
	errCharacterIDEmpty  = "character ID must be positive"
	errCampaignIDEmpty   = "campaign ID must be positive"
	errCharacterNotFound = "character %d not found"
)

func characterKey(id int64) string {
	return characterKeyPrefix + strconv.FormatInt(id, 10)
}

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.CampaignID <= 0 {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	id, err := r.client.Incr(ctx, characterSeqKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate character id")
	}

	char := *input.Character
	char.ID = id

	data, err := json.Marshal(&char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKey(id), data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(campaignIndexFmt, char.CampaignID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: &char}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	char, err := redisclient.GetJSON[entities.Character](ctx, r.client, characterKey(input.ID),
		fmt.Sprintf(errCharacterNotFound, input.ID))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: char}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Character.ID})
	if err != nil {
		return nil, err
	}

	// campaign membership never moves
	updated := *existing.Character
	updated.Name = input.Character.Name
	updated.AC = input.Character.AC
	updated.BaseInitiative = input.Character.BaseInitiative

	data, err := json.Marshal(&updated)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}
	if err := r.client.Set(ctx, characterKey(updated.ID), data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update character")
	}

	return &UpdateOutput{Character: &updated}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	existing, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKey(input.ID))
	pipe.SRem(ctx, fmt.Sprintf(campaignIndexFmt, existing.Character.CampaignID), input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListByCampaignOutput, error) {
	if input.CampaignID <= 0 {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, fmt.Sprintf(campaignIndexFmt, input.CampaignID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign characters")
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = characterKeyPrefix + id
	}
	chars, err := redisclient.MGetJSON[entities.Character](ctx, r.client, keys)
	if err != nil {
		return nil, err
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })

	return &ListByCampaignOutput{Characters: chars}, nil
}

var _ Repository = (*redisRepository)(nil)
