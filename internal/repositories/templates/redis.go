package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
)

const (
	templateSeqKey    = "template:seq"
	templateKeyPrefix = "template:"
	campaignIndexFmt  = "campaign:%d:templates"
)

func templateKey(id int64) string {
	return templateKeyPrefix + strconv.FormatInt(id, 10)
}

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis template repository
type RedisConfig struct {
	Client redisclient.Client
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

// NewRedis creates a new Redis-backed template repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Template == nil {
		return nil, errors.InvalidArgument("template cannot be nil")
	}
	if input.Template.CampaignID <= 0 {
		return nil, errors.InvalidArgument("campaign ID must be positive")
	}

	id, err := r.client.Incr(ctx, templateSeqKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate template id")
	}

	tpl := *input.Template
	tpl.ID = id

	data, err := json.Marshal(&tpl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal template")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, templateKey(id), data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(campaignIndexFmt, tpl.CampaignID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create template")
	}

	return &CreateOutput{Template: &tpl}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument("template ID must be positive")
	}

	tpl, err := redisclient.GetJSON[entities.Template](ctx, r.client, templateKey(input.ID),
		fmt.Sprintf("template %d not found", input.ID))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Template: tpl}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	existing, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, templateKey(input.ID))
	pipe.SRem(ctx, fmt.Sprintf(campaignIndexFmt, existing.Template.CampaignID), input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete template")
	}
	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListByCampaignOutput, error) {
	ids, err := r.client.SMembers(ctx, fmt.Sprintf(campaignIndexFmt, input.CampaignID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read template index")
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = templateKeyPrefix + id
	}
	list, err := redisclient.MGetJSON[entities.Template](ctx, r.client, keys)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})

	return &ListByCampaignOutput{Templates: list}, nil
}

var _ Repository = (*redisRepository)(nil)
