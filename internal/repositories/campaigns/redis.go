package campaigns

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/d20tracker/d20-api/internal/entities"
	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
)

const (
	campaignSeqKey    = "campaign:seq"
	campaignKeyPrefix = "campaign:"
	ownerIndexPrefix  = "campaign:owner:"
	memberIndexPrefix = "campaign:member:"
	membersKeySuffix  = ":members"
	joinedKeySuffix   = ":joined"
	inviteKeyPrefix   = "campaign:invite:"

	maxTxRetries = 8

	errCampaignNil      = "campaign cannot be nil"
	errCampaignIDEmpty  = "campaign ID must be positive"
	errUserIDEmpty      = "user ID must be positive"
	errCampaignNotFound = "campaign %d not found"
	errInviteNotFound   = "invite not found"
	errTokenEmpty       = "invite token cannot be blank"
)

func campaignKey(id int64) string {
	return campaignKeyPrefix + strconv.FormatInt(id, 10)
}

func membersKey(id int64) string {
	return campaignKey(id) + membersKeySuffix
}

func joinedKey(id int64) string {
	return campaignKey(id) + joinedKeySuffix
}

func inviteKey(token string) string {
	return inviteKeyPrefix + token
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis campaign repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
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

// NewRedis creates a new Redis-backed campaign repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Campaign == nil {
		return nil, errors.InvalidArgument(errCampaignNil)
	}
	if input.Campaign.OwnerID <= 0 {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	id, err := r.client.Incr(ctx, campaignSeqKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate campaign id")
	}

	campaign := *input.Campaign
	campaign.ID = id
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = r.clock.Now()
	}

	data, err := json.Marshal(&campaign)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal campaign")
	}

	owner := strconv.FormatInt(campaign.OwnerID, 10)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, campaignKey(id), data, 0)
	pipe.SAdd(ctx, ownerIndexPrefix+owner, id)
	pipe.HSet(ctx, membersKey(id), owner, string(entities.MemberRoleGM))
	pipe.HSet(ctx, joinedKey(id), owner, formatJoined(campaign.CreatedAt))
	pipe.SAdd(ctx, memberIndexPrefix+owner, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create campaign")
	}

	return &CreateOutput{Campaign: &campaign}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID <= 0 {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	campaign, err := redisclient.GetJSON[entities.Campaign](ctx, r.client, campaignKey(input.ID),
		fmt.Sprintf(errCampaignNotFound, input.ID))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Campaign: campaign}, nil
}

func (r *redisRepository) ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, ownerIndexPrefix+strconv.FormatInt(input.OwnerID, 10)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read owner index")
	}
	return r.loadMany(ctx, ids)
}

func (r *redisRepository) ListByMember(ctx context.Context, input ListByMemberInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, memberIndexPrefix+strconv.FormatInt(input.UserID, 10)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read member index")
	}

	user := strconv.FormatInt(input.UserID, 10)
	matching := make([]string, 0, len(ids))
	for _, id := range ids {
		role, err := r.client.HGet(ctx, campaignKeyPrefix+id+membersKeySuffix, user).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, errors.Wrap(err, "failed to read membership")
		}
		if input.Role == "" || entities.MemberRole(role) == input.Role {
			matching = append(matching, id)
		}
	}
	return r.loadMany(ctx, matching)
}

func (r *redisRepository) SetMember(ctx context.Context, input SetMemberInput) (*SetMemberOutput, error) {
	if input.UserID <= 0 {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if err := r.ensureExists(ctx, input.CampaignID); err != nil {
		return nil, err
	}

	user := strconv.FormatInt(input.UserID, 10)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, membersKey(input.CampaignID), user, string(input.Role))
	pipe.HSetNX(ctx, joinedKey(input.CampaignID), user, formatJoined(r.clock.Now()))
	pipe.SAdd(ctx, memberIndexPrefix+user, input.CampaignID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to set member")
	}
	return &SetMemberOutput{}, nil
}

func (r *redisRepository) RemoveMember(ctx context.Context, input RemoveMemberInput) (*RemoveMemberOutput, error) {
	if err := r.ensureExists(ctx, input.CampaignID); err != nil {
		return nil, err
	}

	user := strconv.FormatInt(input.UserID, 10)
	pipe := r.client.TxPipeline()
	removed := pipe.HDel(ctx, membersKey(input.CampaignID), user)
	pipe.HDel(ctx, joinedKey(input.CampaignID), user)
	pipe.SRem(ctx, memberIndexPrefix+user, input.CampaignID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to remove member")
	}
	if removed.Val() == 0 {
		return nil, errors.NotFoundf("user %d is not a member of campaign %d", input.UserID, input.CampaignID)
	}
	return &RemoveMemberOutput{}, nil
}

func (r *redisRepository) GetMemberRole(ctx context.Context, input GetMemberRoleInput) (*GetMemberRoleOutput, error) {
	if err := r.ensureExists(ctx, input.CampaignID); err != nil {
		return nil, err
	}

	role, err := r.client.HGet(ctx, membersKey(input.CampaignID), strconv.FormatInt(input.UserID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &GetMemberRoleOutput{}, nil
		}
		return nil, errors.Wrap(err, "failed to read membership")
	}
	return &GetMemberRoleOutput{Role: entities.MemberRole(role)}, nil
}

func (r *redisRepository) ListMembers(ctx context.Context, input ListMembersInput) (*ListMembersOutput, error) {
	if err := r.ensureExists(ctx, input.CampaignID); err != nil {
		return nil, err
	}

	roles, err := r.client.HGetAll(ctx, membersKey(input.CampaignID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read members")
	}
	joined, err := r.client.HGetAll(ctx, joinedKey(input.CampaignID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read join times")
	}

	members := make([]*entities.Member, 0, len(roles))
	for user, role := range roles {
		id, err := strconv.ParseInt(user, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad member id %q", user)
		}
		m := &entities.Member{UserID: id, Role: entities.MemberRole(role)}
		if raw, ok := joined[user]; ok {
			if m.JoinedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
				return nil, errors.Wrapf(err, "bad join time for member %d", id)
			}
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UserID < members[j].UserID
	})
	return &ListMembersOutput{Members: members}, nil
}

func (r *redisRepository) CreateInvite(ctx context.Context, input CreateInviteInput) (*CreateInviteOutput, error) {
	if input.Invite == nil {
		return nil, errors.InvalidArgument("invite cannot be nil")
	}
	if strings.TrimSpace(input.Invite.Token) == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}
	if err := r.ensureExists(ctx, input.Invite.CampaignID); err != nil {
		return nil, err
	}

	inv := *input.Invite
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = r.clock.Now()
	}
	data, err := json.Marshal(&inv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal invite")
	}

	ok, err := r.client.SetNX(ctx, inviteKey(inv.Token), data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create invite")
	}
	if !ok {
		return nil, errors.InvalidArgument("invite token already in use")
	}
	return &CreateInviteOutput{Invite: &inv}, nil
}

func (r *redisRepository) GetInvite(ctx context.Context, input GetInviteInput) (*GetInviteOutput, error) {
	if strings.TrimSpace(input.Token) == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}

	inv, err := redisclient.GetJSON[entities.Invite](ctx, r.client, inviteKey(input.Token), errInviteNotFound)
	if err != nil {
		return nil, err
	}
	return &GetInviteOutput{Invite: inv}, nil
}

func (r *redisRepository) DeactivateInvite(
	ctx context.Context,
	input DeactivateInviteInput,
) (*DeactivateInviteOutput, error) {
	if strings.TrimSpace(input.Token) == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}

	key := inviteKey(input.Token)
	var out *DeactivateInviteOutput
	txf := func(tx *redis.Tx) error {
		inv, err := redisclient.GetJSON[entities.Invite](ctx, tx, key, errInviteNotFound)
		if err != nil {
			return err
		}
		out = &DeactivateInviteOutput{Invite: inv}
		if !inv.Active {
			return nil
		}

		inv.Active = false
		data, err := json.Marshal(inv)
		if err != nil {
			return errors.Wrap(err, "failed to marshal invite")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *redisRepository) RedeemInvite(ctx context.Context, input RedeemInviteInput) (*RedeemInviteOutput, error) {
	if strings.TrimSpace(input.Token) == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}
	if input.UserID <= 0 {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := inviteKey(input.Token)
	user := strconv.FormatInt(input.UserID, 10)
	var out *RedeemInviteOutput
	txf := func(tx *redis.Tx) error {
		inv, err := redisclient.GetJSON[entities.Invite](ctx, tx, key, errInviteNotFound)
		if err != nil {
			return err
		}
		if input.Check != nil {
			if err := input.Check(inv); err != nil {
				return err
			}
		}
		if err := tx.Watch(ctx, membersKey(inv.CampaignID)).Err(); err != nil {
			return errors.Wrap(err, "failed to watch members")
		}

		role, err := tx.HGet(ctx, membersKey(inv.CampaignID), user).Result()
		switch {
		case err == nil:
			out = &RedeemInviteOutput{Invite: inv, Role: entities.MemberRole(role)}
			return nil
		case !errors.Is(err, redis.Nil):
			return errors.Wrap(err, "failed to read membership")
		}

		inv.Uses++
		data, err := json.Marshal(inv)
		if err != nil {
			return errors.Wrap(err, "failed to marshal invite")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, membersKey(inv.CampaignID), user, string(entities.MemberRoleObserver))
			pipe.HSetNX(ctx, joinedKey(inv.CampaignID), user, formatJoined(r.clock.Now()))
			pipe.SAdd(ctx, memberIndexPrefix+user, inv.CampaignID)
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		out = &RedeemInviteOutput{Invite: inv, Role: entities.MemberRoleObserver, Joined: true}
		return nil
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return nil, err
	}
	return out, nil
}

// watch runs txf under WATCH, retrying when a watched key changed
func (r *redisRepository) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
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
		return errors.Wrap(err, "campaign transaction failed")
	}
	return errors.Abortedf("campaign write conflicted %d times", maxTxRetries)
}

func formatJoined(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *redisRepository) ensureExists(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.InvalidArgument(errCampaignIDEmpty)
	}
	n, err := r.client.Exists(ctx, campaignKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, "failed to check campaign")
	}
	if n == 0 {
		return errors.NotFoundf(errCampaignNotFound, id)
	}
	return nil
}

func (r *redisRepository) loadMany(ctx context.Context, ids []string) (*ListOutput, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = campaignKeyPrefix + id
	}
	campaigns, err := redisclient.MGetJSON[entities.Campaign](ctx, r.client, keys)
	if err != nil {
		return nil, err
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID < campaigns[j].ID })
	return &ListOutput{Campaigns: campaigns}, nil
}

var _ Repository = (*redisRepository)(nil)
