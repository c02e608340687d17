package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/d20tracker/d20-api/internal/errors"
)

// GetJSON reads key into a new T. A missing key is reported as
// errors.NotFound with notFoundMsg.
func GetJSON[T any](ctx context.Context, c redis.Cmdable, key, notFoundMsg string) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFound(notFoundMsg)
		}
		return nil, errors.Wrapf(err, "failed to get %s", key)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s", key)
	}
	return &v, nil
}

// MGetJSON reads keys in one round trip and decodes the ones that exist,
// keeping their order.
func MGetJSON[T any](ctx context.Context, c redis.Cmdable, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load values")
	}

	out := make([]*T, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal %s", keys[i])
		}
		out = append(out, &item)
	}
	return out, nil
}
