// Package redis wraps go-redis for the repositories: a narrow Client
// interface that miniredis can back in tests, connection setup, and JSON
// value helpers.
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d20tracker/d20-api/internal/errors"
)

// Client is what repositories depend on. *redis.Client and
// *redis.ClusterClient both satisfy it.
type Client interface {
	redis.UniversalClient
}

// Options configures a single-instance connection
type Options struct {
	Addr     string
	Password string
	DB       int
	// PoolSize of zero lets go-redis pick from GOMAXPROCS
	PoolSize    int
	DialTimeout time.Duration
	UseTLS      bool
}

// Validate validates the Options
func (o *Options) Validate() error {
	vb := errors.NewValidationBuilder()
	vb.NotBlank("Addr", o.Addr)
	vb.Min("DB", o.DB, 0)
	vb.Min("PoolSize", o.PoolSize, 0)
	return vb.Build()
}

// NewClient creates a client without dialing
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		return nil, errors.InvalidArgument("options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis options")
	}

	redisOpts := &redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	}
	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(redisOpts), nil
}

// Connect creates a client and pings it, so a bad address fails at startup
// rather than on the first request.
func Connect(ctx context.Context, opts *Options) (Client, error) {
	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
	}
	return client, nil
}
