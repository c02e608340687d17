// Package srd searches the D&D 5e SRD monster index through the dnd5e-api
// client.
package srd

//go:generate mockgen -destination=mock/mock_client.go -package=srdmock github.com/d20tracker/d20-api/internal/clients/srd Client

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/d20tracker/d20-api/internal/errors"
)

const (
	defaultBaseURL = "https://www.dnd5eapi.co/api/2014/"
	defaultLimit   = 20
)

// Monster is one entry of the SRD monster index
type Monster struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Client defines the interface for SRD reference lookups
type Client interface {
	// SearchMonsters returns monsters whose name contains query, prefix
	// matches first. An empty query lists the index from the top.
	SearchMonsters(ctx context.Context, query string, limit int) ([]*Monster, error)
}

// MonsterSource is the part of dnd5e.Interface the client needs
type MonsterSource interface {
	ListMonsters() ([]*entities.ReferenceItem, error)
}

// Config contains configuration options for the SRD client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// Source replaces the dnd5e-api client, mostly for tests
	Source MonsterSource
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	vb := errors.NewValidationBuilder()
	if cfg.HTTPTimeout < 0 {
		vb.Field("HTTPTimeout", "must be positive")
	}
	if cfg.CacheTTL < 0 {
		vb.Field("CacheTTL", "must be positive")
	}
	return vb.Build()
}

type client struct {
	source MonsterSource
}

// New creates a new SRD client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Source != nil {
		return &client{source: cfg.Source}, nil
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	// the monster index is fetched once per CacheTTL
	return &client{source: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)}, nil
}

func (c *client) SearchMonsters(ctx context.Context, query string, limit int) ([]*Monster, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	refs, err := c.source.ListMonsters()
	if err != nil {
		slog.WarnContext(ctx, "SRD monster index unavailable", "error", err)
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list SRD monsters")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	type match struct {
		monster *Monster
		prefix  bool
	}
	matches := make([]match, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		name := strings.ToLower(ref.Name)
		if !strings.Contains(name, q) {
			continue
		}
		matches = append(matches, match{
			monster: &Monster{Key: ref.Key, Name: ref.Name},
			prefix:  strings.HasPrefix(name, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].monster.Name < matches[j].monster.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*Monster, len(matches))
	for i, m := range matches {
		out[i] = m.monster
	}
	return out, nil
}
