// Package idgen generates request identifiers for log correlation and
// invite tokens. Stored records use Redis sequences instead.
package idgen

import (
	"encoding/base64"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// UUIDGenerator issues time-ordered UUIDv7 identifiers so request IDs sort
// by arrival in logs.
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a UUID generator; prefix may be empty
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns prefix_<uuid>
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return withPrefix(g.prefix, id.String())
}

// TokenGenerator issues unguessable URL-safe tokens: 16 random bytes,
// base64url without padding.
type TokenGenerator struct{}

// NewToken creates a token generator
func NewToken() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a 22 character token
func (g *TokenGenerator) Generate() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// SequentialGenerator counts from 1, for tests that assert on IDs
type SequentialGenerator struct {
	prefix string
	n      atomic.Uint64
}

// NewSequential creates a sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next number, prefixed
func (g *SequentialGenerator) Generate() string {
	return withPrefix(g.prefix, strconv.FormatUint(g.n.Add(1), 10))
}

func withPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
