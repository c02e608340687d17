package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d20tracker/d20-api/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("req")

	assert.Equal(t, "req_1", gen.Generate())
	assert.Equal(t, "req_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("req")

	first := gen.Generate()
	second := gen.Generate()

	assert.True(t, strings.HasPrefix(first, "req_"))
	assert.Len(t, first, len("req_")+36)
	assert.NotEqual(t, first, second)
}

func TestUUIDGeneratorIsTimeOrdered(t *testing.T) {
	gen := idgen.NewUUID("")

	first := gen.Generate()
	second := gen.Generate()

	assert.Len(t, first, 36)
	assert.Equal(t, "7", first[14:15], "version nibble")
	assert.Less(t, first, second)
}

func TestTokenGenerator(t *testing.T) {
	gen := idgen.NewToken()

	first := gen.Generate()
	second := gen.Generate()

	assert.Len(t, first, 22)
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotEqual(t, first, second)
}
