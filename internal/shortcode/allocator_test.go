package shortcode

import (
	"context"
	"errors"
	"testing"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	codes []string
	calls int
}

func (g *stubGenerator) Generate() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

func takenSet(taken ...string) LookupFunc {
	set := make(map[string]bool, len(taken))
	for _, code := range taken {
		set[code] = true
	}
	return func(ctx context.Context, code string) (bool, error) {
		return set[code], nil
	}
}

func TestAllocateUnusedFirstTry(t *testing.T) {
	gen := &stubGenerator{codes: []string{"AAAAAAAA"}}
	alloc := NewAllocator(gen, takenSet())

	code, err := alloc.AllocateUnused(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAA", code)
	assert.Equal(t, 1, gen.calls)
}

func TestAllocateUnusedSkipsCollisions(t *testing.T) {
	gen := &stubGenerator{codes: []string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC"}}
	alloc := NewAllocator(gen, takenSet("AAAAAAAA", "BBBBBBBB"))

	code, err := alloc.AllocateUnused(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "CCCCCCCC", code)
	assert.Equal(t, 3, gen.calls)
}

func TestAllocateUnusedExhausted(t *testing.T) {
	gen := &stubGenerator{codes: []string{"AAAAAAAA"}}
	alloc := NewAllocator(gen, takenSet("AAAAAAAA"))

	_, err := alloc.AllocateUnused(context.Background())
	require.Error(t, err)

	assert.Equal(t, apperr.CodeRedirectIDExhausted, apperr.From(err).Code)
	assert.Equal(t, maxAttempts, gen.calls)
}

func TestAllocateUnusedLookupError(t *testing.T) {
	lookupErr := errors.New("database gone")
	gen := &stubGenerator{codes: []string{"AAAAAAAA"}}
	alloc := NewAllocator(gen, func(ctx context.Context, code string) (bool, error) {
		return false, lookupErr
	})

	_, err := alloc.AllocateUnused(context.Background())
	assert.ErrorIs(t, err, lookupErr)
}
