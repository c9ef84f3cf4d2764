package services

import (
	"context"
	"testing"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/models"
	"github.com/blink-dev/blink/internal/shortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sequenceGenerator struct {
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

func blinkFixtures(t *testing.T, database *gorm.DB) (alice *models.User, home, other *models.Workspace) {
	t.Helper()

	workspaces := NewWorkspaceService(testLogger(), database)
	alice = createUser(t, database, "a@x.com")

	var err error
	home, err = workspaces.Create(context.Background(), alice.ID, "Home")
	require.NoError(t, err)
	other, err = workspaces.Create(context.Background(), alice.ID, "Other")
	require.NoError(t, err)

	return alice, home, other
}

func TestCreateBlinkAllocatesCode(t *testing.T) {
	database := newTestDB(t)
	service := NewBlinkService(testLogger(), database, shortcode.NewGenerator())
	alice, home, _ := blinkFixtures(t, database)

	blink, err := service.Create(context.Background(), home.ID, alice.ID, "x", "https://e.com", "")
	require.NoError(t, err)

	assert.Len(t, blink.RedirectCode, shortcode.CodeLength)
	require.NotNil(t, blink.CreatorID)
	assert.Equal(t, alice.ID, *blink.CreatorID)

	resolved, err := service.Resolve(context.Background(), blink.RedirectCode)
	require.NoError(t, err)
	assert.Equal(t, blink.ID, resolved.ID)
}

func TestCreateBlinkSkipsTakenCodes(t *testing.T) {
	database := newTestDB(t)
	gen := &sequenceGenerator{codes: []string{"AAAAAAAA", "BBBBBBBB"}}
	service := NewBlinkService(testLogger(), database, gen)
	alice, home, _ := blinkFixtures(t, database)
	ctx := context.Background()

	first, err := service.Create(ctx, home.ID, alice.ID, "one", "https://e.com", "")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA", first.RedirectCode)

	gen.calls = 0

	second, err := service.Create(ctx, home.ID, alice.ID, "two", "https://e.com", "")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", second.RedirectCode, "allocator skipped the taken candidate")
}

func TestCreateBlinkExhaustsAllocator(t *testing.T) {
	database := newTestDB(t)
	gen := &sequenceGenerator{codes: []string{"AAAAAAAA"}}
	service := NewBlinkService(testLogger(), database, gen)
	alice, home, _ := blinkFixtures(t, database)
	ctx := context.Background()

	_, err := service.Create(ctx, home.ID, alice.ID, "one", "https://e.com", "")
	require.NoError(t, err)

	_, err = service.Create(ctx, home.ID, alice.ID, "two", "https://e.com", "")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRedirectIDExhausted, apperr.From(err).Code)
}

func TestCustomCodeIsGloballyUnique(t *testing.T) {
	database := newTestDB(t)
	service := NewBlinkService(testLogger(), database, shortcode.NewGenerator())
	alice, home, other := blinkFixtures(t, database)
	ctx := context.Background()

	_, err := service.Create(ctx, home.ID, alice.ID, "one", "https://e.com", "mycode01")
	require.NoError(t, err)

	// Same code in a different workspace still collides: uniqueness is
	// global, not per workspace.
	_, err = service.Create(ctx, other.ID, alice.ID, "two", "https://e.com", "mycode01")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.From(err).Code)
}

func TestUpdateBlinkKeepsCode(t *testing.T) {
	database := newTestDB(t)
	service := NewBlinkService(testLogger(), database, shortcode.NewGenerator())
	alice, home, _ := blinkFixtures(t, database)
	ctx := context.Background()

	blink, err := service.Create(ctx, home.ID, alice.ID, "x", "https://e.com", "")
	require.NoError(t, err)
	code := blink.RedirectCode

	updated, err := service.Update(ctx, blink, "renamed", "https://other.example")
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "https://other.example", updated.TargetURL)
	assert.Equal(t, code, updated.RedirectCode)
}

func TestGetAndResolveNotFound(t *testing.T) {
	database := newTestDB(t)
	service := NewBlinkService(testLogger(), database, shortcode.NewGenerator())
	_, home, _ := blinkFixtures(t, database)
	ctx := context.Background()

	_, err := service.Get(ctx, home.ID, 12345)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)

	_, err = service.Resolve(ctx, "unknown1")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
}

func TestDeleteBlinkFreesNothing(t *testing.T) {
	database := newTestDB(t)
	service := NewBlinkService(testLogger(), database, shortcode.NewGenerator())
	alice, home, _ := blinkFixtures(t, database)
	ctx := context.Background()

	blink, err := service.Create(ctx, home.ID, alice.ID, "x", "https://e.com", "")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, blink))

	_, err = service.Resolve(ctx, blink.RedirectCode)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
}
