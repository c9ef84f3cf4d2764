package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret12", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "secret12", hash)
	assert.True(t, CheckPassword("secret12", hash))
	assert.False(t, CheckPassword("secret13", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("secret12", 4)
	require.NoError(t, err)

	second, err := HashPassword("secret12", 4)
	require.NoError(t, err)

	// bcrypt embeds a fresh salt, so equal inputs never hash equal.
	assert.NotEqual(t, first, second)
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("secret12", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("", ""))
}
