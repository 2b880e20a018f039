package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "pw", hash)

	assert.True(t, VerifyPassword(hash, "pw"))
	assert.False(t, VerifyPassword(hash, "pW"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestVerifyPasswordNoStoredHash(t *testing.T) {
	t.Parallel()

	// An account without a hash never verifies, regardless of input.
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("", ""))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("pw", 4)
	require.NoError(t, err)
	h2, err := HashPassword("pw", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
