package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOneTimeToken(t *testing.T) {
	token, err := NewOneTimeToken()
	require.NoError(t, err)

	assert.Len(t, token.String(), oneTimeTokenBytes*2)
}

func TestNewOneTimeTokenIsUnique(t *testing.T) {
	seen := make(map[OneTimeToken]bool)
	for range 100 {
		token, err := NewOneTimeToken()
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestTokenDigest(t *testing.T) {
	token, err := NewOneTimeToken()
	require.NoError(t, err)

	digest := token.Digest()
	assert.NotEqual(t, token.String(), digest)
	assert.Equal(t, digest, HashToken(token.String()))
	assert.Len(t, digest, 64)
}
