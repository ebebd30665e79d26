package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, h.Compare("hunter2", hash))
	assert.False(t, h.Compare("wrong", hash))
	assert.False(t, h.Compare("hunter2", "not a bcrypt hash"))
}

func TestBcryptHasherSalts(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	first, err := h.Hash("hunter2")
	require.NoError(t, err)
	second, err := h.Hash("hunter2")
	require.NoError(t, err)

	// per-hash salt, so equal passwords never share a hash
	assert.NotEqual(t, first, second)
}
