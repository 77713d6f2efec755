package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	again, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")

	ok, err := hasher.Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("secret2", hash)
	require.NoError(t, err, "mismatch is not an error")
	assert.False(t, ok)

	_, err = hasher.Hash("")
	assert.Error(t, err)

	_, err = hasher.Verify("", hash)
	assert.Error(t, err)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
