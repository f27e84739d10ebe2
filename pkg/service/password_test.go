package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)

	ok, err := hasher.Verify("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pw")
	require.NoError(t, err)
	second, err := hasher.Hash("pw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_UsesConfiguredCost(t *testing.T) {
	hash, err := NewPasswordHasher(11).Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 11, cost)
}

func TestPasswordHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	hash, err := NewPasswordHasher(100).Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPasswordHasher_CorruptHash(t *testing.T) {
	ok, err := NewPasswordHasher(bcrypt.MinCost).Verify("pw", "not-a-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}
