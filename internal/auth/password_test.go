package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "secret1")

	assert.True(t, hasher.Verify("secret1", hash))
	assert.False(t, hasher.Verify("secret2", hash))
}

func TestHasher_SaltsPerCall(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestHasher_MalformedHash(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)
	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("anything", ""))
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(100)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
