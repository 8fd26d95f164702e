package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("Secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1", hash)

	ok, err := h.Verify("Secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("WRONG", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	ok, err := h.Verify("", "$2a$04$invalid")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	ok, err := h.Verify("Secret1", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, (&BcryptHasher{}).cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher().cost())
}
