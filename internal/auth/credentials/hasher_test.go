package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("Libby123!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "Libby123!"))
	assert.False(t, VerifyPassword(hash, "libby123!"))
	assert.False(t, VerifyPassword(hash, "Libby123! "))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, VerifyPassword(first, "same-password"))
	assert.True(t, VerifyPassword(second, "same-password"))
}

func TestHashPassword_InputErrors(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrPasswordEmpty)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestVerifyPassword_MalformedStoredHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, VerifyPassword("$2a$10$tooshort", "anything"))
}
