// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesUniqueSaltedHashes(t *testing.T) {
	first, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	second, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "$argon2id$"))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-password-1")
	require.NoError(t, err)

	valid, err := VerifyPassword("secret-password-1", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-a-phc-string")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafeMissingAccount(t *testing.T) {
	valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, newHash)

	empty := ""
	valid, newHash, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeMatchesRealHash(t *testing.T) {
	hash, err := HashPassword("secret-password-2")
	require.NoError(t, err)

	valid, newHash, err := VerifyPasswordTimingSafe("secret-password-2", &hash)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, newHash, "current parameters should not trigger a rehash")
}

func TestGenerateResetSecret(t *testing.T) {
	secret, err := GenerateResetSecret()
	require.NoError(t, err)

	// 20 random bytes, hex-encoded.
	assert.Len(t, secret, 40)

	other, err := GenerateResetSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))

	// sha256 hex digest.
	assert.Len(t, HashToken("abc"), 64)
}

func TestCompareTokenHash(t *testing.T) {
	secret, err := GenerateResetSecret()
	require.NoError(t, err)

	hash := HashToken(secret)

	assert.True(t, CompareTokenHash(secret, hash))
	assert.False(t, CompareTokenHash("tampered", hash))
}
