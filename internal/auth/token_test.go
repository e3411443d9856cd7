package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herafna/marketplace/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	tokenStr, expiresAt, err := tm.GenerateToken("u-1", domain.RoleArtisan)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UID)
	assert.Equal(t, domain.RoleArtisan, claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
	assert.NotEmpty(t, claims.ID, "token id needed for revocation")
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenStr, _, err := NewTokenManager("secret-a", 60).GenerateToken("u-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	tokenStr, _, err := tm.GenerateToken("u-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not.a.jwt")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	first, _, err := tm.GenerateToken("u-1", domain.RoleUser)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken("u-1", domain.RoleUser)
	require.NoError(t, err)

	a, err := tm.ParseToken(first)
	require.NoError(t, err)
	b, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "each session revokes independently")
}
