package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hashed)

	assert.NoError(t, ComparePassword(hashed, "correct horse"))
	assert.Error(t, ComparePassword(hashed, "battery staple"))
	assert.Error(t, ComparePassword("not a hash", "correct horse"))
}
