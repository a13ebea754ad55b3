package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("651f1f77bcf86cd799439011", "Marta", "Kovacs", "marta@example.com", "manager")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "651f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "marta@example.com", claims.Email)
	assert.True(t, claims.IsManager())
	assert.True(t, claims.IsOwner("651f1f77bcf86cd799439011"))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := IssueToken("651f1f77bcf86cd799439011", "Marta", "Kovacs", "marta@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := IssueToken("id", "a", "b", "c@example.com", "user")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
