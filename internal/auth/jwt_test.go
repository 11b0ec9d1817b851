package auth

import (
	"testing"

	"estate-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret-that-is-at-least-32-chars!!"
	user := &models.User{
		Email:      "agent@estate.test",
		Role:       models.RoleAgent,
		Department: "Sales",
	}
	user.ID = 42

	signed, err := GenerateToken(secret, user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "agent@estate.test", claims.Email)
	assert.Equal(t, models.RoleAgent, claims.Role)
	assert.Equal(t, "Sales", claims.Department)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestGenerateTokenWrongSecretFails(t *testing.T) {
	user := &models.User{Email: "a@b.test", Role: models.RoleAgent}
	user.ID = 1

	signed, err := GenerateToken("secret-one-that-is-long-enough-032ch", user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret-two-that-is-long-enough-032ch"), nil
	})
	assert.Error(t, err)
}
