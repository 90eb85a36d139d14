package auth

import (
	"testing"

	"floor-backend/internal/config"
	"floor-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "floor-test"
	cfg.JWT.ExpirationHours = 1
	return NewJWTManager(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager("secret")
	user := &models.User{ID: "u-1", Email: "sup@example.com", Role: models.RoleSupervisor}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleSupervisor, claims.Role)
	assert.Equal(t, "floor-test", claims.Issuer)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := testManager("secret")
	user := &models.User{ID: "u-1", Role: models.RoleAnalyst}

	stream, err := m.GenerateStreamToken(user)
	require.NoError(t, err)
	access, err := m.GenerateToken(user)
	require.NoError(t, err)

	_, err = m.ValidateToken(stream)
	assert.Error(t, err)
	_, err = m.ValidateStreamToken(access)
	assert.Error(t, err)

	claims, err := m.ValidateStreamToken(stream)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := testManager("one").GenerateToken(&models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = testManager("two").ValidateToken(token)
	assert.Error(t, err)
	_, err = testManager("one").ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("4321")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "4321"))
	assert.False(t, VerifyPassword(hash, "1234"))
	assert.False(t, VerifyPassword("", "4321"))
}
