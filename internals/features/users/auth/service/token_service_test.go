package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalku_backend/internals/configs"
	"evalku_backend/internals/constants"
	userModel "evalku_backend/internals/features/users/user/model"
)

func withSecrets(t *testing.T) {
	t.Helper()
	oldAccess, oldRefresh := configs.JWTSecret, configs.JWTRefreshSecret
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
	t.Cleanup(func() {
		configs.JWTSecret = oldAccess
		configs.JWTRefreshSecret = oldRefresh
	})
}

func testUser() *userModel.UserModel {
	return &userModel.UserModel{
		ID:    7,
		Email: "t@school.com",
		Role:  constants.RoleTeacher,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	withSecrets(t)

	raw, err := GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "t@school.com", claims.Email)
	assert.Equal(t, constants.RoleTeacher, claims.Role)
}

func TestRefreshTokenUsesOwnSecret(t *testing.T) {
	withSecrets(t)

	refresh, err := GenerateRefreshToken(testUser())
	require.NoError(t, err)

	// a refresh token must not pass as an access token
	_, err = ParseAccessToken(refresh)
	require.Error(t, err)

	claims, err := ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestParseRejectsGarbage(t *testing.T) {
	withSecrets(t)

	_, err := ParseAccessToken("not.a.token")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid or expired token")
}

func TestGenerateWithoutSecret(t *testing.T) {
	withSecrets(t)
	configs.JWTSecret = ""

	_, err := GenerateAccessToken(testUser())
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, VerifyPassword(hash, "hunter2hunter2"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword(hash, ""))
}
