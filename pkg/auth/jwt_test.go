package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orlogbook/orlog-api/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    "user-1",
		Email: "nurse@hospital.org",
		Role:  model.RoleNurse,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(Config{Secret: "secret-a", RefreshSecret: "secret-b"})

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "nurse@hospital.org", claims.Email)
	assert.Equal(t, "nurse", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	svc := NewJWTService(Config{Secret: "secret-a", RefreshSecret: "secret-b"})

	access, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(Config{Secret: "secret-a", RefreshSecret: "secret-b"})
	verifier := NewJWTService(Config{Secret: "different", RefreshSecret: "secret-b"})

	token, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(Config{
		Secret:        "secret-a",
		RefreshSecret: "secret-b",
		Expiry:        -time.Minute,
	})

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService(Config{Secret: "secret-a", RefreshSecret: "secret-b"})

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
