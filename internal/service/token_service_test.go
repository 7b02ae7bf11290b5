package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func signTestToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: "user-1",
		Email:  "student@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenServiceValidate(t *testing.T) {
	svc := NewTokenService("test_secret", nil)

	claims, err := svc.Validate(signTestToken(t, "test_secret", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestTokenServiceValidateWrongSecret(t *testing.T) {
	svc := NewTokenService("test_secret", nil)

	_, err := svc.Validate(signTestToken(t, "other_secret", time.Hour))
	assert.Error(t, err)
}

func TestTokenServiceValidateExpired(t *testing.T) {
	svc := NewTokenService("test_secret", nil)

	_, err := svc.Validate(signTestToken(t, "test_secret", -time.Minute))
	assert.Error(t, err)
}

func TestTokenServiceValidateGarbage(t *testing.T) {
	svc := NewTokenService("test_secret", nil)

	_, err := svc.Validate("not-a-token")
	assert.Error(t, err)
}
