package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink-io/snaplink/internal/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret)
	userID := uuid.New()

	t.Run("resolves a valid token to a caller", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub":  userID.String(),
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		caller, err := verifier.Verify(token)

		require.NoError(t, err)
		assert.Equal(t, userID, caller.ID)
		assert.Equal(t, auth.RoleAdmin, caller.Role)
		assert.True(t, caller.IsAdmin())
	})

	t.Run("defaults a missing role to user", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		caller, err := verifier.Verify(token)

		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, caller.Role)
		assert.False(t, caller.IsAdmin())
	})

	t.Run("rejects a token signed with the wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := verifier.Verify(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := verifier.Verify(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects disallowed signing methods", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS384, testSecret, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := verifier.Verify(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects a non-uuid subject", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := verifier.Verify(token)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
