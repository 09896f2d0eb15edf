package auth

import (
	"errors"
	"testing"
	"time"

	"cv-platform-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)

	token, err := svc.Issue(domain.Identity{ID: "user-1", Role: domain.RoleRecruiter})
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, domain.RoleRecruiter, id.Role)
}

func TestVerifyRejects(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)

	t.Run("expired token", func(t *testing.T) {
		past := NewTokenService("s3cret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.Issue(domain.Identity{ID: "user-1", Role: domain.RoleCandidate})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other", time.Hour)
		token, err := other.Issue(domain.Identity{ID: "user-1", Role: domain.RoleCandidate})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"id":  "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour).Issue(domain.Identity{ID: "x"})
	assert.ErrorIs(t, err, ErrNoSecret)
}
