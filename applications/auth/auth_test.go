package auth

import (
	"strings"
	"testing"
	"time"

	"tasktrack/applications/access"
	"tasktrack/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestTokens(t *testing.T, now time.Time) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour, logger.NewForTests())
	require.NoError(t, err)
	return s.WithClock(func() time.Time { return now })
}

func TestNewTokenService(t *testing.T) {
	t.Run("Should reject an empty secret", func(t *testing.T) {
		_, err := NewTokenService("", time.Hour, logger.NewForTests())
		assert.Error(t, err)
	})

	t.Run("Should fall back to the default ttl", func(t *testing.T) {
		s, err := NewTokenService(testSecret, 0, logger.NewForTests())
		require.NoError(t, err)
		assert.Equal(t, DefaultTokenTTL, s.TTL())
	})
}

func TestTokenService_IssueVerify(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should round-trip subject, email and role", func(t *testing.T) {
		s := newTestTokens(t, now)
		token, err := s.Issue("7", "alice@x.io", access.RoleAdmin, 0)
		require.NoError(t, err)

		claims, err := s.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "7", claims.Subject)
		assert.Equal(t, "alice@x.io", claims.Email)
		assert.Equal(t, access.RoleAdmin, claims.Role)
		assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.Equal(t, access.Principal{Subject: "7", Email: "alice@x.io", Role: access.RoleAdmin}, claims.Principal())
	})

	t.Run("Should honor an explicit ttl", func(t *testing.T) {
		s := newTestTokens(t, now)
		token, err := s.Issue("7", "alice@x.io", access.RoleBasic, 5*time.Minute)
		require.NoError(t, err)

		claims, err := s.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, now.Add(5*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("Should report an expired token", func(t *testing.T) {
		s := newTestTokens(t, now)
		token, err := s.Issue("7", "alice@x.io", access.RoleBasic, time.Minute)
		require.NoError(t, err)

		s.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
		_, err = s.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		other, err := NewTokenService("other-secret", time.Hour, logger.NewForTests())
		require.NoError(t, err)
		token, err := other.WithClock(func() time.Time { return now }).Issue("7", "a@x.io", access.RoleBasic, 0)
		require.NoError(t, err)

		_, err = newTestTokens(t, now).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject a tampered payload", func(t *testing.T) {
		s := newTestTokens(t, now)
		token, err := s.Issue("7", "alice@x.io", access.RoleBasic, 0)
		require.NoError(t, err)

		elevated, err := s.Issue("7", "alice@x.io", access.RoleAdmin, 0)
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		forged := strings.Split(elevated, ".")
		parts[1] = forged[1]

		_, err = s.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := newTestTokens(t, now).Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject the none algorithm", func(t *testing.T) {
		claims := UserClaims{
			Email: "alice@x.io",
			Role:  access.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "7",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = newTestTokens(t, now).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject a token without expiry", func(t *testing.T) {
		claims := UserClaims{
			Email:            "alice@x.io",
			Role:             access.RoleBasic,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newTestTokens(t, now).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject an unknown role", func(t *testing.T) {
		claims := UserClaims{
			Email: "alice@x.io",
			Role:  access.Role("root"),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "7",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newTestTokens(t, now).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	t.Run("Should verify the original password only", func(t *testing.T) {
		hash, err := h.Hash("s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", hash)
		assert.True(t, h.Verify("s3cret", hash))
		assert.False(t, h.Verify("S3cret", hash))
		assert.False(t, h.Verify("", hash))
	})

	t.Run("Should salt every hash", func(t *testing.T) {
		a, err := h.Hash("same")
		require.NoError(t, err)
		b, err := h.Hash("same")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Should treat a malformed hash as a mismatch", func(t *testing.T) {
		assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	})

	t.Run("Should clamp an out of range cost", func(t *testing.T) {
		assert.Equal(t, 10, NewBcryptHasher(0).cost)
		assert.Equal(t, 10, NewBcryptHasher(99).cost)
	})

	t.Run("Should refuse passwords longer than 72 bytes", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", 73))
		assert.Error(t, err)
	})
}
