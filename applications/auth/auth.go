package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tasktrack/applications/access"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of tokens issued at login.
const DefaultTokenTTL = 12 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// UserClaims is the token payload: {sub, email, role, iat, exp}.
type UserClaims struct {
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the caller identity carried by the token.
func (c *UserClaims) Principal() access.Principal {
	return access.Principal{Subject: c.Subject, Email: c.Email, Role: c.Role}
}

// TokenService issues and verifies HS256 bearer tokens. The secret is fixed at
// construction and never changes afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

func NewTokenService(secret string, ttl time.Duration, log *slog.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	log.Info("[auth] JWT configuration loaded and signing key initialized.")
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}, nil
}

// WithClock replaces the time source used for iat/exp and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL is the lifetime applied when Issue is called with a non-positive ttl.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for subject. A non-positive ttl selects the
// service default.
func (s *TokenService) Issue(subject, email string, role access.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := UserClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.log.Error(fmt.Sprintf("[auth] Failed to sign JWT for user %s: %v", subject, err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Debug(fmt.Sprintf("[auth] Generated JWT for user %s (Role: %s).", subject, role))
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Failures wrap ErrTokenExpired or ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or unknown role", ErrInvalidToken)
	}
	return claims, nil
}
