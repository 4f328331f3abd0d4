package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tasktrack/metrics"

	"github.com/labstack/echo/v4"
)

const claimsKey = "auth.claims"

// JWTAuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the decoded claims on the echo context.
func JWTAuthMiddleware(tokens *TokenService, m *metrics.Metrics, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				log.Warn(fmt.Sprintf("[auth] JWT check failed for %s: missing bearer token.", c.Path()))
				m.AuthRejected("missing")
				return c.JSON(http.StatusUnauthorized, map[string]string{"msg": "missing authorization header"})
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				reason, msg := "invalid", "invalid token"
				if errors.Is(err, ErrTokenExpired) {
					reason, msg = "expired", "token has expired"
				}
				log.Warn(fmt.Sprintf("[auth] JWT rejected for %s: %v", c.Path(), err))
				m.AuthRejected(reason)
				return c.JSON(http.StatusUnauthorized, map[string]string{"msg": msg})
			}

			c.Set(claimsKey, claims)
			log.Debug(fmt.Sprintf("[auth] JWT validated. Subject: %s, Role: %s", claims.Subject, claims.Role))
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by JWTAuthMiddleware.
func ClaimsFrom(c echo.Context) (*UserClaims, bool) {
	claims, ok := c.Get(claimsKey).(*UserClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
