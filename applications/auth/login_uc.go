package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"tasktrack/applications/apperr"
	"tasktrack/applications/user"
)

// UserFinder is the slice of the credential store login needs.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type LoginUC struct {
	log    *slog.Logger
	users  UserFinder
	hasher *BcryptHasher
	tokens *TokenService
}

func NewLoginUC(log *slog.Logger, users UserFinder, hasher *BcryptHasher, tokens *TokenService) *LoginUC {
	return &LoginUC{log: log, users: users, hasher: hasher, tokens: tokens}
}

// Invoke checks the credentials and returns a token valid for the service TTL.
// Unknown email and wrong password are indistinguishable to the caller.
func (uc *LoginUC) Invoke(ctx context.Context, params user.LoginParams) (string, error) {
	params.Email = user.NormalizeEmail(params.Email)
	uc.log.Info(fmt.Sprintf("[auth] Login attempt started for email: %s", params.Email))

	// 1. Retrieve the user record by email
	u, err := uc.users.FindUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			uc.log.Warn(fmt.Sprintf("[auth] Login failed for %s: user not found.", params.Email))
			return "", apperr.Authentication("bad credentials", err)
		}
		uc.log.Error(fmt.Sprintf("[auth] Login lookup failed for %s: %v", params.Email, err))
		return "", apperr.Store("db error", err)
	}

	// 2. Compare the provided password against the stored hash
	if params.Password == "" || !uc.hasher.Verify(params.Password, u.PasswordHash) {
		uc.log.Warn(fmt.Sprintf("[auth] Login failed for %s: password mismatch.", params.Email))
		return "", apperr.Authentication("bad credentials", nil)
	}

	// 3. Issue the token
	token, err := uc.tokens.Issue(strconv.FormatInt(u.ID, 10), u.Email, u.Role, uc.tokens.TTL())
	if err != nil {
		return "", apperr.Store("failed to issue token", err)
	}

	uc.log.Info(fmt.Sprintf("[auth] Login successful for %s. JWT issued. Role: %s.", u.Email, u.Role))
	return token, nil
}
