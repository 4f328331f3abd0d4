package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

// PasswordHasher turns a plaintext password into a salted one-way hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type RegisterUC struct {
	log    *slog.Logger
	store  Store
	hasher PasswordHasher
	now    func() time.Time
}

func NewRegisterUC(log *slog.Logger, store Store, hasher PasswordHasher) *RegisterUC {
	return &RegisterUC{log: log, store: store, hasher: hasher, now: time.Now}
}

// Invoke creates a user. The role defaults to basic; duplicate emails and
// store failures share one message, as they always have.
func (uc *RegisterUC) Invoke(ctx context.Context, params RegisterParams) (*User, error) {
	email := NormalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, apperr.Validation("email/password required")
	}
	role, ok := access.ParseRole(params.Role)
	if !ok {
		uc.log.Warn(fmt.Sprintf("[user] Registration rejected for %s: unknown role %q.", email, params.Role))
		return nil, apperr.Validation("role must be basic or admin")
	}

	uc.log.Info(fmt.Sprintf("[user] Attempting to create new user with email: %s", email))

	hash, err := uc.hasher.Hash(params.Password)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[user] Password hashing failed for %s: %v", email, err))
		return nil, apperr.Validation("password cannot be used")
	}

	createdAt := uc.now().UTC()
	id, err := uc.store.CreateUser(ctx, email, hash, role, createdAt)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[user] Failed to insert new user %s: %v", email, err))
		if !errors.Is(err, apperr.ErrDuplicateEmail) {
			uc.log.Warn(fmt.Sprintf("[user] Insert for %s failed for a reason other than a duplicate email.", email))
		}
		return nil, apperr.Conflict("email exists or db error", err)
	}

	uc.log.Info(fmt.Sprintf("[user] New user %s created successfully. Role: %s", email, role))
	return &User{ID: id, Email: email, PasswordHash: hash, Role: role, CreatedAt: createdAt}, nil
}
