package user

import (
	"context"
	"strings"
	"time"

	"tasktrack/applications/access"
)

type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // never serialized
	Role         access.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Store is the persistence the user use cases need.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string, role access.Role, createdAt time.Time) (int64, error)
	// FindUserByEmail returns apperr.ErrNotFound when no user matches.
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// NormalizeEmail is the one form an email is stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// RegisterParams is the register request body.
type RegisterParams struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

// LoginParams for incoming credentials
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
