package user

import (
	"context"
	"fmt"
	"log/slog"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

type ListUsersUC struct {
	log   *slog.Logger
	store Store
}

func NewListUsersUC(log *slog.Logger, store Store) *ListUsersUC {
	return &ListUsersUC{log: log, store: store}
}

// Invoke returns every user, newest id first.
func (uc *ListUsersUC) Invoke(ctx context.Context, caller access.Principal) ([]*User, error) {
	if !caller.Authorize(access.ListUsers, "").Allowed() {
		uc.log.Warn(fmt.Sprintf("[list-users-uc] RBAC FAILED for %s: role %s.", caller.Email, caller.Role))
		return nil, apperr.Forbidden()
	}

	users, err := uc.store.ListUsers(ctx)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[list-users-uc] Database query failed: %v", err))
		return nil, apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[list-users-uc] Successfully retrieved %d user records.", len(users)))
	return users, nil
}
