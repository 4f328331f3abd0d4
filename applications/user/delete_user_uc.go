package user

import (
	"context"
	"fmt"
	"log/slog"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

type DeleteUserUC struct {
	log   *slog.Logger
	store Store
}

func NewDeleteUserUC(log *slog.Logger, store Store) *DeleteUserUC {
	return &DeleteUserUC{log: log, store: store}
}

// Invoke removes the user. Deleting an absent id succeeds, and the user's
// tasks are left in place.
func (uc *DeleteUserUC) Invoke(ctx context.Context, caller access.Principal, id int64) error {
	if !caller.Authorize(access.DeleteUser, "").Allowed() {
		uc.log.Warn(fmt.Sprintf("[delete-user-uc] RBAC FAILED for %s deleting user %d: role %s.", caller.Email, id, caller.Role))
		return apperr.Forbidden()
	}

	if err := uc.store.DeleteUser(ctx, id); err != nil {
		uc.log.Error(fmt.Sprintf("[delete-user-uc] Database deletion error for %d: %v", id, err))
		return apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[delete-user-uc] User %d deleted.", id))
	return nil
}
