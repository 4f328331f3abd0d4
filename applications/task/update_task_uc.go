package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

type UpdateTaskUC struct {
	log   *slog.Logger
	store Store
	now   func() time.Time
}

func NewUpdateTaskUC(log *slog.Logger, store Store) *UpdateTaskUC {
	return &UpdateTaskUC{log: log, store: store, now: time.Now}
}

// Invoke replaces title, description and status of task id. Existence is
// checked before ownership.
func (uc *UpdateTaskUC) Invoke(ctx context.Context, caller access.Principal, id int64, p Params) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Validation("title required")
	}

	// 1. Existence, then ownership
	if err := authorizeTask(ctx, uc.log, uc.store, caller, access.UpdateTask, id); err != nil {
		return err
	}

	// 2. Mutate. The row may have been deleted since the check.
	err := uc.store.UpdateTask(ctx, id, p.Title, p.description(), p.status(), uc.now().UTC())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			uc.log.Warn(fmt.Sprintf("[update-task-uc] Task %d vanished before update.", id))
			return apperr.NotFound("not found")
		}
		uc.log.Error(fmt.Sprintf("[update-task-uc] Database update error for %d: %v", id, err))
		return apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[update-task-uc] Task %d updated by %s.", id, caller.Email))
	return nil
}

// authorizeTask loads task id and applies the policy for action. A missing
// task answers 404 even to callers who could not have touched it.
func authorizeTask(ctx context.Context, log *slog.Logger, store Store, caller access.Principal, action access.Action, id int64) error {
	t, err := store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Warn(fmt.Sprintf("[task] %s on task %d failed: not found.", action, id))
			return apperr.NotFound("not found")
		}
		log.Error(fmt.Sprintf("[task] Lookup of task %d failed: %v", id, err))
		return apperr.Store("db error", err)
	}

	if !caller.Authorize(action, t.OwnerEmail).Allowed() {
		log.Warn(fmt.Sprintf("[task] RBAC FAILED: %s (role %s) may not %s task %d owned by %s.",
			caller.Email, caller.Role, action, id, t.OwnerEmail))
		return apperr.Forbidden()
	}
	return nil
}
