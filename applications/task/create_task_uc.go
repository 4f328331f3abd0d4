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

type CreateTaskUC struct {
	log    *slog.Logger
	store  Store
	owners OwnerLookup
	now    func() time.Time
}

func NewCreateTaskUC(log *slog.Logger, store Store, owners OwnerLookup) *CreateTaskUC {
	return &CreateTaskUC{log: log, store: store, owners: owners, now: time.Now}
}

// Invoke stores a task owned by the caller. The owner is resolved from the
// email in the token, so a user deleted after login gets a 404.
func (uc *CreateTaskUC) Invoke(ctx context.Context, caller access.Principal, p Params) (int64, error) {
	if strings.TrimSpace(p.Title) == "" {
		return 0, apperr.Validation("title required")
	}
	if !caller.Authorize(access.CreateTask, "").Allowed() {
		return 0, apperr.Forbidden()
	}

	// 1. Resolve the owner
	owner, err := uc.owners.FindUserByEmail(ctx, caller.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			uc.log.Warn(fmt.Sprintf("[create-task-uc] Owner %s no longer exists.", caller.Email))
			return 0, apperr.NotFound("user not found")
		}
		uc.log.Error(fmt.Sprintf("[create-task-uc] Owner lookup failed for %s: %v", caller.Email, err))
		return 0, apperr.Store("db error", err)
	}

	// 2. Insert
	id, err := uc.store.CreateTask(ctx, NewTask{
		Title:       p.Title,
		Description: p.description(),
		Status:      p.status(),
		OwnerID:     owner.ID,
		CreatedAt:   uc.now().UTC(),
	})
	if err != nil {
		uc.log.Error(fmt.Sprintf("[create-task-uc] Failed to insert task for %s: %v", caller.Email, err))
		return 0, apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[create-task-uc] Task %d created for %s.", id, caller.Email))
	return id, nil
}
