package task

import (
	"context"
	"fmt"
	"log/slog"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

type ListTasksUC struct {
	log   *slog.Logger
	store Store
}

func NewListTasksUC(log *slog.Logger, store Store) *ListTasksUC {
	return &ListTasksUC{log: log, store: store}
}

// Invoke returns the caller's tasks, or every task for an admin.
func (uc *ListTasksUC) Invoke(ctx context.Context, caller access.Principal) ([]*Task, error) {
	var filter Filter
	switch caller.Authorize(access.ListTasks, "") {
	case access.AllowAll:
	case access.AllowOwn:
		filter.OwnerEmail = caller.Email
	default:
		return nil, apperr.Forbidden()
	}

	tasks, err := uc.store.ListTasks(ctx, filter)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[list-tasks-uc] Database query failed for %s: %v", caller.Email, err))
		return nil, apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[list-tasks-uc] Retrieved %d tasks for %s (role %s).", len(tasks), caller.Email, caller.Role))
	return tasks, nil
}
