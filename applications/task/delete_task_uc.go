package task

import (
	"context"
	"fmt"
	"log/slog"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
)

type DeleteTaskUC struct {
	log   *slog.Logger
	store Store
}

func NewDeleteTaskUC(log *slog.Logger, store Store) *DeleteTaskUC {
	return &DeleteTaskUC{log: log, store: store}
}

// Invoke deletes task id after the same existence and ownership checks as an update.
func (uc *DeleteTaskUC) Invoke(ctx context.Context, caller access.Principal, id int64) error {
	if err := authorizeTask(ctx, uc.log, uc.store, caller, access.DeleteTask, id); err != nil {
		return err
	}

	if err := uc.store.DeleteTask(ctx, id); err != nil {
		uc.log.Error(fmt.Sprintf("[delete-task-uc] Database deletion error for %d: %v", id, err))
		return apperr.Store("db error", err)
	}

	uc.log.Info(fmt.Sprintf("[delete-task-uc] Task %d deleted by %s.", id, caller.Email))
	return nil
}
