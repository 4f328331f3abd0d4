package controllers

import (
	"log/slog"
	"net/http"

	"tasktrack/applications/task"

	"github.com/labstack/echo/v4"
)

type ListTasksController struct {
	log *slog.Logger
	uc  *task.ListTasksUC
}

func NewListTasksController(log *slog.Logger, uc *task.ListTasksUC) *ListTasksController {
	return &ListTasksController{log: log, uc: uc}
}

// Invoke handles GET /api/tasks.
func (c *ListTasksController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}

	tasks, err := c.uc.Invoke(ctx.Request().Context(), who)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	return ctx.JSON(http.StatusOK, ItemsResponse[*task.Task]{Items: tasks})
}

type CreateTaskController struct {
	log *slog.Logger
	uc  *task.CreateTaskUC
}

func NewCreateTaskController(log *slog.Logger, uc *task.CreateTaskUC) *CreateTaskController {
	return &CreateTaskController{log: log, uc: uc}
}

type CreatedResponse struct {
	Msg string `json:"msg"`
	ID  int64  `json:"id"`
}

// Invoke handles POST /api/tasks.
func (c *CreateTaskController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}

	params := new(task.Params)
	if err := ctx.Bind(params); err != nil {
		return invalidBody(ctx, c.log, "tasks", err)
	}

	id, err := c.uc.Invoke(ctx.Request().Context(), who, *params)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{Msg: "created", ID: id})
}

type UpdateTaskController struct {
	log *slog.Logger
	uc  *task.UpdateTaskUC
}

func NewUpdateTaskController(log *slog.Logger, uc *task.UpdateTaskUC) *UpdateTaskController {
	return &UpdateTaskController{log: log, uc: uc}
}

// Invoke handles PUT /api/tasks/:id.
func (c *UpdateTaskController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	id, err := pathID(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}

	params := new(task.Params)
	if err := ctx.Bind(params); err != nil {
		return invalidBody(ctx, c.log, "tasks", err)
	}

	if err := c.uc.Invoke(ctx.Request().Context(), who, id, *params); err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	return ctx.JSON(http.StatusOK, Msg{Msg: "updated"})
}

type DeleteTaskController struct {
	log *slog.Logger
	uc  *task.DeleteTaskUC
}

func NewDeleteTaskController(log *slog.Logger, uc *task.DeleteTaskUC) *DeleteTaskController {
	return &DeleteTaskController{log: log, uc: uc}
}

// Invoke handles DELETE /api/tasks/:id.
func (c *DeleteTaskController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	id, err := pathID(ctx)
	if err != nil {
		return fail(ctx, c.log, "tasks", err)
	}

	if err := c.uc.Invoke(ctx.Request().Context(), who, id); err != nil {
		return fail(ctx, c.log, "tasks", err)
	}
	return ctx.JSON(http.StatusOK, Msg{Msg: "deleted"})
}
