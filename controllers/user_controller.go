package controllers

import (
	"log/slog"
	"net/http"

	"tasktrack/applications/user"

	"github.com/labstack/echo/v4"
)

type ListUsersController struct {
	log *slog.Logger
	uc  *user.ListUsersUC
}

func NewListUsersController(log *slog.Logger, uc *user.ListUsersUC) *ListUsersController {
	return &ListUsersController{log: log, uc: uc}
}

// Invoke handles GET /api/users (admin only).
func (c *ListUsersController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "users", err)
	}

	users, err := c.uc.Invoke(ctx.Request().Context(), who)
	if err != nil {
		return fail(ctx, c.log, "users", err)
	}
	return ctx.JSON(http.StatusOK, ItemsResponse[*user.User]{Items: users})
}

type DeleteUserController struct {
	log *slog.Logger
	uc  *user.DeleteUserUC
}

func NewDeleteUserController(log *slog.Logger, uc *user.DeleteUserUC) *DeleteUserController {
	return &DeleteUserController{log: log, uc: uc}
}

// Invoke handles DELETE /api/users/:id (admin only).
func (c *DeleteUserController) Invoke(ctx echo.Context) error {
	who, err := caller(ctx)
	if err != nil {
		return fail(ctx, c.log, "users", err)
	}
	id, err := pathID(ctx)
	if err != nil {
		return fail(ctx, c.log, "users", err)
	}

	if err := c.uc.Invoke(ctx.Request().Context(), who, id); err != nil {
		return fail(ctx, c.log, "users", err)
	}
	return ctx.JSON(http.StatusOK, Msg{Msg: "deleted"})
}
