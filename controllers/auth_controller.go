package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"tasktrack/applications/apperr"
	"tasktrack/applications/auth"
	"tasktrack/applications/user"

	"github.com/labstack/echo/v4"
)

type RegisterController struct {
	log *slog.Logger
	uc  *user.RegisterUC
}

func NewRegisterController(log *slog.Logger, uc *user.RegisterUC) *RegisterController {
	return &RegisterController{log: log, uc: uc}
}

// Invoke handles POST /api/auth/register.
func (c *RegisterController) Invoke(ctx echo.Context) error {
	params := new(user.RegisterParams)
	if err := ctx.Bind(params); err != nil {
		return invalidBody(ctx, c.log, "auth", err)
	}
	if err := ctx.Validate(params); err != nil {
		return fail(ctx, c.log, "auth", apperr.Validation("email/password required"))
	}

	u, err := c.uc.Invoke(ctx.Request().Context(), *params)
	if err != nil {
		return fail(ctx, c.log, "auth", err)
	}

	c.log.Info(fmt.Sprintf("[auth] Registered user %d (%s).", u.ID, u.Email))
	return ctx.JSON(http.StatusCreated, Msg{Msg: "registered"})
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type LoginController struct {
	log *slog.Logger
	uc  *auth.LoginUC
}

func NewLoginController(log *slog.Logger, uc *auth.LoginUC) *LoginController {
	return &LoginController{log: log, uc: uc}
}

// Invoke handles POST /api/auth/login. Missing fields and unreadable bodies
// are treated as bad credentials rather than a validation error.
func (c *LoginController) Invoke(ctx echo.Context) error {
	params := new(user.LoginParams)
	if err := ctx.Bind(params); err != nil {
		c.log.Warn(fmt.Sprintf("[auth] Unreadable login body: %v", err))
		return ctx.JSON(http.StatusUnauthorized, Msg{Msg: "bad credentials"})
	}

	token, err := c.uc.Invoke(ctx.Request().Context(), *params)
	if err != nil {
		return fail(ctx, c.log, "auth", err)
	}
	return ctx.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}
