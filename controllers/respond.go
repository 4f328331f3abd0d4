package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
	"tasktrack/applications/auth"

	"github.com/labstack/echo/v4"
)

// Msg is the body of every non-list response.
type Msg struct {
	Msg string `json:"msg"`
}

// ItemsResponse wraps list results as {"items": [...]}.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// fail logs the cause of err and answers with its status and caller-safe message.
func fail(ctx echo.Context, log *slog.Logger, tag string, err error) error {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("[%s] %s %s failed: %v", tag, ctx.Request().Method, ctx.Path(), err))
	} else {
		log.Warn(fmt.Sprintf("[%s] %s %s rejected (%d): %v", tag, ctx.Request().Method, ctx.Path(), status, err))
	}
	return ctx.JSON(status, Msg{Msg: apperr.Message(err)})
}

func invalidBody(ctx echo.Context, log *slog.Logger, tag string, err error) error {
	log.Warn(fmt.Sprintf("[%s] Invalid request body for %s: %v", tag, ctx.Path(), err))
	return ctx.JSON(http.StatusBadRequest, Msg{Msg: "invalid request body"})
}

// pathID parses the :id path parameter. Anything but a positive integer
// cannot name a row, so it answers 404 like a missing one.
func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("not found")
	}
	return id, nil
}

// caller returns the principal placed on the context by the JWT middleware.
func caller(ctx echo.Context) (access.Principal, error) {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return access.Principal{}, apperr.Authentication("missing authorization header", nil)
	}
	return claims.Principal(), nil
}
