package controllers

import (
	"log/slog"
	"net/http"
	"slices"

	"tasktrack/applications/apperr"
	"tasktrack/applications/auth"

	"github.com/labstack/echo/v4"
)

// HealthController answers liveness probes.
func HealthController(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RoutesController lists every registered path, sorted and deduplicated.
type RoutesController struct {
	e *echo.Echo
}

func NewRoutesController(e *echo.Echo) *RoutesController {
	return &RoutesController{e: e}
}

func (c *RoutesController) Invoke(ctx echo.Context) error {
	paths := make([]string, 0)
	for _, r := range c.e.Routes() {
		if r.Method == echo.RouteNotFound {
			continue
		}
		paths = append(paths, r.Path)
	}
	slices.Sort(paths)
	return ctx.JSON(http.StatusOK, slices.Compact(paths))
}

type WhoAmIController struct {
	log *slog.Logger
}

func NewWhoAmIController(log *slog.Logger) *WhoAmIController {
	return &WhoAmIController{log: log}
}

// Invoke echoes the verified token claims back to the caller.
func (c *WhoAmIController) Invoke(ctx echo.Context) error {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return fail(ctx, c.log, "whoami", apperr.Authentication("missing authorization header", nil))
	}
	return ctx.JSON(http.StatusOK, claims)
}
