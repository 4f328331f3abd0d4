package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tasktrack/applications/apperr"
	"tasktrack/applications/auth"
	"tasktrack/applications/task"
	"tasktrack/applications/user"
	"tasktrack/config"
	"tasktrack/controllers"
	"tasktrack/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Store is the persistence the HTTP API runs on.
type Store interface {
	user.Store
	task.Store
}

type Deps struct {
	Config  config.ServerConfig
	Log     *slog.Logger
	Store   Store
	Tokens  *auth.TokenService
	Hasher  *auth.BcryptHasher
	Metrics *metrics.Metrics
}

// New builds the echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	log := d.Log

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New()}
	e.HTTPErrorHandler = errorHandler(log)

	// Global middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(d.Metrics.Middleware())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	if d.Config.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: d.Config.RequestTimeout}))
	}

	registerRoutes(e, d)
	log.Info(fmt.Sprintf("[server] %d routes registered.", len(e.Routes())))
	return e
}

func registerRoutes(e *echo.Echo, d Deps) {
	log := d.Log
	jwt := auth.JWTAuthMiddleware(d.Tokens, d.Metrics, log)

	// Diagnostics
	e.GET("/health", controllers.HealthController)
	e.GET("/routes", controllers.NewRoutesController(e).Invoke)
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	e.GET("/whoami", controllers.NewWhoAmIController(log).Invoke, jwt)

	// Auth
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", controllers.NewRegisterController(log, user.NewRegisterUC(log, d.Store, d.Hasher)).Invoke)
	authGroup.POST("/login", controllers.NewLoginController(log, auth.NewLoginUC(log, d.Store, d.Hasher, d.Tokens)).Invoke)

	// Tasks
	taskGroup := e.Group("/api/tasks", jwt)
	taskGroup.GET("", controllers.NewListTasksController(log, task.NewListTasksUC(log, d.Store)).Invoke)
	taskGroup.POST("", controllers.NewCreateTaskController(log, task.NewCreateTaskUC(log, d.Store, d.Store)).Invoke)
	taskGroup.PUT("/:id", controllers.NewUpdateTaskController(log, task.NewUpdateTaskUC(log, d.Store)).Invoke)
	taskGroup.DELETE("/:id", controllers.NewDeleteTaskController(log, task.NewDeleteTaskUC(log, d.Store)).Invoke)

	// Users (admin)
	userGroup := e.Group("/api/users", jwt)
	userGroup.GET("", controllers.NewListUsersController(log, user.NewListUsersUC(log, d.Store)).Invoke)
	userGroup.DELETE("/:id", controllers.NewDeleteUserController(log, user.NewDeleteUserUC(log, d.Store)).Invoke)
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			line := fmt.Sprintf("[http] %s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error(line)
			case v.Error != nil:
				log.Warn(fmt.Sprintf("%s err=%v", line, v.Error))
			default:
				log.Info(line)
			}
			return nil
		},
	})
}

// errorHandler answers every unhandled error with a {"msg": ...} body.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := apperr.Status(err)
		msg := apperr.Message(err)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = strings.ToLower(http.StatusText(code))
		}
		if code >= http.StatusInternalServerError {
			log.Error(fmt.Sprintf("[server] Unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err))
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, controllers.Msg{Msg: msg})
		}
		if respErr != nil {
			log.Error(fmt.Sprintf("[server] Failed to write error response: %v", respErr))
		}
	}
}
