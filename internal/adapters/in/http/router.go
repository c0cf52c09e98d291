package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/otel/trace"
)

// RouterConfig carries the collaborators of the echo instance.
type RouterConfig struct {
	Server        *Server
	Authenticator Authenticator
	Spec          *openapi3.T
	Tracer        trace.Tracer
	Logger        *slog.Logger
}

// NewRouter builds the echo instance with every route mounted. API routes
// require a bearer token and are validated against the OpenAPI document.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	validator, err := RequestValidator(cfg.Spec)
	if err != nil {
		return nil, err
	}
	rawSpec, err := specJSON(cfg.Spec)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(cfg.Logger))
	e.Use(Tracing(cfg.Tracer))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, rawSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s := cfg.Server
	api := e.Group(apiPrefix, cfg.Authenticator.Middleware(), validator)

	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.PATCH("/orders/:id/services", s.ReconcileServices)
	api.POST("/orders/:id/verify", s.VerifyOrder)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.POST("/orders/:id/convert-to-revision", s.ConvertToRevision)
	api.POST("/orders/:id/complete-revision", s.CompleteRevision)

	api.GET("/tasks/overdue", s.ListOverdueTasks)
	api.POST("/tasks/:id/assign", s.AssignTask)
	api.PATCH("/tasks/:id/reassign", s.ReassignTask)
	api.DELETE("/tasks/:id/discard", s.DiscardTask)
	api.POST("/tasks/:id/start", s.StartTask)
	api.POST("/tasks/:id/pause", s.TogglePauseTask)
	api.POST("/tasks/:id/complete", s.CompleteTask)

	api.PATCH("/asking-tasks/:id/stage", s.AdvanceAskingStage)
	api.PATCH("/asking-tasks/:id/flag", s.FlagAskingTask)
	api.PATCH("/asking-tasks/:id/complete", s.CompleteAskingTask)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
