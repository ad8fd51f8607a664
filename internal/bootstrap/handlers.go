package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/insight-backend/internal/gateway"
	"github.com/eleven-am/insight-backend/internal/health"
	"github.com/eleven-am/insight-backend/internal/narrative"
	"github.com/eleven-am/insight-backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	SessionHandler *session.Handler
	StreamHandler  *gateway.Handler
	HealthHandler  *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/api/v1")

	sessions := api.Group("/sessions")
	params.SessionHandler.RegisterRoutes(sessions)
	params.StreamHandler.RegisterRoutes(sessions)

	params.HealthHandler.RegisterRoutes(e)
}

func ProvideSessionHandler(manager *session.Manager, logger *slog.Logger) *session.Handler {
	return session.NewHandler(manager, logger)
}

func ProvideStreamHandler(manager *session.Manager, hub *gateway.Hub, logger *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(manager, hub, logger)
}

func ProvideHealthHandler(manager *session.Manager, hub *gateway.Hub, gen *narrative.Client) *health.Handler {
	return health.NewHandler(manager, hub, gen)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideSessionHandler,
		ProvideStreamHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
