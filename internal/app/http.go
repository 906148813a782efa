package app

import (
	"gorm.io/gorm"

	"github.com/OwaisIslam/living-real/internal/http"
	httpH "github.com/OwaisIslam/living-real/internal/http/handlers"
	httpMW "github.com/OwaisIslam/living-real/internal/http/middleware"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Property  *httpH.PropertyHandler
	Occupancy *httpH.OccupancyHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, services.Auth)}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(pinger),
		Auth:      httpH.NewAuthHandler(log, services.Auth, services.User),
		User:      httpH.NewUserHandler(log, services.User),
		Property:  httpH.NewPropertyHandler(log, services.Property, services.Checkout),
		Occupancy: httpH.NewOccupancyHandler(log, services.Occupancy, services.Consistency),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		AllowedOrigins:   cfg.AllowedOrigins,
		ServiceName:      cfg.ServiceName,
		Tracing:          cfg.TracingEnabled,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		UserHandler:      handlers.User,
		PropertyHandler:  handlers.Property,
		OccupancyHandler: handlers.Occupancy,
	})
}
