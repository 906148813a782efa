package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/OwaisIslam/living-real/internal/http/handlers"
	httpMW "github.com/OwaisIslam/living-real/internal/http/middleware"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string
	ServiceName    string
	Tracing        bool

	AuthHandler      *httpH.AuthHandler
	AuthMiddleware   *httpMW.AuthMiddleware
	UserHandler      *httpH.UserHandler
	PropertyHandler  *httpH.PropertyHandler
	OccupancyHandler *httpH.OccupancyHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.Observe(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
			protected.GET("/users", cfg.UserHandler.ListUsers)
			protected.GET("/users/owners", cfg.UserHandler.ListOwners)
			protected.GET("/users/tenants", cfg.UserHandler.ListTenants)
			protected.GET("/users/:id", cfg.UserHandler.GetUser)
			protected.DELETE("/users/:id", cfg.UserHandler.DeleteUser)
		}

		// Properties
		if cfg.PropertyHandler != nil {
			protected.GET("/properties", cfg.PropertyHandler.ListProperties)
			protected.POST("/properties", cfg.PropertyHandler.CreateProperty)
			protected.GET("/properties/:id", cfg.PropertyHandler.GetProperty)
			protected.PATCH("/properties/:id", cfg.PropertyHandler.UpdateProperty)
			protected.DELETE("/properties/:id", cfg.PropertyHandler.DeleteProperty)
			protected.POST("/properties/:id/occupants", cfg.PropertyHandler.AddOccupant)
			protected.POST("/properties/:id/checkout", cfg.PropertyHandler.Checkout)
		}

		// Occupancy
		if cfg.OccupancyHandler != nil {
			protected.POST("/occupancy/move-in", cfg.OccupancyHandler.MoveIn)
			protected.POST("/occupancy/move-out", cfg.OccupancyHandler.MoveOut)
			protected.GET("/occupancy/consistency", cfg.OccupancyHandler.Consistency)
		}
	}

	return r
}
