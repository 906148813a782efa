package app

import (
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type Services struct {
	Gate        services.AuthorizationGate
	Auth        services.AuthService
	User        services.UserService
	Property    services.PropertyService
	Occupancy   services.OccupancyService
	Checkout    services.CheckoutService
	Consistency services.ConsistencyService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	gate := services.NewAuthorizationGate(log, metrics)
	return Services{
		Gate:     gate,
		Auth:     services.NewAuthService(log, repos.User, gate, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:     services.NewUserService(log, repos.User, gate, cfg.AllowOwnerSignup),
		Property: services.NewPropertyService(log, repos.Property, gate),
		Occupancy: services.NewOccupancyService(
			log, repos.User, repos.Property, gate, clients.OccupancyBus, metrics,
		),
		Checkout: services.NewCheckoutService(
			log, repos.Property, clients.Payments, gate, metrics, cfg.StripeCurrency, cfg.CheckoutBaseURL,
		),
		Consistency: services.NewConsistencyService(log, repos.User, repos.Property, gate, metrics),
	}
}
