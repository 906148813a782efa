package app

import (
	"strings"
	"time"

	"github.com/OwaisIslam/living-real/internal/data/db"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/envutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	DB db.Config

	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	AllowOwnerSignup bool

	StripeSecretKey string
	StripeCurrency  string
	CheckoutBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	AllowedOrigins []string

	MetricsEnabled bool
	TracingEnabled bool
	ServiceName    string
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.GetEnv("PORT", "3001", log),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT", 15*time.Second),
		DB: db.Config{
			Driver:     strings.ToLower(envutil.GetEnv("DB_DRIVER", db.DriverPostgres, log)),
			DSN:        envutil.GetEnv("DATABASE_URL", "", log),
			Host:       envutil.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:       envutil.GetEnv("POSTGRES_PORT", "5432", log),
			User:       envutil.GetEnv("POSTGRES_USER", "postgres", log),
			Password:   envutil.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:       envutil.GetEnv("POSTGRES_NAME", "living_real", log),
			SQLitePath: envutil.GetEnv("SQLITE_PATH", "living-real.db", log),
		},
		JWTSecretKey:     envutil.GetEnv("JWT_SECRET_KEY", defaultJWTSecret, log),
		AccessTokenTTL:   envutil.Seconds("ACCESS_TOKEN_TTL", 2*time.Hour),
		AllowOwnerSignup: envutil.Bool("ALLOW_OWNER_SIGNUP", true),

		StripeSecretKey: envutil.GetEnv("STRIPE_SECRET_KEY", "", log),
		StripeCurrency:  strings.ToLower(envutil.GetEnv("STRIPE_CURRENCY", "usd", log)),
		CheckoutBaseURL: envutil.GetEnv("CHECKOUT_BASE_URL", "", log),

		RedisAddr:     envutil.GetEnv("REDIS_ADDR", "", log),
		RedisPassword: envutil.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		RedisChannel:  envutil.GetEnv("REDIS_CHANNEL", "occupancy", log),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		MetricsEnabled: observability.Enabled(),
		TracingEnabled: envutil.Bool("OTEL_ENABLED", false),
		ServiceName:    envutil.GetEnv("OTEL_SERVICE_NAME", "living-real", log),
		Environment:    envutil.GetEnv("APP_ENV", "development", log),
		Version:        envutil.GetEnv("APP_VERSION", "", log),
	}

	if cfg.JWTSecretKey == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set, using the development default")
	}
	if cfg.StripeSecretKey == "" && log != nil {
		log.Warn("STRIPE_SECRET_KEY not set, checkout sessions will fail")
	}
	return cfg
}

// Address is the listen address for the HTTP server.
func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "3001"
	}
	return ":" + port
}
