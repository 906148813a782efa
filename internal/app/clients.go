package app

import (
	"fmt"

	"github.com/OwaisIslam/living-real/internal/clients/payments"
	"github.com/OwaisIslam/living-real/internal/clients/redis"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type Clients struct {
	OccupancyBus redis.OccupancyBus
	Payments     payments.Processor
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var bus redis.OccupancyBus = redis.NoopBus{}
	if cfg.RedisAddr != "" {
		b, err := redis.NewOccupancyBus(log, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis occupancy bus: %w", err)
		}
		bus = b
	} else {
		log.Info("REDIS_ADDR not set, occupancy events are dropped")
	}

	// Stripe
	var processor payments.Processor
	if cfg.StripeSecretKey != "" {
		p, err := payments.NewStripeProcessor(log, payments.StripeConfig{SecretKey: cfg.StripeSecretKey})
		if err != nil {
			_ = bus.Close()
			return Clients{}, fmt.Errorf("init stripe: %w", err)
		}
		processor = p
	}

	return Clients{OccupancyBus: bus, Payments: processor}, nil
}

func (c Clients) Close() {
	if c.OccupancyBus != nil {
		_ = c.OccupancyBus.Close()
	}
}
