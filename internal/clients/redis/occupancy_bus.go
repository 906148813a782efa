package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type OccupancyBus interface {
	Publish(ctx context.Context, evt types.OccupancyEvent) error
	StartForwarder(ctx context.Context, onMsg func(evt types.OccupancyEvent)) error
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type occupancyBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewOccupancyBus(log *logger.Logger, cfg Config) (OccupancyBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	ch := cfg.Channel
	if ch == "" {
		ch = "occupancy"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &occupancyBus{
		log:     log.With("service", "RedisOccupancyBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *occupancyBus) Publish(ctx context.Context, evt types.OccupancyEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis occupancy bus not initialized")
	}
	raw, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *occupancyBus) StartForwarder(ctx context.Context, onMsg func(evt types.OccupancyEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis occupancy bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				evt, err := decodeEvent(m.Payload)
				if err != nil {
					b.log.Warn("bad redis occupancy payload", "error", err)
					continue
				}
				onMsg(evt)
			}
		}
	}()

	return nil
}

func (b *occupancyBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encodeEvent(evt types.OccupancyEvent) ([]byte, error) {
	if evt.Type == "" {
		return nil, fmt.Errorf("event type required")
	}
	return json.Marshal(evt)
}

func decodeEvent(payload string) (types.OccupancyEvent, error) {
	var evt types.OccupancyEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, err
	}
	if evt.Type == "" {
		return evt, fmt.Errorf("event type missing")
	}
	return evt, nil
}

// NoopBus drops every event. Used when redis is not configured.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, types.OccupancyEvent) error { return nil }

func (NoopBus) StartForwarder(ctx context.Context, _ func(types.OccupancyEvent)) error {
	return fmt.Errorf("occupancy events disabled (no redis configured)")
}

func (NoopBus) Close() error { return nil }
