package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/example/tablebook/internal/backend/cache"
	"github.com/example/tablebook/internal/backend/mock"
	"github.com/example/tablebook/internal/backend/notify"
	"github.com/example/tablebook/internal/backend/postgres"
	"github.com/example/tablebook/internal/backend/remote"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/migrate"
	"github.com/example/tablebook/internal/queue"
)

// openBackend builds the configured backend with its cache and event decorators.
// The returned func releases whatever connections were opened.
func openBackend(ctx context.Context, cfg config.Config, migrateUp bool) (booking.Backend, func(), error) {
	var (
		b       booking.Backend
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Backend {
	case config.BackendRemote:
		c := remote.New(cfg.BackendURL, cfg.BackendTimeout)
		c.Retries = cfg.BackendRetries
		b = c
	case config.BackendPostgres:
		d, err := openDB(ctx, cfg, migrateUp)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, d.Close)
		b = postgres.New(d)
	default:
		b = mock.New()
	}

	if rdb := config.NewRedisClient(ctx, cfg.RedisAddr); rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		b = cache.New(b, rdb, cfg.CacheTTL, "tablebook")
	}
	if cfg.AMQPURL != "" {
		b = notify.New(b, queue.NewPublisher(cfg.AMQPURL, cfg.BookingQueue))
	}
	log.Printf("booking backend: %s", b.Name())
	return b, cleanup, nil
}

func openDB(ctx context.Context, cfg config.Config, migrateUp bool) (*db.DB, error) {
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if migrateUp {
		if err := migrate.Up(ctx, d); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}
