// Package cache keeps resolved availability in Redis so repeated date changes do not hit a
// slow backend. Submissions pass straight through.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/tablebook/internal/domain/booking"
)

type Backend struct {
	next   booking.Backend
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// New wraps next. A nil rdb disables caching and returns next unchanged.
func New(next booking.Backend, rdb redis.Cmdable, ttl time.Duration, prefix string) booking.Backend {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "tablebook"
	}
	return &Backend{next: next, rdb: rdb, ttl: ttl, prefix: prefix}
}

func (b *Backend) Name() string { return b.next.Name() + "+cache" }

func (b *Backend) key(date time.Time) string {
	return b.prefix + ":" + b.next.Name() + ":availability:" + date.Format(booking.DateLayout)
}

func (b *Backend) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	key := b.key(date)
	if bs, err := b.rdb.Get(ctx, key).Bytes(); err == nil {
		var times []string
		if err := json.Unmarshal(bs, &times); err == nil {
			return times, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("cache: get %s: %v", key, err)
	}

	times, err := b.next.ResolveAvailability(ctx, date)
	if err != nil {
		return nil, err
	}
	if bs, err := json.Marshal(times); err == nil {
		if err := b.rdb.Set(ctx, key, bs, b.ttl).Err(); err != nil {
			log.Printf("cache: set %s: %v", key, err)
		}
	}
	return times, nil
}

func (b *Backend) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	return b.next.SubmitBooking(ctx, rec)
}
