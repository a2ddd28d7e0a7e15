package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/soundfolio/internal/application/service"
)

// redisTier stores values as plain strings. A zero ttl keeps keys forever.
type redisTier struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTier(rdb *redis.Client, ttl time.Duration) service.Tier {
	return &redisTier{rdb: rdb, ttl: ttl}
}

func (t *redisTier) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := t.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (t *redisTier) Write(ctx context.Context, key string, value []byte) error {
	return t.rdb.Set(ctx, key, value, t.ttl).Err()
}
