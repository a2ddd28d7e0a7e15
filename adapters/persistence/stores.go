package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Stores is the storage a process runs against: the volatile tier for the
// in-progress layout and theme, the durable tier for saved portfolios and
// embeds, the public snapshot cache, and the account store.
type Stores struct {
	Volatile  service.Tier
	Durable   service.Tier
	Snapshots service.Tier
	Users     user.Repository

	pool *pgxpool.Pool
	rdb  *redis.Client
}

// OpenStores connects the backends selected by storage.driver. Every tier
// is wrapped with the configured timeout and retry policy.
func OpenStores(ctx context.Context, cfg config.Config, log logger.Logger) (*Stores, error) {
	policy := RetryPolicyFromConfig(cfg)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory storage, nothing survives a restart")
		return &Stores{
			Volatile:  NewMemoryTier(),
			Durable:   NewMemoryTier(),
			Snapshots: NewMemoryTier(),
			Users:     NewMemoryUserRepo(),
		}, nil

	case config.StorageDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Volatile:  NewResilientTier("volatile", NewRedisTier(rdb, cfg.Storage.VolatileTTL), policy, log),
			Durable:   NewResilientTier("durable", NewPostgresTier(pool), policy, log),
			Snapshots: NewResilientTier("snapshots", NewRedisTier(rdb, 0), policy, log),
			Users:     NewPostgresUserRepo(pool, log),
			pool:      pool,
			rdb:       rdb,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (s *Stores) Close(log logger.Logger) {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
