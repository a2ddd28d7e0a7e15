package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type RetryPolicy struct {
	OpTimeout      time.Duration
	MaxRetries     uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func RetryPolicyFromConfig(cfg config.Config) RetryPolicy {
	return RetryPolicy{
		OpTimeout:      cfg.Storage.OpTimeout,
		MaxRetries:     cfg.Storage.MaxRetries,
		InitialBackoff: cfg.Storage.InitialBackoff,
		MaxBackoff:     cfg.Storage.MaxBackoff,
	}
}

// resilientTier bounds every attempt with OpTimeout and retries failures
// with exponential backoff. Cancelling the caller's context stops retrying.
type resilientTier struct {
	name   string
	next   service.Tier
	policy RetryPolicy
	logger logger.Logger
}

func NewResilientTier(name string, next service.Tier, policy RetryPolicy, log logger.Logger) service.Tier {
	return &resilientTier{name: name, next: next, policy: policy, logger: log}
}

type readResult struct {
	value []byte
	found bool
}

func (t *resilientTier) Read(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := backoff.Retry(ctx, func() (readResult, error) {
		attemptCtx, cancel := t.attempt(ctx)
		defer cancel()
		value, found, err := t.next.Read(attemptCtx, key)
		if err != nil {
			return readResult{}, t.classify(ctx, err)
		}
		return readResult{value: value, found: found}, nil
	}, t.options("read", key)...)
	if err != nil {
		return nil, false, err
	}
	return res.value, res.found, nil
}

func (t *resilientTier) Write(ctx context.Context, key string, value []byte) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attemptCtx, cancel := t.attempt(ctx)
		defer cancel()
		if err := t.next.Write(attemptCtx, key, value); err != nil {
			return struct{}{}, t.classify(ctx, err)
		}
		return struct{}{}, nil
	}, t.options("write", key)...)
	return err
}

func (t *resilientTier) attempt(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.policy.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.policy.OpTimeout)
}

// classify stops retrying once the caller has given up.
func (t *resilientTier) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return backoff.Permanent(errors.Join(ctx.Err(), err))
	}
	return err
}

func (t *resilientTier) options(op, key string) []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	if t.policy.InitialBackoff > 0 {
		b.InitialInterval = t.policy.InitialBackoff
	}
	if t.policy.MaxBackoff > 0 {
		b.MaxInterval = t.policy.MaxBackoff
	}
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(t.policy.MaxRetries + 1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			t.logger.Warn("Tier operation failed, retrying",
				zap.String("tier", t.name),
				zap.String("op", op),
				zap.String("key", key),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	}
}
