package persistence

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/pkg/logger"
)

type flakyTier struct {
	*MemoryTier
	failures atomic.Int32
	calls    atomic.Int32
	block    bool
}

func (f *flakyTier) Read(ctx context.Context, key string) ([]byte, bool, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, false, ctx.Err()
	}
	if f.failures.Add(-1) >= 0 {
		return nil, false, errors.New("connection reset")
	}
	return f.MemoryTier.Read(ctx, key)
}

func (f *flakyTier) Write(ctx context.Context, key string, value []byte) error {
	f.calls.Add(1)
	if f.failures.Add(-1) >= 0 {
		return errors.New("connection reset")
	}
	return f.MemoryTier.Write(ctx, key, value)
}

var fastPolicy = RetryPolicy{
	OpTimeout:      50 * time.Millisecond,
	MaxRetries:     3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     5 * time.Millisecond,
}

func TestResilientTierRetriesTransientFailures(t *testing.T) {
	inner := &flakyTier{MemoryTier: NewMemoryTier()}
	inner.failures.Store(2)
	tier := NewResilientTier("test", inner, fastPolicy, logger.NewNop())

	require.NoError(t, tier.Write(context.Background(), "k", []byte(`"v"`)))
	assert.Equal(t, int32(3), inner.calls.Load())

	v, found, err := tier.Read(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"v"`, string(v))
}

func TestResilientTierGivesUp(t *testing.T) {
	inner := &flakyTier{MemoryTier: NewMemoryTier()}
	inner.failures.Store(100)
	tier := NewResilientTier("test", inner, fastPolicy, logger.NewNop())

	err := tier.Write(context.Background(), "k", []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, int32(fastPolicy.MaxRetries+1), inner.calls.Load())
}

func TestResilientTierTimesOutEachAttempt(t *testing.T) {
	inner := &flakyTier{MemoryTier: NewMemoryTier(), block: true}
	policy := fastPolicy
	policy.MaxRetries = 1
	tier := NewResilientTier("test", inner, policy, logger.NewNop())

	start := time.Now()
	_, _, err := tier.Read(context.Background(), "k")
	assert.Error(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResilientTierStopsOnCancel(t *testing.T) {
	inner := &flakyTier{MemoryTier: NewMemoryTier()}
	inner.failures.Store(100)
	tier := NewResilientTier("test", inner, RetryPolicy{MaxRetries: 50, InitialBackoff: 20 * time.Millisecond, MaxBackoff: 20 * time.Millisecond}, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, _, err := tier.Read(ctx, "k")
	assert.Error(t, err)
	assert.Less(t, inner.calls.Load(), int32(50))
}

func TestMemoryTierCopiesValues(t *testing.T) {
	tier := NewMemoryTier()
	buf := []byte("abc")
	require.NoError(t, tier.Write(context.Background(), "k", buf))
	buf[0] = 'z'

	v, found, err := tier.Read(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", string(v))

	_, found, err = tier.Read(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}
