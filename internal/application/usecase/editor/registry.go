package editor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/application/usecase/reconcile"
	"github.com/khoahotran/soundfolio/internal/application/usecase/username"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Registry keeps one Session per user. The first request for a user mounts
// the editor, which hydrates the session from storage.
type Registry struct {
	volatile  service.Tier
	durable   service.Tier
	publisher service.EventPublisher
	usernames *username.Claims
	logger    logger.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	mounts   singleflight.Group
}

func NewRegistry(volatile, durable service.Tier, publisher service.EventPublisher, log logger.Logger) *Registry {
	if publisher == nil {
		publisher = service.NewNoopPublisher()
	}
	return &Registry{
		volatile:  volatile,
		durable:   durable,
		publisher: publisher,
		usernames: username.NewClaims(durable, log),
		logger:    log,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the user's session, hydrating it on first access. Concurrent
// first requests share one hydration.
func (r *Registry) Get(ctx context.Context, id user.Identity) (*Session, error) {
	if id.IsZero() {
		return nil, apperror.NewUnauthorized("no signed-in user", nil)
	}

	r.mu.RLock()
	s, ok := r.sessions[id.UserID]
	r.mu.RUnlock()
	if ok {
		s.lastUsed.Store(r.now().UnixNano())
		return s, nil
	}

	v, err, _ := r.mounts.Do(id.UserID, func() (any, error) {
		r.mu.RLock()
		existing, ok := r.sessions[id.UserID]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		rec := reconcile.NewReconciler(r.volatile, r.durable, r.logger)
		s := newSession(id, rec, r.usernames, r.publisher, r.logger)
		if err := s.hydrate(context.WithoutCancel(ctx)); err != nil {
			return nil, err
		}

		s.lastUsed.Store(r.now().UnixNano())
		r.mu.Lock()
		r.sessions[id.UserID] = s
		r.mu.Unlock()
		r.logger.Info("Editor session mounted", zap.String("user_id", id.UserID))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// EvictIdle drops sessions not used for ttl, so the next Get hydrates them
// again. Sessions with unsaved changes or a save in flight are kept.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, s := range r.sessions {
		if s.lastUsed.Load() > cutoff || s.Dirty() || s.saving.Load() {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	if evicted > 0 {
		r.logger.Info("Idle editor sessions evicted", zap.Int("count", evicted), zap.Int("remaining", len(r.sessions)))
	}
	return evicted
}

// RunSweeper calls EvictIdle every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle(ttl)
		}
	}
}
