package reconcile

import (
	"context"
	"encoding/json"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateHydrated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHydrated:
		return "hydrated"
	}
	return "unloaded"
}

var tracer = otel.Tracer("reconcile")

// Reconciler moves a portfolio between the two storage tiers and the editor.
//
// The volatile tier holds theme and layout (order and size only) and is
// written on every drop and theme change. The durable tier holds the full
// UserData and is written only by Save.
type Reconciler struct {
	volatile service.Tier
	durable  service.Tier
	logger   logger.Logger

	mu    sync.Mutex
	state State
}

func NewReconciler(volatile, durable service.Tier, log logger.Logger) *Reconciler {
	return &Reconciler{volatile: volatile, durable: durable, logger: log}
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Snapshot is the raw content of both tiers for one user. A nil slice means
// the key was absent or unreadable.
type Snapshot struct {
	Profile []byte
	Theme   []byte
	Layout  []byte
}

// Hydrate reads both tiers concurrently and merges them. Without an identity
// nothing is read and the state stays Unloaded. Read failures never block
// hydration; the affected tier is treated as empty.
func (r *Reconciler) Hydrate(ctx context.Context, id user.Identity) (portfolio.UserData, error) {
	if id.IsZero() {
		return portfolio.UserData{}, apperror.NewUnauthorized("no signed-in user", nil)
	}

	ctx, span := tracer.Start(ctx, "reconcile.Hydrate")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", id.UserID))

	r.setState(StateLoading)

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Profile = r.read(gctx, r.durable, service.ProfileKey(id.UserID))
		return nil
	})
	g.Go(func() error {
		snap.Theme = r.read(gctx, r.volatile, service.ThemeKey(id.UserID))
		return nil
	})
	g.Go(func() error {
		snap.Layout = r.read(gctx, r.volatile, service.LayoutKey(id.UserID))
		return nil
	})
	_ = g.Wait()

	data := Merge(snap, id.DisplayName, r.logger)
	r.setState(StateHydrated)
	return data, nil
}

func (r *Reconciler) read(ctx context.Context, tier service.Tier, key string) []byte {
	value, found, err := tier.Read(ctx, key)
	if err != nil {
		r.logger.Warn("Tier read failed, treating as empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	return value
}

// Merge resolves a snapshot into UserData:
//  1. durable UserData, or the defaults when absent or corrupt
//  2. the volatile theme replaces the durable one
//  3. the volatile layout is overlaid with portfolio.ApplyLayout
//
// Merge is a pure function of its inputs.
func Merge(snap Snapshot, displayName string, log logger.Logger) portfolio.UserData {
	data := portfolio.DefaultUserData(displayName)
	if snap.Profile != nil {
		var stored portfolio.UserData
		if err := json.Unmarshal(snap.Profile, &stored); err != nil {
			log.Warn("Stored profile is unreadable, using defaults", zap.Error(err))
		} else {
			data = normalize(stored, displayName)
		}
	}

	if snap.Theme != nil {
		var theme portfolio.ThemeState
		if err := json.Unmarshal(snap.Theme, &theme); err != nil {
			log.Warn("Stored theme is unreadable, ignoring", zap.Error(err))
		} else {
			if theme.AccentColor == "" {
				theme.AccentColor = portfolio.DefaultAccentColor
			}
			data.Theme = theme
		}
	}

	if snap.Layout != nil {
		var l portfolio.Layout
		if err := json.Unmarshal(snap.Layout, &l); err != nil {
			log.Warn("Stored layout is unreadable, ignoring", zap.Error(err))
		} else {
			data.Sections = portfolio.ApplyLayout(data.Sections, l)
		}
	}
	return data
}

// normalize fills the gaps older or hand-edited blobs may have.
func normalize(d portfolio.UserData, displayName string) portfolio.UserData {
	if d.Profile.Name == "" && d.Profile.Username == "" {
		def := portfolio.DefaultUserData(displayName)
		d.Profile = def.Profile
	}
	if d.Profile.Username == "" {
		d.Profile.Username = portfolio.UsernameFromName(d.Profile.Name)
	}
	if d.Theme.AccentColor == "" {
		d.Theme.AccentColor = portfolio.DefaultAccentColor
	}
	if d.Sections == nil {
		d.Sections = []portfolio.Section{}
	}
	if d.SocialLinks == nil {
		d.SocialLinks = []portfolio.SocialLink{}
	}
	if d.Projects == nil {
		d.Projects = []portfolio.Project{}
	}
	return d
}

// Save writes the full aggregate to the durable tier and theme plus layout
// to the volatile tier. All three writes run concurrently; any failure is
// reported as a persistence error.
func (r *Reconciler) Save(ctx context.Context, userID string, data portfolio.UserData) error {
	ctx, span := tracer.Start(ctx, "reconcile.Save")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	profile, err := json.Marshal(data)
	if err != nil {
		return apperror.NewInternal("failed to encode portfolio", err)
	}
	theme, err := json.Marshal(data.Theme)
	if err != nil {
		return apperror.NewInternal("failed to encode theme", err)
	}
	layout, err := json.Marshal(portfolio.LayoutOf(data.Sections))
	if err != nil {
		return apperror.NewInternal("failed to encode layout", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.durable.Write(gctx, service.ProfileKey(userID), profile) })
	g.Go(func() error { return r.volatile.Write(gctx, service.ThemeKey(userID), theme) })
	g.Go(func() error { return r.volatile.Write(gctx, service.LayoutKey(userID), layout) })
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		r.logger.Error("Save failed", err, zap.String("user_id", userID))
		return apperror.NewPersistence("failed to save portfolio", err)
	}
	return nil
}

// WriteLayout persists order and size only, to the volatile tier.
func (r *Reconciler) WriteLayout(ctx context.Context, userID string, l portfolio.Layout) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return apperror.NewInternal("failed to encode layout", err)
	}
	if err := r.volatile.Write(ctx, service.LayoutKey(userID), raw); err != nil {
		return apperror.NewPersistence("failed to write layout", err)
	}
	return nil
}

func (r *Reconciler) WriteTheme(ctx context.Context, userID string, theme portfolio.ThemeState) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return apperror.NewInternal("failed to encode theme", err)
	}
	if err := r.volatile.Write(ctx, service.ThemeKey(userID), raw); err != nil {
		return apperror.NewPersistence("failed to write theme", err)
	}
	return nil
}
