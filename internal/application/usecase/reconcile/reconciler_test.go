package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type fakeTier struct {
	mu       sync.Mutex
	data     map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func newFakeTier() *fakeTier { return &fakeTier{data: map[string][]byte{}} }

func (f *fakeTier) Read(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, false, f.readErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeTier) Write(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.data[key] = value
	return nil
}

func (f *fakeTier) put(t *testing.T, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	f.data[key] = raw
}

var alice = user.Identity{UserID: "u1", DisplayName: "Alice Keys"}

func TestHydrateWithoutIdentityStaysUnloaded(t *testing.T) {
	r := NewReconciler(newFakeTier(), newFakeTier(), logger.NewNop())

	_, err := r.Hydrate(context.Background(), user.Identity{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, StateUnloaded, r.State())
}

func TestHydrateEmptyTiersGivesDefaults(t *testing.T) {
	r := NewReconciler(newFakeTier(), newFakeTier(), logger.NewNop())

	data, err := r.Hydrate(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, StateHydrated, r.State())
	assert.Equal(t, portfolio.DefaultUserData("Alice Keys"), data)
	assert.Equal(t, "alicekeys", data.Profile.Username)
}

func TestHydrateVolatileLayoutOverlaysDurableContent(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()

	stored := portfolio.DefaultUserData("Alice Keys")
	stored.Sections = []portfolio.Section{{
		ID:    "portfolio",
		Title: "Portfolio",
		Boxes: []portfolio.ContentBox{portfolio.NewContentBoxWithID("b1", "One", portfolio.SizeMedium, portfolio.TextContent{Text: "hi"})},
	}}
	durable.put(t, service.ProfileKey("u1"), stored)
	volatile.put(t, service.LayoutKey("u1"), portfolio.Layout{{
		ID:    "portfolio",
		Boxes: []portfolio.BoxLayout{{ID: "b1", Size: portfolio.SizeLarge}, {ID: "b2", Size: portfolio.SizeMedium}},
	}})

	r := NewReconciler(volatile, durable, logger.NewNop())
	data, err := r.Hydrate(context.Background(), alice)
	require.NoError(t, err)

	require.Len(t, data.Sections, 1)
	assert.Equal(t, []string{"b1"}, data.Sections[0].BoxIDs())
	assert.Equal(t, portfolio.SizeLarge, data.Sections[0].Boxes[0].Size())
}

func TestHydrateVolatileThemeWins(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()

	stored := portfolio.DefaultUserData("Alice")
	stored.Theme = portfolio.ThemeState{AccentColor: "#111111"}
	durable.put(t, service.ProfileKey("u1"), stored)
	volatile.put(t, service.ThemeKey("u1"), portfolio.ThemeState{DarkMode: true, AccentColor: "#222222"})

	data, err := NewReconciler(volatile, durable, logger.NewNop()).Hydrate(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, portfolio.ThemeState{DarkMode: true, AccentColor: "#222222"}, data.Theme)
}

func TestHydrateFallsBackOnReadFailureAndCorruption(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()
	durable.data[service.ProfileKey("u1")] = []byte("{not json")
	volatile.readErr = errors.New("connection refused")

	r := NewReconciler(volatile, durable, logger.NewNop())
	data, err := r.Hydrate(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, StateHydrated, r.State())
	assert.Equal(t, portfolio.DefaultUserData("Alice Keys"), data)
}

func TestHydrateIsDeterministic(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()
	durable.put(t, service.ProfileKey("u1"), portfolio.DefaultUserData("Alice"))
	volatile.put(t, service.LayoutKey("u1"), portfolio.Layout{
		{ID: "about", Boxes: []portfolio.BoxLayout{{ID: "education"}, {ID: "bio", Size: portfolio.SizeLarge}}},
		{ID: "portfolio"},
	})
	r := NewReconciler(volatile, durable, logger.NewNop())

	first, err := r.Hydrate(context.Background(), alice)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Hydrate(context.Background(), alice)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "about", first.Sections[0].ID)
}

func TestSaveWritesBothTiers(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()
	r := NewReconciler(volatile, durable, logger.NewNop())

	data := portfolio.DefaultUserData("Alice")
	data.Theme.DarkMode = true
	require.NoError(t, r.Save(context.Background(), "u1", data))

	assert.Contains(t, durable.data, service.ProfileKey("u1"))
	assert.Contains(t, volatile.data, service.ThemeKey("u1"))
	assert.Contains(t, volatile.data, service.LayoutKey("u1"))

	again, err := r.Hydrate(context.Background(), user.Identity{UserID: "u1", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()
	durable.writeErr = errors.New("disk full")
	r := NewReconciler(volatile, durable, logger.NewNop())

	err := r.Save(context.Background(), "u1", portfolio.DefaultUserData("Alice"))
	assert.ErrorIs(t, err, apperror.ErrPersistence)
}

func TestWriteLayoutTouchesOnlyVolatile(t *testing.T) {
	volatile, durable := newFakeTier(), newFakeTier()
	r := NewReconciler(volatile, durable, logger.NewNop())

	require.NoError(t, r.WriteLayout(context.Background(), "u1", portfolio.LayoutOf(portfolio.DefaultSections())))
	assert.Equal(t, 1, volatile.writes)
	assert.Equal(t, 0, durable.writes)

	volatile.writeErr = errors.New("timeout")
	assert.ErrorIs(t, r.WriteTheme(context.Background(), "u1", portfolio.DefaultTheme()), apperror.ErrPersistence)
}
