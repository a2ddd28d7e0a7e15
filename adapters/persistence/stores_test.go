package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

func TestOpenStoresMemory(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = config.StorageDriverMemory

	stores, err := OpenStores(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer stores.Close(logger.NewNop())

	ctx := context.Background()
	require.NoError(t, stores.Volatile.Write(ctx, "layout_u1", []byte(`[]`)))
	_, found, err := stores.Durable.Read(ctx, "layout_u1")
	require.NoError(t, err)
	assert.False(t, found, "tiers must not share storage")

	cfg.Storage.Driver = "sqlite"
	_, err = OpenStores(ctx, cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestMemoryUserRepo(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()
	u := &user.User{ID: uuid.New(), Email: "Owner@Example.com", PasswordHash: "x"}

	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), apperror.ErrConflict)

	got, err := repo.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
