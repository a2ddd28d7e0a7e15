package embed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/domain/embed"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type memRepo struct {
	mu    sync.Mutex
	lists map[string][]embed.Embed
	// gates, when set for a user, block that user's SaveAll until closed.
	gates   map[string]chan struct{}
	entered chan string
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]embed.Embed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]embed.Embed{}, m.lists[userID]...), nil
}

func (m *memRepo) SaveAll(_ context.Context, userID string, embeds []embed.Embed) error {
	if gate, ok := m.gates[userID]; ok {
		m.entered <- userID
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[userID] = append([]embed.Embed{}, embeds...)
	return nil
}

func newUseCase() (*EmbedUseCase, *memRepo) {
	repo := &memRepo{lists: map[string][]embed.Embed{}}
	uc := NewEmbedUseCase(repo, logger.NewNop())
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return uc, repo
}

func TestEmbedLifecycle(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	first, err := uc.Create(ctx, "u1", CreateEmbedInput{Type: "music", Title: "Single"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, "u1", CreateEmbedInput{Type: "press"})
	require.NoError(t, err)
	assert.Equal(t, embed.DefaultTitle, second.Title)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	title := "Single (Remix)"
	updated, err := uc.Update(ctx, "u1", first.ID, embed.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

	require.NoError(t, uc.Delete(ctx, "u1", first.ID))
	list, _ = uc.List(ctx, "u1")
	assert.Len(t, list, 1)

	others, _ := uc.List(ctx, "u2")
	assert.Empty(t, others)
}

func TestEmbedErrors(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", CreateEmbedInput{Type: "mixtape"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.Update(ctx, "u1", "nope", embed.Patch{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "u1", "nope"), apperror.ErrNotFound)
}

func TestSlowWriterDoesNotBlockOtherUsers(t *testing.T) {
	gate := make(chan struct{})
	repo := &memRepo{
		lists:   map[string][]embed.Embed{},
		gates:   map[string]chan struct{}{"slow": gate},
		entered: make(chan string, 1),
	}
	uc := NewEmbedUseCase(repo, logger.NewNop())
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() {
		_, err := uc.Create(ctx, "slow", CreateEmbedInput{Type: "music"})
		slow <- err
	}()
	require.Equal(t, "slow", <-repo.entered)

	fast := make(chan error, 1)
	go func() {
		_, err := uc.Create(ctx, "fast", CreateEmbedInput{Type: "press"})
		fast <- err
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("write for one user waited on another user's write")
	}

	close(gate)
	require.NoError(t, <-slow)
	list, err := uc.List(ctx, "slow")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
