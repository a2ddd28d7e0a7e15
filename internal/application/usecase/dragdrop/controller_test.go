package dragdrop

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/application/usecase/layout"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type recordingWriter struct {
	calls []portfolio.Layout
	err   error
}

func (w *recordingWriter) WriteLayout(_ context.Context, _ string, l portfolio.Layout) error {
	if w.err != nil {
		return w.err
	}
	w.calls = append(w.calls, l)
	return nil
}

func setup(t *testing.T) (*Controller, *layout.Store, *recordingWriter) {
	t.Helper()
	store := layout.NewStore(logger.NewNop())
	store.Replace(portfolio.DefaultSections())
	w := &recordingWriter{}
	return NewController(store, w, "u1", logger.NewNop()), store, w
}

func drop(section string, from, to int) DropCommand {
	return DropCommand{Source: Location{SectionID: section, Index: from}, Destination: &Location{SectionID: section, Index: to}}
}

func TestDropReordersAndWritesLayout(t *testing.T) {
	c, store, w := setup(t)

	changed, err := c.Drop(context.Background(), drop("portfolio", 0, 3))
	require.NoError(t, err)
	assert.True(t, changed)

	sec, err := store.Section("portfolio")
	require.NoError(t, err)
	assert.Equal(t, []string{"performances", "music", "demo", "projects"}, sec.BoxIDs())
	assert.True(t, store.Dirty())

	require.Len(t, w.calls, 1)
	assert.Equal(t, store.Layout(), w.calls[0])
}

func TestDropOnOwnSlotChangesNothing(t *testing.T) {
	c, store, w := setup(t)
	before, err := json.Marshal(store.Sections())
	require.NoError(t, err)

	changed, err := c.Drop(context.Background(), drop("portfolio", 2, 2))
	require.NoError(t, err)
	assert.False(t, changed)

	after, err := json.Marshal(store.Sections())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.False(t, store.Dirty())
	assert.Empty(t, w.calls)
}

func TestDropOutsideTargetIsNoop(t *testing.T) {
	c, store, w := setup(t)

	changed, err := c.Drop(context.Background(), DropCommand{Source: Location{SectionID: "portfolio", Index: 0}})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = c.Drop(context.Background(), DropCommand{
		Source:      Location{SectionID: "portfolio", Index: 0},
		Destination: &Location{SectionID: "about", Index: 0},
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, store.Dirty())
	assert.Empty(t, w.calls)
}

func TestDropWriteFailureLeavesOrder(t *testing.T) {
	c, store, w := setup(t)
	w.err = errors.New("cookie jar full")

	_, err := c.Drop(context.Background(), drop("about", 0, 2))
	assert.ErrorIs(t, err, apperror.ErrPersistence)

	sec, _ := store.Section("about")
	assert.Equal(t, []string{"bio", "experience", "education"}, sec.BoxIDs())
	assert.False(t, store.Dirty())
}

func TestDropInvalidIndex(t *testing.T) {
	c, store, w := setup(t)

	_, err := c.Drop(context.Background(), drop("about", 5, 1))
	assert.ErrorIs(t, err, apperror.ErrIndexOutOfRange)
	assert.False(t, store.Dirty())
	assert.Empty(t, w.calls)
}
