package layout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

func newStoreWith(t *testing.T, ids ...string) *Store {
	t.Helper()
	boxes := make([]portfolio.ContentBox, len(ids))
	for i, id := range ids {
		boxes[i] = portfolio.NewContentBoxWithID(id, id, portfolio.SizeMedium, portfolio.TextContent{Text: id})
	}
	s := NewStore(logger.NewNop())
	s.Replace([]portfolio.Section{{ID: "portfolio", Title: "Portfolio", Boxes: boxes}})
	require.False(t, s.Dirty())
	return s
}

func boxIDs(t *testing.T, s *Store) []string {
	t.Helper()
	sec, err := s.Section("portfolio")
	require.NoError(t, err)
	return sec.BoxIDs()
}

func TestReorderMovesSingleElement(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c", "d")

	changed, err := s.Reorder("portfolio", 0, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"b", "c", "a", "d"}, boxIDs(t, s))
	assert.True(t, s.Dirty())

	_, err = s.Reorder("portfolio", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "c", "a"}, boxIDs(t, s))
}

func TestReorderRoundTrip(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	for i := range ids {
		for j := range ids {
			s := newStoreWith(t, ids...)
			_, err := s.Reorder("portfolio", i, j)
			require.NoError(t, err)
			_, err = s.Reorder("portfolio", j, i)
			require.NoError(t, err)
			assert.Equal(t, ids, boxIDs(t, s), "reorder(%d,%d) then reorder(%d,%d)", i, j, j, i)
		}
	}
}

func TestReorderOutOfRangeLeavesSectionUnchanged(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")

	changed, err := s.Reorder("portfolio", 5, 1)
	assert.ErrorIs(t, err, apperror.ErrIndexOutOfRange)
	assert.False(t, changed)
	assert.Equal(t, []string{"a", "b", "c"}, boxIDs(t, s))
	assert.False(t, s.Dirty())

	_, err = s.Reorder("portfolio", 0, -1)
	assert.ErrorIs(t, err, apperror.ErrIndexOutOfRange)
	_, err = s.Reorder("portfolio", 0, 3)
	assert.ErrorIs(t, err, apperror.ErrIndexOutOfRange)
	assert.False(t, s.Dirty())
}

func TestReorderSameIndexIsNoop(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")
	before := s.Version()

	changed, err := s.Reorder("portfolio", 1, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, s.Dirty())
	assert.Equal(t, before, s.Version())
}

func TestReorderAndCommitFailureRollsBack(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")

	_, err := s.ReorderAndCommit("portfolio", 0, 2, func(portfolio.Layout) error {
		return errors.New("redis down")
	})
	assert.ErrorIs(t, err, apperror.ErrPersistence)
	assert.Equal(t, []string{"a", "b", "c"}, boxIDs(t, s))
	assert.False(t, s.Dirty())
}

func TestReorderAndCommitSeesMovedLayout(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")

	var committed portfolio.Layout
	changed, err := s.ReorderAndCommit("portfolio", 2, 0, func(l portfolio.Layout) error {
		committed = l
		return nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, committed, 1)
	assert.Equal(t, "c", committed[0].Boxes[0].ID)
	assert.Equal(t, []string{"c", "a", "b"}, boxIDs(t, s))
}

func TestReorderCommitRunsWithoutStoreLock(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")
	entered, release := make(chan struct{}), make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.ReorderAndCommit("portfolio", 0, 2, func(portfolio.Layout) error {
			close(entered)
			<-release
			return nil
		})
		done <- err
	}()
	<-entered

	edited := make(chan error, 1)
	go func() {
		_ = s.Sections()
		_, err := s.Resize("portfolio", "b", portfolio.SizeLarge)
		edited <- err
	}()
	select {
	case err := <-edited:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("store stayed locked while the layout was being committed")
	}

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"b", "c", "a"}, boxIDs(t, s))
	sec, err := s.Section("portfolio")
	require.NoError(t, err)
	assert.Equal(t, portfolio.SizeLarge, sec.Boxes[0].Size())
}

func TestReorderConflictsWhenOrderChangesDuringCommit(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")

	var commits []portfolio.Layout
	_, err := s.ReorderAndCommit("portfolio", 0, 2, func(l portfolio.Layout) error {
		if len(commits) == 0 {
			require.NoError(t, s.RemoveBox("portfolio", "b"))
		}
		commits = append(commits, l)
		return nil
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, []string{"a", "c"}, boxIDs(t, s))

	require.Len(t, commits, 2)
	assert.Equal(t, s.Layout(), commits[1])
}

func TestAddAndRemoveBox(t *testing.T) {
	s := newStoreWith(t, "a")

	box, err := s.CreateBox("portfolio", portfolio.KindGallery, "Photos", portfolio.SizeLarge)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", box.ID()}, boxIDs(t, s))
	assert.True(t, s.Dirty())

	err = s.AddBox("portfolio", box)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, s.RemoveBox("portfolio", "a"))
	assert.Equal(t, []string{box.ID()}, boxIDs(t, s))

	assert.ErrorIs(t, s.RemoveBox("portfolio", "a"), apperror.ErrNotFound)
	assert.ErrorIs(t, s.AddBox("nope", box), apperror.ErrNotFound)
}

func TestUpdateBoxMissingIsNotFound(t *testing.T) {
	s := newStoreWith(t, "a")
	err := s.UpdateBox("portfolio", portfolio.NewContentBoxWithID("zzz", "x", portfolio.SizeSmall, portfolio.TextContent{}))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.False(t, s.Dirty())
}

func TestUpdateBoxKeepsKind(t *testing.T) {
	s := newStoreWith(t, "a")

	err := s.UpdateBox("portfolio", portfolio.NewContentBoxWithID("a", "renamed", portfolio.SizeSmall, portfolio.TextContent{Text: "new"}))
	require.NoError(t, err)
	sec, _ := s.Section("portfolio")
	assert.Equal(t, "renamed", sec.Boxes[0].Title())

	err = s.UpdateBox("portfolio", portfolio.NewContentBoxWithID("a", "x", portfolio.SizeSmall, portfolio.EmbedContent{}))
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
}

func TestResize(t *testing.T) {
	s := newStoreWith(t, "a")

	box, err := s.Resize("portfolio", "a", portfolio.SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, box.SpanWidth())
	assert.False(t, s.Dirty(), "same size is a no-op")

	box, err = s.Resize("portfolio", "a", portfolio.SizeLarge)
	require.NoError(t, err)
	assert.Equal(t, 2, box.SpanWidth())
	assert.True(t, s.Dirty())
}

func TestAppendListItemOnTextBox(t *testing.T) {
	s := newStoreWith(t, "a")

	_, err := s.AppendListItem("portfolio", "a", nil)
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
	sec, _ := s.Section("portfolio")
	assert.Equal(t, portfolio.TextContent{Text: "a"}, sec.Boxes[0].Content())
	assert.False(t, s.Dirty())
}

func TestAppendDefaultListItem(t *testing.T) {
	s := NewStore(logger.NewNop())
	s.Replace(portfolio.DefaultSections())

	box, err := s.AppendListItem("about", "experience", nil)
	require.NoError(t, err)
	items := box.Content().(portfolio.ExperienceContent).Items
	require.Len(t, items, 1)
	assert.Equal(t, "New Position", items[0].Title)
}

func TestSections(t *testing.T) {
	s := NewStore(logger.NewNop())

	sec, err := s.AddSection("", "Press & Live")
	require.NoError(t, err)
	assert.Equal(t, "press-live", sec.ID)

	_, err = s.AddSection("press-live", "Again")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = s.AddSection("", "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, s.DeleteSection("press-live"))
	assert.Empty(t, s.Sections())
	assert.ErrorIs(t, s.DeleteSection("press-live"), apperror.ErrNotFound)
}

func TestMarkSavedRespectsVersion(t *testing.T) {
	s := newStoreWith(t, "a", "b")
	s.MarkDirty()
	v := s.Version()

	s.MarkDirty()
	assert.False(t, s.MarkSaved(v))
	assert.True(t, s.Dirty())

	assert.True(t, s.MarkSaved(s.Version()))
	assert.False(t, s.Dirty())
}

func TestSectionsReturnsCopy(t *testing.T) {
	s := newStoreWith(t, "a", "b")
	secs := s.Sections()
	secs[0].Boxes[0] = portfolio.NewContentBoxWithID("hijack", "x", portfolio.SizeSmall, nil)
	assert.Equal(t, []string{"a", "b"}, boxIDs(t, s))
}
