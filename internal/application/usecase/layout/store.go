package layout

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Store is the in-memory ordered collection of sections being edited.
//
// Every operation either applies fully or leaves the sections untouched.
// Structural mutations set the dirty flag and bump the version; Save uses the
// version to tell whether something changed while it was writing.
type Store struct {
	commitMu sync.Mutex
	mu       sync.RWMutex
	sections []portfolio.Section
	dirty    bool
	version  uint64
	logger   logger.Logger
}

func NewStore(log logger.Logger) *Store {
	return &Store{sections: []portfolio.Section{}, logger: log}
}

// Replace swaps in a freshly hydrated set of sections and clears dirty.
func (s *Store) Replace(sections []portfolio.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = portfolio.CloneSections(sections)
	s.dirty = false
	s.version++
}

func (s *Store) Sections() []portfolio.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return portfolio.CloneSections(s.sections)
}

func (s *Store) Layout() portfolio.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return portfolio.LayoutOf(s.sections)
}

// Snapshot returns sections and the version they belong to under one lock.
func (s *Store) Snapshot() ([]portfolio.Section, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return portfolio.CloneSections(s.sections), s.version
}

func (s *Store) Section(sectionID string) (portfolio.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.sectionIndex(sectionID)
	if i < 0 {
		return portfolio.Section{}, s.absorb(apperror.NewNotFound("section", sectionID))
	}
	return s.sections[i].Clone(), nil
}

func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// MarkDirty records a change made outside the sections (profile, theme,
// projects, social links).
func (s *Store) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

// MarkSaved clears dirty if nothing changed since version was taken. It
// reports whether the flag was cleared.
func (s *Store) MarkSaved(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return false
	}
	s.dirty = false
	return true
}

// AddSection appends a section. An empty id is derived from the title.
func (s *Store) AddSection(id, title string) (portfolio.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return portfolio.Section{}, apperror.NewValidation("title", "section title is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = portfolio.SlugifySectionID(title)
	}
	if id == "" {
		return portfolio.Section{}, apperror.NewValidation("id", "section id cannot be derived from the title")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sectionIndex(id) >= 0 {
		return portfolio.Section{}, apperror.NewConflict("section", "id", id)
	}
	sec := portfolio.Section{ID: id, Title: title, Boxes: []portfolio.ContentBox{}}
	s.sections = append(s.sections, sec)
	s.touch()
	return sec.Clone(), nil
}

func (s *Store) DeleteSection(sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.sectionIndex(sectionID)
	if i < 0 {
		return s.absorb(apperror.NewNotFound("section", sectionID))
	}
	next := make([]portfolio.Section, 0, len(s.sections)-1)
	next = append(next, s.sections[:i]...)
	s.sections = append(next, s.sections[i+1:]...)
	s.touch()
	return nil
}

// CreateBox builds a box with default content for kind and appends it.
func (s *Store) CreateBox(sectionID string, kind portfolio.Kind, title string, size portfolio.Size) (portfolio.ContentBox, error) {
	box, err := portfolio.NewContentBox(kind, title, size)
	if err != nil {
		return portfolio.ContentBox{}, err
	}
	if err := s.AddBox(sectionID, box); err != nil {
		return portfolio.ContentBox{}, err
	}
	return box, nil
}

func (s *Store) AddBox(sectionID string, box portfolio.ContentBox) error {
	if box.IsZero() {
		return apperror.NewValidation("box", "box id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.sectionIndex(sectionID)
	if i < 0 {
		return s.absorb(apperror.NewNotFound("section", sectionID))
	}
	if s.sections[i].IndexOf(box.ID()) >= 0 {
		return apperror.NewConflict("box", "id", box.ID())
	}
	sec := s.sections[i].Clone()
	sec.Boxes = append(sec.Boxes, box)
	s.sections[i] = sec
	s.touch()
	return nil
}

func (s *Store) RemoveBox(sectionID, boxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, j, err := s.locate(sectionID, boxID)
	if err != nil {
		return s.absorb(err)
	}
	old := s.sections[i].Boxes
	boxes := make([]portfolio.ContentBox, 0, len(old)-1)
	boxes = append(boxes, old[:j]...)
	boxes = append(boxes, old[j+1:]...)
	s.sections[i] = portfolio.Section{ID: s.sections[i].ID, Title: s.sections[i].Title, Boxes: boxes}
	s.touch()
	return nil
}

// UpdateBox replaces the box with the same id. The kind cannot change.
func (s *Store) UpdateBox(sectionID string, box portfolio.ContentBox) error {
	_, err := s.EditBox(sectionID, box.ID(), func(cur portfolio.ContentBox) (portfolio.ContentBox, error) {
		if cur.Kind() != box.Kind() {
			return portfolio.ContentBox{}, apperror.NewTypeMismatch("change kind to "+string(box.Kind()), string(cur.Kind()))
		}
		return box, nil
	})
	return err
}

// EditBox applies edit to the box and stores the result. When edit fails the
// section is unchanged.
func (s *Store) EditBox(sectionID, boxID string, edit func(portfolio.ContentBox) (portfolio.ContentBox, error)) (portfolio.ContentBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, j, err := s.locate(sectionID, boxID)
	if err != nil {
		return portfolio.ContentBox{}, s.absorb(err)
	}
	next, err := edit(s.sections[i].Boxes[j])
	if err != nil {
		return portfolio.ContentBox{}, s.absorb(err)
	}
	if next.ID() != boxID {
		return portfolio.ContentBox{}, apperror.NewValidation("id", "box id is immutable")
	}
	sec := s.sections[i].Clone()
	sec.Boxes[j] = next
	s.sections[i] = sec
	s.touch()
	return next, nil
}

// Resize sets the size of a box. Setting the current size changes nothing.
func (s *Store) Resize(sectionID, boxID string, size portfolio.Size) (portfolio.ContentBox, error) {
	size = portfolio.ParseSize(string(size))

	s.mu.RLock()
	i, j, err := s.locate(sectionID, boxID)
	if err == nil && s.sections[i].Boxes[j].Size() == size {
		box := s.sections[i].Boxes[j]
		s.mu.RUnlock()
		return box, nil
	}
	s.mu.RUnlock()

	return s.EditBox(sectionID, boxID, func(b portfolio.ContentBox) (portfolio.ContentBox, error) {
		return b.WithSize(size), nil
	})
}

func (s *Store) AppendListItem(sectionID, boxID string, item portfolio.ListItem) (portfolio.ContentBox, error) {
	return s.EditBox(sectionID, boxID, func(b portfolio.ContentBox) (portfolio.ContentBox, error) {
		if item == nil {
			def, err := portfolio.DefaultListItem(b.Kind(), b.ItemCount()+1)
			if err != nil {
				return portfolio.ContentBox{}, err
			}
			item = def
		}
		return b.AppendListItem(item)
	})
}

// Reorder moves the box at from to position to within one section.
// Both indices must be inside the current bounds. It reports whether the
// order changed; from == to is a no-op that leaves dirty alone.
func (s *Store) Reorder(sectionID string, from, to int) (bool, error) {
	return s.ReorderAndCommit(sectionID, from, to, nil)
}

// ReorderAndCommit is Reorder with a commit step run against the layout the
// move would produce. If commit fails the move is not applied and a
// persistence error is returned.
//
// commit runs without the store lock, so reads and edits proceed while it
// writes. Commits are serialized with each other. If the section's box order
// changed in the meantime the move is dropped with a conflict and the current
// layout is committed in its place.
func (s *Store) ReorderAndCommit(sectionID string, from, to int, commit func(portfolio.Layout) error) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	i := s.sectionIndex(sectionID)
	if i < 0 {
		s.mu.Unlock()
		return false, s.absorb(apperror.NewNotFound("section", sectionID))
	}
	n := len(s.sections[i].Boxes)
	if from < 0 || from >= n {
		s.mu.Unlock()
		return false, s.absorb(apperror.NewIndexOutOfRange(from, n))
	}
	if to < 0 || to >= n {
		s.mu.Unlock()
		return false, s.absorb(apperror.NewIndexOutOfRange(to, n))
	}
	if from == to {
		s.mu.Unlock()
		return false, nil
	}
	version := s.version
	order := s.sections[i].BoxIDs()
	next := make([]portfolio.Section, len(s.sections))
	copy(next, s.sections)
	next[i].Boxes = move(next[i].Boxes, from, to)
	planned := portfolio.LayoutOf(next)
	s.mu.Unlock()

	if commit != nil {
		if err := commit(planned); err != nil {
			if errors.Is(err, apperror.ErrPersistence) {
				return false, err
			}
			return false, apperror.NewPersistence("failed to persist layout", err)
		}
	}

	s.mu.Lock()
	if s.version != version {
		i = s.sectionIndex(sectionID)
		if i < 0 || !slices.Equal(s.sections[i].BoxIDs(), order) {
			current := portfolio.LayoutOf(s.sections)
			s.mu.Unlock()
			if commit != nil {
				if err := commit(current); err != nil {
					s.logger.Warn("Failed to restore layout after conflicting drop", zap.Error(err))
				}
			}
			return false, apperror.NewAppError(apperror.ErrConflict, "Layout changed during drop",
				"section '"+sectionID+"' was modified while the drop was being saved", nil)
		}
	}
	moved := s.sections[i].Clone()
	moved.Boxes = move(moved.Boxes, from, to)
	s.sections[i] = moved
	s.touch()
	s.mu.Unlock()
	return true, nil
}

// move removes boxes[from] and reinserts it at to. to is clamped to the
// bounds of the shortened slice.
func move(boxes []portfolio.ContentBox, from, to int) []portfolio.ContentBox {
	item := boxes[from]
	rest := make([]portfolio.ContentBox, 0, len(boxes))
	rest = append(rest, boxes[:from]...)
	rest = append(rest, boxes[from+1:]...)
	if to > len(rest) {
		to = len(rest)
	}
	if to < 0 {
		to = 0
	}
	out := make([]portfolio.ContentBox, 0, len(boxes))
	out = append(out, rest[:to]...)
	out = append(out, item)
	return append(out, rest[to:]...)
}

func (s *Store) touch() {
	s.dirty = true
	s.version++
}

func (s *Store) sectionIndex(id string) int {
	for i, sec := range s.sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) locate(sectionID, boxID string) (int, int, error) {
	i := s.sectionIndex(sectionID)
	if i < 0 {
		return -1, -1, apperror.NewNotFound("section", sectionID)
	}
	j := s.sections[i].IndexOf(boxID)
	if j < 0 {
		return -1, -1, apperror.NewNotFound("box", boxID)
	}
	return i, j, nil
}

// absorb logs lookup and index failures so the editor keeps its last good
// state visible, then hands the error back to the caller.
func (s *Store) absorb(err error) error {
	if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrIndexOutOfRange) {
		s.logger.Warn("Layout mutation rejected", zap.Error(err))
	}
	return err
}
