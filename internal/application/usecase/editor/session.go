package editor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/application/usecase/dragdrop"
	"github.com/khoahotran/soundfolio/internal/application/usecase/layout"
	"github.com/khoahotran/soundfolio/internal/application/usecase/reconcile"
	"github.com/khoahotran/soundfolio/internal/application/usecase/username"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Session is the editing state of one signed-in user: the layout store plus
// the profile, links, theme and projects that live beside it.
type Session struct {
	identity   user.Identity
	store      *layout.Store
	reconciler *reconcile.Reconciler
	usernames  *username.Claims
	drops      *dragdrop.Controller
	publisher  service.EventPublisher
	logger     logger.Logger
	now        func() time.Time

	mu       sync.RWMutex
	profile  portfolio.ProfileData
	links    []portfolio.SocialLink
	theme    portfolio.ThemeState
	projects []portfolio.Project

	saving   atomic.Bool
	lastUsed atomic.Int64
}

// View is a consistent copy of everything the editor renders.
type View struct {
	portfolio.UserData
	Dirty     bool   `json:"dirty"`
	LoadState string `json:"load_state"`
}

func newSession(id user.Identity, rec *reconcile.Reconciler, claims *username.Claims, pub service.EventPublisher, log logger.Logger) *Session {
	log = log.With(zap.String("user_id", id.UserID))
	store := layout.NewStore(log)
	return &Session{
		identity:   id,
		store:      store,
		reconciler: rec,
		usernames:  claims,
		drops:      dragdrop.NewController(store, rec, id.UserID, log),
		publisher:  pub,
		logger:     log,
		now:        time.Now,
	}
}

// hydrate loads both tiers into the session and reserves the username. A
// handle another user already holds gets a numeric suffix.
func (s *Session) hydrate(ctx context.Context) error {
	data, err := s.reconciler.Hydrate(ctx, s.identity)
	if err != nil {
		return err
	}
	name, err := s.usernames.Derive(ctx, data.Profile.Username, s.identity.UserID)
	if err != nil {
		s.logger.Warn("Failed to reserve username", zap.String("username", data.Profile.Username), zap.Error(err))
	} else {
		data.Profile.Username = name
	}
	s.load(data)
	return nil
}

func (s *Session) load(data portfolio.UserData) {
	s.mu.Lock()
	s.profile = data.Profile
	s.links = append([]portfolio.SocialLink{}, data.SocialLinks...)
	s.theme = data.Theme
	s.projects = append([]portfolio.Project{}, data.Projects...)
	s.mu.Unlock()
	s.store.Replace(data.Sections)
}

func (s *Session) Identity() user.Identity { return s.identity }

// Layout exposes the section and box operations.
func (s *Session) Layout() *layout.Store { return s.store }

func (s *Session) Dirty() bool { return s.store.Dirty() }

func (s *Session) View() View {
	sections, _ := s.store.Snapshot()
	return View{
		UserData:  s.userData(sections),
		Dirty:     s.store.Dirty(),
		LoadState: s.reconciler.State().String(),
	}
}

func (s *Session) userData(sections []portfolio.Section) portfolio.UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return portfolio.UserData{
		Profile:     s.profile,
		SocialLinks: append([]portfolio.SocialLink{}, s.links...),
		Sections:    sections,
		Theme:       s.theme,
		Projects:    append([]portfolio.Project{}, s.projects...),
	}
}

// Drop applies a drag-and-drop result and writes the layout to the volatile
// tier.
func (s *Session) Drop(ctx context.Context, cmd dragdrop.DropCommand) (bool, error) {
	return s.drops.Drop(ctx, cmd)
}

// Save writes everything to both tiers. Only one Save runs at a time; a
// second call while one is in flight fails with a conflict. dirty is cleared
// only if nothing changed while the write was in progress.
func (s *Session) Save(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		return apperror.NewAppError(apperror.ErrConflict, "Save already in progress", "a save for this portfolio is still running", nil)
	}
	defer s.saving.Store(false)

	sections, version := s.store.Snapshot()
	data := s.userData(sections)
	if err := s.usernames.Claim(ctx, data.Profile.Username, s.identity.UserID); err != nil {
		return err
	}
	if err := s.reconciler.Save(ctx, s.identity.UserID, data); err != nil {
		return err
	}
	if !s.store.MarkSaved(version) {
		s.logger.Info("Portfolio changed during save, keeping dirty")
	}

	evt := service.PortfolioEvent{
		EventType: service.EventPortfolioSaved,
		UserID:    s.identity.UserID,
		Username:  data.Profile.Username,
		SavedAt:   s.now().UTC(),
	}
	if err := s.publisher.PublishPortfolioEvent(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish portfolio event", zap.Error(err))
	}
	return nil
}

// UpdateProfile replaces the profile. A requested username must be free or
// already held by this user; without one the handle is derived from the
// name.
func (s *Session) UpdateProfile(ctx context.Context, p portfolio.ProfileData) (portfolio.ProfileData, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return portfolio.ProfileData{}, apperror.NewValidation("name", "name is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		name, err := s.usernames.Derive(ctx, portfolio.UsernameFromName(p.Name), s.identity.UserID)
		if err != nil {
			return portfolio.ProfileData{}, err
		}
		p.Username = name
	} else {
		p.Username = portfolio.UsernameFromName(p.Username)
		if err := s.usernames.Claim(ctx, p.Username, s.identity.UserID); err != nil {
			return portfolio.ProfileData{}, err
		}
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	s.store.MarkDirty()
	return p, nil
}

// SetTheme writes the theme to the volatile tier and then applies it. A
// failed write leaves the current theme in place.
func (s *Session) SetTheme(ctx context.Context, theme portfolio.ThemeState) error {
	if err := theme.Validate(); err != nil {
		return err
	}
	if err := s.reconciler.WriteTheme(ctx, s.identity.UserID, theme); err != nil {
		return err
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	s.store.MarkDirty()
	return nil
}

func (s *Session) AddProject(title, url, image string, kind portfolio.SourceKind) (portfolio.Project, error) {
	p, err := portfolio.NewProject(title, url, image, kind)
	if err != nil {
		return portfolio.Project{}, err
	}
	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	s.store.MarkDirty()
	return p, nil
}

func (s *Session) UpdateProject(id, title, url, image string, kind portfolio.SourceKind) (portfolio.Project, error) {
	p := portfolio.Project{
		ID:         id,
		Title:      strings.TrimSpace(title),
		URL:        strings.TrimSpace(url),
		Image:      strings.TrimSpace(image),
		SourceKind: portfolio.ParseSourceKind(string(kind)),
	}
	if err := p.Validate(); err != nil {
		return portfolio.Project{}, err
	}
	p.Image = portfolio.ResolveProjectImage(p)

	s.mu.Lock()
	i := indexOf(s.projects, func(x portfolio.Project) bool { return x.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return portfolio.Project{}, apperror.NewNotFound("project", id)
	}
	next := append([]portfolio.Project{}, s.projects...)
	next[i] = p
	s.projects = next
	s.mu.Unlock()
	s.store.MarkDirty()
	return p, nil
}

func (s *Session) DeleteProject(id string) error {
	s.mu.Lock()
	next, ok := without(s.projects, func(x portfolio.Project) bool { return x.ID == id })
	if !ok {
		s.mu.Unlock()
		return apperror.NewNotFound("project", id)
	}
	s.projects = next
	s.mu.Unlock()
	s.store.MarkDirty()
	return nil
}

func (s *Session) AddSocialLink(platform, url string) (portfolio.SocialLink, error) {
	link, err := portfolio.NewSocialLink(platform, url)
	if err != nil {
		return portfolio.SocialLink{}, err
	}
	s.mu.Lock()
	s.links = append(s.links, link)
	s.mu.Unlock()
	s.store.MarkDirty()
	return link, nil
}

func (s *Session) UpdateSocialLink(id, platform, url string) (portfolio.SocialLink, error) {
	link := portfolio.SocialLink{ID: id, Platform: strings.TrimSpace(platform), URL: strings.TrimSpace(url)}
	if err := link.Validate(); err != nil {
		return portfolio.SocialLink{}, err
	}
	s.mu.Lock()
	i := indexOf(s.links, func(x portfolio.SocialLink) bool { return x.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return portfolio.SocialLink{}, apperror.NewNotFound("social link", id)
	}
	next := append([]portfolio.SocialLink{}, s.links...)
	next[i] = link
	s.links = next
	s.mu.Unlock()
	s.store.MarkDirty()
	return link, nil
}

func (s *Session) DeleteSocialLink(id string) error {
	s.mu.Lock()
	next, ok := without(s.links, func(x portfolio.SocialLink) bool { return x.ID == id })
	if !ok {
		s.mu.Unlock()
		return apperror.NewNotFound("social link", id)
	}
	s.links = next
	s.mu.Unlock()
	s.store.MarkDirty()
	return nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func without[T any](items []T, match func(T) bool) ([]T, bool) {
	i := indexOf(items, match)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}
