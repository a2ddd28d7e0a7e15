package embed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/domain/embed"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// EmbedUseCase manages a user's embed list. Writes replace the whole list,
// so read-modify-write cycles are serialized per user.
type EmbedUseCase struct {
	repo   embed.Repository
	logger logger.Logger
	now    func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewEmbedUseCase(repo embed.Repository, log logger.Logger) *EmbedUseCase {
	return &EmbedUseCase{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		locks:  make(map[string]*sync.Mutex),
	}
}

func (uc *EmbedUseCase) lock(userID string) func() {
	uc.locksMu.Lock()
	l, ok := uc.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[userID] = l
	}
	uc.locksMu.Unlock()
	l.Lock()
	return l.Unlock
}

func (uc *EmbedUseCase) List(ctx context.Context, userID string) ([]embed.Embed, error) {
	return uc.repo.ListByUser(ctx, userID)
}

type CreateEmbedInput struct {
	Type        string
	Title       string
	Description *string
	EmbedCode   *string
	ImageURL    *string
	Link        *string
}

func (uc *EmbedUseCase) Create(ctx context.Context, userID string, in CreateEmbedInput) (embed.Embed, error) {
	e, err := embed.New(in.Type, in.Title, in.Description, in.EmbedCode, in.ImageURL, in.Link, uc.now())
	if err != nil {
		return embed.Embed{}, err
	}

	defer uc.lock(userID)()
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return embed.Embed{}, err
	}
	if err := uc.repo.SaveAll(ctx, userID, append(list, e)); err != nil {
		return embed.Embed{}, err
	}
	uc.logger.Info("Embed created", zap.String("user_id", userID), zap.String("embed_id", e.ID))
	return e, nil
}

func (uc *EmbedUseCase) Update(ctx context.Context, userID, id string, patch embed.Patch) (embed.Embed, error) {
	defer uc.lock(userID)()
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return embed.Embed{}, err
	}
	for i, e := range list {
		if e.ID != id {
			continue
		}
		updated, err := e.Apply(patch, uc.now())
		if err != nil {
			return embed.Embed{}, err
		}
		next := append([]embed.Embed{}, list...)
		next[i] = updated
		if err := uc.repo.SaveAll(ctx, userID, next); err != nil {
			return embed.Embed{}, err
		}
		return updated, nil
	}
	return embed.Embed{}, apperror.NewNotFound("embed", id)
}

func (uc *EmbedUseCase) Delete(ctx context.Context, userID, id string) error {
	defer uc.lock(userID)()
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	next := make([]embed.Embed, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(list) {
		return apperror.NewNotFound("embed", id)
	}
	return uc.repo.SaveAll(ctx, userID, next)
}
