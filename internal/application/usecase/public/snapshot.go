package public

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/application/usecase/username"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// Profile is the read-only portfolio shown to visitors.
type Profile struct {
	UserID      string                 `json:"user_id"`
	Profile     portfolio.ProfileData  `json:"profile"`
	BioLines    []string               `json:"bio_lines"`
	SocialLinks []portfolio.SocialLink `json:"social_links"`
	Sections    []portfolio.Section    `json:"sections"`
	Theme       portfolio.ThemeState   `json:"theme"`
	Projects    []portfolio.Project    `json:"projects"`
	PublishedAt time.Time              `json:"published_at"`
}

// PublishSnapshotUseCase copies the saved portfolio into the public cache,
// keyed by username. A snapshot is only written by the user holding the
// username.
type PublishSnapshotUseCase struct {
	durable   service.Tier
	snapshots service.Tier
	usernames *username.Claims
	logger    logger.Logger
}

func NewPublishSnapshotUseCase(durable, snapshots service.Tier, log logger.Logger) *PublishSnapshotUseCase {
	return &PublishSnapshotUseCase{
		durable:   durable,
		snapshots: snapshots,
		usernames: username.NewClaims(durable, log),
		logger:    log,
	}
}

func (uc *PublishSnapshotUseCase) Execute(ctx context.Context, evt service.PortfolioEvent) (*Profile, error) {
	raw, found, err := uc.durable.Read(ctx, service.ProfileKey(evt.UserID))
	if err != nil {
		return nil, apperror.NewPersistence("failed to read saved portfolio", err)
	}
	if !found {
		return nil, apperror.NewNotFound("portfolio", evt.UserID)
	}

	var data portfolio.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, apperror.NewInternal("saved portfolio is unreadable", err)
	}
	if data.Profile.Username == "" {
		data.Profile.Username = portfolio.UsernameFromName(data.Profile.Name)
	}

	if err := uc.checkOwner(ctx, data.Profile.Username, evt.UserID); err != nil {
		uc.logger.Warn("Refusing to publish over another user's profile",
			zap.String("user_id", evt.UserID),
			zap.String("username", data.Profile.Username),
		)
		return nil, err
	}

	snap := Profile{
		UserID:      evt.UserID,
		Profile:     data.Profile,
		BioLines:    data.Profile.BioLines(),
		SocialLinks: data.SocialLinks,
		Sections:    data.Sections,
		Theme:       data.Theme,
		Projects:    data.Projects,
		PublishedAt: evt.SavedAt,
	}
	out, err := json.Marshal(snap)
	if err != nil {
		return nil, apperror.NewInternal("failed to encode public profile", err)
	}
	if err := uc.snapshots.Write(ctx, service.PublicKey(data.Profile.Username), out); err != nil {
		return nil, apperror.NewPersistence("failed to publish profile", err)
	}

	uc.logger.Info("Public profile published",
		zap.String("user_id", evt.UserID),
		zap.String("username", data.Profile.Username),
	)
	return &snap, nil
}

// checkOwner fails when username is reserved by, or already published for,
// a different user.
func (uc *PublishSnapshotUseCase) checkOwner(ctx context.Context, name, userID string) error {
	owner, found, err := uc.usernames.Owner(ctx, name)
	if err != nil {
		return err
	}
	if found && owner != userID {
		return apperror.NewConflict("public profile", "username", name)
	}

	raw, found, err := uc.snapshots.Read(ctx, service.PublicKey(name))
	if err != nil {
		return apperror.NewPersistence("failed to read public profile", err)
	}
	if !found {
		return nil
	}
	var existing Profile
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil
	}
	if existing.UserID != "" && existing.UserID != userID {
		return apperror.NewConflict("public profile", "username", name)
	}
	return nil
}

type GetPublicProfileUseCase struct {
	snapshots service.Tier
}

func NewGetPublicProfileUseCase(snapshots service.Tier) *GetPublicProfileUseCase {
	return &GetPublicProfileUseCase{snapshots: snapshots}
}

func (uc *GetPublicProfileUseCase) Execute(ctx context.Context, username string) (*Profile, error) {
	raw, found, err := uc.snapshots.Read(ctx, service.PublicKey(username))
	if err != nil {
		return nil, apperror.NewPersistence("failed to read public profile", err)
	}
	if !found {
		return nil, apperror.NewNotFound("profile", username)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperror.NewInternal("public profile is unreadable", err)
	}
	return &p, nil
}
