package public

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/pkg/logger"
)

// FeedUseCase renders a published profile's projects as an RSS feed.
type FeedUseCase struct {
	profiles *GetPublicProfileUseCase
	baseURL  string
	logger   logger.Logger
}

// NewFeedUseCase takes the public site root the feed links back to.
func NewFeedUseCase(profiles *GetPublicProfileUseCase, baseURL string, log logger.Logger) *FeedUseCase {
	return &FeedUseCase{profiles: profiles, baseURL: baseURL, logger: log}
}

func (uc *FeedUseCase) Execute(ctx context.Context, username string) (*feeds.Feed, error) {
	p, err := uc.profiles.Execute(ctx, username)
	if err != nil {
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - Projects", p.Profile.Name),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/%s", uc.baseURL, p.Profile.Username)},
		Description: p.Profile.Bio,
		Author:      &feeds.Author{Name: p.Profile.Name},
		Created:     p.PublishedAt,
		Updated:     p.PublishedAt,
	}

	for _, project := range p.Projects {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          project.ID,
			Title:       project.Title,
			Link:        &feeds.Link{Href: project.URL},
			Description: string(project.SourceKind),
			Created:     p.PublishedAt,
		})
	}

	uc.logger.Debug("Project feed generated", zap.String("username", username), zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
