package persistence

import (
	"context"
	"encoding/json"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/domain/embed"
	"github.com/khoahotran/soundfolio/pkg/apperror"
)

// tierEmbedRepo keeps each user's embed list as one JSON array under
// embeds_<userId> in the durable tier.
type tierEmbedRepo struct {
	tier service.Tier
}

func NewTierEmbedRepo(tier service.Tier) embed.Repository {
	return &tierEmbedRepo{tier: tier}
}

func (r *tierEmbedRepo) ListByUser(ctx context.Context, userID string) ([]embed.Embed, error) {
	raw, found, err := r.tier.Read(ctx, service.EmbedsKey(userID))
	if err != nil {
		return nil, apperror.NewPersistence("failed to read embeds", err)
	}
	if !found {
		return []embed.Embed{}, nil
	}
	var list []embed.Embed
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, apperror.NewInternal("stored embeds are unreadable", err)
	}
	if list == nil {
		list = []embed.Embed{}
	}
	return list, nil
}

func (r *tierEmbedRepo) SaveAll(ctx context.Context, userID string, embeds []embed.Embed) error {
	if embeds == nil {
		embeds = []embed.Embed{}
	}
	raw, err := json.Marshal(embeds)
	if err != nil {
		return apperror.NewInternal("failed to encode embeds", err)
	}
	if err := r.tier.Write(ctx, service.EmbedsKey(userID), raw); err != nil {
		return apperror.NewPersistence("failed to write embeds", err)
	}
	return nil
}
