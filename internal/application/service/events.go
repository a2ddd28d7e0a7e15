package service

import (
	"context"
	"time"
)

const EventPortfolioSaved = "portfolio.saved"

type PortfolioEvent struct {
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	SavedAt   time.Time `json:"saved_at"`
}

type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, evt PortfolioEvent) error
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no brokers are configured.
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) PublishPortfolioEvent(context.Context, PortfolioEvent) error { return nil }
