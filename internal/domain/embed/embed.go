package embed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

type EmbedType string

const (
	TypeMusic   EmbedType = "music"
	TypeDemo    EmbedType = "demo"
	TypePress   EmbedType = "press"
	TypeProject EmbedType = "project"
)

const DefaultTitle = "Untitled"

func ParseType(s string) (EmbedType, error) {
	switch t := EmbedType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeMusic, TypeDemo, TypePress, TypeProject:
		return t, nil
	}
	return "", apperror.NewValidation("type", fmt.Sprintf("embed type must be music, demo, press or project, got '%s'", s))
}

type Embed struct {
	ID          string    `json:"id"`
	Type        EmbedType `json:"type"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	EmbedCode   *string   `json:"embed_code,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Link        *string   `json:"link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch holds the fields of an update; nil fields are left as they are.
type Patch struct {
	Type        *string
	Title       *string
	Description *string
	EmbedCode   *string
	ImageURL    *string
	Link        *string
}

func New(typ, title string, description, embedCode, imageURL, link *string, now time.Time) (Embed, error) {
	t, err := ParseType(typ)
	if err != nil {
		return Embed{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return Embed{
		ID:          uuid.NewString(),
		Type:        t,
		Title:       title,
		Description: description,
		EmbedCode:   embedCode,
		ImageURL:    imageURL,
		Link:        link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply merges p into e and refreshes UpdatedAt.
func (e Embed) Apply(p Patch, now time.Time) (Embed, error) {
	if p.Type != nil {
		t, err := ParseType(*p.Type)
		if err != nil {
			return Embed{}, err
		}
		e.Type = t
	}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
		if e.Title == "" {
			e.Title = DefaultTitle
		}
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.EmbedCode != nil {
		e.EmbedCode = p.EmbedCode
	}
	if p.ImageURL != nil {
		e.ImageURL = p.ImageURL
	}
	if p.Link != nil {
		e.Link = p.Link
	}
	e.UpdatedAt = now
	return e, nil
}

// Repository reads and writes the whole per-user list at once.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Embed, error)
	SaveAll(ctx context.Context, userID string, embeds []Embed) error
}
