package http

import (
	"encoding/json"
	"time"

	"github.com/khoahotran/soundfolio/internal/application/usecase/dragdrop"
	"github.com/khoahotran/soundfolio/internal/domain/embed"
	"github.com/khoahotran/soundfolio/internal/domain/portfolio"
)

// Sections and boxes

type CreateSectionRequest struct {
	ID    string `json:"id"`
	Title string `json:"title" binding:"required"`
}

type CreateBoxRequest struct {
	Type  string `json:"type" binding:"required"`
	Title string `json:"title"`
	Size  string `json:"size"`
}

// UpdateBoxRequest edits title, size and content. Absent fields are kept.
type UpdateBoxRequest struct {
	Title   *string         `json:"title"`
	Size    *string         `json:"size"`
	Content json.RawMessage `json:"content"`
}

type ResizeBoxRequest struct {
	Size string `json:"size" binding:"required"`
}

type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type DropRequest struct {
	Source      dragdrop.Location  `json:"source"`
	Destination *dragdrop.Location `json:"destination"`
}

func (r DropRequest) ToCommand() dragdrop.DropCommand {
	return dragdrop.DropCommand{Source: r.Source, Destination: r.Destination}
}

// Profile, theme, links, projects

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`
}

func (r UpdateProfileRequest) ToDomain() portfolio.ProfileData {
	return portfolio.ProfileData{Name: r.Name, Username: r.Username, Bio: r.Bio, Location: r.Location, Avatar: r.Avatar}
}

type ProfileDTO struct {
	portfolio.ProfileData
	BioLines []string `json:"bio_lines"`
}

func ToProfileDTO(p portfolio.ProfileData) ProfileDTO {
	return ProfileDTO{ProfileData: p, BioLines: p.BioLines()}
}

type ThemeRequest struct {
	DarkMode        bool   `json:"dark_mode"`
	InvertedPalette bool   `json:"inverted_palette"`
	AccentColor     string `json:"accent_color" binding:"required"`
}

func (r ThemeRequest) ToDomain() portfolio.ThemeState {
	return portfolio.ThemeState{DarkMode: r.DarkMode, InvertedPalette: r.InvertedPalette, AccentColor: r.AccentColor}
}

type SocialLinkRequest struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

type ProjectRequest struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Image      string `json:"image"`
	SourceKind string `json:"source_kind"`
}

// Embeds

type CreateEmbedRequest struct {
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EmbedCode   *string `json:"embed_code"`
	ImageURL    *string `json:"image_url"`
	Link        *string `json:"link"`
}

type UpdateEmbedRequest struct {
	Type        *string `json:"type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EmbedCode   *string `json:"embed_code"`
	ImageURL    *string `json:"image_url"`
	Link        *string `json:"link"`
}

func (r UpdateEmbedRequest) ToPatch() embed.Patch {
	return embed.Patch{
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		EmbedCode:   r.EmbedCode,
		ImageURL:    r.ImageURL,
		Link:        r.Link,
	}
}

// Auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Media

type UploadResponse struct {
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}
