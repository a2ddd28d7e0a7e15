package portfolio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

type SourceKind string

const (
	SourceStreamingAlbum SourceKind = "streaming-album"
	SourceAudioHost      SourceKind = "audio-host"
	SourceVideoHost      SourceKind = "video-host"
	SourceCustomLink     SourceKind = "custom-link"
)

const (
	placeholderPrefix  = "/placeholder.svg"
	projectPlaceholder = "/placeholder.svg?height=300&width=300&text=Project"
	albumPlaceholder   = "/placeholder.svg?height=300&width=300&text=Album+Cover"
)

var albumIDRegex = regexp.MustCompile(`album/([a-zA-Z0-9]+)`)

// ParseSourceKind accepts the canonical names and the provider names the
// editor form uses (spotify, soundcloud, youtube, custom). Unknown values map
// to SourceCustomLink.
func ParseSourceKind(s string) SourceKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceStreamingAlbum), "spotify":
		return SourceStreamingAlbum
	case string(SourceAudioHost), "soundcloud":
		return SourceAudioHost
	case string(SourceVideoHost), "youtube":
		return SourceVideoHost
	}
	return SourceCustomLink
}

type Project struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Image      string     `json:"image"`
	URL        string     `json:"url"`
	SourceKind SourceKind `json:"source_kind"`
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return apperror.NewValidation("title", "project title is required")
	}
	if strings.TrimSpace(p.URL) == "" {
		return apperror.NewValidation("url", "project url is required")
	}
	return nil
}

// NewProject validates the form input and fills in id and cover image.
func NewProject(title, url, image string, kind SourceKind) (Project, error) {
	p := Project{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(title),
		URL:        strings.TrimSpace(url),
		Image:      strings.TrimSpace(image),
		SourceKind: ParseSourceKind(string(kind)),
	}
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	p.Image = ResolveProjectImage(p)
	return p, nil
}

// ResolveProjectImage keeps a user supplied image. Streaming albums without
// one, or with a placeholder, get a cover derived from the album id.
func ResolveProjectImage(p Project) string {
	isPlaceholder := p.Image == "" || strings.HasPrefix(p.Image, placeholderPrefix)
	if !isPlaceholder {
		return p.Image
	}
	if p.SourceKind == SourceStreamingAlbum {
		if m := albumIDRegex.FindStringSubmatch(p.URL); m != nil {
			return fmt.Sprintf("/placeholder.svg?height=300&width=300&text=Album+%s", m[1])
		}
		if p.Image == "" {
			return albumPlaceholder
		}
		return p.Image
	}
	if p.Image == "" {
		return projectPlaceholder
	}
	return p.Image
}
