package portfolio

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

type ProfileData struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`
}

// BioLines splits the pipe-delimited bio into display lines.
func (p ProfileData) BioLines() []string {
	lines := make([]string, 0)
	for _, part := range strings.Split(p.Bio, "|") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}

var whitespace = regexp.MustCompile(`\s+`)

// UsernameFromName derives the public handle from a display name.
func UsernameFromName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "user"
	}
	return strings.ToLower(whitespace.ReplaceAllString(name, ""))
}

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func NewSocialLink(platform, url string) (SocialLink, error) {
	link := SocialLink{ID: uuid.NewString(), Platform: strings.TrimSpace(platform), URL: strings.TrimSpace(url)}
	if err := link.Validate(); err != nil {
		return SocialLink{}, err
	}
	return link, nil
}

func (l SocialLink) Validate() error {
	if l.URL == "" {
		return apperror.NewValidation("url", "social link url is required")
	}
	if l.Platform == "" {
		return apperror.NewValidation("platform", "social link platform is required")
	}
	return nil
}

type ThemeState struct {
	DarkMode        bool   `json:"dark_mode"`
	InvertedPalette bool   `json:"inverted_palette"`
	AccentColor     string `json:"accent_color"`
}

const DefaultAccentColor = "#5BB9DB"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func DefaultTheme() ThemeState {
	return ThemeState{AccentColor: DefaultAccentColor}
}

func (t ThemeState) Validate() error {
	if !hexColor.MatchString(t.AccentColor) {
		return apperror.NewValidation("accent_color", "accent color must be a hex color like #5BB9DB")
	}
	return nil
}
