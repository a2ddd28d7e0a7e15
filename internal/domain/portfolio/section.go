package portfolio

import (
	"regexp"
	"strings"
)

// Section is one tab of the portfolio: a titled, ordered list of boxes.
type Section struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Boxes []ContentBox `json:"boxes"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// SlugifySectionID turns a section title into an id ("Press & Live" -> "press-live").
func SlugifySectionID(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func (s Section) Clone() Section {
	out := Section{ID: s.ID, Title: s.Title, Boxes: make([]ContentBox, len(s.Boxes))}
	copy(out.Boxes, s.Boxes)
	return out
}

func (s Section) IndexOf(boxID string) int {
	for i, b := range s.Boxes {
		if b.ID() == boxID {
			return i
		}
	}
	return -1
}

func (s Section) BoxIDs() []string {
	ids := make([]string, len(s.Boxes))
	for i, b := range s.Boxes {
		ids[i] = b.ID()
	}
	return ids
}

func CloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}
