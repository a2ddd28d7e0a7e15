package portfolio

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

type Kind string

const (
	KindText       Kind = "text"
	KindGallery    Kind = "gallery"
	KindEmbed      Kind = "embed"
	KindExperience Kind = "experience"
	KindEducation  Kind = "education"
	KindProjects   Kind = "projects"
)

// ProjectsSentinel is the stored content of every project-gallery box. Such
// boxes own no data; they render the global project collection.
const ProjectsSentinel = "projects"

const galleryPlaceholder = "/placeholder.svg?height=200&width=200"

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindText, KindGallery, KindEmbed, KindExperience, KindEducation, KindProjects:
		return k, nil
	}
	return "", apperror.NewValidation("type", fmt.Sprintf("unknown content type '%s'", s))
}

// IsList reports whether content of kind k is an ordered list of records.
func (k Kind) IsList() bool {
	switch k {
	case KindGallery, KindExperience, KindEducation:
		return true
	}
	return false
}

// Content is the payload of a ContentBox. The concrete type always matches
// the box kind; see DefaultContent for the mapping.
type Content interface {
	Kind() Kind
	clone() Content
}

type TextContent struct {
	Text string
}

type EmbedContent struct {
	URL string
}

type ProjectsRef struct{}

type GalleryContent struct {
	Items []GalleryItem
}

type ExperienceContent struct {
	Items []ExperienceItem
}

type EducationContent struct {
	Items []EducationItem
}

func (TextContent) Kind() Kind       { return KindText }
func (EmbedContent) Kind() Kind      { return KindEmbed }
func (ProjectsRef) Kind() Kind       { return KindProjects }
func (GalleryContent) Kind() Kind    { return KindGallery }
func (ExperienceContent) Kind() Kind { return KindExperience }
func (EducationContent) Kind() Kind  { return KindEducation }

func (c TextContent) clone() Content  { return c }
func (c EmbedContent) clone() Content { return c }
func (c ProjectsRef) clone() Content  { return c }

func (c GalleryContent) clone() Content {
	return GalleryContent{Items: append([]GalleryItem{}, c.Items...)}
}

func (c ExperienceContent) clone() Content {
	return ExperienceContent{Items: append([]ExperienceItem{}, c.Items...)}
}

func (c EducationContent) clone() Content {
	return EducationContent{Items: append([]EducationItem{}, c.Items...)}
}

type GalleryItem struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Title string `json:"title"`
}

type ExperienceItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type EducationItem struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// ListItem is a record that can be appended to a list-typed box.
type ListItem interface {
	ItemKind() Kind
}

func (GalleryItem) ItemKind() Kind    { return KindGallery }
func (ExperienceItem) ItemKind() Kind { return KindExperience }
func (EducationItem) ItemKind() Kind  { return KindEducation }

// DefaultContent returns the empty payload a freshly created box of kind k
// starts with.
func DefaultContent(k Kind) Content {
	switch k {
	case KindGallery:
		return GalleryContent{Items: []GalleryItem{}}
	case KindExperience:
		return ExperienceContent{Items: []ExperienceItem{}}
	case KindEducation:
		return EducationContent{Items: []EducationItem{}}
	case KindProjects:
		return ProjectsRef{}
	case KindEmbed:
		return EmbedContent{}
	default:
		return TextContent{}
	}
}

// DefaultListItem builds the placeholder record the editor inserts when the
// user adds an item without filling it in. position is 1-based.
func DefaultListItem(k Kind, position int) (ListItem, error) {
	id := uuid.NewString()
	switch k {
	case KindGallery:
		return GalleryItem{ID: id, Image: galleryPlaceholder, Title: fmt.Sprintf("Item %d", position)}, nil
	case KindExperience:
		return ExperienceItem{
			ID:          id,
			Title:       "New Position",
			Company:     "Company Name",
			Period:      "Year-Year",
			Description: "Description of your role",
		}, nil
	case KindEducation:
		return EducationItem{
			ID:          id,
			Institution: "Institution Name",
			Degree:      "Degree Name",
			Period:      "Year-Year",
			Description: "Description of your studies",
		}, nil
	}
	return nil, apperror.NewTypeMismatch("append list item", string(k))
}

func listLen(c Content) int {
	switch v := c.(type) {
	case GalleryContent:
		return len(v.Items)
	case ExperienceContent:
		return len(v.Items)
	case EducationContent:
		return len(v.Items)
	}
	return 0
}

func ensureItemID(item ListItem) ListItem {
	switch v := item.(type) {
	case GalleryItem:
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		return v
	case ExperienceItem:
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		return v
	case EducationItem:
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		return v
	}
	return item
}

func appendItem(c Content, item ListItem) (Content, error) {
	item = ensureItemID(item)
	switch v := c.(type) {
	case GalleryContent:
		if it, ok := item.(GalleryItem); ok {
			return GalleryContent{Items: append(append([]GalleryItem{}, v.Items...), it)}, nil
		}
	case ExperienceContent:
		if it, ok := item.(ExperienceItem); ok {
			return ExperienceContent{Items: append(append([]ExperienceItem{}, v.Items...), it)}, nil
		}
	case EducationContent:
		if it, ok := item.(EducationItem); ok {
			return EducationContent{Items: append(append([]EducationItem{}, v.Items...), it)}, nil
		}
	}
	return nil, apperror.NewTypeMismatch(fmt.Sprintf("append %s item", item.ItemKind()), string(c.Kind()))
}

// ParseListItem decodes one record for a list box of kind k. An empty
// payload yields nil so callers can fall back to DefaultListItem.
func ParseListItem(k Kind, raw json.RawMessage) (ListItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var (
		item ListItem
		err  error
	)
	switch k {
	case KindGallery:
		var v GalleryItem
		err = json.Unmarshal(raw, &v)
		item = v
	case KindExperience:
		var v ExperienceItem
		err = json.Unmarshal(raw, &v)
		item = v
	case KindEducation:
		var v EducationItem
		err = json.Unmarshal(raw, &v)
		item = v
	default:
		return nil, apperror.NewTypeMismatch("append list item", string(k))
	}
	if err != nil {
		return nil, apperror.NewValidation("item", err.Error())
	}
	return item, nil
}
