package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"

	DefaultSize = SizeMedium
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// ParseSize never fails: anything unrecognised becomes DefaultSize so an
// invalid value cannot travel past the boundary.
func ParseSize(s string) Size {
	if sz := Size(strings.ToLower(strings.TrimSpace(s))); sz.Valid() {
		return sz
	}
	return DefaultSize
}

// SpanWidth is the number of grid columns a box of this size occupies.
func (s Size) SpanWidth() int {
	if s == SizeLarge {
		return 2
	}
	return 1
}

// ContentBox is an immutable value. Every edit returns a new box; the
// owning section replaces it by id.
type ContentBox struct {
	id      string
	title   string
	size    Size
	content Content
}

// NewContentBox creates a box with a fresh id and the default content for
// its kind.
func NewContentBox(kind Kind, title string, size Size) (ContentBox, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return ContentBox{}, err
	}
	return ContentBox{
		id:      uuid.NewString(),
		title:   title,
		size:    ParseSize(string(size)),
		content: DefaultContent(kind),
	}, nil
}

// NewContentBoxWithID is NewContentBox with a caller-chosen id, used for the
// built-in seed layout.
func NewContentBoxWithID(id string, title string, size Size, content Content) ContentBox {
	if content == nil {
		content = TextContent{}
	}
	return ContentBox{id: id, title: title, size: ParseSize(string(size)), content: content.clone()}
}

func (b ContentBox) ID() string       { return b.id }
func (b ContentBox) Title() string    { return b.title }
func (b ContentBox) Size() Size       { return b.size }
func (b ContentBox) SpanWidth() int   { return b.size.SpanWidth() }
func (b ContentBox) IsZero() bool     { return b.id == "" }
func (b ContentBox) Content() Content { return cloneContent(b.content) }

func (b ContentBox) Kind() Kind {
	if b.content == nil {
		return KindText
	}
	return b.content.Kind()
}

func (b ContentBox) WithTitle(title string) ContentBox {
	b.content = cloneContent(b.content)
	b.title = title
	return b
}

func (b ContentBox) WithSize(size Size) ContentBox {
	b.content = cloneContent(b.content)
	b.size = ParseSize(string(size))
	return b
}

// WithContent replaces the payload. The payload kind must equal the box kind.
func (b ContentBox) WithContent(c Content) (ContentBox, error) {
	if c == nil {
		return ContentBox{}, apperror.NewValidation("content", "content is required")
	}
	if c.Kind() != b.Kind() {
		return ContentBox{}, apperror.NewTypeMismatch(fmt.Sprintf("set %s content", c.Kind()), string(b.Kind()))
	}
	b.content = c.clone()
	return b, nil
}

// AppendListItem returns a copy of b with item appended. Only list-typed
// boxes accept items, and the item must be of the box's kind.
func (b ContentBox) AppendListItem(item ListItem) (ContentBox, error) {
	if item == nil {
		return ContentBox{}, apperror.NewValidation("item", "item is required")
	}
	if !b.Kind().IsList() {
		return ContentBox{}, apperror.NewTypeMismatch("append list item", string(b.Kind()))
	}
	next, err := appendItem(b.content, item)
	if err != nil {
		return ContentBox{}, err
	}
	b.content = next
	return b, nil
}

// ItemCount is the number of records in a list-typed box, 0 otherwise.
func (b ContentBox) ItemCount() int {
	return listLen(b.content)
}

type boxJSON struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Type    Kind            `json:"type"`
	Content json.RawMessage `json:"content"`
	Size    Size            `json:"size"`
	ColSpan int             `json:"col_span"`
}

func (b ContentBox) MarshalJSON() ([]byte, error) {
	var payload any
	switch c := b.content.(type) {
	case TextContent:
		payload = c.Text
	case EmbedContent:
		payload = c.URL
	case ProjectsRef:
		payload = ProjectsSentinel
	case GalleryContent:
		payload = nonNil(c.Items)
	case ExperienceContent:
		payload = nonNil(c.Items)
	case EducationContent:
		payload = nonNil(c.Items)
	default:
		payload = ""
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(boxJSON{
		ID:      b.id,
		Title:   b.title,
		Type:    b.Kind(),
		Content: raw,
		Size:    b.size,
		ColSpan: b.SpanWidth(),
	})
}

// UnmarshalJSON validates kind and content shape. col_span is ignored; it is
// always recomputed from size.
func (b *ContentBox) UnmarshalJSON(data []byte) error {
	var raw boxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == "" {
		return fmt.Errorf("content box: missing id")
	}
	kind, err := ParseKind(string(raw.Type))
	if err != nil {
		return fmt.Errorf("content box %s: %w", raw.ID, err)
	}
	content, err := decodeContent(kind, raw.Content)
	if err != nil {
		return fmt.Errorf("content box %s: %w", raw.ID, err)
	}
	*b = ContentBox{
		id:      raw.ID,
		title:   raw.Title,
		size:    ParseSize(string(raw.Size)),
		content: content,
	}
	return nil
}

func decodeContent(kind Kind, raw json.RawMessage) (Content, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultContent(kind), nil
	}
	switch kind {
	case KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("text content must be a string: %w", err)
		}
		return TextContent{Text: s}, nil
	case KindEmbed:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("embed content must be a string: %w", err)
		}
		return EmbedContent{URL: s}, nil
	case KindProjects:
		return ProjectsRef{}, nil
	case KindGallery:
		var items []GalleryItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("gallery content must be a list: %w", err)
		}
		return GalleryContent{Items: nonNil(items)}, nil
	case KindExperience:
		var items []ExperienceItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("experience content must be a list: %w", err)
		}
		return ExperienceContent{Items: nonNil(items)}, nil
	case KindEducation:
		var items []EducationItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("education content must be a list: %w", err)
		}
		return EducationContent{Items: nonNil(items)}, nil
	}
	return nil, fmt.Errorf("unhandled kind %s", kind)
}

func cloneContent(c Content) Content {
	if c == nil {
		return nil
	}
	return c.clone()
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ParseContent decodes a request payload into content of the given kind.
func ParseContent(kind Kind, raw json.RawMessage) (Content, error) {
	c, err := decodeContent(kind, raw)
	if err != nil {
		return nil, apperror.NewValidation("content", err.Error())
	}
	return c, nil
}
