package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

func TestNewContentBoxDefaults(t *testing.T) {
	cases := []struct {
		kind Kind
		want Content
	}{
		{KindText, TextContent{}},
		{KindEmbed, EmbedContent{}},
		{KindProjects, ProjectsRef{}},
		{KindGallery, GalleryContent{Items: []GalleryItem{}}},
		{KindExperience, ExperienceContent{Items: []ExperienceItem{}}},
		{KindEducation, EducationContent{Items: []EducationItem{}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			b, err := NewContentBox(tc.kind, "Title", SizeMedium)
			require.NoError(t, err)
			assert.NotEmpty(t, b.ID())
			assert.Equal(t, tc.kind, b.Kind())
			assert.Equal(t, tc.want, b.Content())
		})
	}
}

func TestNewContentBoxRejectsUnknownKind(t *testing.T) {
	_, err := NewContentBox(Kind("hologram"), "x", SizeSmall)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSpanWidthFollowsSize(t *testing.T) {
	b, err := NewContentBox(KindText, "t", SizeSmall)
	require.NoError(t, err)
	assert.Equal(t, 1, b.SpanWidth())
	assert.Equal(t, 1, b.WithSize(SizeMedium).SpanWidth())
	assert.Equal(t, 2, b.WithSize(SizeLarge).SpanWidth())
}

func TestWithSizeIsIdempotent(t *testing.T) {
	b, err := NewContentBox(KindText, "t", SizeSmall)
	require.NoError(t, err)

	once := b.WithSize(SizeLarge)
	twice := once.WithSize(SizeLarge)
	assert.Equal(t, once.SpanWidth(), twice.SpanWidth())
	assert.Equal(t, once, twice)
}

func TestWithSizeClampsUnknown(t *testing.T) {
	b, err := NewContentBox(KindText, "t", SizeLarge)
	require.NoError(t, err)

	clamped := b.WithSize(Size("gigantic"))
	assert.Equal(t, DefaultSize, clamped.Size())
	assert.Equal(t, 1, clamped.SpanWidth())
	assert.Equal(t, SizeLarge, ParseSize(" LARGE "))
}

func TestAppendListItemOnTextIsTypeMismatch(t *testing.T) {
	b := NewContentBoxWithID("bio", "Bio", SizeMedium, TextContent{Text: "hello"})

	_, err := b.AppendListItem(GalleryItem{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
	assert.Equal(t, TextContent{Text: "hello"}, b.Content())
}

func TestAppendListItemWrongItemKind(t *testing.T) {
	b, err := NewContentBox(KindEducation, "Edu", SizeMedium)
	require.NoError(t, err)

	_, err = b.AppendListItem(ExperienceItem{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
	assert.Equal(t, 0, b.ItemCount())
}

func TestAppendListItemDoesNotMutateOriginal(t *testing.T) {
	b, err := NewContentBox(KindGallery, "Photos", SizeLarge)
	require.NoError(t, err)

	next, err := b.AppendListItem(GalleryItem{Title: "Live at the Sinclair"})
	require.NoError(t, err)

	assert.Equal(t, 0, b.ItemCount())
	assert.Equal(t, 1, next.ItemCount())
	items := next.Content().(GalleryContent).Items
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, b.ID(), next.ID())
}

func TestDefaultListItem(t *testing.T) {
	item, err := DefaultListItem(KindGallery, 3)
	require.NoError(t, err)
	assert.Equal(t, "Item 3", item.(GalleryItem).Title)

	_, err = DefaultListItem(KindText, 1)
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
}

func TestWithContentRequiresMatchingKind(t *testing.T) {
	b := NewContentBoxWithID("music", "Music", SizeMedium, EmbedContent{})

	next, err := b.WithContent(EmbedContent{URL: "https://open.spotify.com/embed/x"})
	require.NoError(t, err)
	assert.Equal(t, EmbedContent{URL: "https://open.spotify.com/embed/x"}, next.Content())

	_, err = b.WithContent(TextContent{Text: "nope"})
	assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
}

func TestContentBoxJSONShape(t *testing.T) {
	b := NewContentBoxWithID("projects", "Projects", SizeLarge, ProjectsRef{})
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"projects","title":"Projects","type":"projects","content":"projects","size":"large","col_span":2}`, string(raw))

	exp := NewContentBoxWithID("experience", "Work", SizeMedium, ExperienceContent{Items: []ExperienceItem{
		{ID: "exp1", Title: "Senior Sound Designer", Company: "GameSound Studios", Period: "2020-Present"},
	}})
	raw, err = json.Marshal(exp)
	require.NoError(t, err)

	var decoded ContentBox
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, exp, decoded)
}

func TestContentBoxUnmarshalRecomputesSpan(t *testing.T) {
	var b ContentBox
	err := json.Unmarshal([]byte(`{"id":"b1","title":"T","type":"text","content":"hi","size":"medium","col_span":3}`), &b)
	require.NoError(t, err)
	assert.Equal(t, 1, b.SpanWidth())
}

func TestContentBoxUnmarshalRejectsBadShapes(t *testing.T) {
	bad := []string{
		`{"id":"b1","type":"text","content":["not","a","string"]}`,
		`{"id":"b1","type":"gallery","content":"not a list"}`,
		`{"id":"b1","type":"hologram","content":""}`,
		`{"type":"text","content":""}`,
	}
	for _, in := range bad {
		var b ContentBox
		assert.Error(t, json.Unmarshal([]byte(in), &b), in)
	}
}
