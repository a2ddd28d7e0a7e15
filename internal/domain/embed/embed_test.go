package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/pkg/apperror"
)

func strPtr(s string) *string { return &s }

func TestNewDefaultsTitle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e, err := New("Music", "  ", nil, strPtr("<iframe/>"), nil, nil, now)
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, TypeMusic, e.Type)
	assert.Equal(t, DefaultTitle, e.Title)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, now, e.UpdatedAt)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New("podcast", "x", nil, nil, nil, nil, time.Now())
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestApplyMergesSuppliedFields(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e, err := New("press", "Review", strPtr("old"), nil, nil, strPtr("https://a"), created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	updated, err := e.Apply(Patch{Title: strPtr("Interview"), Link: strPtr("https://b")}, later)
	require.NoError(t, err)

	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, "Interview", updated.Title)
	assert.Equal(t, "old", *updated.Description)
	assert.Equal(t, "https://b", *updated.Link)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	_, err = e.Apply(Patch{Type: strPtr("nope")}, later)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
