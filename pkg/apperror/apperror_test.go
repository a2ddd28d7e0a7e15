package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("box", "b1"), http.StatusNotFound},
		{"index", NewIndexOutOfRange(5, 3), http.StatusBadRequest},
		{"validation", NewValidation("title", "title is required"), http.StatusBadRequest},
		{"invalid input", NewInvalidInput("bad json", nil), http.StatusBadRequest},
		{"type mismatch", NewTypeMismatch("append list item", "text"), http.StatusUnprocessableEntity},
		{"persistence", NewPersistence("write failed", errors.New("boom")), http.StatusServiceUnavailable},
		{"unavailable", NewUnavailable("media storage"), http.StatusServiceUnavailable},
		{"conflict", NewConflict("section", "id", "about"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("no token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("nope"), http.StatusForbidden},
		{"wrapped", fmt.Errorf("save: %w", NewPersistence("x", nil)), http.StatusServiceUnavailable},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppErrorUnwrapAndCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewPersistence("write profile", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, "persistence error", err.ToJSON()["error"])
}

func TestInvalidInputMatchesValidation(t *testing.T) {
	assert.ErrorIs(t, NewInvalidInput("x", nil), ErrValidation)
}

func TestUnavailableIsNotPersistence(t *testing.T) {
	err := NewUnavailable("oauth sign-in")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "feature unavailable", err.ToJSON()["error"])
}
