package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("page", "42"), http.StatusNotFound},
		{"invalid input", NewInvalidInput("bad body", cause), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("bad token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("not yours"), http.StatusForbidden},
		{"conflict", NewConflict("profile", "id", "1"), http.StatusConflict},
		{"unavailable", NewUnavailable("try again", "upload failed", cause), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("page", "1")), http.StatusNotFound},
		{"plain", cause, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppErrorUnwrapReachesCause(t *testing.T) {
	cause := errors.New("insert failed")
	err := NewUnavailable("try again", "store", cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "try again", err.ToJSON()["message"])
}
