package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", fmt.Errorf("%w: worker abc", ErrNotFound), http.StatusNotFound},
		{"auth", ErrAuth, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("edit worker: %w", ErrForbidden), http.StatusForbidden},
		{"validation", fmt.Errorf("%w: missing name", ErrValidation), http.StatusBadRequest},
		{"conflict", fmt.Errorf("%w: unit exists", ErrConflict), http.StatusConflict},
		{"other", errors.New("socket closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsKnown(t *testing.T) {
	if IsKnown(nil) {
		t.Error("nil should not be a known error")
	}
	if !IsKnown(fmt.Errorf("wrap: %w", ErrConflict)) {
		t.Error("wrapped conflict should be known")
	}
	if IsKnown(errors.New("boom")) {
		t.Error("plain error should not be known")
	}
}
