package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"go.uber.org/zap"
)

func TestError_KnownKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: worker", apperr.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: department", apperr.ErrForbidden), http.StatusForbidden},
		{apperr.ErrAuth, http.StatusUnauthorized},
		{fmt.Errorf("%w: email", apperr.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: name", apperr.ErrValidation), http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Error(rec, zap.NewNop(), "op", tt.err)
		if rec.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["message"] != tt.err.Error() {
			t.Errorf("message = %q, want %q", body["message"], tt.err.Error())
		}
	}
}

func TestError_UnknownHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, zap.NewNop(), "op", errors.New("connection reset by mongo at 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("internal error details leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Local 2322"}`))
	if err := DecodeJSON(r, &dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if dst.Name != "Local 2322" {
		t.Errorf("Name = %q", dst.Name)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"nope":1}`))
	if err := DecodeJSON(r, &dst); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown field should be a validation error, got %v", err)
	}
}
