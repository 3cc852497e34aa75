// Package respond writes JSON responses and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/limits"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes err using apperr.Status. Errors of an unknown kind are logged
// and reported as a bare 500 so storage details do not leak.
func Error(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	status := apperr.Status(err)
	body := errorBody{Error: http.StatusText(status)}

	if apperr.IsKnown(err) {
		body.Message = err.Error()
	} else if log != nil {
		log.Error(op+" failed", zap.Error(err))
	}
	JSON(w, status, body)
}

// BadRequest writes a 400 with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: http.StatusText(http.StatusBadRequest), Message: msg})
}

// DecodeJSON reads a JSON request body into dst. Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: request body too large", apperr.ErrValidation)
		}
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}
