// internal/app/system/httpjson/httpjson.go

// Package httpjson holds small helpers for the JSON request/response
// conventions used across the API: JSON bodies in, JSON bodies out, and
// errors rendered as {"message": "..."} with the status from apperr.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/campusgames/meethub/internal/app/system/apperr"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MiB request body cap

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Message string `json:"message"`
}

// Error renders err using the apperr status and message mapping.
// Internal errors are logged in full; the caller sees a generic message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Write(w, status, errorBody{Message: apperr.Message(err)})
}

// ErrorMsg renders an explicit status and message without classification.
func ErrorMsg(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Message: msg})
}

// Decode reads the request body into v, enforcing the body size cap.
// Unknown fields are tolerated; malformed JSON yields a Validation error.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid JSON body", err)
	}
	return nil
}
