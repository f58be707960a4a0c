// Package httputil carries the JSON read/write conventions shared by every
// handler: one response envelope, one error envelope, one decode path.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "sevsizer/pkg/domain-errors"
)

// maxBodyBytes caps request bodies; measurement payloads are small and
// anything larger is not a legitimate client.
const maxBodyBytes = 1 << 20

// ErrorBody is the error envelope every endpoint returns.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a coded error to its HTTP status and envelope. Internal
// errors get a generic message; the cause belongs in logs, not responses.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	msg := err.Error()
	var de *dErrors.Error
	if errors.As(err, &de) {
		msg = de.Message()
	}

	status := statusFor(code)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	WriteJSON(w, status, ErrorBody{Error: string(code), Message: msg})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNoRules:
		return http.StatusUnprocessableEntity
	default:
		// CodeInternal, CodeInvariantViolation and anything unmapped.
		return http.StatusInternalServerError
	}
}

// validatable constrains DecodeAndPrepare payloads: request structs validate
// and parse themselves before the handler touches them.
type validatable[T any] interface {
	*T
	Validate() error
}

// DecodeAndPrepare decodes the JSON body into T and runs its Validate method.
// On any failure it writes the error response and returns ok=false; the
// handler just returns. Decode failures are client errors, never internal.
func DecodeAndPrepare[T any, PT validatable[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var req T

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "request body rejected",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeValidation, "malformed request body"))
		return nil, false
	}

	p := PT(&req)
	if err := p.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}

	return p, true
}
