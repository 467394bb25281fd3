// Package httputil holds the JSON request and response helpers shared by
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "idsynth/pkg/domain-errors"
)

// maxBodyBytes caps decoded request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// Validatable is implemented by request types that normalise and check
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v with the given status. Encoding failures are not
// reported because the header is already sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// WriteError maps err's code to a status and writes an ErrorResponse.
// Internal errors carry no description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.Description = dErrors.MessageOf(err)
	}
	WriteJSON(w, StatusFor(code), resp)
}

// StatusFor returns the HTTP status used for an error code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeUnsupportedFormat:
		return http.StatusBadRequest
	case dErrors.CodeOutOfDomain, dErrors.CodeFormatViolation, dErrors.CodeDecryptionFailure:
		return http.StatusUnprocessableEntity
	case dErrors.CodeInsufficientData, dErrors.CodeNotTrained, dErrors.CodeEmptyCollection:
		return http.StatusConflict
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body is too large")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid json body")
	}
	if dec.More() {
		return dErrors.New(dErrors.CodeBadRequest, "request body must hold a single json object")
	}
	return nil
}

// DecodeAndPrepare decodes and validates a request body. On failure it writes
// the error response and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req := PT(new(T))
	if err := DecodeJSON(w, r, req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request", "path", r.URL.Path, "error", err)
		WriteError(w, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		logger.WarnContext(r.Context(), "invalid request", "path", r.URL.Path, "error", err)
		WriteError(w, err)
		return nil, false
	}
	return (*T)(req), true
}
