// Package domainerrors carries the coded error taxonomy shared by every idsynth
// package. Callers branch on the code (HasCode / CodeOf) rather than on message
// text, and transports map codes to status values.
package domainerrors

import (
	"errors"
)

// Code names a failure so callers can branch without string matching.
type Code string

const (
	// Input errors: the caller passed something unusable.
	CodeInvalidInput      Code = "invalid_input"
	CodeBadRequest        Code = "bad_request"
	CodeUnsupportedFormat Code = "unsupported_format"

	// Domain errors: the request was well-formed but the state or data cannot satisfy it.
	CodeOutOfDomain      Code = "out_of_domain"
	CodeInsufficientData Code = "insufficient_data"
	CodeNotTrained       Code = "not_trained"
	CodeEmptyCollection  Code = "empty_collection"

	// IO errors.
	CodeNotFound         Code = "not_found"
	CodeFormatViolation  Code = "format_violation"
	CodePermissionDenied Code = "permission_denied"

	// Crypto errors.
	CodeDecryptionFailure Code = "decryption_failure"

	CodeInternal Code = "internal_error"
)

// Kind groups codes into the families callers usually care about.
type Kind string

const (
	KindInput    Kind = "input"
	KindDomain   Kind = "domain"
	KindIO       Kind = "io"
	KindCrypto   Kind = "crypto"
	KindInternal Kind = "internal"
)

// Kind reports the family a code belongs to.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidInput, CodeBadRequest, CodeUnsupportedFormat:
		return KindInput
	case CodeOutOfDomain, CodeInsufficientData, CodeNotTrained, CodeEmptyCollection:
		return KindDomain
	case CodeNotFound, CodeFormatViolation, CodePermissionDenied:
		return KindIO
	case CodeDecryptionFailure:
		return KindCrypto
	default:
		return KindInternal
	}
}

// Error is a coded error. Message is safe to show to a user; Err is the
// underlying cause and is only exposed through Unwrap.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without an underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost coded error in err's chain,
// or CodeInternal when the chain carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// KindOf returns the family of err's code.
func KindOf(err error) Kind {
	return CodeOf(err).Kind()
}

// MessageOf returns the user-facing message of the outermost coded error, falling
// back to a generic message for uncoded errors so internals are not leaked.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
