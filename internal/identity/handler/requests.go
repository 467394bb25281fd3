package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"idsynth/internal/identity/store"
	dErrors "idsynth/pkg/domain-errors"
)

// maxGenerateCount bounds a single generate request.
const maxGenerateCount = 100_000

// GenerateRequest is the HTTP request body for POST /identities.
type GenerateRequest struct {
	Count int `json:"count"`
}

// Validate implements httputil.Validatable.
func (r *GenerateRequest) Validate() error {
	if r.Count < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "count must be a positive integer")
	}
	if r.Count > maxGenerateCount {
		return dErrors.New(dErrors.CodeInvalidInput, "count must be at most 100000")
	}
	return nil
}

// ExportRequest is the HTTP request body for POST /identities/export.
type ExportRequest struct {
	Format      string `json:"format"`
	Destination string `json:"destination"`
}

func (r *ExportRequest) Validate() error {
	format, err := normalizeFormat(r.Format)
	if err != nil {
		return err
	}
	r.Format = format
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Destination == "" {
		return dErrors.New(dErrors.CodeBadRequest, "destination is required")
	}
	return nil
}

// ImportRequest is the HTTP request body for POST /identities/import.
type ImportRequest struct {
	Format string `json:"format"`
	Source string `json:"source"`
}

func (r *ImportRequest) Validate() error {
	format, err := normalizeFormat(r.Format)
	if err != nil {
		return err
	}
	r.Format = format
	r.Source = strings.TrimSpace(r.Source)
	if r.Source == "" {
		return dErrors.New(dErrors.CodeBadRequest, "source is required")
	}
	return nil
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "format is required")
	}
	if !govalidator.IsIn(format, store.Formats()...) {
		return "", dErrors.New(dErrors.CodeUnsupportedFormat, "format must be one of csv, json or sql")
	}
	return format, nil
}
