// Package store moves record collections in and out of CSV files, JSON files
// and SQL tables.
package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"idsynth/internal/identity/metrics"
	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

// Format names an export/import format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSQL  Format = "sql"
)

var formats = [...]Format{FormatCSV, FormatJSON, FormatSQL}

// Formats returns the supported format names.
func Formats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range formats {
		if f == name {
			return f, nil
		}
	}
	return "", dErrors.New(dErrors.CodeUnsupportedFormat, "unsupported format: "+s)
}

// Codec reads and writes record collections. It keeps no state between calls.
type Codec struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Codec)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Codec) {
		c.metrics = m
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Write stores records at destination. Files are replaced; SQL tables are
// appended to.
func (c *Codec) Write(ctx context.Context, records []models.Record, format Format, destination string) error {
	if len(records) == 0 {
		return dErrors.New(dErrors.CodeEmptyCollection, "no identities to export")
	}
	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(records, destination)
	case FormatJSON:
		err = writeJSON(records, destination)
	case FormatSQL:
		err = writeSQL(ctx, records, destination)
	default:
		return dErrors.New(dErrors.CodeUnsupportedFormat, "unsupported format: "+string(format))
	}
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "identities exported",
		"format", string(format),
		"destination", Redact(destination),
		"count", len(records),
	)
	if c.metrics != nil {
		c.metrics.AddExported(string(format), len(records))
	}
	return nil
}

// Read loads a collection from source. CSV yields every value as text; JSON
// keeps the JSON types; SQL yields the column types of the table, so age
// comes back as an integer.
func (c *Codec) Read(ctx context.Context, format Format, source string) ([]models.Record, error) {
	var (
		records []models.Record
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(source)
	case FormatJSON:
		records, err = readJSON(source)
	case FormatSQL:
		records, err = readSQL(ctx, source)
	default:
		return nil, dErrors.New(dErrors.CodeUnsupportedFormat, "unsupported format: "+string(format))
	}
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "identities imported",
		"format", string(format),
		"source", Redact(source),
		"count", len(records),
	)
	if c.metrics != nil {
		c.metrics.AddImported(string(format), len(records))
	}
	return records, nil
}

// WriteLines replaces path with one compact JSON object per record, one
// record per line.
func (c *Codec) WriteLines(ctx context.Context, records []models.Record, path string) error {
	if len(records) == 0 {
		return dErrors.New(dErrors.CodeEmptyCollection, "no identities to save")
	}
	if err := writeLines(records, path); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "identities saved", "path", path, "count", len(records))
	return nil
}

// ioError classifies a filesystem error for path.
func ioError(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "file not found: "+path)
	case errors.Is(err, fs.ErrPermission):
		return dErrors.Wrap(err, dErrors.CodePermissionDenied, "permission denied: "+path)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "i/o failure on "+path)
	}
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ioError(err, path)
	}
	return f, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, path)
	}
	return f, nil
}

// formatViolation wraps a record construction failure with its position.
func formatViolation(err error, where string) error {
	if dErrors.HasCode(err, dErrors.CodeFormatViolation) {
		return dErrors.Wrap(err, dErrors.CodeFormatViolation, where)
	}
	return dErrors.Wrap(err, dErrors.CodeFormatViolation, where+": "+dErrors.MessageOf(err))
}
