// Package service holds the identity collection and runs every pipeline
// operation against it.
package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"idsynth/internal/identity/analyzer"
	"idsynth/internal/identity/fieldcrypt"
	"idsynth/internal/identity/generator"
	"idsynth/internal/identity/metrics"
	"idsynth/internal/identity/models"
	"idsynth/internal/identity/prediction"
	"idsynth/internal/identity/store"
	"idsynth/internal/identity/validate"
	dErrors "idsynth/pkg/domain-errors"
)

type RecordSource interface {
	Generate() models.Record
	IDCard(r models.Record) models.IDCard
}

type CountryModel interface {
	Train(ctx context.Context, records []models.Record) (prediction.TrainReport, error)
	Predict(r models.Record) (models.Country, error)
	Trained() bool
}

type FieldCipher interface {
	EncryptRecord(r models.Record) (models.EncryptedRecord, error)
	DecryptRecord(enc models.EncryptedRecord) (models.Record, error)
	KeyID() string
}

type RecordCodec interface {
	Write(ctx context.Context, records []models.Record, format store.Format, destination string) error
	Read(ctx context.Context, format store.Format, source string) ([]models.Record, error)
	WriteLines(ctx context.Context, records []models.Record, path string) error
}

// System owns one record collection together with the model and key that
// operate on it. It holds no lock; callers serialize access.
type System struct {
	records   []models.Record
	encrypted []models.EncryptedRecord
	decrypted []models.Record

	source  RecordSource
	model   CountryModel
	cipher  FieldCipher
	codec   RecordCodec
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*System)

func WithLogger(logger *slog.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *System) {
		s.metrics = m
	}
}

func WithGenerator(source RecordSource) Option {
	return func(s *System) {
		s.source = source
	}
}

func WithModel(model CountryModel) Option {
	return func(s *System) {
		s.model = model
	}
}

func WithCipher(cipher FieldCipher) Option {
	return func(s *System) {
		s.cipher = cipher
	}
}

func WithCodec(codec RecordCodec) Option {
	return func(s *System) {
		s.codec = codec
	}
}

// New builds a System. Collaborators not supplied through options get
// defaults that share the system's logger and metrics; the default cipher
// draws a fresh key.
func New(opts ...Option) (*System, error) {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.source == nil {
		s.source = generator.New()
	}
	if s.model == nil {
		modelOpts := []prediction.Option{prediction.WithLogger(s.logger)}
		if s.metrics != nil {
			modelOpts = append(modelOpts, prediction.WithMetrics(s.metrics))
		}
		s.model = prediction.New(modelOpts...)
	}
	if s.codec == nil {
		codecOpts := []store.Option{store.WithLogger(s.logger)}
		if s.metrics != nil {
			codecOpts = append(codecOpts, store.WithMetrics(s.metrics))
		}
		s.codec = store.New(codecOpts...)
	}
	if s.cipher == nil {
		c, err := fieldcrypt.New()
		if err != nil {
			return nil, err
		}
		s.cipher = c
	}
	return s, nil
}

// Generate appends count new records to the collection and returns them.
func (s *System) Generate(ctx context.Context, count int) ([]models.Record, error) {
	if count < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "count must be a positive integer")
	}
	batch := make([]models.Record, count)
	for i := range batch {
		r := s.source.Generate()
		if err := r.Validate(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "record source produced an invalid identity")
		}
		batch[i] = r
	}
	s.records = append(s.records, batch...)

	s.logger.InfoContext(ctx, "identities generated", "count", count, "total", len(s.records))
	if s.metrics != nil {
		s.metrics.IncrementGenerated(count)
	}
	return slices.Clone(batch), nil
}

// Records returns a copy of the collection in insertion order.
func (s *System) Records() []models.Record {
	return slices.Clone(s.records)
}

// Train fits the country model on the current collection.
func (s *System) Train(ctx context.Context) (prediction.TrainReport, error) {
	return s.model.Train(ctx, s.records)
}

// PredictEnhanced draws a fresh record and replaces its country with the
// model's prediction. The record is not added to the collection.
func (s *System) PredictEnhanced(ctx context.Context) (models.Record, error) {
	if !s.model.Trained() {
		return models.Record{}, dErrors.New(dErrors.CodeNotTrained, "model has not been trained yet")
	}
	r := s.source.Generate()
	country, err := s.model.Predict(r)
	if err != nil {
		return models.Record{}, err
	}
	r.Country = country
	if err := r.Validate(); err != nil {
		return models.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "enhanced identity is invalid")
	}
	s.logger.InfoContext(ctx, "enhanced identity generated", "country", string(country))
	return r, nil
}

// EncryptAll replaces the encrypted collection with one token set per record.
func (s *System) EncryptAll(ctx context.Context) ([]models.EncryptedRecord, error) {
	if len(s.records) == 0 {
		return nil, dErrors.New(dErrors.CodeEmptyCollection, "no identities to encrypt")
	}
	out := make([]models.EncryptedRecord, len(s.records))
	for i, r := range s.records {
		enc, err := s.cipher.EncryptRecord(r)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	s.encrypted = out

	s.logger.InfoContext(ctx, "identities encrypted", "count", len(out), "key_id", s.cipher.KeyID())
	return s.Encrypted(), nil
}

// DecryptAll opens the encrypted collection. Either every record opens and
// the decrypted collection is replaced, or nothing changes.
func (s *System) DecryptAll(ctx context.Context) ([]models.Record, error) {
	if len(s.encrypted) == 0 {
		return nil, dErrors.New(dErrors.CodeEmptyCollection, "no encrypted identities to decrypt")
	}
	out := make([]models.Record, len(s.encrypted))
	for i, enc := range s.encrypted {
		r, err := s.cipher.DecryptRecord(enc)
		if err != nil {
			s.logger.WarnContext(ctx, "decryption failed", "index", i, "key_id", s.cipher.KeyID())
			if s.metrics != nil {
				s.metrics.IncrementDecryptionFailures()
			}
			return nil, err
		}
		out[i] = r
	}
	s.decrypted = out

	s.logger.InfoContext(ctx, "identities decrypted", "count", len(out), "key_id", s.cipher.KeyID())
	return slices.Clone(out), nil
}

// Encrypted returns a copy of the last encryption result.
func (s *System) Encrypted() []models.EncryptedRecord {
	out := make([]models.EncryptedRecord, len(s.encrypted))
	for i, enc := range s.encrypted {
		cp := make(models.EncryptedRecord, len(enc))
		for f, token := range enc {
			cp[f] = token
		}
		out[i] = cp
	}
	return out
}

// Decrypted returns a copy of the last decryption result.
func (s *System) Decrypted() []models.Record {
	return slices.Clone(s.decrypted)
}

// Analyze computes statistics over a snapshot of the collection.
func (s *System) Analyze(ctx context.Context) (analyzer.Report, error) {
	return analyzer.New(s.records).Report()
}

// Export writes the collection in the named format.
func (s *System) Export(ctx context.Context, format, destination string) error {
	f, err := store.ParseFormat(format)
	if err != nil {
		return err
	}
	return s.codec.Write(ctx, s.records, f, destination)
}

// Import replaces the collection with the records read from source. On any
// failure the collection is left as it was.
func (s *System) Import(ctx context.Context, format, source string) (int, error) {
	f, err := store.ParseFormat(format)
	if err != nil {
		return 0, err
	}
	records, err := s.codec.Read(ctx, f, source)
	if err != nil {
		return 0, err
	}
	s.records = records
	return len(records), nil
}

// Validate runs every field check against the record at index.
func (s *System) Validate(index int) (validate.Report, error) {
	r, err := s.at(index)
	if err != nil {
		return validate.Report{}, err
	}
	return validate.Record(r), nil
}

// IDCard issues an identity card for the record at index.
func (s *System) IDCard(index int) (models.IDCard, error) {
	r, err := s.at(index)
	if err != nil {
		return models.IDCard{}, err
	}
	return s.source.IDCard(r), nil
}

// SaveToFile writes the collection as JSON lines.
func (s *System) SaveToFile(ctx context.Context, path string) error {
	return s.codec.WriteLines(ctx, s.records, path)
}

func (s *System) at(index int) (models.Record, error) {
	if index < 0 || index >= len(s.records) {
		return models.Record{}, dErrors.New(dErrors.CodeInvalidInput,
			"index "+strconv.Itoa(index)+" is out of range for "+strconv.Itoa(len(s.records))+" identities")
	}
	return s.records[index], nil
}
