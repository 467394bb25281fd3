// Package prediction learns the mapping from a record's demographic fields to
// its country.
package prediction

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"idsynth/internal/identity/codec"
	"idsynth/internal/identity/metrics"
	"idsynth/internal/identity/models"
	"idsynth/internal/identity/prediction/forest"
	dErrors "idsynth/pkg/domain-errors"
)

// FeatureNames lists the feature vector layout built by Features.
var FeatureNames = []string{"age", "gender", "ethnicity", "education", "occupation"}

// DefaultTestFraction is the share of rows held out to estimate accuracy.
const DefaultTestFraction = 0.2

// TrainReport describes a successful training call.
type TrainReport struct {
	Accuracy  float64       `json:"accuracy"`
	TrainSize int           `json:"train_size"`
	TestSize  int           `json:"test_size"`
	Classes   int           `json:"classes"`
	Duration  time.Duration `json:"duration"`
}

// Model wraps a random forest that predicts a record's country.
//
// Invariants:
//   - a model is usable only after a Train call succeeded
//   - a failed Train leaves the previously trained forest in place
type Model struct {
	forestCfg    forest.Config
	testFraction float64
	forest       *forest.Forest
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Model)

func WithForestConfig(cfg forest.Config) Option {
	return func(m *Model) {
		m.forestCfg = cfg
	}
}

func WithTestFraction(fraction float64) Option {
	return func(m *Model) {
		m.testFraction = fraction
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(model *Model) {
		model.metrics = m
	}
}

func New(opts ...Option) *Model {
	m := &Model{
		forestCfg:    forest.DefaultConfig(),
		testFraction: DefaultTestFraction,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Trained reports whether Predict can be called.
func (m *Model) Trained() bool {
	return m.forest != nil
}

// Train fits a new forest on records. It needs at least two records covering
// at least two countries. The held-out accuracy is logged and returned.
func (m *Model) Train(ctx context.Context, records []models.Record) (TrainReport, error) {
	start := time.Now()
	report, err := m.train(records)
	if err != nil {
		m.logger.WarnContext(ctx, "training failed", "records", len(records), "error", err)
		if m.metrics != nil {
			m.metrics.IncrementTraining(false)
		}
		return TrainReport{}, err
	}
	report.Duration = time.Since(start)

	m.logger.InfoContext(ctx, "model trained",
		"accuracy", report.Accuracy,
		"train_size", report.TrainSize,
		"test_size", report.TestSize,
		"classes", report.Classes,
		"duration_ms", report.Duration.Milliseconds(),
	)
	if m.metrics != nil {
		m.metrics.IncrementTraining(true)
		m.metrics.SetAccuracy(report.Accuracy)
		m.metrics.ObserveTraining(start)
	}
	return report, nil
}

func (m *Model) train(records []models.Record) (TrainReport, error) {
	if len(records) < 2 {
		return TrainReport{}, dErrors.New(dErrors.CodeInsufficientData,
			"not enough data to train the model: at least 2 records are required")
	}

	X := make([][]float64, len(records))
	y := make([]int, len(records))
	classes := make(map[int]struct{})
	for i, r := range records {
		x, err := Features(r)
		if err != nil {
			return TrainReport{}, err
		}
		label, err := Label(r)
		if err != nil {
			return TrainReport{}, err
		}
		X[i], y[i] = x, label
		classes[label] = struct{}{}
	}
	if len(classes) < 2 {
		return TrainReport{}, dErrors.New(dErrors.CodeInsufficientData,
			"not enough data to train the model: records must span at least 2 countries")
	}

	rng := rand.New(rand.NewPCG(m.forestCfg.Seed, m.forestCfg.Seed))
	trainIdx, testIdx := forest.Split(len(records), m.testFraction, rng)

	fitted, err := forest.Fit(m.forestCfg, pickRows(X, trainIdx), pickLabels(y, trainIdx), codec.Country.Len())
	if err != nil {
		return TrainReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fit model")
	}
	accuracy, err := fitted.Score(pickRows(X, testIdx), pickLabels(y, testIdx))
	if err != nil {
		return TrainReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to score model")
	}

	m.forest = fitted
	return TrainReport{
		Accuracy:  accuracy,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		Classes:   len(classes),
	}, nil
}

// Predict returns the country the model assigns to r.
func (m *Model) Predict(r models.Record) (models.Country, error) {
	if m.forest == nil {
		return "", dErrors.New(dErrors.CodeNotTrained, "model has not been trained yet")
	}
	x, err := Features(r)
	if err != nil {
		return "", err
	}
	label, err := m.forest.Predict(x)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "prediction failed")
	}
	return codec.Country.Decode(label)
}

// Features builds [age, gender, ethnicity, education, occupation] for r.
// Gender encodes as 1 for Male and 0 for Female.
func Features(r models.Record) ([]float64, error) {
	age, err := r.Age.Int64()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeOutOfDomain, "age cannot be used as a feature")
	}
	gender, err := codec.Gender.Encode(r.Gender)
	if err != nil {
		return nil, err
	}
	ethnicity, err := codec.Ethnicity.Encode(r.Ethnicity)
	if err != nil {
		return nil, err
	}
	education, err := codec.Education.Encode(r.Education)
	if err != nil {
		return nil, err
	}
	occupation, err := codec.Occupation.Encode(r.Occupation)
	if err != nil {
		return nil, err
	}
	return []float64{float64(age), float64(gender), float64(ethnicity), float64(education), float64(occupation)}, nil
}

// Label returns the country code of r.
func Label(r models.Record) (int, error) {
	return codec.Country.Encode(r.Country)
}

func pickRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func pickLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
