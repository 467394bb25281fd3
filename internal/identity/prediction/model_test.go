package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"idsynth/internal/identity/generator"
	"idsynth/internal/identity/metrics"
	"idsynth/internal/identity/models"
	"idsynth/internal/identity/prediction/forest"
	dErrors "idsynth/pkg/domain-errors"
)

type ModelSuite struct {
	suite.Suite
	ctx context.Context
	gen *generator.Generator
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) SetupTest() {
	s.ctx = context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.gen = generator.NewSeeded(1, generator.WithClock(func() time.Time { return now }))
}

func (s *ModelSuite) records(n int) []models.Record {
	out := make([]models.Record, n)
	for i := range out {
		out[i] = s.gen.Generate()
	}
	return out
}

// occupationCountries makes country a function of occupation so the model
// has something to learn.
func (s *ModelSuite) occupationCountries(n int) []models.Record {
	countries := models.Countries()
	occupations := models.Occupations()
	out := s.records(n)
	for i := range out {
		out[i].Occupation = occupations[i%len(occupations)]
		out[i].Country = countries[i%len(occupations)]
	}
	return out
}

func (s *ModelSuite) smallModel(opts ...Option) *Model {
	return New(append([]Option{WithForestConfig(forest.Config{Trees: 20, Seed: 42})}, opts...)...)
}

func (s *ModelSuite) TestPredictBeforeTrainFails() {
	m := s.smallModel()
	s.False(m.Trained())

	_, err := m.Predict(s.gen.Generate())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotTrained))
}

func (s *ModelSuite) TestInsufficientData() {
	m := s.smallModel()

	s.Run("no records", func() {
		_, err := m.Train(s.ctx, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientData))
	})

	s.Run("one record", func() {
		_, err := m.Train(s.ctx, s.records(1))
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientData))
	})

	s.Run("single country", func() {
		recs := s.records(10)
		for i := range recs {
			recs[i].Country = models.CountryItaly
		}
		_, err := m.Train(s.ctx, recs)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientData))
	})

	s.False(m.Trained())
}

func (s *ModelSuite) TestTrainAndPredict() {
	m := s.smallModel()
	report, err := m.Train(s.ctx, s.occupationCountries(200))
	s.Require().NoError(err)
	s.True(m.Trained())
	s.Equal(40, report.TestSize)
	s.Equal(160, report.TrainSize)
	s.Equal(10, report.Classes)
	s.Greater(report.Accuracy, 0.8)

	probe := s.gen.Generate()
	probe.Occupation = models.OccupationLawyer
	got, err := m.Predict(probe)
	s.Require().NoError(err)
	s.Equal(models.CountryAustralia, got)
}

func (s *ModelSuite) TestTwoRecordsTwoCountries() {
	recs := s.records(2)
	recs[0].Country = models.CountryUSA
	recs[1].Country = models.CountryJapan

	m := s.smallModel()
	report, err := m.Train(s.ctx, recs)
	s.Require().NoError(err)
	s.Equal(1, report.TrainSize)
	s.Equal(1, report.TestSize)

	got, err := m.Predict(recs[0])
	s.Require().NoError(err)
	s.Contains([]models.Country{models.CountryUSA, models.CountryJapan}, got)
}

func (s *ModelSuite) TestFailedTrainingKeepsPreviousModel() {
	m := s.smallModel()
	_, err := m.Train(s.ctx, s.occupationCountries(100))
	s.Require().NoError(err)

	probe := s.gen.Generate()
	before, err := m.Predict(probe)
	s.Require().NoError(err)

	_, err = m.Train(s.ctx, s.records(1))
	s.Require().Error(err)

	bad := s.records(5)
	bad[3].Ethnicity = "Martian"
	_, err = m.Train(s.ctx, bad)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))

	s.True(m.Trained())
	after, err := m.Predict(probe)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *ModelSuite) TestPredictSurfacesEncodingErrors() {
	m := s.smallModel()
	_, err := m.Train(s.ctx, s.occupationCountries(50))
	s.Require().NoError(err)

	probe := s.gen.Generate()
	probe.Ethnicity = "Unknown"
	_, err = m.Predict(probe)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))

	probe = s.gen.Generate()
	probe.Age = models.Text("not a number")
	_, err = m.Predict(probe)
	s.True(dErrors.HasCode(err, dErrors.CodeOutOfDomain))
}

func (s *ModelSuite) TestTextualAgesAreUsable() {
	recs := s.occupationCountries(40)
	for i := range recs {
		recs[i].Age = models.Text(recs[i].Age.String())
	}
	m := s.smallModel()
	_, err := m.Train(s.ctx, recs)
	s.Require().NoError(err)
}

func (s *ModelSuite) TestFeatures() {
	r := s.gen.Generate()
	r.Age = models.Integer(40)
	r.Gender = models.GenderMale
	r.Ethnicity = models.EthnicityAsian
	r.Education = models.EducationPhD
	r.Occupation = models.OccupationNurse

	x, err := Features(r)
	s.Require().NoError(err)
	s.Equal([]float64{40, 1, 3, 4, 9}, x)

	r.Gender = models.GenderFemale
	x, err = Features(r)
	s.Require().NoError(err)
	s.Equal(0.0, x[1])
	s.Len(FeatureNames, len(x))
}

func (s *ModelSuite) TestMetricsRecordOutcomes() {
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	m := s.smallModel(WithMetrics(met))

	_, err := m.Train(s.ctx, s.records(1))
	s.Require().Error(err)
	report, err := m.Train(s.ctx, s.occupationCountries(50))
	s.Require().NoError(err)

	s.Equal(1.0, testutil.ToFloat64(met.TrainingRuns.WithLabelValues("failure")))
	s.Equal(1.0, testutil.ToFloat64(met.TrainingRuns.WithLabelValues("success")))
	s.Equal(report.Accuracy, testutil.ToFloat64(met.ModelAccuracy))
}
