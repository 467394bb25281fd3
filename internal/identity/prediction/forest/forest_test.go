package forest

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "idsynth/pkg/domain-errors"
)

// threeBands labels rows by which band their first feature falls in; the
// second feature is noise.
func threeBands(n int, seed uint64) ([][]float64, []int) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		v := rng.Float64() * 30
		X[i] = []float64{v, rng.Float64()}
		y[i] = int(v / 10)
	}
	return X, y
}

func TestFitLearnsSeparableData(t *testing.T) {
	X, y := threeBands(300, 1)
	f, err := Fit(DefaultConfig(), X, y, 3)
	require.NoError(t, err)

	testX, testY := threeBands(100, 2)
	acc, err := f.Score(testX, testY)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9)

	got, err := f.Predict([]float64{25, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestPredictProbaIsADistribution(t *testing.T) {
	X, y := threeBands(60, 3)
	f, err := Fit(Config{Trees: 10, Seed: 9}, X, y, 4)
	require.NoError(t, err)

	proba, err := f.PredictProba([]float64{12, 0.1})
	require.NoError(t, err)
	require.Len(t, proba, 4)
	sum := 0.0
	for _, p := range proba {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Zero(t, proba[3], "unseen class gets no mass")
}

func TestFitIsDeterministicForASeed(t *testing.T) {
	X, y := threeBands(80, 4)
	a, err := Fit(Config{Trees: 15, Seed: 7}, X, y, 3)
	require.NoError(t, err)
	b, err := Fit(Config{Trees: 15, Seed: 7}, X, y, 3)
	require.NoError(t, err)

	probe, _ := threeBands(40, 5)
	for _, x := range probe {
		pa, _ := a.PredictProba(x)
		pb, _ := b.PredictProba(x)
		assert.Equal(t, pa, pb)
	}
}

func TestSingleClassTrainingPredictsThatClass(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}}
	y := []int{5, 5}
	f, err := Fit(Config{Trees: 3}, X, y, 10)
	require.NoError(t, err)

	got, err := f.Predict([]float64{100, 100})
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestFitRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		X       [][]float64
		y       []int
		classes int
	}{
		"no rows":         {nil, nil, 2},
		"length mismatch": {[][]float64{{1}}, []int{0, 1}, 2},
		"ragged rows":     {[][]float64{{1, 2}, {1}}, []int{0, 1}, 2},
		"label too big":   {[][]float64{{1}, {2}}, []int{0, 2}, 2},
		"negative label":  {[][]float64{{1}, {2}}, []int{0, -1}, 2},
		"no features":     {[][]float64{{}, {}}, []int{0, 1}, 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Fit(DefaultConfig(), tc.X, tc.y, tc.classes)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}

	t.Run("zero trees", func(t *testing.T) {
		_, err := Fit(Config{}, [][]float64{{1}}, []int{0}, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestPredictRejectsWrongWidth(t *testing.T) {
	f, err := Fit(Config{Trees: 1}, [][]float64{{1, 2}, {3, 4}}, []int{0, 1}, 2)
	require.NoError(t, err)
	_, err = f.Predict([]float64{1})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSplit(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	train, test := Split(10, 0.2, rng)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	train, test = Split(2, 0.2, rng)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)

	train, test = Split(7, 0.2, rng)
	assert.Len(t, test, 2, "ceil(1.4)")
	assert.Len(t, train, 5)

	train, test = Split(1, 0.2, rng)
	assert.Len(t, train, 1)
	assert.Empty(t, test)

	seen := make(map[int]bool)
	train, test = Split(50, 0.2, rng)
	for _, i := range append(train, test...) {
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, seen, 50)
}
