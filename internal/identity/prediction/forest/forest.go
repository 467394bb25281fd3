// Package forest is a small random forest classifier: bagged CART trees split
// on Gini impurity with a random feature subset per node. Class probabilities
// are averaged across trees.
package forest

import (
	"math"
	"math/rand/v2"
	"strconv"

	dErrors "idsynth/pkg/domain-errors"
)

type Config struct {
	// Trees is the number of trees in the ensemble.
	Trees int
	// MaxDepth bounds tree depth; 0 grows until leaves are pure.
	MaxDepth int
	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int
	// MaxFeatures is the number of features tried per split; 0 means
	// floor(sqrt(features)).
	MaxFeatures int
	Seed        uint64
}

func DefaultConfig() Config {
	return Config{
		Trees:           100,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// Forest is a fitted ensemble. It is read-only after Fit and safe for
// concurrent prediction.
type Forest struct {
	trees    []*node
	classes  int
	features int
}

// Fit trains a forest on rows X with labels y in [0, classes).
func Fit(cfg Config, X [][]float64, y []int, classes int) (*Forest, error) {
	if err := checkInput(X, y, classes); err != nil {
		return nil, err
	}
	if cfg.Trees < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "forest needs at least one tree")
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	features := len(X[0])
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = max(1, int(math.Sqrt(float64(features))))
	}
	cfg.MaxFeatures = min(cfg.MaxFeatures, features)

	seeder := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x2545f4914f6cdd1d))
	f := &Forest{
		trees:    make([]*node, cfg.Trees),
		classes:  classes,
		features: features,
	}
	for t := range f.trees {
		b := &builder{
			cfg:     cfg,
			x:       X,
			y:       y,
			classes: classes,
			rng:     rand.New(rand.NewPCG(seeder.Uint64(), seeder.Uint64())),
		}
		f.trees[t] = b.build(b.bootstrap(len(X)), 0)
	}
	return f, nil
}

// PredictProba returns the mean class distribution of the trees' leaves.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.features {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			"expected "+strconv.Itoa(f.features)+" features, got "+strconv.Itoa(len(x)))
	}
	proba := make([]float64, f.classes)
	for _, t := range f.trees {
		for c, p := range t.leaf(x).proba {
			proba[c] += p
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.trees))
	}
	return proba, nil
}

// Predict returns the most probable class; ties go to the lowest class index.
func (f *Forest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return best, nil
}

// Score returns the fraction of rows whose prediction equals the label.
// An empty set scores 0.
func (f *Forest) Score(X [][]float64, y []int) (float64, error) {
	if len(X) != len(y) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "rows and labels differ in length")
	}
	if len(X) == 0 {
		return 0, nil
	}
	correct := 0
	for i, x := range X {
		got, err := f.Predict(x)
		if err != nil {
			return 0, err
		}
		if got == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X)), nil
}

func (f *Forest) Trees() int    { return len(f.trees) }
func (f *Forest) Classes() int  { return f.classes }
func (f *Forest) Features() int { return f.features }

// Split shuffles the indices [0, n) and holds out ceil(testFraction*n) of
// them for testing. At least one index always stays in the training part.
func Split(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	perm := rng.Perm(n)
	nTest := 0
	if testFraction > 0 {
		nTest = int(math.Ceil(testFraction * float64(n)))
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	return perm[nTest:], perm[:nTest]
}

func checkInput(X [][]float64, y []int, classes int) error {
	if len(X) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "no training rows")
	}
	if len(X) != len(y) {
		return dErrors.New(dErrors.CodeInvalidInput, "rows and labels differ in length")
	}
	if classes < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one class is required")
	}
	width := len(X[0])
	if width == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rows have no features")
	}
	for i, row := range X {
		if len(row) != width {
			return dErrors.New(dErrors.CodeInvalidInput, "row "+strconv.Itoa(i)+" has the wrong number of features")
		}
		if y[i] < 0 || y[i] >= classes {
			return dErrors.New(dErrors.CodeInvalidInput, "label of row "+strconv.Itoa(i)+" is out of range")
		}
	}
	return nil
}
