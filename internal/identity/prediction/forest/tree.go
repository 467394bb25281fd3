package forest

import (
	"math/rand/v2"
	"slices"
)

type node struct {
	feature     int
	threshold   float64
	left, right *node
	proba       []float64
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// leaf walks x down to its leaf. Values <= threshold go left.
func (n *node) leaf(x []float64) *node {
	cur := n
	for !cur.isLeaf() {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur
}

type builder struct {
	cfg     Config
	x       [][]float64
	y       []int
	classes int
	rng     *rand.Rand
}

// bootstrap draws n row indices with replacement.
func (b *builder) bootstrap(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = b.rng.IntN(n)
	}
	return idx
}

func (b *builder) build(idx []int, depth int) *node {
	counts := b.counts(idx)
	if isPure(counts) || len(idx) < b.cfg.MinSamplesSplit || (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return b.leafNode(counts, len(idx))
	}

	s, ok := b.bestSplit(idx, counts)
	if !ok {
		return b.leafNode(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   s.feature,
		threshold: s.threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

// bestSplit tries MaxFeatures randomly chosen features and keeps drawing
// further features only while no valid split has been found, so constant
// features never stop a node from splitting.
func (b *builder) bestSplit(idx []int, counts []int) (split, bool) {
	best := split{impurity: 2}
	found := false
	order := b.rng.Perm(len(b.x[0]))

	sorted := slices.Clone(idx)
	left := make([]int, b.classes)
	right := make([]int, b.classes)

	for tried, feature := range order {
		if tried >= b.cfg.MaxFeatures && found {
			break
		}
		slices.SortFunc(sorted, func(a, c int) int {
			va, vc := b.x[a][feature], b.x[c][feature]
			switch {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})

		clear(left)
		copy(right, counts)
		n := len(sorted)
		for pos := 0; pos < n-1; pos++ {
			label := b.y[sorted[pos]]
			left[label]++
			right[label]--

			cur, next := b.x[sorted[pos]][feature], b.x[sorted[pos+1]][feature]
			if cur == next {
				continue
			}
			nl, nr := pos+1, n-pos-1
			impurity := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if impurity < best.impurity {
				best = split{feature: feature, threshold: (cur + next) / 2, impurity: impurity}
				found = true
			}
		}
	}
	return best, found
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func (b *builder) leafNode(counts []int, n int) *node {
	proba := make([]float64, b.classes)
	if n > 0 {
		for c, k := range counts {
			proba[c] = float64(k) / float64(n)
		}
	}
	return &node{proba: proba}
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range counts {
		p := float64(k) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, k := range counts {
		if k > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}
