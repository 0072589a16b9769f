package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Both searches enumerate candidates feature by feature in ascending threshold
// order and keep the first strict minimum, accumulating partition aggregates
// in the same row order: left sides forward through the stably sorted rows,
// right sides backward. They therefore agree bit for bit on the chosen rule.

// searchFunc finds the best rule for rows restricted to features.
type searchFunc func(d *dataset, rows, features []int, imp ImpurityFunc) SplitRule

// sortedOrder returns rows stably sorted by feature f.
func sortedOrder(d *dataset, rows []int, f int) []int {
	order := append([]int(nil), rows...)
	sort.SliceStable(order, func(a, b int) bool {
		return d.x[order[a]][f] < d.x[order[b]][f]
	})
	return order
}

func splitLoss(nl, nr int, ml, mr float64) float64 {
	n := float64(nl + nr)
	return float64(nl)/n*ml + float64(nr)/n*mr
}

// exhaustiveSearch rebuilds both partitions for every observed value of every
// feature. O(n²·p).
func exhaustiveSearch(d *dataset, rows, features []int, imp ImpurityFunc) SplitRule {
	best := degenerateRule()
	left, right := NewStats(d.k), NewStats(d.k)
	for _, f := range features {
		order := sortedOrder(d, rows, f)
		for i, r := range order {
			v := d.x[r][f]
			if i > 0 && d.x[order[i-1]][f] == v {
				continue
			}
			left.Reset()
			right.Reset()
			for _, q := range order {
				if d.x[q][f] < v {
					left.Add(d.y[q], d.cls[q], d.weight(q))
				}
			}
			for j := len(order) - 1; j >= 0; j-- {
				q := order[j]
				if !(d.x[q][f] < v) {
					right.Add(d.y[q], d.cls[q], d.weight(q))
				}
			}
			loss := math.Inf(1)
			if left.N > 0 && right.N > 0 {
				loss = splitLoss(left.N, right.N, imp(left), imp(right))
			}
			if loss < best.Score {
				best = SplitRule{Feature: f, Threshold: v, Score: loss}
			}
		}
	}
	return best
}

// sortedSearch sorts each feature once and sweeps prefix and suffix
// aggregates, scoring only cut points where the sorted value changes.
// O(n·p·log n).
func sortedSearch(d *dataset, rows, features []int, imp ImpurityFunc) SplitRule {
	best := degenerateRule()
	m := len(rows)
	if m < 2 {
		return best
	}
	left, right := NewStats(d.k), NewStats(d.k)
	rightScore := make([]float64, m)
	for _, f := range features {
		order := sortedOrder(d, rows, f)
		cut := func(i int) bool { return d.x[order[i-1]][f] != d.x[order[i]][f] }

		right.Reset()
		for i := m - 1; i >= 1; i-- {
			q := order[i]
			right.Add(d.y[q], d.cls[q], d.weight(q))
			if cut(i) {
				rightScore[i] = imp(right)
			}
		}
		left.Reset()
		for i := 1; i < m; i++ {
			q := order[i-1]
			left.Add(d.y[q], d.cls[q], d.weight(q))
			if !cut(i) {
				continue
			}
			loss := splitLoss(i, m-i, imp(left), rightScore[i])
			if loss < best.Score {
				best = SplitRule{Feature: f, Threshold: d.x[order[i]][f], Score: loss}
			}
		}
	}
	return best
}

// subspace wraps a search so that each call sees a random subset of k
// features. The returned Feature is already an original column index.
func subspace(search searchFunc, rng *rand.Rand, k int) searchFunc {
	return func(d *dataset, rows, features []int, imp ImpurityFunc) SplitRule {
		picked := append([]int(nil), features...)
		rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
		if k < len(picked) {
			picked = picked[:k]
		}
		return search(d, rows, picked, imp)
	}
}

func allFeatures(p int) []int {
	f := make([]int, p)
	for i := range f {
		f[i] = i
	}
	return f
}

func runSearch(search searchFunc, X, y mat.Matrix, w []float64, crit Criterion) (SplitRule, []int, []int, error) {
	entry, err := lookupCriterion(crit)
	if err != nil {
		return SplitRule{}, nil, nil, err
	}
	d, err := newDataset("tree.Split", X, y, w)
	if err != nil {
		return SplitRule{}, nil, nil, err
	}
	if entry.weighted && w == nil {
		return SplitRule{}, nil, nil, missingWeight("tree.Split")
	}
	rows := d.allRows()
	rule := search(d, rows, allFeatures(d.p), entry.fn)
	left, right := d.partition(rows, rule)
	return rule, left, right, nil
}

// ExhaustiveSplit evaluates every (feature, observed value) candidate and
// returns the best rule with its left and right row indices in ascending
// order. A degenerate rule puts every row on the left.
func ExhaustiveSplit(X, y mat.Matrix, w []float64, crit Criterion) (SplitRule, []int, []int, error) {
	return runSearch(exhaustiveSearch, X, y, w, crit)
}

// SortedSplit is the accelerated equivalent of ExhaustiveSplit.
func SortedSplit(X, y mat.Matrix, w []float64, crit Criterion) (SplitRule, []int, []int, error) {
	return runSearch(sortedSearch, X, y, w, crit)
}

// SubspaceSplit runs SortedSplit over k columns drawn at random with rng.
// The returned rule names the original column.
func SubspaceSplit(X, y mat.Matrix, w []float64, crit Criterion, k int, rng *rand.Rand) (SplitRule, []int, []int, error) {
	if k < 1 {
		return SplitRule{}, nil, nil, errors.NewValidationError("max_features", "must be at least 1", k)
	}
	return runSearch(subspace(sortedSearch, rng, k), X, y, w, crit)
}
