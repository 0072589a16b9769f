package ensemble

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Member is a fitted tree together with its voting weight.
type Member struct {
	Tree   *tree.Tree
	Weight float64
}

func checkData(op string, X, y mat.Matrix) (n, p, k int, err error) {
	if X == nil || y == nil {
		return 0, 0, 0, errors.NewValueError(op, "features and targets are required")
	}
	n, p = X.Dims()
	ny, k := y.Dims()
	if n == 0 || p == 0 || k == 0 {
		return 0, 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return 0, 0, 0, errors.NewDimensionError(op, n, ny, 0)
	}
	return n, p, k, nil
}

func checkPredict(op string, X mat.Matrix, p int) (int, error) {
	n, c := X.Dims()
	if c != p {
		return 0, errors.NewDimensionError(op, p, c, 1)
	}
	return n, nil
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// reweight returns a new weight vector in which the rows marked correct are
// scaled by factor, normalised to sum to 1. w itself is not modified.
func reweight(w []float64, correct []bool, factor float64) []float64 {
	next := make([]float64, len(w))
	for i, wi := range w {
		if correct[i] {
			wi *= factor
		}
		next[i] = wi
	}
	sum := floats.Sum(next)
	if sum <= 0 {
		return uniformWeights(len(w))
	}
	floats.Scale(1/sum, next)
	return next
}

// voteWeights maps each beta to log(1/beta). Beta is floored at
// errors.Epsilon so that a perfect round keeps a finite vote. When the votes
// cancel out every member gets 1/len(beta).
func voteWeights(beta []float64) []float64 {
	votes := make([]float64, len(beta))
	for i, b := range beta {
		votes[i] = -errors.StabilizeLog(b)
	}
	if floats.Sum(votes) == 0 {
		return uniformWeights(len(beta))
	}
	return votes
}

func describeMembers(members []Member, header func(i int, m Member) string) (string, error) {
	var b strings.Builder
	for i, m := range members {
		desc, err := m.Tree.Describe()
		if err != nil {
			return "", err
		}
		fmt.Fprintln(&b, header(i, m))
		b.WriteString(desc)
	}
	return b.String(), nil
}

func memberWeights(members []Member) []float64 {
	w := make([]float64, len(members))
	for i, m := range members {
		w[i] = m.Weight
	}
	return w
}
