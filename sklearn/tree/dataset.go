package tree

import (
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// dataset is a row-major view of a fit call's inputs. Partitions are slices
// of row indices into it, kept in ascending order.
type dataset struct {
	x   [][]float64
	y   [][]float64
	cls []int     // argmax column of each target row
	w   []float64 // nil when unweighted
	p   int
	k   int
}

func newDataset(op string, X, y mat.Matrix, w []float64) (*dataset, error) {
	if X == nil || y == nil {
		return nil, errors.NewValueError(op, "features and targets are required")
	}
	n, p := X.Dims()
	ny, k := y.Dims()
	if n == 0 || p == 0 || k == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return nil, errors.NewDimensionError(op, n, ny, 0)
	}
	if w != nil && len(w) != n {
		return nil, errors.NewDimensionError(op, n, len(w), 0)
	}
	if err := errors.CheckFiniteMatrix(op, X); err != nil {
		return nil, err
	}
	d := &dataset{
		x:   make([][]float64, n),
		y:   make([][]float64, n),
		cls: make([]int, n),
		w:   w,
		p:   p,
		k:   k,
	}
	for i := 0; i < n; i++ {
		d.x[i] = mat.Row(nil, i, X)
		d.y[i] = mat.Row(nil, i, y)
		d.cls[i] = floats.MaxIdx(d.y[i])
	}
	return d, nil
}

func (d *dataset) n() int { return len(d.x) }

func (d *dataset) allRows() []int {
	rows := make([]int, d.n())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func (d *dataset) weight(i int) float64 {
	if d.w == nil {
		return 1
	}
	return d.w[i]
}

// gatherX copies the feature rows of a partition into a dense matrix.
func (d *dataset) gatherX(rows []int) *mat.Dense {
	out := mat.NewDense(len(rows), d.p, nil)
	for i, r := range rows {
		out.SetRow(i, d.x[r])
	}
	return out
}

func (d *dataset) gatherY(rows []int) *mat.Dense {
	out := mat.NewDense(len(rows), d.k, nil)
	for i, r := range rows {
		out.SetRow(i, d.y[r])
	}
	return out
}

// gatherW returns the partition's weights normalised to sum to 1, or nil for
// unweighted data. A zero-mass partition is returned as-is.
func (d *dataset) gatherW(rows []int) []float64 {
	if d.w == nil {
		return nil
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = d.w[r]
	}
	if sum := floats.Sum(out); sum > 0 {
		floats.Scale(1/sum, out)
	}
	return out
}

// partition splits rows by rule, preserving order.
func (d *dataset) partition(rows []int, rule SplitRule) (left, right []int) {
	left = make([]int, 0, len(rows))
	right = make([]int, 0, len(rows))
	for _, r := range rows {
		if rule.GoesLeft(d.x[r]) {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}
