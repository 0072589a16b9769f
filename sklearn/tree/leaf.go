package tree

import (
	"encoding/gob"
	"fmt"
	"strings"
	"sync"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LeafModel is the predictor at a tree's frontier.
//
// X may be nil for leaves that ignore features. Weighted leaves fail with a
// MissingWeightError when w is nil.
type LeafModel interface {
	Fit(X, y mat.Matrix, w []float64) error
	Predict(X mat.Matrix) (mat.Matrix, error)
	Describe() (string, error)
}

// LeafKind names a registered leaf model constructor.
type LeafKind string

const (
	LeafZero         LeafKind = "zero"
	LeafWeightedZero LeafKind = "weighted-zero"
	LeafLinear       LeafKind = "linear"
)

// LeafFactory builds a fresh, unfitted leaf.
type LeafFactory func() LeafModel

var (
	leavesMu sync.RWMutex
	leaves   = map[LeafKind]LeafFactory{
		LeafZero:         func() LeafModel { return &ZeroRule{} },
		LeafWeightedZero: func() LeafModel { return &WeightedZeroRule{} },
		LeafLinear:       func() LeafModel { return NewLinearLeaf() },
	}
)

// RegisterLeaf makes an externally supplied leaf model available by kind.
// Concrete types must also be registered with encoding/gob to be persisted.
func RegisterLeaf(kind LeafKind, factory LeafFactory) {
	leavesMu.Lock()
	defer leavesMu.Unlock()
	leaves[kind] = factory
}

// NewLeaf constructs an unfitted leaf of the given kind.
func NewLeaf(kind LeafKind) (LeafModel, error) {
	leavesMu.RLock()
	defer leavesMu.RUnlock()
	f, ok := leaves[kind]
	if !ok {
		return nil, errors.NewValidationError("leaf", "unknown leaf model", string(kind))
	}
	return f(), nil
}

func init() {
	gob.Register(&ZeroRule{})
	gob.Register(&WeightedZeroRule{})
	gob.Register(&LinearLeaf{})
}

// ZeroRule predicts the column means of the targets it was fitted on.
type ZeroRule struct {
	model.BaseEstimator
	R []float64
}

// Fit ignores X and w.
func (z *ZeroRule) Fit(_, y mat.Matrix, _ []float64) error {
	z.Reset()
	r, k := y.Dims()
	if r == 0 {
		return errors.NewModelError("ZeroRule.Fit", "empty partition", errors.ErrEmptyData)
	}
	z.R = make([]float64, k)
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			z.R[j] += y.At(i, j)
		}
	}
	for j := range z.R {
		z.R[j] /= float64(r)
	}
	z.SetFitted()
	return nil
}

// Predict broadcasts R to every row of X.
func (z *ZeroRule) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !z.IsFitted() {
		return nil, errors.NewNotFittedError("ZeroRule", "Predict")
	}
	return broadcast(X, z.R), nil
}

func (z *ZeroRule) Describe() (string, error) {
	if !z.IsFitted() {
		return "", errors.NewNotFittedError("ZeroRule", "Describe")
	}
	return formatVector(z.R), nil
}

// WeightedZeroRule predicts Σ w·y / Σ w. With zero total weight it falls
// back to the plain column mean.
type WeightedZeroRule struct {
	model.BaseEstimator
	R []float64
}

func (z *WeightedZeroRule) Fit(_, y mat.Matrix, w []float64) error {
	z.Reset()
	r, k := y.Dims()
	if w == nil {
		return errors.NewMissingWeightError("WeightedZeroRule.Fit")
	}
	if len(w) != r {
		return errors.NewDimensionError("WeightedZeroRule.Fit", r, len(w), 0)
	}
	if r == 0 {
		return errors.NewModelError("WeightedZeroRule.Fit", "empty partition", errors.ErrEmptyData)
	}
	var mass float64
	for _, v := range w {
		mass += v
	}
	z.R = make([]float64, k)
	for i := 0; i < r; i++ {
		wi := w[i]
		if mass == 0 {
			wi = 1
		}
		for j := 0; j < k; j++ {
			z.R[j] += wi * y.At(i, j)
		}
	}
	denom := mass
	if mass == 0 {
		denom = float64(r)
	}
	for j := range z.R {
		z.R[j] /= denom
	}
	z.SetFitted()
	return nil
}

func (z *WeightedZeroRule) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !z.IsFitted() {
		return nil, errors.NewNotFittedError("WeightedZeroRule", "Predict")
	}
	return broadcast(X, z.R), nil
}

func (z *WeightedZeroRule) Describe() (string, error) {
	if !z.IsFitted() {
		return "", errors.NewNotFittedError("WeightedZeroRule", "Describe")
	}
	return formatVector(z.R), nil
}

func broadcast(X mat.Matrix, r []float64) *mat.Dense {
	n, _ := X.Dims()
	out := mat.NewDense(n, len(r), nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, r)
	}
	return out
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.4g", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
