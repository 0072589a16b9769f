package tree

import (
	"fmt"

	"github.com/YuminosukeSato/scitree/linear"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LinearLeaf fits a (weighted) least-squares regressor on the rows reaching a leaf.
type LinearLeaf struct {
	Model *linear.LinearRegression
}

// NewLinearLeaf returns an unfitted linear leaf with the default ridge term.
func NewLinearLeaf(opts ...linear.Option) *LinearLeaf {
	return &LinearLeaf{Model: linear.NewLinearRegression(opts...)}
}

func (l *LinearLeaf) Fit(X, y mat.Matrix, w []float64) error {
	if X == nil {
		return errors.NewValueError("LinearLeaf.Fit", "feature matrix is required")
	}
	if l.Model == nil {
		l.Model = linear.NewLinearRegression()
	}
	return l.Model.FitWeighted(X, y, w)
}

func (l *LinearLeaf) Predict(X mat.Matrix) (mat.Matrix, error) {
	if l.Model == nil || !l.Model.IsFitted() {
		return nil, errors.NewNotFittedError("LinearLeaf", "Predict")
	}
	return l.Model.Predict(X)
}

func (l *LinearLeaf) Describe() (string, error) {
	if l.Model == nil || !l.Model.IsFitted() {
		return "", errors.NewNotFittedError("LinearLeaf", "Describe")
	}
	coef := make([]float64, 0, l.Model.NFeatures*l.Model.NTargets)
	for j := 0; j < l.Model.NTargets; j++ {
		coef = append(coef, mat.Col(nil, j, l.Model.Coef)...)
	}
	return fmt.Sprintf("linear coef=%s intercept=%s", formatVector(coef), formatVector(l.Model.Intercept)), nil
}
