// Package linear は重み付き最小二乗による線形回帰を提供する。
// 回帰木の葉モデル（tree.LinearLeaf）として使われるため、数行しかない
// パーティションや重み付き学習でも解が求まるよう小さなリッジ項を加えている。
package linear

import (
	"math"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/core/parallel"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultAlpha はリッジ項のデフォルト値
const DefaultAlpha = 1e-6

// LinearRegression は多出力対応の線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	Coef         *mat.Dense // 係数 (NFeatures × NTargets)
	Intercept    []float64  // 切片 (NTargets)
	NFeatures    int
	NTargets     int
	FitIntercept bool
	Alpha        float64
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{FitIntercept: true, Alpha: DefaultAlpha}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit は重みなしで学習する
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	return lr.FitWeighted(X, y, nil)
}

// FitWeighted は正規方程式 (AᵀWA + αI)β = AᵀWy を Cholesky 分解で解く。
// A は切片列を先頭に加えた X、W は重みの対角行列。w が nil なら全行 1。
func (lr *LinearRegression) FitWeighted(X, y mat.Matrix, w []float64) error {
	lr.Reset()
	if X == nil {
		return errors.NewValueError("LinearRegression.Fit", "feature matrix is required")
	}
	r, c := X.Dims()
	ry, k := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if w != nil && len(w) != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, len(w), 0)
	}
	if lr.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", lr.Alpha)
	}

	offset := 0
	if lr.FitIntercept {
		offset = 1
	}
	d := c + offset

	// sqrt(w) で行をスケーリングすると AᵀWA = (√W A)ᵀ(√W A)
	a := mat.NewDense(r, d, nil)
	b := mat.NewDense(r, k, nil)
	var mass float64
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			s := 1.0
			if w != nil {
				s = math.Sqrt(math.Max(w[i], 0))
			}
			if lr.FitIntercept {
				a.Set(i, 0, s)
			}
			for j := 0; j < c; j++ {
				a.Set(i, j+offset, s*X.At(i, j))
			}
			for j := 0; j < k; j++ {
				b.Set(i, j, s*y.At(i, j))
			}
		}
	})
	if w == nil {
		mass = float64(r)
	} else {
		for _, v := range w {
			mass += math.Max(v, 0)
		}
	}
	if mass <= 0 {
		return errors.NewValueError("LinearRegression.Fit", "sample weights sum to zero")
	}

	gram := mat.NewSymDense(d, nil)
	gram.SymOuterK(1, a.T())
	for j := offset; j < d; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lr.Alpha)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	var atb mat.Dense
	atb.Mul(a.T(), b)
	var beta mat.Dense
	if err := chol.SolveTo(&beta, &atb); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.Wrap(errors.ErrSingularMatrix, err.Error()))
	}

	lr.NFeatures = c
	lr.NTargets = k
	lr.Intercept = make([]float64, k)
	if lr.FitIntercept {
		mat.Row(lr.Intercept, 0, &beta)
	}
	lr.Coef = mat.DenseCopyOf(beta.Slice(offset, d, 0, k))
	lr.SetFitted()
	return nil
}

// Predict は X·Coef + Intercept を返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}
	out := mat.NewDense(r, lr.NTargets, nil)
	out.Mul(X, lr.Coef)
	for i := 0; i < r; i++ {
		for j := 0; j < lr.NTargets; j++ {
			out.Set(i, j, out.At(i, j)+lr.Intercept[j])
		}
	}
	return out, nil
}

// Score は最初の目的変数について決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	truth := mat.Col(nil, 0, y)
	pred := mat.Col(nil, 0, yPred)
	if stat.Variance(truth, nil) == 0 || r < 2 {
		return 0, errors.Newf("total sum of squares is zero")
	}
	return stat.RSquaredFrom(pred, truth, nil), nil
}

// GetParams はハイパーパラメータを返す
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.FitIntercept,
		"alpha":         lr.Alpha,
	}
}
