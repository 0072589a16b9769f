// Package datasets は学習・テスト用の合成データ生成と、CSV / .npy 形式の読み込みを提供します。
//
// 目的変数は常に n×k の行列で、分類は one-hot、回帰は 1 列です。
package datasets

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Polynomial holds the coefficients of a·x³ + b·x² + c·x + d.
type Polynomial struct {
	A, B, C, D float64
}

// DefaultPolynomial is the cubic used by the regression demos.
var DefaultPolynomial = Polynomial{A: -0.8, B: -0.2, C: 0.9, D: 0.5}

// Eval evaluates the polynomial at x.
func (p Polynomial) Eval(x float64) float64 {
	return p.A*x*x*x + p.B*x*x + p.C*x + p.D
}

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// MakePolynomial draws n points x ~ U(-1, 1), evaluates the polynomial, adds
// N(0, sigma) noise and rescales the targets to [0, 1]. X and y are n×1.
func MakePolynomial(n int, coeff Polynomial, sigma float64, seed uint64) (X, y *mat.Dense, err error) {
	if n < 2 {
		return nil, nil, errors.NewValidationError("n", "must be at least 2", n)
	}
	if sigma < 0 {
		return nil, nil, errors.NewValidationError("sigma", "must be non-negative", sigma)
	}
	src := newSource(seed)
	unif := distuv.Uniform{Min: -1, Max: 1, Src: src}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = unif.Rand()
		ys[i] = coeff.Eval(xs[i])
	}
	if sigma > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
		for i := range ys {
			ys[i] += noise.Rand()
		}
	}
	lo, hi := floats.Min(ys), floats.Max(ys)
	if span := hi - lo; span > 0 {
		floats.AddConst(-lo, ys)
		floats.Scale(1/span, ys)
	}
	return mat.NewDense(n, 1, xs), mat.NewDense(n, 1, ys), nil
}

// PolynomialSplit generates independent train and test sets with
// round(n·testRatio) test rows, each normalised on its own.
func PolynomialSplit(n int, coeff Polynomial, testRatio, sigma float64, seed uint64) (xTrain, yTrain, xTest, yTest *mat.Dense, err error) {
	nTest := int(math.Round(float64(n) * testRatio))
	if xTrain, yTrain, err = MakePolynomial(n-nTest, coeff, sigma, seed); err != nil {
		return
	}
	xTest, yTest, err = MakePolynomial(nTest, coeff, sigma, seed+1)
	return
}

// MakeClassification samples isotropic Gaussian blobs, one per class, with
// centres drawn from U(-spread, spread) per feature and unit variance. Rows
// cycle through the classes so every class has ⌊n/classes⌋ or more members.
// y is one-hot n×classes.
func MakeClassification(n, features, classes int, spread float64, seed uint64) (X, y *mat.Dense, err error) {
	switch {
	case n < 1:
		return nil, nil, errors.NewValidationError("n", "must be positive", n)
	case features < 1:
		return nil, nil, errors.NewValidationError("features", "must be positive", features)
	case classes < 2:
		return nil, nil, errors.NewValidationError("classes", "must be at least 2", classes)
	}
	src := newSource(seed)
	centre := distuv.Uniform{Min: -spread, Max: spread, Src: src}
	centres := make([][]float64, classes)
	for c := range centres {
		centres[c] = make([]float64, features)
		for j := range centres[c] {
			centres[c][j] = centre.Rand()
		}
	}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	X = mat.NewDense(n, features, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % classes
		labels[i] = c
		for j := 0; j < features; j++ {
			X.Set(i, j, centres[c][j]+noise.Rand())
		}
	}
	return X, OneHot(labels, classes), nil
}

// MakeIrisLike is a 4-feature, 3-class blob set shaped like the classic iris
// benchmark: 150 rows, moderately overlapping classes.
func MakeIrisLike(seed uint64) (X, y *mat.Dense, err error) {
	return MakeClassification(150, 4, 3, 3, seed)
}

// OneHot encodes class labels in [0, classes) as an n×classes indicator matrix.
func OneHot(labels []int, classes int) *mat.Dense {
	out := mat.NewDense(len(labels), classes, nil)
	for i, c := range labels {
		out.Set(i, c, 1)
	}
	return out
}

// Labels returns the argmax column of every row of a one-hot matrix.
func Labels(y mat.Matrix) []int {
	r, k := y.Dims()
	out := make([]int, r)
	row := make([]float64, k)
	for i := range out {
		mat.Row(row, i, y)
		out[i] = floats.MaxIdx(row)
	}
	return out
}

// TrainTestSplit shuffles rows with the given seed and returns
// round(n·testRatio) of them as the test set. Both sets keep the original
// relative row order.
func TrainTestSplit(X, y mat.Matrix, testRatio float64, seed uint64) (xTrain, yTrain, xTest, yTest *mat.Dense, err error) {
	n, _ := X.Dims()
	if ny, _ := y.Dims(); ny != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, ny, 0)
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_ratio", "must be in (0, 1)", testRatio)
	}
	nTest := int(math.Round(float64(n) * testRatio))
	if nTest == 0 || nTest == n {
		return nil, nil, nil, nil, errors.NewValidationError("test_ratio", "leaves an empty train or test set", testRatio)
	}
	perm := rand.New(newSource(seed)).Perm(n)
	isTest := make([]bool, n)
	for _, i := range perm[:nTest] {
		isTest[i] = true
	}
	var trainRows, testRows []int
	for i := 0; i < n; i++ {
		if isTest[i] {
			testRows = append(testRows, i)
		} else {
			trainRows = append(trainRows, i)
		}
	}
	return Rows(X, trainRows), Rows(y, trainRows), Rows(X, testRows), Rows(y, testRows), nil
}

// Rows gathers the given rows of m into a new dense matrix.
func Rows(m mat.Matrix, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(r, j))
		}
	}
	return out
}
