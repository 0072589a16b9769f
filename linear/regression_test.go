package linear

import (
	"testing"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.InDelta(t, 2.0, lr.Coef.At(0, 0), 1e-4)
	assert.InDelta(t, 1.0, lr.Intercept[0], 1e-4)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-3)
	assert.InDelta(t, 13.0, pred.At(1, 0), 1e-3)
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))
	assert.InDelta(t, 2.0, lr.Coef.At(0, 0), 1e-4)
	assert.Equal(t, 0.0, lr.Intercept[0])
}

func TestLinearRegression_MultiTarget(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		1, 3,
	})
	y := mat.NewDense(5, 2, nil)
	for i := 0; i < 5; i++ {
		a, b := X.At(i, 0), X.At(i, 1)
		y.Set(i, 0, 3*a-b+2)
		y.Set(i, 1, -a+4*b)
	}

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	pred, err := lr.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(y, pred, 1e-3))
}

func TestLinearRegression_WeightsIgnoreZeroRows(t *testing.T) {
	// The last row is an outlier with zero weight.
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 6, 8, 100})
	w := []float64{0.25, 0.25, 0.25, 0.25, 0}

	lr := NewLinearRegression()
	require.NoError(t, lr.FitWeighted(X, y, w))
	assert.InDelta(t, 2.0, lr.Coef.At(0, 0), 1e-3)
	assert.InDelta(t, 0.0, lr.Intercept[0], 1e-3)
}

func TestLinearRegression_SingleRowIsSolvable(t *testing.T) {
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(mat.NewDense(1, 2, []float64{3, 4}), mat.NewDense(1, 1, []float64{7})))

	pred, err := lr.Predict(mat.NewDense(1, 2, []float64{3, 4}))
	require.NoError(t, err)
	assert.InDelta(t, 7.0, pred.At(0, 0), 1e-3)
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	err = lr.FitWeighted(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{1, 2}), []float64{0, 0})
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3})))
	_, err = lr.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.True(t, errors.As(err, &dim))
}

func TestLinearRegression_ScoreOnNoisyData(t *testing.T) {
	noise := distuv.Normal{Mu: 0, Sigma: 0.1}
	n := 200
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		X.Set(i, 0, x)
		y.Set(i, 0, 5*x+noise.Rand())
	}

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)
}
