package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	s := NewStandardScalerDefault()
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 10}, s.Mean, 1e-12)
	// 定数列はスケール 1
	assert.InDeltaSlice(t, []float64{1.118033988749895, 1}, s.Scale, 1e-12)

	col := mat.Col(nil, 0, Xs)
	assert.InDeltaSlice(t, []float64{-1.3416407864998738, -0.4472135954999579, 0.4472135954999579, 1.3416407864998738}, col, 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, mat.Col(nil, 1, Xs))

	back, err := s.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScalerWithoutMean(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})
	s := NewStandardScaler(false, true)
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, s.Mean)
	assert.InDeltaSlice(t, []float64{2, 4}, mat.Col(nil, 0, Xs), 1e-12)
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScalerDefault()

	_, err := s.Transform(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(1, 3, nil))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	assert.Contains(t, s.String(), "n_features=2")
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 5,
		5, 5,
		10, 5,
	})
	m := NewMinMaxScaler([2]float64{-1, 1})
	Xs, err := m.FitTransform(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, mat.Col(nil, 0, Xs), 1e-12)
	assert.Equal(t, []float64{-1, -1, -1}, mat.Col(nil, 1, Xs))

	bad := NewMinMaxScaler([2]float64{1, 1})
	var ve *errors.ValidationError
	assert.True(t, errors.As(bad.Fit(X), &ve))
}
