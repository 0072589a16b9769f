package tree

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// assertRoutedByRule は各行の予測がその行自身の分割述語に対応する葉の値であることを確認する
func assertRoutedByRule(t *testing.T, s *DecisionStump, X mat.Matrix) {
	t.Helper()
	pred, err := s.Predict(X)
	require.NoError(t, err)

	rule := s.Rule()
	n, _ := X.Dims()
	one := mat.NewDense(1, 1, nil)
	leftR, err := s.RootNode.Left.Leaf.Predict(one)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		got := mat.Row(nil, i, pred)
		if X.At(i, rule.Feature) < rule.Threshold {
			assert.Equal(t, mat.Row(nil, 0, leftR), got, "row %d", i)
			continue
		}
		rightR, err := s.RootNode.Right.Leaf.Predict(one)
		require.NoError(t, err)
		assert.Equal(t, mat.Row(nil, 0, rightR), got, "row %d", i)
	}
}

func TestDecisionStumpToy(t *testing.T) {
	X, y := toyData()
	s := NewDecisionStump()
	require.NoError(t, s.Fit(X, y))

	rule := s.Rule()
	assert.Equal(t, 0, rule.Feature)
	assert.Equal(t, 5.5, rule.Threshold)
	assert.InDelta(t, 0.3, rule.Score, 1e-12)

	assertRoutedByRule(t, s, X)

	desc, err := s.Describe()
	require.NoError(t, err)
	assert.Equal(t, "if feat[0] < 5.5 then:\n  [1, 0, 0]\nelse:\n  [0, 0.5, 0.5]\n", desc)
}

func TestDecisionStumpRoutesEveryRow(t *testing.T) {
	for seed := uint64(1); seed <= 3; seed++ {
		X, y, err := datasets.MakeClassification(40, 3, 2, 1.5, seed)
		require.NoError(t, err)
		s := NewDecisionStump(WithCriterion(CriterionInfGain))
		require.NoError(t, s.Fit(X, y))
		assertRoutedByRule(t, s, X)
	}
}

func TestDecisionStumpDegenerateKeepsEmptyRight(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 2, 2})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	s := NewDecisionStump(WithCriterion(CriterionDeviation))
	require.NoError(t, s.Fit(X, y))

	assert.True(t, s.Rule().Degenerate())
	assert.True(t, s.RootNode.Left.Leaf.(*ZeroRule).IsFitted())
	assert.False(t, s.RootNode.Right.Leaf.(*ZeroRule).IsFitted())

	// 分割がないので全行が左の葉 (平均 2) に送られる
	pred, err := s.Predict(mat.NewDense(2, 1, []float64{-100, 100}))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, mat.Col(nil, 0, pred))

	desc, err := s.Describe()
	require.NoError(t, err)
	assert.Contains(t, desc, "<unfitted>")

	t.Run("non-finite rows are rejected", func(t *testing.T) {
		_, err := s.Predict(mat.NewDense(2, 1, []float64{0, math.Inf(1)}))
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
		var nf *errors.NotFittedError
		assert.False(t, errors.As(err, &nf))

		_, err = s.Predict(mat.NewDense(1, 1, []float64{math.NaN()}))
		assert.True(t, errors.As(err, &ve))
	})
}

func TestDecisionStumpWeighted(t *testing.T) {
	X, y := toyData()
	w := make([]float64, 10)
	for i := range w {
		w[i] = 0.1
	}
	s := NewDecisionStump(WithCriterion(CriterionWGini), WithLeaf(LeafWeightedZero))

	var mw *errors.MissingWeightError
	assert.True(t, errors.As(s.Fit(X, y), &mw))
	assert.True(t, errors.As(s.FitWeighted(X, y, nil), &mw))
	assert.False(t, s.IsFitted())

	require.NoError(t, s.FitWeighted(X, y, w))
	// 一様な重みなら重みなしの Gini と同じ分割になる
	assert.Equal(t, 0, s.Rule().Feature)
	assert.Equal(t, 5.5, s.Rule().Threshold)
	assertRoutedByRule(t, s, X)
}

func TestDecisionStumpNotFitted(t *testing.T) {
	s := NewDecisionStump()
	X, _ := toyData()

	_, err := s.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	_, err = s.Describe()
	assert.True(t, errors.As(err, &nf))
	assert.True(t, s.Rule().Degenerate())
}
