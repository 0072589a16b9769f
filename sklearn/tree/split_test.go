package tree

import (
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func assertSameSplit(t *testing.T, X, y mat.Matrix, w []float64, crit Criterion) SplitRule {
	t.Helper()
	exRule, exLeft, exRight, err := ExhaustiveSplit(X, y, w, crit)
	require.NoError(t, err)
	soRule, soLeft, soRight, err := SortedSplit(X, y, w, crit)
	require.NoError(t, err)

	assert.Equal(t, exRule, soRule)
	assert.Equal(t, exLeft, soLeft)
	assert.Equal(t, exRight, soRight)
	return exRule
}

func TestSplitSearchesAgree(t *testing.T) {
	t.Run("toy classification", func(t *testing.T) {
		X, y := toyData()
		rule := assertSameSplit(t, X, y, nil, CriterionGini)
		assert.Equal(t, 0, rule.Feature)
		assert.Equal(t, 5.5, rule.Threshold)
		assert.InDelta(t, 0.3, rule.Score, 1e-12)
	})

	t.Run("toy classification infgain", func(t *testing.T) {
		X, y := toyData()
		assertSameSplit(t, X, y, nil, CriterionInfGain)
	})

	t.Run("regression with ties", func(t *testing.T) {
		X, y := regressionData()
		rule := assertSameSplit(t, X, y, nil, CriterionDeviation)
		assert.Equal(t, 0, rule.Feature)
		assert.Equal(t, 4.0, rule.Threshold)
	})

	t.Run("weighted", func(t *testing.T) {
		X, y := toyData()
		w := []float64{0.05, 0.2, 0.1, 0.05, 0.1, 0.1, 0.1, 0.1, 0.15, 0.05}
		assertSameSplit(t, X, y, w, CriterionWGini)
		assertSameSplit(t, X, y, w, CriterionWInfGain)
	})

	t.Run("synthetic blobs", func(t *testing.T) {
		for seed := uint64(1); seed <= 5; seed++ {
			X, y, err := datasets.MakeClassification(60, 4, 3, 2, seed)
			require.NoError(t, err)
			assertSameSplit(t, X, y, nil, CriterionGini)
		}
	})

	t.Run("polynomial", func(t *testing.T) {
		X, y, err := datasets.MakePolynomial(50, datasets.DefaultPolynomial, 0.05, 9)
		require.NoError(t, err)
		assertSameSplit(t, X, y, nil, CriterionDeviation)
	})
}

func TestSplitPartitionsFollowPredicate(t *testing.T) {
	X, y := toyData()
	rule, left, right, err := SortedSplit(X, y, nil, CriterionGini)
	require.NoError(t, err)

	assert.Len(t, append(left, right...), 10)
	for _, i := range left {
		assert.Less(t, X.At(i, rule.Feature), rule.Threshold)
	}
	for _, i := range right {
		assert.GreaterOrEqual(t, X.At(i, rule.Feature), rule.Threshold)
	}
}

func TestSplitDegenerate(t *testing.T) {
	// 全行同じ特徴量なので分割候補がない
	X := mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	y := mat.NewDense(4, 2, []float64{1, 0, 0, 1, 1, 0, 0, 1})

	for _, search := range []func(X, y mat.Matrix, w []float64, crit Criterion) (SplitRule, []int, []int, error){ExhaustiveSplit, SortedSplit} {
		rule, left, right, err := search(X, y, nil, CriterionGini)
		require.NoError(t, err)
		assert.True(t, rule.Degenerate())
		assert.Equal(t, 0, rule.Feature)
		assert.Equal(t, []int{0, 1, 2, 3}, left)
		assert.Empty(t, right)
	}
}

func TestSplitRequiresWeightsForWeightedCriteria(t *testing.T) {
	X, y := toyData()
	_, _, _, err := SortedSplit(X, y, nil, CriterionWGini)
	var mw *errors.MissingWeightError
	assert.True(t, errors.As(err, &mw))
}

func TestSubspaceReturnsOriginalFeatureIndex(t *testing.T) {
	X, y := toyData()
	d, err := newDataset("test", X, y, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	search := subspace(sortedSearch, rng, 1)
	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		rule := search(d, d.allRows(), allFeatures(d.p), giniStats)
		seen[rule.Feature] = true
		// 選ばれた列だけで探索した結果と一致する
		assert.Equal(t, sortedSearch(d, d.allRows(), []int{rule.Feature}, giniStats), rule)
	}
	assert.Greater(t, len(seen), 1)
}

func TestSubspaceSplitWithAllFeatures(t *testing.T) {
	X, y := toyData()
	want, wl, wr, err := SortedSplit(X, y, nil, CriterionGini)
	require.NoError(t, err)

	// k >= p では列の順序が変わっても最初の最小値が同じになるとは限らないので、
	// スコアと分割結果の大きさのみ比較する
	rule, left, right, err := SubspaceSplit(X, y, nil, CriterionGini, 3, rand.New(rand.NewPCG(4, 4)))
	require.NoError(t, err)
	assert.Equal(t, want.Score, rule.Score)
	assert.Equal(t, len(wl)+len(wr), len(left)+len(right))

	_, _, _, err = SubspaceSplit(X, y, nil, CriterionGini, 0, rand.New(rand.NewPCG(4, 4)))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func BenchmarkSortedSplit(b *testing.B) {
	X, y, err := datasets.MakeClassification(1000, 8, 3, 2, 1)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = SortedSplit(X, y, nil, CriterionGini)
	}
}

func BenchmarkExhaustiveSplit(b *testing.B) {
	X, y, err := datasets.MakeClassification(200, 8, 3, 2, 1)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = ExhaustiveSplit(X, y, nil, CriterionGini)
	}
}
