package ensemble

import (
	"bytes"
	"testing"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func toyData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 3, []float64{
		5.1, 3.5, 1.4,
		4.9, 3.0, 1.4,
		6.2, 2.9, 4.3,
		5.9, 3.0, 5.1,
		6.3, 3.3, 6.0,
		5.5, 2.4, 3.8,
		4.7, 3.2, 1.3,
		6.5, 3.0, 5.8,
		5.7, 2.8, 4.1,
		5.0, 3.6, 1.4,
	})
	return X, datasets.OneHot([]int{0, 0, 1, 2, 2, 1, 0, 2, 1, 0}, 3)
}

func TestBaggingSingleMemberMatchesTree(t *testing.T) {
	X, y, err := datasets.MakeClassification(80, 4, 3, 2, 3)
	require.NoError(t, err)

	cfgs := map[string]tree.Config{
		"DecisionTree": tree.DefaultConfig(),
		"RandomTree":   tree.NewRandomTree(2).Config,
	}
	for name, cfg := range cfgs {
		t.Run(name, func(t *testing.T) {
			b := NewBagging(WithNTrees(1), WithRatio(1.0), WithTree(name, cfg), WithSeed(9))
			require.NoError(t, b.Fit(X, y))

			cfg.Seed = 9
			direct := tree.New(name, cfg)
			require.NoError(t, direct.Fit(X, y))

			got, err := b.Predict(X)
			require.NoError(t, err)
			want, err := direct.Predict(X)
			require.NoError(t, err)
			assert.True(t, mat.Equal(want, got))
		})
	}
}

func TestBaggingPredictIsMemberMean(t *testing.T) {
	X, y := toyData()
	b := NewBagging(WithNTrees(4), WithRatio(0.7), WithSeed(1))
	require.NoError(t, b.Fit(X, y))
	require.Len(t, b.Trees, 4)

	got, err := b.Predict(X)
	require.NoError(t, err)

	want := mat.NewDense(10, 3, nil)
	for _, m := range b.Members() {
		assert.Equal(t, 0.25, m.Weight)
		pred, err := m.Tree.Predict(X)
		require.NoError(t, err)
		want.Add(want, pred)
	}
	want.Scale(0.25, want)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestBaggingParallelMatchesSequential(t *testing.T) {
	X, y, err := datasets.MakeClassification(120, 5, 3, 2, 4)
	require.NoError(t, err)

	seq := NewRandomForest(6, 2, WithSeed(5), WithNJobs(1))
	par := NewRandomForest(6, 2, WithSeed(5), WithNJobs(4))
	require.NoError(t, seq.Fit(X, y))
	require.NoError(t, par.Fit(X, y))

	for i := range seq.Trees {
		assert.Equal(t, seq.Trees[i].Root().Rules(), par.Trees[i].Root().Rules(), "member %d", i)
	}
	a, err := seq.Predict(X)
	require.NoError(t, err)
	b, err := par.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(a, b))
}

func TestRandomForestAccuracy(t *testing.T) {
	X, y, err := datasets.MakeClassification(150, 4, 3, 4, 6)
	require.NoError(t, err)

	forest := NewRandomForest(10, 2, WithSeed(2))
	require.NoError(t, forest.Fit(X, y))
	assert.Equal(t, "RandomForest", forest.Name)

	pred, err := forest.Predict(X)
	require.NoError(t, err)
	acc, err := metrics.Accuracy(y, pred)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.8)
}

func TestBaggingErrors(t *testing.T) {
	X, y := toyData()

	_, err := NewBagging().Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	var ve *errors.ValidationError
	assert.True(t, errors.As(NewBagging(WithNTrees(0)).Fit(X, y), &ve))
	assert.True(t, errors.As(NewBagging(WithRatio(1.5)).Fit(X, y), &ve))
	assert.True(t, errors.As(NewBagging(WithRatio(0.01)).Fit(X, y), &ve))
	assert.True(t, errors.As(NewBagging(WithTreeOptions(tree.WithMaxDepth(0))).Fit(X, y), &ve))

	var de *errors.DimensionError
	assert.True(t, errors.As(NewBagging().Fit(X, mat.NewDense(4, 3, nil)), &de))

	b := NewBagging()
	require.NoError(t, b.Fit(X, y))
	_, err = b.Predict(mat.NewDense(2, 5, nil))
	assert.True(t, errors.As(err, &de))
}

func TestBaggingDescribeSummaryAndGob(t *testing.T) {
	X, y := toyData()
	b := NewBagging(WithNTrees(2), WithTreeOptions(tree.WithMaxDepth(1)))
	require.NoError(t, b.Fit(X, y))

	desc, err := b.Describe()
	require.NoError(t, err)
	assert.Contains(t, desc, "tree#0\nif feat[")
	assert.Contains(t, desc, "tree#1\n")

	s := b.Summary()
	require.NoError(t, s.Validate())
	assert.Equal(t, []float64{0.5, 0.5}, s.MemberWeights)
	_, err = s.ToJSON()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(b, &buf))
	var loaded Bagging
	require.NoError(t, model.LoadModelFromReader(&loaded, &buf))
	want, err := b.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestAdaBoostM1PerfectFirstRound(t *testing.T) {
	X, y := toyData()
	single := tree.NewWeightedDecisionTree(tree.WithMaxDepth(2))
	require.NoError(t, single.FitWeighted(X, y, uniformWeights(10)))
	singlePred, err := single.Predict(X)
	require.NoError(t, err)
	acc, err := metrics.Accuracy(y, singlePred)
	require.NoError(t, err)
	require.Equal(t, 1.0, acc)

	a := NewAdaBoostM1(WithRounds(5), WithMaxDepth(2))
	require.NoError(t, a.Fit(X, y))
	assert.Len(t, a.Trees, 1)
	assert.Equal(t, []float64{0}, a.Beta)
	assert.Equal(t, []float64{0}, a.Errors)

	pred, err := a.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, metrics.Argmax(singlePred), metrics.Argmax(pred))
	// 完全な 1 ラウンド目でも投票重みは有限
	for i := 0; i < 10; i++ {
		row := mat.Row(nil, i, pred)
		assert.InDelta(t, 23.02585092994046, floats.Max(row), 1e-9)
	}
}

func TestAdaBoostM1Rounds(t *testing.T) {
	X, y, err := datasets.MakeClassification(150, 4, 3, 3, 12)
	require.NoError(t, err)

	a := NewAdaBoostM1(WithRounds(6), WithMaxDepth(2))
	require.NoError(t, a.Fit(X, y))
	require.NotEmpty(t, a.Trees)
	assert.Len(t, a.Beta, len(a.Trees))
	assert.GreaterOrEqual(t, len(a.Errors), len(a.Trees))
	assert.LessOrEqual(t, len(a.Errors), 6)
	for i, b := range a.Beta {
		assert.True(t, b >= 0 && b <= 1, "beta[%d]=%v", i, b)
	}

	pred, err := a.Predict(X)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 150, r)
	assert.Equal(t, 3, c)
	acc, err := metrics.Accuracy(y, pred)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.7)

	// 各行の投票の合計は全メンバーの投票重みの合計
	total := floats.Sum(memberWeights(a.Members()))
	for i := 0; i < r; i++ {
		assert.InDelta(t, total, floats.Sum(mat.Row(nil, i, pred)), 1e-9)
	}

	desc, err := a.Describe()
	require.NoError(t, err)
	assert.Contains(t, desc, "tree: #1 -- weight=")
}

func TestAdaBoostM1DivergenceOnFirstRound(t *testing.T) {
	logger := log.NewTestLogger(log.LevelDebug)
	prev := log.SetProvider(log.NewTestLoggerProvider(logger))
	defer log.SetProvider(prev)

	// 特徴量が全行同じなので分割できず、3 クラス均等なら誤差は 2/3
	X := mat.NewDense(6, 1, []float64{1, 1, 1, 1, 1, 1})
	y := datasets.OneHot([]int{0, 1, 2, 0, 1, 2}, 3)

	a := NewAdaBoostM1()
	err := a.Fit(X, y)
	assert.True(t, errors.Is(err, errors.ErrEmptyEnsemble))
	assert.False(t, a.IsFitted())
	assert.InDelta(t, 2.0/3, a.Errors[0], 1e-12)
	assert.True(t, logger.ContainsMessage("AdaBoostM1 stopped at round 1"))

	_, err = a.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestAdaBoostRT(t *testing.T) {
	X, y, err := datasets.MakePolynomial(120, datasets.DefaultPolynomial, 0.02, 8)
	require.NoError(t, err)

	a := NewAdaBoostRT(WithRounds(4), WithMaxDepth(3), WithThreshold(0.05), WithSeed(3))
	require.NoError(t, a.Fit(X, y))
	require.NotEmpty(t, a.Trees)
	assert.Len(t, a.Beta, len(a.Trees))

	pred, err := a.Predict(X)
	require.NoError(t, err)

	// 予測は投票重み付き平均
	members := a.Members()
	want := mat.NewDense(120, 1, nil)
	var total float64
	for _, m := range members {
		p, err := m.Tree.Predict(X)
		require.NoError(t, err)
		var scaled mat.Dense
		scaled.Scale(m.Weight, p)
		want.Add(want, &scaled)
		total += m.Weight
	}
	want.Scale(1/total, want)
	assert.True(t, mat.EqualApprox(want, pred, 1e-9))

	again := NewAdaBoostRT(WithRounds(4), WithMaxDepth(3), WithThreshold(0.05), WithSeed(3))
	require.NoError(t, again.Fit(X, y))
	assert.Equal(t, a.Errors, again.Errors)
}

func TestAdaBoostRTAllRowsWithinThreshold(t *testing.T) {
	X, y, err := datasets.MakePolynomial(60, datasets.DefaultPolynomial, 0.02, 1)
	require.NoError(t, err)

	a := NewAdaBoostRT(WithRounds(3), WithMaxDepth(2), WithThreshold(1e9))
	require.NoError(t, a.Fit(X, y))
	assert.Len(t, a.Trees, 3)

	// 全メンバーの重みが等しいので単純平均になる
	pred, err := a.Predict(X)
	require.NoError(t, err)
	mean := mat.NewDense(60, 1, nil)
	for _, m := range a.Members() {
		p, err := m.Tree.Predict(X)
		require.NoError(t, err)
		mean.Add(mean, p)
	}
	mean.Scale(1.0/3, mean)
	assert.True(t, mat.EqualApprox(mean, pred, 1e-9))
}

func TestAdaBoostRTNoRowWithinThreshold(t *testing.T) {
	X, y, err := datasets.MakePolynomial(40, datasets.DefaultPolynomial, 0.02, 1)
	require.NoError(t, err)

	a := NewAdaBoostRT(WithThreshold(0))
	err = a.Fit(X, y)
	assert.True(t, errors.Is(err, errors.ErrEmptyEnsemble))
	assert.Equal(t, []float64{0}, a.Errors)
}

func TestResampleIsWeightedPermutation(t *testing.T) {
	w := []float64{0.1, 0.2, 0, 0.3, 0.4}
	rows := resample(w, randSource(1))
	assert.ElementsMatch(t, []int{0, 1, 3, 4}, rows)
	// 入力の重みは変更しない
	assert.Equal(t, []float64{0.1, 0.2, 0, 0.3, 0.4}, w)
}

func TestReweightReturnsFreshNormalisedVector(t *testing.T) {
	w := []float64{0.25, 0.25, 0.25, 0.25}
	next := reweight(w, []bool{true, false, true, false}, 0.5)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, w)
	assert.InDeltaSlice(t, []float64{1.0 / 6, 2.0 / 6, 1.0 / 6, 2.0 / 6}, next, 1e-12)
}

func TestVoteWeights(t *testing.T) {
	v := voteWeights([]float64{0.5, 0})
	assert.InDelta(t, 0.6931471805599453, v[0], 1e-12)
	assert.InDelta(t, 23.02585092994046, v[1], 1e-9)

	assert.Equal(t, []float64{0.5, 0.5}, voteWeights([]float64{1, 1}))
}
