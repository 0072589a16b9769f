package ensemble

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// minRTError stops AdaBoost.RT when no resampled row is predicted within
// the threshold.
const minRTError = 1e-10

// AdaBoostRT is threshold-based AdaBoost for regression. Each member is a
// critically pruned deviation tree with linear leaves, fitted on a weighted
// resample of the training rows.
type AdaBoostRT struct {
	model.BaseEstimator

	Config Config
	Trees  []*tree.Tree
	// Beta[i] = err/(1−err) where err is the weight of the rows Trees[i]
	// predicted within Threshold relative error.
	Beta      []float64
	Errors    []float64
	NFeatures int
	NTargets  int
}

// NewAdaBoostRT returns five rounds with relative error threshold 0.01.
func NewAdaBoostRT(opts ...Option) *AdaBoostRT {
	return &AdaBoostRT{Config: apply(DefaultConfig(), opts)}
}

func (a *AdaBoostRT) member(round int) *tree.Tree {
	return tree.NewPrunedTree(
		tree.WithHoldOut(0.5),
		tree.WithCritical(0.8),
		tree.WithMaxDepth(a.Config.MaxDepth),
		tree.WithCriterion(tree.CriterionDeviation),
		tree.WithLeaf(tree.LeafLinear),
		tree.WithSeed(a.Config.Seed+uint64(round)),
	)
}

// resample draws rows one at a time with probability proportional to w,
// removing each drawn row from later draws. Rows with zero weight are never
// drawn.
func resample(w []float64, src rand.Source) []int {
	sampler := sampleuv.NewWeighted(w, src)
	rows := make([]int, 0, len(w))
	for range w {
		i, ok := sampler.Take()
		if !ok {
			break
		}
		rows = append(rows, i)
	}
	return rows
}

// Fit runs up to Rounds boosting rounds. A round in which the weight of the
// rows predicted within Threshold falls below 1e-10 is discarded and stops
// boosting with an EnsembleDivergenceWarning. If that happens in the first
// round Fit returns an error wrapping ErrEmptyEnsemble and the model stays
// unfitted.
func (a *AdaBoostRT) Fit(X, y mat.Matrix) error {
	a.Reset()
	a.Trees, a.Beta, a.Errors = nil, nil, nil
	const op = "AdaBoostRT.Fit"
	if err := a.Config.validateBoosting(); err != nil {
		return err
	}
	n, p, k, err := checkData(op, X, y)
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("ensemble").With(log.ModelNameKey, "AdaBoostRT")
	start := time.Now()
	src := rand.NewPCG(a.Config.Seed, a.Config.Seed)
	w := uniformWeights(n)
	for i := 0; i < a.Config.Rounds; i++ {
		rows := resample(w, src)
		xs, ys := datasets.Rows(X, rows), datasets.Rows(y, rows)
		t := a.member(i)
		if err := t.Fit(xs, ys); err != nil {
			return errors.Wrapf(err, "%s: round %d", op, i+1)
		}
		pred, err := t.Predict(xs)
		if err != nil {
			return errors.Wrapf(err, "%s: round %d", op, i+1)
		}

		rel := relativeErrors(ys, pred)
		correct := make([]bool, n)
		for j, r := range rows {
			if rel[j] < a.Config.Threshold {
				correct[r] = true
			}
		}
		var errRate float64
		for j, ok := range correct {
			if ok {
				errRate += w[j]
			}
		}
		a.Errors = append(a.Errors, errRate)
		logger.Debug("boosting round", log.IterationKey, i+1, log.LossKey, errRate)

		if errRate < minRTError {
			errors.Warn(errors.NewEnsembleDivergenceWarning("AdaBoostRT", i+1, len(a.Trees), errRate))
			break
		}
		errRate = errors.ClipValue(errRate, 0, 1-minRTError)
		beta := errRate / (1 - errRate)
		a.Trees = append(a.Trees, t)
		a.Beta = append(a.Beta, beta)
		logger.Debug("member kept", log.IterationKey, i+1, log.BetaKey, beta)
		w = reweight(w, correct, beta*beta)
	}

	if len(a.Trees) == 0 {
		return errors.Wrapf(errors.ErrEmptyEnsemble, "%s: first round error %.4g", op, a.Errors[0])
	}
	a.NFeatures = p
	a.NTargets = k
	a.SetFitted()
	logger.Info("fit completed",
		log.MembersKey, len(a.Trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// relativeErrors returns the mean absolute error of every row divided by the
// magnitude of the target mean. A zero mean falls back to the absolute error.
func relativeErrors(y, pred mat.Matrix) []float64 {
	r, k := y.Dims()
	all := make([]float64, 0, r*k)
	for i := 0; i < r; i++ {
		all = append(all, mat.Row(nil, i, y)...)
	}
	scale := math.Abs(stat.Mean(all, nil))
	if scale < errors.Epsilon {
		errors.Warn(errors.NewUndefinedMetricWarning("relative error", "zero target mean", 0))
		scale = 1
	}

	out := make([]float64, r)
	diff := make([]float64, k)
	for i := range out {
		for j := 0; j < k; j++ {
			diff[j] = math.Abs(pred.At(i, j) - y.At(i, j))
		}
		out[i] = floats.Sum(diff) / float64(k) / scale
	}
	return out
}

// Predict returns the vote-weighted average Σ log(1/beta_i)·ŷ_i / Σ log(1/beta_i).
// When the votes cancel out the members are averaged uniformly.
func (a *AdaBoostRT) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("AdaBoostRT", "Predict")
	}
	n, err := checkPredict("AdaBoostRT.Predict", X, a.NFeatures)
	if err != nil {
		return nil, err
	}
	votes := a.votes()
	z := mat.NewDense(n, a.NTargets, nil)
	var scaled mat.Dense
	for i, t := range a.Trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		scaled.Scale(votes[i], pred)
		z.Add(z, &scaled)
	}
	z.Scale(1/floats.Sum(votes), z)
	return z, nil
}

func (a *AdaBoostRT) votes() []float64 {
	votes := voteWeights(a.Beta)
	if math.Abs(floats.Sum(votes)) < errors.Epsilon {
		return uniformWeights(len(votes))
	}
	return votes
}

// Members returns the trees with their votes.
func (a *AdaBoostRT) Members() []Member {
	votes := a.votes()
	members := make([]Member, len(a.Trees))
	for i, t := range a.Trees {
		members[i] = Member{Tree: t, Weight: votes[i]}
	}
	return members
}

// Describe lists every member's vote and tree dump.
func (a *AdaBoostRT) Describe() (string, error) {
	if !a.IsFitted() {
		return "", errors.NewNotFittedError("AdaBoostRT", "Describe")
	}
	return describeMembers(a.Members(), boostHeader)
}

// GetParams returns the hyper-parameters.
func (a *AdaBoostRT) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"rounds":    a.Config.Rounds,
		"max_depth": a.Config.MaxDepth,
		"threshold": a.Config.Threshold,
		"seed":      a.Config.Seed,
	}
}

// Summary returns a JSON-ready description including the per-round errors.
func (a *AdaBoostRT) Summary() *model.Summary {
	return boostSummary("AdaBoostRT", a.GetParams(), a.IsFitted(), a.Members(), a.Beta, a.Errors)
}
