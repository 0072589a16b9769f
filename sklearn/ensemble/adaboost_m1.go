package ensemble

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"gonum.org/v1/gonum/mat"
)

// AdaBoostM1 is discrete AdaBoost over weighted-Gini trees with weighted
// mean leaves. Targets are one-hot class indicators.
type AdaBoostM1 struct {
	model.BaseEstimator

	Config Config
	Trees  []*tree.Tree
	// Beta[i] = err/(1−err) of the round that produced Trees[i].
	Beta []float64
	// Errors is the weighted training error of every round run, including a
	// discarded final round.
	Errors    []float64
	NFeatures int
	NClasses  int
}

// NewAdaBoostM1 returns five rounds of depth-5 weighted trees.
func NewAdaBoostM1(opts ...Option) *AdaBoostM1 {
	return &AdaBoostM1{Config: apply(DefaultConfig(), opts)}
}

// Fit runs up to Rounds boosting rounds on the full data set.
//
// A perfect first round is kept alone. A later round whose error is above
// 0.5 or exactly 0 is discarded, an EnsembleDivergenceWarning is emitted and
// boosting stops. Truncation is reported as a warning; only when the first
// round already diverges is nothing left to keep, and Fit then returns an
// error wrapping ErrEmptyEnsemble with the model left unfitted.
func (a *AdaBoostM1) Fit(X, y mat.Matrix) error {
	a.Reset()
	a.Trees, a.Beta, a.Errors = nil, nil, nil
	const op = "AdaBoostM1.Fit"
	if err := a.Config.validateBoosting(); err != nil {
		return err
	}
	n, p, k, err := checkData(op, X, y)
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("ensemble").With(log.ModelNameKey, "AdaBoostM1")
	start := time.Now()
	w := uniformWeights(n)
	for i := 0; i < a.Config.Rounds; i++ {
		t := tree.NewWeightedDecisionTree(tree.WithMaxDepth(a.Config.MaxDepth), tree.WithSeed(a.Config.Seed+uint64(i)))
		if err := t.FitWeighted(X, y, w); err != nil {
			return errors.Wrapf(err, "%s: round %d", op, i+1)
		}
		pred, err := t.Predict(X)
		if err != nil {
			return errors.Wrapf(err, "%s: round %d", op, i+1)
		}
		errRate, err := metrics.WeightedError(y, pred, w)
		if err != nil {
			return err
		}
		a.Errors = append(a.Errors, errRate)
		logger.Debug("boosting round", log.IterationKey, i+1, log.LossKey, errRate)

		if i == 0 && errRate == 0 {
			a.Trees = append(a.Trees, t)
			a.Beta = append(a.Beta, 0)
			logger.Info("perfect first round, stopping", log.IterationKey, 1)
			break
		}
		if errRate > 0.5 || errRate == 0 {
			errors.Warn(errors.NewEnsembleDivergenceWarning("AdaBoostM1", i+1, len(a.Trees), errRate))
			break
		}

		beta := errRate / (1 - errRate)
		a.Trees = append(a.Trees, t)
		a.Beta = append(a.Beta, beta)

		truth, guess := metrics.Argmax(y), metrics.Argmax(pred)
		correct := make([]bool, n)
		for j := range correct {
			correct[j] = truth[j] == guess[j]
		}
		w = reweight(w, correct, beta)
	}

	if len(a.Trees) == 0 {
		return errors.Wrapf(errors.ErrEmptyEnsemble, "%s: first round error %.4g", op, a.Errors[0])
	}
	a.NFeatures = p
	a.NClasses = k
	a.SetFitted()
	logger.Info("fit completed",
		log.MembersKey, len(a.Trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns an n×NClasses matrix whose entry (j, c) is the summed vote
// log(1/beta) of every member that assigns row j to class c. The largest
// entry of a row is the ensemble's class; rows are not normalised.
func (a *AdaBoostM1) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("AdaBoostM1", "Predict")
	}
	n, err := checkPredict("AdaBoostM1.Predict", X, a.NFeatures)
	if err != nil {
		return nil, err
	}
	votes := voteWeights(a.Beta)
	z := mat.NewDense(n, a.NClasses, nil)
	for i, t := range a.Trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for j, c := range metrics.Argmax(pred) {
			z.Set(j, c, z.At(j, c)+votes[i])
		}
	}
	return z, nil
}

// Members returns the trees with their votes.
func (a *AdaBoostM1) Members() []Member {
	votes := voteWeights(a.Beta)
	members := make([]Member, len(a.Trees))
	for i, t := range a.Trees {
		members[i] = Member{Tree: t, Weight: votes[i]}
	}
	return members
}

// Describe lists every member's vote and tree dump.
func (a *AdaBoostM1) Describe() (string, error) {
	if !a.IsFitted() {
		return "", errors.NewNotFittedError("AdaBoostM1", "Describe")
	}
	return describeMembers(a.Members(), boostHeader)
}

func boostHeader(i int, m Member) string {
	return fmt.Sprintf("tree: #%d -- weight=%.6g", i+1, m.Weight)
}

// GetParams returns the hyper-parameters.
func (a *AdaBoostM1) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"rounds":    a.Config.Rounds,
		"max_depth": a.Config.MaxDepth,
		"seed":      a.Config.Seed,
	}
}

// Summary returns a JSON-ready description including the per-round errors.
func (a *AdaBoostM1) Summary() *model.Summary {
	return boostSummary("AdaBoostM1", a.GetParams(), a.IsFitted(), a.Members(), a.Beta, a.Errors)
}

func boostSummary(name string, params map[string]interface{}, fitted bool, members []Member, beta, errs []float64) *model.Summary {
	s := &model.Summary{
		ModelType:       name,
		Version:         model.SummaryVersion,
		Hyperparameters: params,
		IsFitted:        fitted,
	}
	if fitted {
		s.MemberWeights = memberWeights(members)
		s.Metadata = map[string]interface{}{
			"members": len(members),
			"beta":    beta,
			"errors":  errs,
		}
	}
	return s
}
