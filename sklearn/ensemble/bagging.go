package ensemble

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/core/parallel"
	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"gonum.org/v1/gonum/mat"
)

// Bagging fits NTrees independent trees, each on round(n·Ratio) rows drawn
// without replacement, and predicts the element-wise mean of their outputs.
type Bagging struct {
	model.BaseEstimator

	Name      string
	Config    Config
	Trees     []*tree.Tree
	NFeatures int
	NTargets  int
}

// NewBagging returns bagged depth-5 Gini trees with mean leaves.
func NewBagging(opts ...Option) *Bagging {
	return &Bagging{Name: "Bagging", Config: apply(DefaultConfig(), opts)}
}

// NewRandomForest bags nTrees random-subspace trees that each search splits
// over features randomly chosen columns.
func NewRandomForest(nTrees, features int, opts ...Option) *Bagging {
	cfg := DefaultConfig()
	cfg.NTrees = nTrees
	cfg.TreeName = "RandomTree"
	cfg.Tree = tree.NewRandomTree(features).Config
	return &Bagging{Name: "RandomForest", Config: apply(cfg, opts)}
}

// Fit trains every member on its own resample.
func (b *Bagging) Fit(X, y mat.Matrix) error {
	b.Reset()
	b.Trees = nil
	op := b.Name + ".Fit"
	if err := b.Config.validateBagging(); err != nil {
		return err
	}
	n, p, k, err := checkData(op, X, y)
	if err != nil {
		return err
	}
	nSample := int(math.Round(float64(n) * b.Config.Ratio))
	if nSample < 1 {
		return errors.NewValidationError("ratio", "selects no rows", b.Config.Ratio)
	}

	logger := log.GetLoggerWithName("ensemble").With(log.ModelNameKey, b.Name)
	start := time.Now()
	logger.Debug("fit started",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.MembersKey, b.Config.NTrees,
		log.RandomSeedKey, b.Config.Seed,
	)

	// リサンプルは逐次に引いておき、メンバーの学習だけを並列化する
	rng := rand.New(rand.NewPCG(b.Config.Seed, b.Config.Seed))
	samples := make([][]int, b.Config.NTrees)
	for i := range samples {
		rows := rng.Perm(n)[:nSample]
		sort.Ints(rows)
		samples[i] = rows
	}

	trees := make([]*tree.Tree, b.Config.NTrees)
	err = parallel.ForEach(len(trees), b.Config.NJobs, func(i int) error {
		cfg := b.Config.Tree
		cfg.Seed = b.Config.Seed + uint64(i)
		t := tree.New(b.Config.TreeName, cfg)
		if err := t.Fit(datasets.Rows(X, samples[i]), datasets.Rows(y, samples[i])); err != nil {
			return errors.Wrapf(err, "%s: member %d", op, i)
		}
		trees[i] = t
		return nil
	})
	if err != nil {
		return err
	}

	b.Trees = trees
	b.NFeatures = p
	b.NTargets = k
	b.SetFitted()
	logger.Info("fit completed",
		log.MembersKey, len(trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the mean of the member predictions.
func (b *Bagging) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError(b.Name, "Predict")
	}
	n, err := checkPredict(b.Name+".Predict", X, b.NFeatures)
	if err != nil {
		return nil, err
	}
	sum := mat.NewDense(n, b.NTargets, nil)
	for _, t := range b.Trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, pred)
	}
	sum.Scale(1/float64(len(b.Trees)), sum)
	return sum, nil
}

// Members returns the trees with equal weights 1/NTrees.
func (b *Bagging) Members() []Member {
	members := make([]Member, len(b.Trees))
	for i, t := range b.Trees {
		members[i] = Member{Tree: t, Weight: 1 / float64(len(b.Trees))}
	}
	return members
}

// Describe lists every member's tree dump.
func (b *Bagging) Describe() (string, error) {
	if !b.IsFitted() {
		return "", errors.NewNotFittedError(b.Name, "Describe")
	}
	return describeMembers(b.Members(), func(i int, _ Member) string {
		return fmt.Sprintf("tree#%d", i)
	})
}

// GetParams returns the hyper-parameters.
func (b *Bagging) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_trees":   b.Config.NTrees,
		"ratio":     b.Config.Ratio,
		"tree_name": b.Config.TreeName,
		"n_jobs":    b.Config.NJobs,
		"seed":      b.Config.Seed,
		"tree":      b.Config.Tree,
	}
}

// Summary returns a JSON-ready description of the ensemble.
func (b *Bagging) Summary() *model.Summary {
	s := &model.Summary{
		ModelType:       b.Name,
		Version:         model.SummaryVersion,
		Hyperparameters: b.GetParams(),
		IsFitted:        b.IsFitted(),
	}
	if b.IsFitted() {
		s.MemberWeights = memberWeights(b.Members())
		depths := make([]int, len(b.Trees))
		for i, t := range b.Trees {
			depths[i] = t.Depth()
		}
		s.Metadata = map[string]interface{}{
			"members":  len(b.Trees),
			"depths":   depths,
			"features": b.NFeatures,
			"targets":  b.NTargets,
		}
	}
	return s
}
