package tree

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Tree is a recursively grown decision tree with optional pruning and
// random-subspace split search. The zero value is not usable; use New or one
// of the named constructors.
type Tree struct {
	model.BaseEstimator

	Name      string
	Config    Config
	RootNode  *Node
	NFeatures int
	NTargets  int
	// Pruned is the number of internal nodes removed by the last fit.
	Pruned int
}

// New returns an unfitted tree with the given configuration.
func New(name string, cfg Config) *Tree {
	if cfg.Split == "" {
		cfg.Split = SplitSorted
	}
	return &Tree{Name: name, Config: cfg}
}

func newWith(name string, cfg Config, opts []Option) *Tree {
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(name, cfg)
}

// NewDecisionTree returns a depth-5 Gini tree with mean leaves.
func NewDecisionTree(opts ...Option) *Tree {
	return newWith("DecisionTree", DefaultConfig(), opts)
}

// NewPrunedTree returns a tree with critical-value pruning at the 0.8
// percentile and no hold-out.
func NewPrunedTree(opts ...Option) *Tree {
	cfg := DefaultConfig()
	cfg.Pruning = PruneCritical
	return newWith("PrunedTree", cfg, opts)
}

// NewRandomTree returns a critically pruned tree that searches splits over
// features randomly chosen columns at every node.
func NewRandomTree(features int, opts ...Option) *Tree {
	cfg := DefaultConfig()
	cfg.Pruning = PruneCritical
	cfg.MaxFeatures = features
	return newWith("RandomTree", cfg, opts)
}

// NewWeightedDecisionTree returns a tree that uses weighted Gini splits and
// weighted mean leaves. It must be fitted with FitWeighted.
func NewWeightedDecisionTree(opts ...Option) *Tree {
	cfg := DefaultConfig()
	cfg.Criterion = CriterionWGini
	cfg.Leaf = LeafWeightedZero
	return newWith("WeightedDecisionTree", cfg, opts)
}

// Root returns the root node, or nil before Fit.
func (t *Tree) Root() *Node {
	return t.RootNode
}

// Fit grows the tree on X (n×p) and y (n×k).
func (t *Tree) Fit(X, y mat.Matrix) error {
	return t.fit(X, y, nil)
}

// FitWeighted grows the tree using w as per-row sample weights.
func (t *Tree) FitWeighted(X, y mat.Matrix, w []float64) error {
	if w == nil {
		return errors.NewMissingWeightError(t.Name + ".FitWeighted")
	}
	return t.fit(X, y, w)
}

func (t *Tree) fit(X, y mat.Matrix, w []float64) error {
	t.Reset()
	t.RootNode = nil
	t.Pruned = 0
	op := t.Name + ".Fit"
	if err := t.Config.Validate(); err != nil {
		return err
	}
	entry, err := lookupCriterion(t.Config.Criterion)
	if err != nil {
		return err
	}
	if entry.weighted && w == nil {
		return errors.NewMissingWeightError(op)
	}
	d, err := newDataset(op, X, y, w)
	if err != nil {
		return err
	}

	start := time.Now()
	logger := log.GetLoggerWithName("tree").With(log.ModelNameKey, t.Name)
	logger.Debug("fit started",
		log.SamplesKey, d.n(),
		log.FeaturesKey, d.p,
		log.TargetsKey, d.k,
		log.RandomSeedKey, t.Config.Seed,
	)

	rng := rand.New(rand.NewPCG(t.Config.Seed, t.Config.Seed))
	g := &grower{
		d:        d,
		imp:      entry.fn,
		search:   sortedSearch,
		leaf:     t.Config.Leaf,
		maxDepth: t.Config.MaxDepth,
		features: allFeatures(d.p),
	}
	if t.Config.Split == SplitExhaustive {
		g.search = exhaustiveSearch
	}
	if k := t.Config.MaxFeatures; k > 0 {
		g.search = subspace(g.search, rng, k)
	}

	train, test := d.allRows(), []int(nil)
	if t.Config.Pruning != PruneNone && t.Config.HoldOut {
		train, test = holdOut(d.n(), t.Config.SplitRatio, rng)
	}

	root, err := g.grow(train, 1)
	if err != nil {
		return errors.Wrap(err, op)
	}

	switch t.Config.Pruning {
	case PruneCritical:
		cutoff := CriticalCutoff(root, t.Config.Critical)
		root, t.Pruned = CollapseCritical(root, t.Config.Critical)
		if err := refit(root, d, d.allRows()); err != nil {
			return errors.Wrap(err, op)
		}
		logger.Debug("critical-value pruning done", log.CutoffKey, cutoff, log.PrunedKey, t.Pruned)
	case PruneReduce:
		validation := test
		if len(validation) == 0 {
			validation = train
		}
		before := len(root.Rules())
		if root, err = reduce(root, d, validation); err != nil {
			return errors.Wrap(err, op)
		}
		root.renumber(1)
		t.Pruned = before - len(root.Rules())
		logger.Debug("reduced-error pruning done", log.PrunedKey, t.Pruned, log.SamplesKey, len(validation))
	}

	t.RootNode = root
	t.NFeatures = d.p
	t.NTargets = d.k
	t.SetFitted()
	logger.Debug("fit completed",
		log.DepthKey, t.Depth(),
		log.LeavesKey, t.NumLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// holdOut shuffles row indices and reserves the first round(n·ratio) as the
// validation set. At least one row is always kept for growth.
func holdOut(n int, ratio float64, rng *rand.Rand) (train, test []int) {
	perm := rng.Perm(n)
	nTest := int(math.Round(float64(n) * ratio))
	if nTest > n-1 {
		nTest = n - 1
	}
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test
}

// Predict returns an n×k matrix of leaf predictions.
func (t *Tree) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError(t.Name, "Predict")
	}
	return predictNode(t.Name, t.RootNode, X, t.NFeatures, t.NTargets)
}

func predictNode(name string, root *Node, X mat.Matrix, p, k int) (*mat.Dense, error) {
	n, c := X.Dims()
	if c != p {
		return nil, errors.NewDimensionError(name+".Predict", p, c, 1)
	}
	if err := errors.CheckFiniteMatrix(name+".Predict", X); err != nil {
		return nil, err
	}
	d := &dataset{x: make([][]float64, n), p: p, k: k}
	for i := 0; i < n; i++ {
		d.x[i] = mat.Row(nil, i, X)
	}
	out := mat.NewDense(n, k, nil)
	if n == 0 {
		return out, nil
	}
	rows := d.allRows()
	if err := root.predictInto(d, rows, rows, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Describe returns the nested if/else dump of the tree.
func (t *Tree) Describe() (string, error) {
	if !t.IsFitted() {
		return "", errors.NewNotFittedError(t.Name, "Describe")
	}
	return t.RootNode.Describe()
}

// String implements fmt.Stringer.
func (t *Tree) String() string {
	if !t.IsFitted() {
		return t.Name + "(unfitted)"
	}
	s, err := t.Describe()
	if err != nil {
		return t.Name + "(" + err.Error() + ")"
	}
	return s
}

// Depth is the number of split levels of the fitted tree.
func (t *Tree) Depth() int {
	return t.RootNode.SplitDepth()
}

// NumLeaves counts the leaves of the fitted tree.
func (t *Tree) NumLeaves() int {
	if t.RootNode == nil {
		return 0
	}
	return t.RootNode.NumLeaves()
}

// GetParams returns the hyper-parameters.
func (t *Tree) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":    t.Config.MaxDepth,
		"criterion":    string(t.Config.Criterion),
		"leaf":         string(t.Config.Leaf),
		"split":        string(t.Config.Split),
		"pruning":      string(t.Config.Pruning),
		"hold_out":     t.Config.HoldOut,
		"split_ratio":  t.Config.SplitRatio,
		"critical":     t.Config.Critical,
		"max_features": t.Config.MaxFeatures,
		"seed":         t.Config.Seed,
	}
}

// Summary returns a JSON-ready description of the fitted tree.
func (t *Tree) Summary() *model.Summary {
	s := &model.Summary{
		ModelType:       t.Name,
		Version:         model.SummaryVersion,
		Hyperparameters: t.GetParams(),
		IsFitted:        t.IsFitted(),
	}
	if t.IsFitted() {
		s.Metadata = map[string]interface{}{
			"depth":    t.Depth(),
			"leaves":   t.NumLeaves(),
			"pruned":   t.Pruned,
			"features": t.NFeatures,
			"targets":  t.NTargets,
		}
	}
	return s
}
