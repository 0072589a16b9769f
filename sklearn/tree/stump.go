package tree

import (
	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DecisionStump is a single exhaustive split with two leaves. When no split
// improves, every row goes left and the right leaf stays unfitted.
type DecisionStump struct {
	model.BaseEstimator

	Criterion Criterion
	Leaf      LeafKind
	RootNode  *Node
	NFeatures int
	NTargets  int
}

// NewDecisionStump returns a Gini stump with mean leaves. Only the criterion
// and leaf options are honoured.
func NewDecisionStump(opts ...Option) *DecisionStump {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &DecisionStump{Criterion: cfg.Criterion, Leaf: cfg.Leaf}
}

// Fit chooses the split minimising the size-weighted impurity of both sides.
func (s *DecisionStump) Fit(X, y mat.Matrix) error {
	return s.fit(X, y, nil)
}

// FitWeighted fits with sample weights; required by weighted criteria and leaves.
func (s *DecisionStump) FitWeighted(X, y mat.Matrix, w []float64) error {
	if w == nil {
		return errors.NewMissingWeightError("DecisionStump.FitWeighted")
	}
	return s.fit(X, y, w)
}

func (s *DecisionStump) fit(X, y mat.Matrix, w []float64) error {
	s.Reset()
	s.RootNode = nil
	entry, err := lookupCriterion(s.Criterion)
	if err != nil {
		return err
	}
	if entry.weighted && w == nil {
		return errors.NewMissingWeightError("DecisionStump.Fit")
	}
	d, err := newDataset("DecisionStump.Fit", X, y, w)
	if err != nil {
		return err
	}
	g := &grower{
		d:              d,
		imp:            entry.fn,
		search:         exhaustiveSearch,
		leaf:           s.Leaf,
		maxDepth:       1,
		features:       allFeatures(d.p),
		keepDegenerate: true,
	}
	root, err := g.grow(d.allRows(), 1)
	if err != nil {
		return errors.Wrap(err, "DecisionStump.Fit")
	}
	s.RootNode = root
	s.NFeatures = d.p
	s.NTargets = d.k
	s.SetFitted()
	return nil
}

// Rule returns the chosen split.
func (s *DecisionStump) Rule() SplitRule {
	if s.RootNode == nil {
		return degenerateRule()
	}
	return s.RootNode.Rule
}

// Predict routes each row through the split to its leaf.
func (s *DecisionStump) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionStump", "Predict")
	}
	return predictNode("DecisionStump", s.RootNode, X, s.NFeatures, s.NTargets)
}

// Describe returns the if/else dump of the stump.
func (s *DecisionStump) Describe() (string, error) {
	if !s.IsFitted() {
		return "", errors.NewNotFittedError("DecisionStump", "Describe")
	}
	return s.RootNode.Describe()
}
