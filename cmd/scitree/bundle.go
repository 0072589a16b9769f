package main

import (
	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/preprocessing"
	"github.com/YuminosukeSato/scitree/sklearn/ensemble"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"gonum.org/v1/gonum/mat"
)

// bundle is what `scitree fit` writes: the fitted learner, the scaler it was
// trained behind and the column metadata needed to read new data. Exactly one
// learner field is set.
type bundle struct {
	Settings     settings
	FeatureNames []string
	Classes      []string

	Standard *preprocessing.StandardScaler
	MinMax   *preprocessing.MinMaxScaler

	Stump   *tree.DecisionStump
	Tree    *tree.Tree
	Bagging *ensemble.Bagging
	M1      *ensemble.AdaBoostM1
	RT      *ensemble.AdaBoostRT
}

func newBundle(s settings) (*bundle, error) {
	b := &bundle{Settings: s}
	switch s.Scale {
	case "none", "":
	case "standard":
		b.Standard = preprocessing.NewStandardScalerDefault()
	case "minmax":
		b.MinMax = preprocessing.NewMinMaxScalerDefault()
	default:
		return nil, errors.NewValidationError("scale", "must be none, standard or minmax", s.Scale)
	}
	return b, nil
}

func (b *bundle) set(est model.Estimator) {
	switch m := est.(type) {
	case *tree.DecisionStump:
		b.Stump = m
	case *tree.Tree:
		b.Tree = m
	case *ensemble.Bagging:
		b.Bagging = m
	case *ensemble.AdaBoostM1:
		b.M1 = m
	case *ensemble.AdaBoostRT:
		b.RT = m
	}
}

func (b *bundle) estimator() (model.Estimator, error) {
	switch {
	case b.Stump != nil:
		return b.Stump, nil
	case b.Tree != nil:
		return b.Tree, nil
	case b.Bagging != nil:
		return b.Bagging, nil
	case b.M1 != nil:
		return b.M1, nil
	case b.RT != nil:
		return b.RT, nil
	}
	return nil, errors.NewValueError("scitree", "model file holds no learner")
}

// members lists the trees of an ensemble; nil for a single tree or stump.
func (b *bundle) members() []ensemble.Member {
	switch {
	case b.Bagging != nil:
		return b.Bagging.Members()
	case b.M1 != nil:
		return b.M1.Members()
	case b.RT != nil:
		return b.RT.Members()
	}
	return nil
}

// roundErrors is the per-round weighted error of a boosted ensemble.
func (b *bundle) roundErrors() []float64 {
	switch {
	case b.M1 != nil:
		return b.M1.Errors
	case b.RT != nil:
		return b.RT.Errors
	}
	return nil
}

func (b *bundle) fitScaler(X mat.Matrix) (mat.Matrix, error) {
	switch {
	case b.Standard != nil:
		return b.Standard.FitTransform(X)
	case b.MinMax != nil:
		return b.MinMax.FitTransform(X)
	}
	return X, nil
}

func (b *bundle) transform(X mat.Matrix) (mat.Matrix, error) {
	switch {
	case b.Standard != nil:
		return b.Standard.Transform(X)
	case b.MinMax != nil:
		return b.MinMax.Transform(X)
	}
	return X, nil
}

func (b *bundle) predict(X mat.Matrix) (mat.Matrix, error) {
	est, err := b.estimator()
	if err != nil {
		return nil, err
	}
	Xs, err := b.transform(X)
	if err != nil {
		return nil, err
	}
	return est.Predict(Xs)
}

func saveBundle(b *bundle, path string) error {
	return errors.Wrapf(model.SaveModel(b, path), "saving %s", path)
}

func loadBundle(path string) (*bundle, error) {
	b := &bundle{}
	if err := model.LoadModel(b, path); err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return b, nil
}
