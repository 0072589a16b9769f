// Package scitree provides decision-tree induction and tree ensembles for Go,
// with a scikit-learn-like Fit/Predict API over gonum matrices.
//
// Targets are always n×k matrices: one-hot rows for classification and a
// single column for regression. Every learner predicts an n×k matrix.
//
// # Features
//
//   - Decision stumps and recursively grown trees with Gini, information gain,
//     deviation and their weighted variants as split criteria
//   - Exhaustive and sorted split search that return identical rules
//   - Mean (zero-rule), weighted mean and linear-regression leaves
//   - Critical-value and reduced-error pruning, optional hold-out set
//   - Random-subspace trees, bagging and random forests with parallel fitting
//   - AdaBoost.M1 for classification and AdaBoost.RT for regression
//   - Text, JSON and Graphviz dumps; gob persistence
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scitree/datasets"
//	    "github.com/YuminosukeSato/scitree/sklearn/tree"
//	)
//
//	func main() {
//	    X, y, err := datasets.MakeIrisLike(1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model := tree.NewPrunedTree(tree.WithMaxDepth(4))
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    desc, _ := model.Describe()
//	    fmt.Print(desc)
//	}
//
// # Packages
//
//   - sklearn/tree: impurity metrics, leaf models, split search, stumps, trees, pruning
//   - sklearn/ensemble: Bagging, RandomForest, AdaBoostM1, AdaBoostRT
//   - linear: least-squares regression used by linear leaves
//   - metrics: accuracy, weighted error, MSE, RMSE, MAE, R²
//   - preprocessing: StandardScaler, MinMaxScaler
//   - datasets: synthetic generators, train/test split, CSV and .npy loading
//   - core/model: estimator interfaces, fitted state, persistence, summaries
//   - core/parallel: worker pools for ensemble fitting
//   - pkg/errors, pkg/log: error types, warnings and structured logging
//   - cmd/scitree: command-line interface
//
// # Ensembles
//
//	forest := ensemble.NewRandomForest(50, 2,
//	    ensemble.WithNJobs(runtime.NumCPU()),
//	    ensemble.WithSeed(42),
//	)
//
//	booster := ensemble.NewAdaBoostRT(
//	    ensemble.WithRounds(10),
//	    ensemble.WithThreshold(0.05),
//	)
//
// Boosting stops early when a round's weighted error leaves (0, 0.5]; the
// truncation is reported through errors.Warn and the ensemble keeps the
// rounds fitted so far.
//
// # License
//
// scitree is released under the MIT License.
package scitree
