package main

import (
	"math"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/sklearn/ensemble"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
)

// 学習器の種類
const (
	modelStump   = "stump"
	modelTree    = "tree"
	modelBagging = "bagging"
	modelForest  = "forest"
	modelM1      = "adaboost-m1"
	modelRT      = "adaboost-rt"
)

var modelKinds = []string{modelStump, modelTree, modelBagging, modelForest, modelM1, modelRT}

// settings is the effective configuration of a fit, merged by viper from
// defaults, the config file, SCITREE_* environment variables and flags.
type settings struct {
	Model string `mapstructure:"model" yaml:"model"`
	// Scale is none, standard or minmax.
	Scale    string          `mapstructure:"scale" yaml:"scale"`
	TestSize float64         `mapstructure:"test_size" yaml:"test_size"`
	Ensemble ensemble.Config `mapstructure:"ensemble" yaml:"ensemble"`
}

func defaultSettings() settings {
	return settings{
		Model:    modelTree,
		Scale:    "none",
		TestSize: 0,
		Ensemble: ensemble.DefaultConfig(),
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultSettings()
	e := d.Ensemble
	t := e.Tree
	for key, val := range map[string]interface{}{
		"model":                      d.Model,
		"scale":                      d.Scale,
		"test_size":                  d.TestSize,
		"ensemble.n_trees":           e.NTrees,
		"ensemble.ratio":             e.Ratio,
		"ensemble.tree_name":         e.TreeName,
		"ensemble.n_jobs":            e.NJobs,
		"ensemble.rounds":            e.Rounds,
		"ensemble.max_depth":         e.MaxDepth,
		"ensemble.threshold":         e.Threshold,
		"ensemble.seed":              e.Seed,
		"ensemble.tree.max_depth":    t.MaxDepth,
		"ensemble.tree.criterion":    string(t.Criterion),
		"ensemble.tree.leaf":         string(t.Leaf),
		"ensemble.tree.split":        string(t.Split),
		"ensemble.tree.pruning":      string(t.Pruning),
		"ensemble.tree.hold_out":     t.HoldOut,
		"ensemble.tree.split_ratio":  t.SplitRatio,
		"ensemble.tree.critical":     t.Critical,
		"ensemble.tree.max_features": t.MaxFeatures,
		"ensemble.tree.seed":         t.Seed,
	} {
		v.SetDefault(key, val)
	}
}

// modelFlags maps a command-line flag to the viper keys it overrides.
var modelFlags = map[string][]string{
	"model":        {"model"},
	"scale":        {"scale"},
	"test-size":    {"test_size"},
	"trees":        {"ensemble.n_trees"},
	"ratio":        {"ensemble.ratio"},
	"jobs":         {"ensemble.n_jobs"},
	"rounds":       {"ensemble.rounds"},
	"threshold":    {"ensemble.threshold"},
	"depth":        {"ensemble.max_depth", "ensemble.tree.max_depth"},
	"seed":         {"ensemble.seed", "ensemble.tree.seed"},
	"criterion":    {"ensemble.tree.criterion"},
	"leaf":         {"ensemble.tree.leaf"},
	"split":        {"ensemble.tree.split"},
	"pruning":      {"ensemble.tree.pruning"},
	"hold-out":     {"ensemble.tree.hold_out"},
	"split-ratio":  {"ensemble.tree.split_ratio"},
	"critical":     {"ensemble.tree.critical"},
	"max-features": {"ensemble.tree.max_features"},
}

func addModelFlags(cmd *cobra.Command) {
	d := defaultSettings()
	f := cmd.Flags()
	f.StringP("model", "m", d.Model, "learner: "+strings.Join(modelKinds, ", "))
	f.String("scale", d.Scale, "feature scaling before fit: none, standard, minmax")
	f.Float64("test-size", d.TestSize, "fraction of rows held out to report a test score (0 disables)")
	f.Int("trees", d.Ensemble.NTrees, "bagged members")
	f.Float64("ratio", d.Ensemble.Ratio, "fraction of rows drawn per bagged member")
	f.Int("jobs", d.Ensemble.NJobs, "members trained concurrently")
	f.Int("rounds", d.Ensemble.Rounds, "maximum boosting rounds")
	f.Float64("threshold", d.Ensemble.Threshold, "AdaBoost.RT relative error threshold")
	f.Int("depth", d.Ensemble.MaxDepth, "maximum tree depth (root = 1)")
	f.Uint64("seed", d.Ensemble.Seed, "random seed")
	f.String("criterion", string(d.Ensemble.Tree.Criterion), "impurity: gini, infgain, deviation, wgini, winfgain")
	f.String("leaf", string(d.Ensemble.Tree.Leaf), "leaf model: zero, weighted-zero, linear")
	f.String("split", string(d.Ensemble.Tree.Split), "split search: sorted, exhaustive")
	f.String("pruning", string(d.Ensemble.Tree.Pruning), "pruning: critical, reduce or empty")
	f.Bool("hold-out", d.Ensemble.Tree.HoldOut, "reserve rows for pruning decisions")
	f.Float64("split-ratio", d.Ensemble.Tree.SplitRatio, "hold-out fraction")
	f.Float64("critical", d.Ensemble.Tree.Critical, "critical-value percentile")
	f.Int("max-features", d.Ensemble.Tree.MaxFeatures, "random-subspace size (0 = all; forest default sqrt(p))")
}

func bindModelFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, keys := range modelFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		for _, key := range keys {
			if err := v.BindPFlag(key, flag); err != nil {
				return errors.Wrapf(err, "binding --%s", name)
			}
		}
	}
	return nil
}

func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, errors.Wrap(err, "reading configuration")
	}
	s.Model = strings.ToLower(s.Model)
	for _, kind := range modelKinds {
		if s.Model == kind {
			return s, nil
		}
	}
	return s, errors.NewValidationError("model", "must be one of "+strings.Join(modelKinds, ", "), s.Model)
}

// newEstimator builds an unfitted learner for p feature columns.
func (s settings) newEstimator(p int) (model.Estimator, error) {
	cfg := s.Ensemble
	switch s.Model {
	case modelStump:
		return tree.NewDecisionStump(tree.WithConfig(cfg.Tree)), nil
	case modelTree:
		name := "DecisionTree"
		if cfg.Tree.Pruning != tree.PruneNone {
			name = "PrunedTree"
		}
		return tree.New(name, cfg.Tree), nil
	case modelBagging:
		return ensemble.NewBagging(ensemble.WithConfig(cfg)), nil
	case modelForest:
		k := cfg.Tree.MaxFeatures
		if k == 0 {
			k = int(math.Ceil(math.Sqrt(float64(p))))
		}
		return ensemble.NewRandomForest(cfg.NTrees, k,
			ensemble.WithRatio(cfg.Ratio),
			ensemble.WithNJobs(cfg.NJobs),
			ensemble.WithSeed(cfg.Seed),
			ensemble.WithTreeOptions(
				tree.WithMaxDepth(cfg.Tree.MaxDepth),
				tree.WithCriterion(cfg.Tree.Criterion),
				tree.WithLeaf(cfg.Tree.Leaf),
			),
		), nil
	case modelM1:
		return ensemble.NewAdaBoostM1(ensemble.WithConfig(cfg)), nil
	case modelRT:
		return ensemble.NewAdaBoostRT(ensemble.WithConfig(cfg)), nil
	}
	return nil, errors.NewValidationError("model", "unknown learner", s.Model)
}
