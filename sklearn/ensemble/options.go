package ensemble

import (
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
)

// Config holds the hyper-parameters of every ensemble type. Each estimator
// reads only the fields it needs.
type Config struct {
	// Bagging
	NTrees   int         `mapstructure:"n_trees" yaml:"n_trees" json:"n_trees"`
	Ratio    float64     `mapstructure:"ratio" yaml:"ratio" json:"ratio"`
	TreeName string      `mapstructure:"tree_name" yaml:"tree_name" json:"tree_name"`
	Tree     tree.Config `mapstructure:"tree" yaml:"tree" json:"tree"`
	NJobs    int         `mapstructure:"n_jobs" yaml:"n_jobs" json:"n_jobs"`

	// Boosting
	Rounds    int     `mapstructure:"rounds" yaml:"rounds" json:"rounds"`
	MaxDepth  int     `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`

	Seed uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// DefaultConfig returns five members or rounds of depth-5 trees.
func DefaultConfig() Config {
	return Config{
		NTrees:    5,
		Ratio:     1.0,
		TreeName:  "DecisionTree",
		Tree:      tree.DefaultConfig(),
		NJobs:     1,
		Rounds:    5,
		MaxDepth:  5,
		Threshold: 0.01,
	}
}

func (c Config) validateBagging() error {
	if c.NTrees < 1 {
		return errors.NewValidationError("n_trees", "must be at least 1", c.NTrees)
	}
	if c.Ratio <= 0 || c.Ratio > 1 {
		return errors.NewValidationError("ratio", "must be in (0, 1]", c.Ratio)
	}
	return c.Tree.Validate()
}

func (c Config) validateBoosting() error {
	if c.Rounds < 1 {
		return errors.NewValidationError("rounds", "must be at least 1", c.Rounds)
	}
	if c.MaxDepth < 1 {
		return errors.NewValidationError("max_depth", "must be at least 1", c.MaxDepth)
	}
	if c.Threshold < 0 {
		return errors.NewValidationError("threshold", "must be non-negative", c.Threshold)
	}
	return nil
}

// Option configures an ensemble.
type Option func(*Config)

// WithNTrees sets the number of bagged members.
func WithNTrees(n int) Option {
	return func(c *Config) { c.NTrees = n }
}

// WithRatio sets the fraction of rows drawn for each bagged member.
func WithRatio(ratio float64) Option {
	return func(c *Config) { c.Ratio = ratio }
}

// WithTree sets the member tree type name and configuration.
func WithTree(name string, cfg tree.Config) Option {
	return func(c *Config) {
		c.TreeName = name
		c.Tree = cfg
	}
}

// WithTreeOptions applies tree options to the member configuration.
func WithTreeOptions(opts ...tree.Option) Option {
	return func(c *Config) {
		for _, opt := range opts {
			opt(&c.Tree)
		}
	}
}

// WithNJobs bounds the number of members trained concurrently.
func WithNJobs(n int) Option {
	return func(c *Config) { c.NJobs = n }
}

// WithRounds sets the maximum number of boosting rounds.
func WithRounds(n int) Option {
	return func(c *Config) { c.Rounds = n }
}

// WithMaxDepth sets the depth of boosted trees.
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}

// WithThreshold sets the AdaBoost.RT relative error threshold.
func WithThreshold(threshold float64) Option {
	return func(c *Config) { c.Threshold = threshold }
}

// WithSeed seeds resampling; member i uses Seed+i.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

func apply(cfg Config, opts []Option) Config {
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
