package tree

import (
	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// Pruning selects the post-growth correction pass.
type Pruning string

const (
	PruneNone     Pruning = ""
	PruneCritical Pruning = "critical"
	PruneReduce   Pruning = "reduce"
)

// SplitMethod selects the split search implementation.
type SplitMethod string

const (
	SplitSorted     SplitMethod = "sorted"
	SplitExhaustive SplitMethod = "exhaustive"
)

// Config is the strategy shared by every tree variant.
type Config struct {
	MaxDepth  int         `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`
	Criterion Criterion   `mapstructure:"criterion" yaml:"criterion" json:"criterion"`
	Leaf      LeafKind    `mapstructure:"leaf" yaml:"leaf" json:"leaf"`
	Split     SplitMethod `mapstructure:"split" yaml:"split" json:"split"`

	Pruning Pruning `mapstructure:"pruning" yaml:"pruning" json:"pruning"`
	// HoldOut reserves round(n·SplitRatio) shuffled rows for pruning decisions.
	HoldOut    bool    `mapstructure:"hold_out" yaml:"hold_out" json:"hold_out"`
	SplitRatio float64 `mapstructure:"split_ratio" yaml:"split_ratio" json:"split_ratio"`
	// Critical is the score percentile (0..1) used as the critical-value cutoff.
	Critical float64 `mapstructure:"critical" yaml:"critical" json:"critical"`

	// MaxFeatures > 0 restricts every split search to a random feature subset.
	MaxFeatures int    `mapstructure:"max_features" yaml:"max_features" json:"max_features"`
	Seed        uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// DefaultConfig is a depth-5 Gini tree with mean leaves and no pruning.
func DefaultConfig() Config {
	return Config{
		MaxDepth:   5,
		Criterion:  CriterionGini,
		Leaf:       LeafZero,
		Split:      SplitSorted,
		SplitRatio: 0.5,
		Critical:   0.8,
	}
}

// Validate checks the hyper-parameters.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return errors.NewValidationError("max_depth", "must be at least 1", c.MaxDepth)
	}
	if _, err := lookupCriterion(c.Criterion); err != nil {
		return err
	}
	if _, err := NewLeaf(c.Leaf); err != nil {
		return err
	}
	switch c.Split {
	case SplitSorted, SplitExhaustive, "":
	default:
		return errors.NewValidationError("split", "must be sorted or exhaustive", string(c.Split))
	}
	switch c.Pruning {
	case PruneNone, PruneCritical, PruneReduce:
	default:
		return errors.NewValidationError("pruning", "must be critical, reduce or empty", string(c.Pruning))
	}
	if c.SplitRatio < 0 || c.SplitRatio >= 1 {
		return errors.NewValidationError("split_ratio", "must be in [0, 1)", c.SplitRatio)
	}
	if c.Critical < 0 || c.Critical > 1 {
		return errors.NewValidationError("critical", "must be in [0, 1]", c.Critical)
	}
	if c.MaxFeatures < 0 {
		return errors.NewValidationError("max_features", "must be non-negative", c.MaxFeatures)
	}
	return nil
}

// Option configures a tree.
type Option func(*Config)

// WithMaxDepth bounds growth; the root has depth 1.
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}

// WithCriterion sets the impurity metric.
func WithCriterion(crit Criterion) Option {
	return func(c *Config) { c.Criterion = crit }
}

// WithLeaf sets the leaf model kind.
func WithLeaf(kind LeafKind) Option {
	return func(c *Config) { c.Leaf = kind }
}

// WithSplit selects the split search.
func WithSplit(method SplitMethod) Option {
	return func(c *Config) { c.Split = method }
}

// WithPruning sets the pruning pass.
func WithPruning(p Pruning) Option {
	return func(c *Config) { c.Pruning = p }
}

// WithHoldOut reserves a shuffled fraction of rows for pruning.
func WithHoldOut(ratio float64) Option {
	return func(c *Config) {
		c.HoldOut = true
		c.SplitRatio = ratio
	}
}

// WithCritical sets the critical-value percentile.
func WithCritical(critical float64) Option {
	return func(c *Config) { c.Critical = critical }
}

// WithMaxFeatures enables random-subspace split search.
func WithMaxFeatures(k int) Option {
	return func(c *Config) { c.MaxFeatures = k }
}

// WithSeed seeds hold-out shuffling and feature sampling.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}
