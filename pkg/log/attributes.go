// Standard attribute keys for estimator logging. Keys are hierarchical
// ("model.name", "data.samples") so that JSON output can be filtered by prefix.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "DecisionTree", "AdaBoostM1".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: "fit", "predict", "prune".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the record.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TargetsKey  = "data.targets"
)

// Tree structure.
const (
	// DepthKey is the depth of a grown tree (root depth = 1).
	DepthKey = "tree.depth"

	// LeavesKey is the number of leaf nodes.
	LeavesKey = "tree.leaves"

	// PrunedKey is the number of internal nodes removed by pruning.
	PrunedKey = "tree.pruned"

	// CutoffKey is the critical-value pruning score cutoff.
	CutoffKey = "tree.cutoff"
)

// Ensemble and training progress.
const (
	// MembersKey is the number of members kept by an ensemble.
	MembersKey = "ensemble.members"

	// BetaKey is the importance ratio err/(1-err) of a boosting round.
	BetaKey = "ensemble.beta"

	// IterationKey is the current boosting round (0-based).
	IterationKey = "training.iteration"

	// LossKey records the weighted error of a round or a split score.
	LossKey = "metrics.loss"

	// AccuracyKey records training or validation accuracy.
	AccuracyKey = "metrics.accuracy"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RandomSeedKey records the seed used for resampling or feature sampling.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationPrune   = "prune"
)
