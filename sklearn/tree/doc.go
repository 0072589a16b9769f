// Package tree implements decision-tree induction for classification and
// regression over gonum matrices.
//
// A tree is a tagged variant of internal nodes (a SplitRule plus two children)
// and leaf nodes (a LeafModel). Growth, split search and pruning are free
// functions over that variant, configured by a Config value:
//
//	t := tree.NewPrunedTree(
//	    tree.WithMaxDepth(6),
//	    tree.WithCriterion(tree.CriterionDeviation),
//	    tree.WithLeaf(tree.LeafLinear),
//	    tree.WithHoldOut(0.3),
//	)
//	if err := t.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := t.Predict(Xtest)
//
// Targets are n×1 for regression and n×k one-hot for classification. Leaf
// predictions are raw class means (or weighted means) and are not normalised.
package tree
