package tree

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CriticalCutoff returns the score at percentile critical of the finite,
// non-negative split scores in the tree (ascending, index round(critical·len)).
// critical <= 0 yields -Inf so that every split is collapsed.
func CriticalCutoff(root *Node, critical float64) float64 {
	if critical <= 0 {
		return math.Inf(-1)
	}
	var scores []float64
	for _, r := range root.Rules() {
		if !math.IsInf(r.Score, 0) && !math.IsNaN(r.Score) && r.Score >= 0 {
			scores = append(scores, r.Score)
		}
	}
	if len(scores) == 0 {
		return math.Inf(1)
	}
	sort.Float64s(scores)
	idx := int(math.Round(critical * float64(len(scores))))
	if idx > len(scores)-1 {
		idx = len(scores) - 1
	}
	return scores[idx]
}

// CollapseCritical collapses, bottom-up, every internal node whose score exceeds
// the critical-value cutoff. It returns the new root and the number of
// internal nodes removed. Leaves keep their current fit; call RefitLeaves to
// refresh them against the full data.
func CollapseCritical(root *Node, critical float64) (*Node, int) {
	before := len(root.Rules())
	cutoff := CriticalCutoff(root, critical)
	pruned := collapseAbove(root, cutoff)
	pruned.renumber(1)
	return pruned, before - len(pruned.Rules())
}

func collapseAbove(n *Node, cutoff float64) *Node {
	if n.IsLeaf() {
		return n
	}
	n.Left = collapseAbove(n.Left, cutoff)
	n.Right = collapseAbove(n.Right, cutoff)
	if !(n.Rule.Score > cutoff) {
		return n
	}
	switch {
	case n.Left.IsLeaf() && n.Right.IsLeaf():
		return n.Left
	case n.Left.IsLeaf():
		return n.Right
	case n.Right.IsLeaf():
		return n.Left
	case n.Left.Rule.Score < n.Right.Rule.Score:
		return n.Left
	default:
		return n.Right
	}
}

// RefitLeaves routes every row of X down the tree and refits each leaf on the
// rows that reach it. Leaves reached by no row keep their fit.
func RefitLeaves(root *Node, X, y mat.Matrix, w []float64) error {
	d, err := newDataset("tree.RefitLeaves", X, y, w)
	if err != nil {
		return err
	}
	return refit(root, d, d.allRows())
}

func refit(n *Node, d *dataset, rows []int) error {
	if len(rows) == 0 {
		return nil
	}
	if n.IsLeaf() {
		return d.fitLeaf(n.Leaf, rows)
	}
	left, right := d.partition(rows, n.Rule)
	if err := refit(n.Left, d, left); err != nil {
		return err
	}
	return refit(n.Right, d, right)
}

// PruneReducedError prunes bottom-up against the validation set (X, y). At
// each internal node the subtree's error is compared with routing all of the
// node's validation rows through only the left or only the right child; the
// node is replaced by a child whenever that does not increase the error.
// Error is the misclassification count for multi-column targets and the sum
// of squared errors otherwise.
func PruneReducedError(root *Node, X, y mat.Matrix) (*Node, error) {
	d, err := newDataset("tree.PruneReducedError", X, y, nil)
	if err != nil {
		return nil, err
	}
	pruned, err := reduce(root, d, d.allRows())
	if err != nil {
		return nil, err
	}
	pruned.renumber(1)
	return pruned, nil
}

func reduce(n *Node, d *dataset, rows []int) (*Node, error) {
	if n.IsLeaf() || len(rows) == 0 {
		return n, nil
	}
	left, right := d.partition(rows, n.Rule)
	if math.IsInf(n.Rule.Threshold, 1) || len(right) == 0 {
		return reduce(n.Left, d, left)
	}
	if len(left) == 0 {
		return reduce(n.Right, d, right)
	}

	var err error
	if n.Left, err = reduce(n.Left, d, left); err != nil {
		return nil, err
	}
	if n.Right, err = reduce(n.Right, d, right); err != nil {
		return nil, err
	}

	d1, err := subtreeError(n, d, rows)
	if err != nil {
		return nil, err
	}
	d2, err := subtreeError(n.Left, d, rows)
	if err != nil {
		return nil, err
	}
	d3, err := subtreeError(n.Right, d, rows)
	if err != nil {
		return nil, err
	}
	if d2 <= d1 || d3 <= d1 {
		if d2 <= d3 {
			return n.Left, nil
		}
		return n.Right, nil
	}
	return n, nil
}

func subtreeError(n *Node, d *dataset, rows []int) (float64, error) {
	pred, err := n.predictSubset(d, rows)
	if err != nil {
		return 0, err
	}
	truth := d.gatherY(rows)
	if d.k > 1 {
		miss, err := metrics.MisclassificationCount(truth, pred)
		return float64(miss), err
	}
	return metrics.SSE(truth, pred)
}

// validationError is the reduced-error metric of the whole tree on X, y.
func validationError(root *Node, X, y mat.Matrix) (float64, error) {
	d, err := newDataset("tree.validationError", X, y, nil)
	if err != nil {
		return 0, err
	}
	return subtreeError(root, d, d.allRows())
}

func missingWeight(op string) error {
	return errors.NewMissingWeightError(op)
}
