package tree

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SplitRule routes a row left iff row[Feature] < Threshold. Score is the
// weighted impurity the rule achieved; +Inf means no improving split exists.
type SplitRule struct {
	Feature   int
	Threshold float64
	Score     float64
}

// degenerateRule is returned when no candidate split has both sides populated.
// Every finite row goes left.
func degenerateRule() SplitRule {
	return SplitRule{Feature: 0, Threshold: math.Inf(1), Score: math.Inf(1)}
}

// Degenerate reports whether the rule is the "no improving split" signal.
func (r SplitRule) Degenerate() bool {
	return math.IsInf(r.Score, 1)
}

// GoesLeft applies the split predicate to a feature row.
func (r SplitRule) GoesLeft(row []float64) bool {
	return row[r.Feature] < r.Threshold
}

// Node is either an internal node (Left and Right set) or a leaf (Leaf set).
// Depth counts from 1 at the root.
type Node struct {
	Rule  SplitRule
	Left  *Node
	Right *Node
	Leaf  LeafModel
	Depth int
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.Left.Walk(fn)
	n.Right.Walk(fn)
}

// NumLeaves counts leaf nodes.
func (n *Node) NumLeaves() int {
	count := 0
	n.Walk(func(m *Node) bool {
		if m.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// SplitDepth is the number of split levels on the longest path (0 for a leaf).
func (n *Node) SplitDepth() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return 1 + max(n.Left.SplitDepth(), n.Right.SplitDepth())
}

// Rules returns the split rules of all internal nodes in pre-order.
func (n *Node) Rules() []SplitRule {
	var rules []SplitRule
	n.Walk(func(m *Node) bool {
		if !m.IsLeaf() {
			rules = append(rules, m.Rule)
		}
		return true
	})
	return rules
}

func (n *Node) renumber(depth int) {
	if n == nil {
		return
	}
	n.Depth = depth
	n.Left.renumber(depth + 1)
	n.Right.renumber(depth + 1)
}

// predictInto writes the prediction for rows[i] into row pos[i] of out,
// routing each row down the split predicates. A side that receives no rows is
// never consulted.
func (n *Node) predictInto(d *dataset, rows, pos []int, out *mat.Dense) error {
	if len(rows) == 0 {
		return nil
	}
	if n.IsLeaf() {
		if n.Leaf == nil {
			return errors.NewNotFittedError("Node", "Predict")
		}
		pred, err := n.Leaf.Predict(d.gatherX(rows))
		if err != nil {
			return err
		}
		if _, c := pred.Dims(); c != d.k {
			return errors.NewDimensionError("Node.Predict", d.k, c, 1)
		}
		for i, p := range pos {
			for j := 0; j < d.k; j++ {
				out.Set(p, j, pred.At(i, j))
			}
		}
		return nil
	}
	var lRows, lPos, rRows, rPos []int
	for i, r := range rows {
		if n.Rule.GoesLeft(d.x[r]) {
			lRows, lPos = append(lRows, r), append(lPos, pos[i])
		} else {
			rRows, rPos = append(rRows, r), append(rPos, pos[i])
		}
	}
	if err := n.Left.predictInto(d, lRows, lPos, out); err != nil {
		return err
	}
	return n.Right.predictInto(d, rRows, rPos, out)
}

// predictSubset returns predictions for rows, in the order given.
func (n *Node) predictSubset(d *dataset, rows []int) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.NewModelError("Node.Predict", "empty partition", errors.ErrEmptyData)
	}
	pos := make([]int, len(rows))
	for i := range pos {
		pos[i] = i
	}
	out := mat.NewDense(len(rows), d.k, nil)
	if err := n.predictInto(d, rows, pos, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Describe renders the subtree as nested if/else text.
func (n *Node) Describe() (string, error) {
	var b strings.Builder
	if err := n.describe(&b, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (n *Node) describe(b *strings.Builder, indent int) error {
	pad := strings.Repeat("  ", indent)
	if n.IsLeaf() {
		if n.Leaf == nil {
			fmt.Fprintf(b, "%s<empty>\n", pad)
			return nil
		}
		text, err := n.Leaf.Describe()
		if err != nil {
			if errors.As(err, new(*errors.NotFittedError)) {
				fmt.Fprintf(b, "%s<unfitted>\n", pad)
				return nil
			}
			return err
		}
		fmt.Fprintf(b, "%s%s\n", pad, text)
		return nil
	}
	fmt.Fprintf(b, "%sif feat[%d] < %.6g then:\n", pad, n.Rule.Feature, n.Rule.Threshold)
	if err := n.Left.describe(b, indent+1); err != nil {
		return err
	}
	fmt.Fprintf(b, "%selse:\n", pad)
	return n.Right.describe(b, indent+1)
}
