package tree

// grower builds a tree top-down over a dataset.
type grower struct {
	d        *dataset
	imp      ImpurityFunc
	search   searchFunc
	leaf     LeafKind
	maxDepth int
	features []int
	// keepDegenerate keeps a two-leaf node even when no split improves,
	// leaving the empty side unfitted.
	keepDegenerate bool
}

func (g *grower) grow(rows []int, depth int) (*Node, error) {
	rule := g.search(g.d, rows, g.features, g.imp)
	if rule.Degenerate() && !g.keepDegenerate {
		return g.leafNode(rows, depth)
	}
	left, right := g.d.partition(rows, rule)
	node := &Node{Rule: rule, Depth: depth}
	var err error
	if node.Left, err = g.child(left, depth); err != nil {
		return nil, err
	}
	if node.Right, err = g.child(right, depth); err != nil {
		return nil, err
	}
	return node, nil
}

func (g *grower) child(rows []int, depth int) (*Node, error) {
	if depth < g.maxDepth && len(rows) > 0 {
		return g.grow(rows, depth+1)
	}
	return g.leafNode(rows, depth+1)
}

// leafNode fits a fresh leaf on rows. An empty partition yields an unfitted leaf.
func (g *grower) leafNode(rows []int, depth int) (*Node, error) {
	leaf, err := NewLeaf(g.leaf)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if err := g.d.fitLeaf(leaf, rows); err != nil {
			return nil, err
		}
	}
	return &Node{Leaf: leaf, Depth: depth}, nil
}

func (d *dataset) fitLeaf(leaf LeafModel, rows []int) error {
	return leaf.Fit(d.gatherX(rows), d.gatherY(rows), d.gatherW(rows))
}
