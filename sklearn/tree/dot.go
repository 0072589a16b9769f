package tree

import (
	"fmt"
	"html"
	"strings"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/awalterschulze/gographviz"
)

// DOT renders the fitted tree as a Graphviz digraph. Internal nodes show
// their rule and score, leaves their model description.
func (t *Tree) DOT() (string, error) {
	if !t.IsFitted() {
		return "", errors.NewNotFittedError(t.Name, "DOT")
	}
	return NodeDOT(t.RootNode)
}

// NodeDOT renders the subtree rooted at root.
func NodeDOT(root *Node) (string, error) {
	graphAst, err := gographviz.Parse([]byte(`digraph G{}`))
	if err != nil {
		return "", errors.Wrap(err, "tree.DOT")
	}
	graph := gographviz.NewGraph()
	if err := gographviz.Analyse(graphAst, graph); err != nil {
		return "", errors.Wrap(err, "tree.DOT")
	}

	next := 0
	var add func(n *Node) (string, error)
	add = func(n *Node) (string, error) {
		id := fmt.Sprintf("%d", next)
		next++
		var label string
		if n.IsLeaf() {
			text := "unfitted"
			if n.Leaf != nil {
				if desc, err := n.Leaf.Describe(); err == nil {
					text = desc
				}
			}
			label = fmt.Sprintf("<value = %s>", html.EscapeString(text))
		} else {
			label = fmt.Sprintf("<X[%d] &lt; %.6g<br/>score = %.4g>", n.Rule.Feature, n.Rule.Threshold, n.Rule.Score)
		}
		attrs := map[string]string{"label": label, "shape": "box"}
		if err := graph.AddNode("G", id, attrs); err != nil {
			return "", err
		}
		if n.IsLeaf() {
			return id, nil
		}
		for _, child := range []struct {
			node  *Node
			label string
		}{{n.Left, `"yes"`}, {n.Right, `"no"`}} {
			cid, err := add(child.node)
			if err != nil {
				return "", err
			}
			if err := graph.AddEdge(id, cid, true, map[string]string{"label": child.label}); err != nil {
				return "", err
			}
		}
		return id, nil
	}
	if _, err := add(root); err != nil {
		return "", errors.Wrap(err, "tree.DOT")
	}
	return strings.TrimSpace(graph.String()) + "\n", nil
}
