package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/sklearn/ensemble"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
)

type inspectCmdConfig struct {
	*rootCmdConfig
	modelFile string
	format    string
	member    int
}

func inspectCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &inspectCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a fitted model",
		Long:  `Print a fitted model as an indented dump with a member table (text), a JSON summary (json) or a Graphviz digraph (dot).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(config.modelFile)
			if err != nil {
				return err
			}
			return config.run(cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().StringVarP(&config.modelFile, "file", "f", "model.gob", "model file written by fit")
	cmd.Flags().StringVar(&config.format, "format", "text", "text, json or dot")
	cmd.Flags().IntVar(&config.member, "member", 0, "ensemble member to render with --format dot")
	return cmd
}

func (c *inspectCmdConfig) run(w io.Writer, b *bundle) error {
	est, err := b.estimator()
	if err != nil {
		return err
	}
	switch c.format {
	case "text":
		if members := b.members(); members != nil {
			renderMembers(w, members, b.roundErrors())
		}
		desc, err := est.Describe()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, desc)
		return err
	case "json":
		s, ok := est.(interface{ Summary() *model.Summary })
		if !ok {
			return errors.NewValueError("scitree inspect", "this model has no JSON summary")
		}
		data, err := s.Summary().ToJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "dot":
		dot, err := c.dot(b)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, dot)
		return err
	}
	return errors.NewValidationError("format", "must be text, json or dot", c.format)
}

func (c *inspectCmdConfig) dot(b *bundle) (string, error) {
	switch {
	case b.Tree != nil:
		return b.Tree.DOT()
	case b.Stump != nil:
		if !b.Stump.IsFitted() {
			return "", errors.NewNotFittedError("DecisionStump", "DOT")
		}
		return tree.NodeDOT(b.Stump.RootNode)
	}
	members := b.members()
	if c.member < 0 || c.member >= len(members) {
		return "", errors.NewValidationError("member", fmt.Sprintf("must be in [0, %d)", len(members)), c.member)
	}
	return members[c.member].Tree.DOT()
}

// renderMembers prints one row per ensemble member with its vote weight and
// shape, plus the boosting error of the round that produced it.
func renderMembers(w io.Writer, members []ensemble.Member, roundErrors []float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("ENSEMBLE MEMBERS")
	t.AppendHeader(table.Row{"#", "Tree", "Weight", "Depth", "Leaves", "Pruned", "Round error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Weight", Align: text.AlignRight},
		{Name: "Round error", Align: text.AlignRight},
	})
	total := 0.0
	for i, m := range members {
		roundErr := "-"
		if i < len(roundErrors) {
			roundErr = fmt.Sprintf("%.6g", roundErrors[i])
		}
		t.AppendRow(table.Row{i, m.Tree.Name, fmt.Sprintf("%.6g", m.Weight), m.Tree.Depth(), m.Tree.NumLeaves(), m.Tree.Pruned, roundErr})
		total += m.Weight
	}
	t.AppendFooter(table.Row{"", "total", fmt.Sprintf("%.6g", total), "", "", "", ""})
	t.Render()
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	return f, errors.Wrapf(err, "creating %s", path)
}
