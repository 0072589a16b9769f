package main

import (
	"fmt"
	"image/color"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

type plotCmdConfig struct {
	*rootCmdConfig
	modelFile string
	kind      string
	input     string
	target    string
	column    int
	output    string
	width     float64
	height    float64
}

func plotCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &plotCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the boosting error curve or predicted against actual targets",
		Long: `Plot the per-round weighted error of a boosted ensemble (--kind curve), or
the predictions of any model against the actual targets of a data set (--kind fit).
The image format follows the extension of --output (png, svg, pdf).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(config.modelFile)
			if err != nil {
				return err
			}
			var p *plot.Plot
			switch config.kind {
			case "curve":
				p, err = errorCurve(b.roundErrors())
			case "fit":
				p, err = config.fitPlot(b)
			default:
				err = errors.NewValidationError("kind", "must be curve or fit", config.kind)
			}
			if err != nil {
				return err
			}
			if err := p.Save(vg.Length(config.width)*vg.Inch, vg.Length(config.height)*vg.Inch, config.output); err != nil {
				return errors.Wrapf(err, "saving %s", config.output)
			}
			logger().Info("plot written", "path", config.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.modelFile, "file", "f", "model.gob", "model file written by fit")
	cmd.Flags().StringVar(&config.kind, "kind", "curve", "curve or fit")
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "data set for --kind fit")
	cmd.Flags().StringVarP(&config.target, "target", "t", "", "targets .npy file when --input is .npy")
	cmd.Flags().IntVar(&config.column, "column", 0, "target column to plot with --kind fit")
	cmd.Flags().StringVarP(&config.output, "output", "o", "plot.png", "image file to write")
	cmd.Flags().Float64Var(&config.width, "width", 6, "image width in inches")
	cmd.Flags().Float64Var(&config.height, "height", 4, "image height in inches")
	return cmd
}

// errorCurve plots the weighted error of every boosting round.
func errorCurve(roundErrors []float64) (*plot.Plot, error) {
	if len(roundErrors) == 0 {
		return nil, errors.NewValueError("scitree plot", "the model has no boosting rounds; use --kind fit")
	}
	pts := make(plotter.XYs, len(roundErrors))
	for i, e := range roundErrors {
		pts[i].X = float64(i + 1)
		pts[i].Y = e
	}
	p := plot.New()
	p.Title.Text = "Boosting error per round"
	p.X.Label.Text = "round"
	p.Y.Label.Text = "weighted error"
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "building error curve")
	}
	p.Add(plotter.NewGrid(), line, points)
	p.Legend.Add("error", line, points)
	return p, nil
}

func (c *plotCmdConfig) fitPlot(b *bundle) (*plot.Plot, error) {
	table, err := loadTable(c.input, c.target, b.Settings.Ensemble.Seed)
	if err != nil {
		return nil, err
	}
	if table.Y == nil {
		return nil, errors.NewValueError("scitree plot", "targets are required for --kind fit")
	}
	if err := alignClasses(table, b.Classes); err != nil {
		return nil, err
	}
	pred, err := b.predict(table.X)
	if err != nil {
		return nil, err
	}
	return predictedVsActual(table.Y, pred, c.column)
}

// predictedVsActual scatters column j of pred against y with the identity
// line for reference.
func predictedVsActual(y, pred mat.Matrix, j int) (*plot.Plot, error) {
	n, k := y.Dims()
	if j < 0 || j >= k {
		return nil, errors.NewValidationError("column", fmt.Sprintf("must be in [0, %d)", k), j)
	}
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i].X = y.At(i, j)
		pts[i].Y = pred.At(i, j)
	}
	p := plot.New()
	p.Title.Text = "Predicted vs actual"
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "building scatter")
	}
	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Color = color.Gray{Y: 128}
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(plotter.NewGrid(), scatter, identity)
	return p, nil
}
