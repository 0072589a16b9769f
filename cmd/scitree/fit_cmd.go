package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

type fitCmdConfig struct {
	*rootCmdConfig
	input  string
	target string
	output string
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &fitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a tree or ensemble on a data set",
		Long:  `Fit a decision tree, stump, bagged forest or AdaBoost ensemble and write it, with its scaler, to a gob file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.effectiveSettings(cmd)
			if err != nil {
				return err
			}
			return config.run(cmd, s)
		},
	}
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "CSV file with the target in the last column, a features .npy file, or synthetic:{polynomial,iris,blobs} (required)")
	cmd.Flags().StringVarP(&config.target, "target", "t", "", "targets .npy file when --input is .npy")
	cmd.Flags().StringVarP(&config.output, "output", "o", "model.gob", "path of the model file to write")
	addModelFlags(cmd)
	return cmd
}

func (c *fitCmdConfig) run(cmd *cobra.Command, s settings) error {
	lg := logger().With(log.OperationKey, log.OperationFit)
	table, err := loadTable(c.input, c.target, s.Ensemble.Seed)
	if err != nil {
		return err
	}
	if table.Y == nil {
		return errors.NewValueError("scitree fit", "targets are required; pass --target with a .npy input")
	}

	X, y := table.X, table.Y
	xTest, yTest := X, y
	if s.TestSize > 0 {
		if X, y, xTest, yTest, err = datasets.TrainTestSplit(table.X, table.Y, s.TestSize, s.Ensemble.Seed); err != nil {
			return err
		}
	}
	n, p := X.Dims()

	b, err := newBundle(s)
	if err != nil {
		return err
	}
	b.FeatureNames = table.FeatureNames
	b.Classes = table.Classes
	est, err := s.newEstimator(p)
	if err != nil {
		return err
	}

	lg.Info("fitting", log.ModelNameKey, s.Model, log.SamplesKey, n, log.FeaturesKey, p)
	start := time.Now()
	Xs, err := b.fitScaler(X)
	if err != nil {
		return err
	}
	if err := est.Fit(Xs, y); err != nil {
		return errors.Wrapf(err, "fitting %s", s.Model)
	}
	b.set(est)

	pred, err := b.predict(xTest)
	if err != nil {
		return err
	}
	metric, value, err := score(yTest, pred)
	if err != nil {
		return err
	}
	split := "train"
	if s.TestSize > 0 {
		split = "test"
	}
	lg.Info("fit completed", log.DurationMsKey, time.Since(start).Milliseconds(), "metrics."+metric, value)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s=%.6g\n", split, metric, value)

	if err := saveBundle(b, c.output); err != nil {
		return err
	}
	lg.Info("model written", "path", c.output)
	return nil
}
