package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelFile string
	input     string
	target    string
	output    string
	labels    bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict targets for a data set with a fitted model",
		Long:  `Load a model written by fit, predict every row of the input and report the score when targets are present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&config.modelFile, "file", "f", "model.gob", "model file written by fit")
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "CSV, features .npy file or synthetic:{polynomial,iris,blobs} (required)")
	cmd.Flags().StringVarP(&config.target, "target", "t", "", "optional targets .npy file used for scoring")
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "write predictions to this .npy or .csv file instead of STDOUT")
	cmd.Flags().BoolVar(&config.labels, "labels", false, "print the predicted class label instead of class scores")
	return cmd
}

func (c *predictCmdConfig) run(cmd *cobra.Command) error {
	lg := logger().With(log.OperationKey, log.OperationPredict)
	b, err := loadBundle(c.modelFile)
	if err != nil {
		return err
	}
	table, err := loadTable(c.input, c.target, b.Settings.Ensemble.Seed)
	if err != nil {
		return err
	}
	pred, err := b.predict(table.X)
	if err != nil {
		return err
	}
	n, _ := pred.Dims()
	lg.Info("predicted", log.SamplesKey, n)

	if table.Y != nil {
		if err := alignClasses(table, b.Classes); err != nil {
			return err
		}
		metric, value, err := score(table.Y, pred)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s=%.6g\n", metric, value)
	}

	switch {
	case c.output == "":
		return writePredictions(cmd.OutOrStdout(), pred, b.Classes, c.labels)
	case strings.EqualFold(filepath.Ext(c.output), ".npy"):
		return datasets.SaveNpy(c.output, pred)
	default:
		f, err := createFile(c.output)
		if err != nil {
			return err
		}
		if err := writePredictions(f, pred, b.Classes, c.labels); err != nil {
			f.Close()
			return err
		}
		return errors.Wrap(f.Close(), "closing "+c.output)
	}
}

// writePredictions writes one CSV row per prediction. With labels set, a
// one-hot model prints the arg-max class name instead of the class scores.
func writePredictions(w io.Writer, pred mat.Matrix, classes []string, labels bool) error {
	cw := csv.NewWriter(w)
	r, k := pred.Dims()
	header := make([]string, k)
	for j := range header {
		if j < len(classes) {
			header[j] = classes[j]
		} else {
			header[j] = "y" + strconv.Itoa(j+1)
		}
	}
	if labels {
		header = []string{"label"}
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing predictions")
	}
	row := make([]float64, k)
	for i := 0; i < r; i++ {
		mat.Row(row, i, pred)
		var rec []string
		if labels {
			c := floats.MaxIdx(row)
			name := strconv.Itoa(c)
			if c < len(classes) {
				name = classes[c]
			}
			rec = []string{name}
		} else {
			rec = make([]string, k)
			for j, v := range row {
				rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing predictions")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing predictions")
}
