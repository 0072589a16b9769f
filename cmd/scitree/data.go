package main

import (
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/scitree/datasets"
	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const syntheticPrefix = "synthetic:"

// loadTable reads features and targets from a CSV file (last column is the
// target), from a pair of .npy files, or from a built-in generator named
// synthetic:polynomial, synthetic:iris or synthetic:blobs.
func loadTable(input, target string, seed uint64) (*datasets.Table, error) {
	if strings.HasPrefix(input, syntheticPrefix) {
		return syntheticTable(strings.TrimPrefix(input, syntheticPrefix), seed)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".npy":
		X, err := datasets.LoadNpy(input)
		if err != nil {
			return nil, err
		}
		t := &datasets.Table{X: X}
		if target == "" {
			return t, nil
		}
		if t.Y, err = datasets.LoadNpy(target); err != nil {
			return nil, err
		}
		return t, nil
	case ".csv":
		return datasets.LoadCSVFile(input)
	case "":
		return nil, errors.NewValueError("scitree", "an --input file is required")
	}
	return nil, errors.NewValueError("scitree", "unsupported input format "+input)
}

func syntheticTable(name string, seed uint64) (*datasets.Table, error) {
	var (
		X, y *mat.Dense
		err  error
	)
	t := &datasets.Table{}
	switch name {
	case "polynomial":
		X, y, err = datasets.MakePolynomial(200, datasets.DefaultPolynomial, 0.05, seed)
	case "iris":
		X, y, err = datasets.MakeIrisLike(seed)
		t.Classes = []string{"setosa", "versicolor", "virginica"}
	case "blobs":
		X, y, err = datasets.MakeClassification(300, 2, 3, 4, seed)
		t.Classes = []string{"a", "b", "c"}
	default:
		return nil, errors.NewValueError("scitree", "unknown generator "+name)
	}
	if err != nil {
		return nil, err
	}
	t.X, t.Y = X, y
	return t, nil
}

// alignClasses re-encodes the one-hot targets of t against the label order a
// model was trained with. Labels the model never saw are an error.
func alignClasses(t *datasets.Table, classes []string) error {
	if t.Y == nil || t.Classes == nil || classes == nil {
		return nil
	}
	index := make(map[string]int, len(classes))
	for c, name := range classes {
		index[name] = c
	}
	labels := datasets.Labels(t.Y)
	for i, l := range labels {
		c, ok := index[t.Classes[l]]
		if !ok {
			return errors.NewValueError("scitree", "label "+t.Classes[l]+" was not seen during fit")
		}
		labels[i] = c
	}
	t.Y = datasets.OneHot(labels, len(classes))
	t.Classes = classes
	return nil
}

// score is accuracy for one-hot targets and R² for a single target column.
func score(y, pred mat.Matrix) (string, float64, error) {
	if _, k := y.Dims(); k > 1 {
		acc, err := metrics.Accuracy(y, pred)
		return "accuracy", acc, err
	}
	r2, err := metrics.R2Score(y, pred)
	return "r2", r2, err
}
