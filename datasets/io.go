package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Table is a loaded feature/target pair.
type Table struct {
	X            *mat.Dense
	Y            *mat.Dense
	FeatureNames []string
	// Classes is the sorted label set when the target column was categorical,
	// nil for regression targets. Y column c is the indicator of Classes[c].
	Classes []string
}

// LoadCSV reads a CSV whose last column is the target. A first row that does
// not parse as numbers is taken as the header. If every target value parses
// as a float the target is a single regression column; otherwise the labels
// are one-hot encoded in sorted order.
func LoadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "datasets.LoadCSV")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("datasets.LoadCSV", "empty data", errors.ErrEmptyData)
	}
	width := len(records[0])
	if width < 2 {
		return nil, errors.NewValueError("datasets.LoadCSV", "need at least one feature column and a target column")
	}

	t := &Table{}
	if _, err := parseFloats(records[0][:width-1]); err != nil {
		t.FeatureNames = append([]string(nil), records[0][:width-1]...)
		records = records[1:]
	} else {
		for j := 0; j < width-1; j++ {
			t.FeatureNames = append(t.FeatureNames, "X"+strconv.Itoa(j+1))
		}
	}
	n := len(records)
	if n == 0 {
		return nil, errors.NewModelError("datasets.LoadCSV", "empty data", errors.ErrEmptyData)
	}

	t.X = mat.NewDense(n, width-1, nil)
	targets := make([]string, n)
	numeric := true
	values := make([]float64, n)
	for i, rec := range records {
		xs, err := parseFloats(rec[:width-1])
		if err != nil {
			return nil, errors.Wrapf(err, "datasets.LoadCSV: row %d", i+1)
		}
		t.X.SetRow(i, xs)
		targets[i] = rec[width-1]
		if numeric {
			if values[i], err = strconv.ParseFloat(targets[i], 64); err != nil {
				numeric = false
			}
		}
	}

	if numeric {
		t.Y = mat.NewDense(n, 1, values)
		return t, nil
	}
	index := map[string]int{}
	for _, s := range targets {
		index[s] = 0
	}
	for s := range index {
		t.Classes = append(t.Classes, s)
	}
	sort.Strings(t.Classes)
	for c, s := range t.Classes {
		index[s] = c
	}
	labels := make([]int, n)
	for i, s := range targets {
		labels[i] = index[s]
	}
	t.Y = OneHot(labels, len(t.Classes))
	return t, nil
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets.LoadCSVFile: %s", path)
	}
	defer f.Close()
	return LoadCSV(f)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for j, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}

// ReadNpy decodes a 2-D float64 array in NumPy .npy format.
func ReadNpy(r io.Reader) (*mat.Dense, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "datasets.ReadNpy")
	}
	m := &mat.Dense{}
	if err := npy.Read(m); err != nil {
		return nil, errors.Wrap(err, "datasets.ReadNpy")
	}
	return m, nil
}

// LoadNpy reads a matrix from a .npy file.
func LoadNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets.LoadNpy: %s", path)
	}
	defer f.Close()
	return ReadNpy(f)
}

// WriteNpy encodes m in NumPy .npy format.
func WriteNpy(w io.Writer, m mat.Matrix) error {
	return errors.Wrap(npyio.Write(w, m), "datasets.WriteNpy")
}

// SaveNpy writes m to path, creating or truncating the file.
func SaveNpy(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "datasets.SaveNpy: %s", path)
	}
	if err := WriteNpy(f, m); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "datasets.SaveNpy")
}
