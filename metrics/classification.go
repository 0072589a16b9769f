package metrics

import (
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Argmax は各行で最大値を取る列番号を返す。同値の場合は最初の列。
func Argmax(m mat.Matrix) []int {
	r, c := m.Dims()
	out := make([]int, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		out[i] = floats.MaxIdx(row)
	}
	return out
}

// MisclassificationCount は one-hot の正解とスコア行列の argmax が一致しない行数を返す
func MisclassificationCount(yTrue, yPred mat.Matrix) (int, error) {
	if _, _, err := checkSameShape("MisclassificationCount", yTrue, yPred); err != nil {
		return 0, err
	}
	truth, pred := Argmax(yTrue), Argmax(yPred)
	miss := 0
	for i := range truth {
		if truth[i] != pred[i] {
			miss++
		}
	}
	return miss, nil
}

// Accuracy は argmax が一致する行の割合を返す
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	miss, err := MisclassificationCount(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, _ := yTrue.Dims()
	return 1 - float64(miss)/float64(r), nil
}

// WeightedError は argmax が一致しない行の重みの総和を返す。
// AdaBoost.M1 のラウンド誤差はこの値。
func WeightedError(yTrue, yPred mat.Matrix, w []float64) (float64, error) {
	r, _, err := checkSameShape("WeightedError", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, errors.NewMissingWeightError("WeightedError")
	}
	if len(w) != r {
		return 0, errors.NewDimensionError("WeightedError", r, len(w), 0)
	}
	truth, pred := Argmax(yTrue), Argmax(yPred)
	var sum float64
	for i := range truth {
		if truth[i] != pred[i] {
			sum += w[i]
		}
	}
	return sum, nil
}
