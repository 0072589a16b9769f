// Package metrics は予測結果の評価指標を提供する。
// 入力は全て mat.Matrix（n×k）で、木やアンサンブルの Predict の出力をそのまま渡せる。
package metrics

import (
	"math"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func checkSameShape(op string, yTrue, yPred mat.Matrix) (int, int, error) {
	r, c := yTrue.Dims()
	rp, cp := yPred.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if rp != r {
		return 0, 0, errors.NewDimensionError(op, r, rp, 0)
	}
	if cp != c {
		return 0, 0, errors.NewDimensionError(op, c, cp, 1)
	}
	return r, c, nil
}

// SSE は二乗誤差の総和（Sum of Squared Errors）を計算する。
// 回帰木の縮小誤差枝刈りはこの値で部分木と葉を比較する。
func SSE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("SSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := yTrue.At(i, j) - yPred.At(i, j)
			sum += d * d
		}
	}
	return sum, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を全要素について計算する
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	sse, err := SSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, c := yTrue.Dims()
	return sse / float64(r*c), nil
}

// RMSE は平方根平均二乗誤差を計算する
func RMSE(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(yTrue.At(i, j) - yPred.At(i, j))
		}
	}
	return sum / float64(r*c), nil
}

// R2Score は決定係数（R²）を列ごとに計算し、その平均を返す
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var total float64
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, yTrue)
		mean := stat.Mean(col, nil)
		var tss, rss float64
		for i := 0; i < r; i++ {
			tss += (col[i] - mean) * (col[i] - mean)
			d := col[i] - yPred.At(i, j)
			rss += d * d
		}
		if tss == 0 {
			return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in column %d)", j)
		}
		total += 1 - rss/tss
	}
	return total / float64(c), nil
}
