package tree

import (
	"gonum.org/v1/gonum/mat"
)

// toyX/toyY は 3 クラス・3 特徴量の小さな分類データ（iris の一部に近い値）
func toyData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 3, []float64{
		5.1, 3.5, 1.4,
		4.9, 3.0, 1.4,
		6.2, 2.9, 4.3,
		5.9, 3.0, 5.1,
		6.3, 3.3, 6.0,
		5.5, 2.4, 3.8,
		4.7, 3.2, 1.3,
		6.5, 3.0, 5.8,
		5.7, 2.8, 4.1,
		5.0, 3.6, 1.4,
	})
	classes := []int{0, 0, 1, 2, 2, 1, 0, 2, 1, 0}
	y := mat.NewDense(10, 3, nil)
	for i, c := range classes {
		y.Set(i, c, 1)
	}
	return X, y
}

// regressionData は重複値を含む 10×1 の回帰データ
func regressionData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 1, []float64{1, 2, 2, 3, 4, 5, 5, 6, 7, 8})
	y := mat.NewDense(10, 1, []float64{1.0, 1.2, 0.9, 1.1, 3.0, 3.2, 2.9, 5.1, 4.8, 5.0})
	return X, y
}

// fittedLeaf returns a ZeroRule fitted to the single target row r.
func fittedLeaf(r ...float64) *Node {
	z := &ZeroRule{}
	if err := z.Fit(nil, mat.NewDense(1, len(r), r), nil); err != nil {
		panic(err)
	}
	return &Node{Leaf: z}
}

func branch(feature int, threshold, score float64, left, right *Node) *Node {
	return &Node{Rule: SplitRule{Feature: feature, Threshold: threshold, Score: score}, Left: left, Right: right}
}
