package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は回帰なら n×1、分類なら n×k の one-hot。
	Fit(X, y mat.Matrix) error
}

// WeightedFitter はサンプル重み付きで学習できるモデル。
// ブースティングはこのインターフェースを通して弱学習器を学習する。
type WeightedFitter interface {
	// FitWeighted は w を行ごとの重みとして学習する。w は len(w) == 行数。
	FitWeighted(X, y mat.Matrix, w []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Describer は人が読むためのモデルのダンプを返す
type Describer interface {
	Describe() (string, error)
}

// Estimator は scitree の全ての学習器が満たす契約
type Estimator interface {
	Fitter
	Predictor
	Describer
	IsFitted() bool
}

// ParameterGetter はハイパーパラメータを公開するモデル
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
