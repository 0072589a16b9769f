// Package ensemble は決定木を弱学習器とするアンサンブル学習器を提供します。
//
//   - Bagging / RandomForest: 行のリサンプルごとに独立した木を学習し、予測を平均する
//   - AdaBoostM1: 重み付き木による離散 AdaBoost（分類、one-hot 目的変数）
//   - AdaBoostRT: 相対誤差のしきい値による AdaBoost.RT（回帰）
//
// ブースティングの各ラウンドは前のラウンドの重みに依存するため逐次的に実行されます。
// Bagging のメンバーは互いに独立で、NJobs > 1 なら並列に学習されます。
// メンバー i の乱数シードは Seed+i なので、並列でも結果は逐次実行と一致します。
//
// 使用例:
//
//	forest := ensemble.NewRandomForest(10, 2, ensemble.WithSeed(42), ensemble.WithNJobs(4))
//	if err := forest.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := forest.Predict(X)
package ensemble
