package model

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Summary は学習済みモデルの機械可読な要約（JSON 出力用）。
// 木なら深さや葉の数、アンサンブルならメンバーごとの重みを持つ。
type Summary struct {
	// ModelType はモデルの種類（DecisionTree, Bagging, AdaBoostM1 等）
	ModelType string `json:"model_type"`

	// Version は出力フォーマットのバージョン
	Version string `json:"version"`

	// MemberWeights はアンサンブルのメンバーごとの投票重み。単体の木では空。
	MemberWeights []float64 `json:"member_weights,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は学習結果の統計（深さ、葉の数、ラウンドごとの誤差など）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// SummaryVersion は現在の Summary フォーマットのバージョン
const SummaryVersion = "1"

// ToJSON はSummaryをJSON形式にシリアライズ
func (s *Summary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON はJSON形式からSummaryをデシリアライズ
func (s *Summary) FromJSON(data []byte) error {
	return json.Unmarshal(data, s)
}

// Validate はSummaryの妥当性を検証
func (s *Summary) Validate() error {
	if s.ModelType == "" {
		return errors.New("model_type is required")
	}
	if s.Version == "" {
		return errors.New("version is required")
	}
	if !s.IsFitted && len(s.MemberWeights) > 0 {
		return errors.New("unfitted model should not have member weights")
	}
	return nil
}
