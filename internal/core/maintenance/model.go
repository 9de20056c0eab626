package maintenance

import (
	"context"
	"time"
)

// EventType はメンテナンスイベントの種別
type EventType string

const (
	EventRoutine EventType = "routine"
	EventRepair  EventType = "repair"
)

// MaintenanceEvent は1資産の履歴レコードを表す
// 外部の履歴ストアから供給される読み取り専用の入力
type MaintenanceEvent struct {
	AssetID   string
	AssetName string
	AssetType string
	Date      time.Time
	EventType EventType
}

// MaintenancePrediction は次回メンテナンスの予測結果
// 要求のたびに再計算され、キャッシュされない
type MaintenancePrediction struct {
	AssetID   string
	AssetName string
	AssetType string

	PredictedDate time.Time
	Confidence    float64
	// DaysUntil は今日から予測日までの符号付き日数
	// 負の値は期限超過を表し、ゼロに丸めてはならない
	DaysUntil int

	Reasoning           string
	LastMaintenance     time.Time
	AverageIntervalDays float64
	EventCount          int
}

// Overdue は予測日を過ぎているかどうかを返す
func (p *MaintenancePrediction) Overdue() bool {
	return p.DaysUntil < 0
}

// HistoryStore はプロパティごとのメンテナンス履歴の読み取りインターフェース
type HistoryStore interface {
	// History はプロパティの全イベントを返す（資産横断、順序は任意）
	History(ctx context.Context, propertyID string) ([]*MaintenanceEvent, error)
}
