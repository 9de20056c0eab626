package maintenance

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MinHistoryEvents は予測に必要な最小イベント数
// これに満たない資産は予測対象から黙って除外される
const MinHistoryEvents = 2

const (
	confidenceBase     = 0.3
	confidencePerEvent = 0.1
	confidenceEventCap = 5
	variancePenaltyMax = 0.3
	confidenceFloor    = 0.05
	confidenceCeiling  = 0.95
)

// Predict は1資産の履歴から次回メンテナンス日を予測する
// 履歴が MinHistoryEvents 未満の場合は nil を返す（エラーではない）
func Predict(assetID, assetName, assetType string, history []*MaintenanceEvent, today time.Time) *MaintenancePrediction {
	if len(history) < MinHistoryEvents {
		return nil
	}

	dates := make([]time.Time, len(history))
	for i, ev := range history {
		dates[i] = truncateDay(ev.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}

	avg := mean(gaps)
	last := dates[len(dates)-1]
	predicted := last.AddDate(0, 0, int(math.Round(avg)))

	today = truncateDay(today)
	daysUntil := int(math.Round(predicted.Sub(today).Hours() / 24))

	reasoning := fmt.Sprintf(
		"Based on %d prior maintenance events averaging %.0f days apart; last serviced %s.",
		len(dates), avg, last.Format("2006-01-02"),
	)
	if daysUntil < 0 {
		reasoning += fmt.Sprintf(" Overdue by %d days.", -daysUntil)
	}

	return &MaintenancePrediction{
		AssetID:             assetID,
		AssetName:           assetName,
		AssetType:           assetType,
		PredictedDate:       predicted,
		Confidence:          confidence(len(dates), gaps, avg),
		DaysUntil:           daysUntil,
		Reasoning:           reasoning,
		LastMaintenance:     last,
		AverageIntervalDays: avg,
		EventCount:          len(dates),
	}
}

// confidence はイベント数で増加し、間隔のばらつきで減少するスコアを返す
// (0, 1) の範囲に収まり、両方向で単調
func confidence(eventCount int, gaps []float64, avg float64) float64 {
	n := eventCount
	if n > confidenceEventCap {
		n = confidenceEventCap
	}
	score := confidenceBase + confidencePerEvent*float64(n)

	if avg > 0 {
		// 変動係数（標準偏差/平均）に比例したペナルティ
		cv := math.Sqrt(variance(gaps, avg)) / avg
		penalty := variancePenaltyMax * cv
		if penalty > variancePenaltyMax {
			penalty = variancePenaltyMax
		}
		score -= penalty
	}

	if score < confidenceFloor {
		return confidenceFloor
	}
	if score > confidenceCeiling {
		return confidenceCeiling
	}
	return score
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// truncateDay は時刻を UTC の日付境界に正規化する
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
