package triage

import "fmt"

// Category は資産種別の閉じた列挙
type Category string

const (
	CategoryLighting       Category = "lighting"
	CategoryClimateControl Category = "climate_control"
	CategoryHeating        Category = "heating"
	CategoryEntertainment  Category = "entertainment"
	CategoryNetwork        Category = "network"
	CategoryLaundryWash    Category = "laundry_wash"
	CategoryLaundryDry     Category = "laundry_dry"
	CategoryPlumbing       Category = "plumbing"
	CategoryAppliances     Category = "appliances"
	CategoryOther          Category = "other"
)

var categories = map[Category]bool{
	CategoryLighting:       true,
	CategoryClimateControl: true,
	CategoryHeating:        true,
	CategoryEntertainment:  true,
	CategoryNetwork:        true,
	CategoryLaundryWash:    true,
	CategoryLaundryDry:     true,
	CategoryPlumbing:       true,
	CategoryAppliances:     true,
	CategoryOther:          true,
}

// ParseCategory は文字列を列挙内のカテゴリに変換する
// 列挙外の値はエラーになる
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !categories[c] {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Severity は深刻度の順序付き列挙
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String は Severity の文字列表現を返す
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity は文字列を Severity に変換する
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity: %q", s)
	}
}

// IncidentClassification は問題報告の構造化トリアージ結果を表す
type IncidentClassification struct {
	Category         Category
	Severity         Severity
	SuggestedActions []string
	Confidence       float64
}

// defaultAction は提案アクションが得られなかった場合の代替
const defaultAction = "Schedule inspection"

// fallbackConfidenceCap は分類結果を復旧した場合の信頼度上限
const fallbackConfidenceCap = 0.5
