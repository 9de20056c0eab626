package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/triage"
)

// IncidentStatus はインシデントのライフサイクル状態
type IncidentStatus string

const (
	StatusReported   IncidentStatus = "reported"
	StatusTriaged    IncidentStatus = "triaged"
	StatusScheduled  IncidentStatus = "scheduled"
	StatusInProgress IncidentStatus = "in_progress"
	StatusResolved   IncidentStatus = "resolved"
)

// statusOrder は前進のみの遷移順序を定義する
var statusOrder = map[IncidentStatus]int{
	StatusReported:   0,
	StatusTriaged:    1,
	StatusScheduled:  2,
	StatusInProgress: 3,
	StatusResolved:   4,
}

// Incident はトリアージで作成されるメンテナンスチケットを表す
// このコアは初期レコードの発行のみを担い、以降のライフサイクルは
// 外部コラボレータが管理する
type Incident struct {
	ID             uuid.UUID
	PropertyID     string
	AssetID        mo.Option[string]
	ConversationID mo.Option[string]

	Classification *triage.IncidentClassification
	Description    string

	Status     IncidentStatus
	CreatedAt  time.Time
	ResolvedAt mo.Option[time.Time]
}

// AdvanceTo はステータスを遷移させる
// 前方への遷移と、訂正のための reported への巻き戻しのみを許可する
func (i *Incident) AdvanceTo(next IncidentStatus, at time.Time) error {
	nextOrder, ok := statusOrder[next]
	if !ok {
		return fmt.Errorf("unknown incident status: %q", next)
	}
	current := statusOrder[i.Status]

	if nextOrder <= current && next != StatusReported {
		return fmt.Errorf("invalid status transition: %s -> %s", i.Status, next)
	}

	i.Status = next
	if next == StatusResolved {
		i.ResolvedAt = mo.Some(at)
	} else {
		i.ResolvedAt = mo.None[time.Time]()
	}
	return nil
}

// IncidentStore はインシデントレコードの発行先インターフェース
type IncidentStore interface {
	// Create は新規インシデントを保存する
	Create(ctx context.Context, incident *Incident) error
	// ListByProperty はプロパティのインシデントを作成日時の降順で返す
	ListByProperty(ctx context.Context, propertyID string) ([]*Incident, error)
}
