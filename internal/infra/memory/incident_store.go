package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jinford/homeguard/internal/core/assistant"
)

// IncidentStore はインメモリのインシデント置き場
// データベースが設定されていない構成で使う
type IncidentStore struct {
	mu        sync.RWMutex
	incidents []*assistant.Incident
}

// NewIncidentStore は新しいIncidentStoreを作成する
func NewIncidentStore() *IncidentStore {
	return &IncidentStore{}
}

// Create は新規インシデントを保存する
func (s *IncidentStore) Create(ctx context.Context, incident *assistant.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = append(s.incidents, incident)
	return nil
}

// ListByProperty はプロパティのインシデントを作成日時の降順で返す
func (s *IncidentStore) ListByProperty(ctx context.Context, propertyID string) ([]*assistant.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*assistant.Incident
	for _, incident := range s.incidents {
		if incident.PropertyID == propertyID {
			out = append(out, incident)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ assistant.IncidentStore = (*IncidentStore)(nil)
