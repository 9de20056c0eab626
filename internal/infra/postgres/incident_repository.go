package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/mo"

	"github.com/jinford/homeguard/internal/core/assistant"
	"github.com/jinford/homeguard/internal/core/triage"
)

// IncidentRepository はインシデントをPostgreSQLに永続化する
type IncidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository は新しいIncidentRepositoryを作成する
func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

// Create は新規インシデントを保存する
func (r *IncidentRepository) Create(ctx context.Context, incident *assistant.Incident) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO incidents (id, property_id, asset_id, conversation_id, category, severity,
		                       suggested_actions, confidence, description, status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		incident.ID,
		incident.PropertyID,
		optionToPtr(incident.AssetID),
		optionToPtr(incident.ConversationID),
		string(incident.Classification.Category),
		incident.Classification.Severity.String(),
		incident.Classification.SuggestedActions,
		incident.Classification.Confidence,
		incident.Description,
		string(incident.Status),
		incident.CreatedAt,
		optionToPtr(incident.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

// ListByProperty はプロパティのインシデントを作成日時の降順で返す
func (r *IncidentRepository) ListByProperty(ctx context.Context, propertyID string) ([]*assistant.Incident, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, property_id, asset_id, conversation_id, category, severity,
		       suggested_actions, confidence, description, status, created_at, resolved_at
		FROM incidents
		WHERE property_id = $1
		ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []*assistant.Incident
	for rows.Next() {
		var (
			incident       assistant.Incident
			assetID        *string
			conversationID *string
			category       string
			severity       string
			actions        []string
			confidence     float64
			status         string
			resolvedAt     *time.Time
		)
		if err := rows.Scan(
			&incident.ID,
			&incident.PropertyID,
			&assetID,
			&conversationID,
			&category,
			&severity,
			&actions,
			&confidence,
			&incident.Description,
			&status,
			&incident.CreatedAt,
			&resolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}

		parsedCategory, err := triage.ParseCategory(category)
		if err != nil {
			parsedCategory = triage.CategoryOther
		}
		parsedSeverity, err := triage.ParseSeverity(severity)
		if err != nil {
			parsedSeverity = triage.SeverityMedium
		}

		incident.AssetID = ptrToOption(assetID)
		incident.ConversationID = ptrToOption(conversationID)
		incident.Classification = &triage.IncidentClassification{
			Category:         parsedCategory,
			Severity:         parsedSeverity,
			SuggestedActions: actions,
			Confidence:       confidence,
		}
		incident.Status = assistant.IncidentStatus(status)
		incident.ResolvedAt = ptrToOption(resolvedAt)

		incidents = append(incidents, &incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read incidents: %w", err)
	}
	return incidents, nil
}

func optionToPtr[T any](opt mo.Option[T]) *T {
	if value, ok := opt.Get(); ok {
		return &value
	}
	return nil
}

func ptrToOption[T any](ptr *T) mo.Option[T] {
	if ptr == nil {
		return mo.None[T]()
	}
	return mo.Some(*ptr)
}

var _ assistant.IncidentStore = (*IncidentRepository)(nil)
