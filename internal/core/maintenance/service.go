package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// PredictorService はプロパティ単位の予測をまとめて実行する
type PredictorService struct {
	store  HistoryStore
	logger *slog.Logger
	// now はテストで差し替え可能な現在時刻
	now func() time.Time
}

type PredictorOption func(*PredictorService)

// WithPredictorLogger は PredictorService にロガーを設定する
func WithPredictorLogger(logger *slog.Logger) PredictorOption {
	return func(s *PredictorService) {
		s.logger = logger
	}
}

// WithClock は現在時刻の取得関数を差し替える
func WithClock(now func() time.Time) PredictorOption {
	return func(s *PredictorService) {
		s.now = now
	}
}

// NewPredictorService は新しいPredictorServiceを作成する
func NewPredictorService(store HistoryStore, opts ...PredictorOption) *PredictorService {
	svc := &PredictorService{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc
}

// PredictAll はプロパティの全資産について次回メンテナンスを予測する
// 履歴が2件未満の資産は結果から黙って除外される
func (s *PredictorService) PredictAll(ctx context.Context, propertyID string) ([]*MaintenancePrediction, error) {
	events, err := s.store.History(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance history for property %s: %w", propertyID, err)
	}

	byAsset := make(map[string][]*MaintenanceEvent)
	for _, ev := range events {
		byAsset[ev.AssetID] = append(byAsset[ev.AssetID], ev)
	}

	assetIDs := make([]string, 0, len(byAsset))
	for id := range byAsset {
		assetIDs = append(assetIDs, id)
	}
	sort.Strings(assetIDs)

	today := s.now()
	predictions := make([]*MaintenancePrediction, 0, len(assetIDs))
	for _, assetID := range assetIDs {
		history := byAsset[assetID]
		first := history[0]
		prediction := Predict(assetID, first.AssetName, first.AssetType, history, today)
		if prediction == nil {
			continue
		}
		predictions = append(predictions, prediction)
	}

	s.logger.Info("maintenance predictions generated",
		"propertyID", propertyID,
		"assets", len(byAsset),
		"predictions", len(predictions),
	)

	return predictions, nil
}
