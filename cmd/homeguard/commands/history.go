package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/maintenance"
	"github.com/jinford/homeguard/internal/infra/history"
	"github.com/jinford/homeguard/internal/platform/logger"
	"github.com/jinford/homeguard/pkg/config"
)

// HistoryAddAction はメンテナンス履歴にイベントを追記するコマンドのアクション
// ローカルの履歴ファイルだけで完結するため、LLMクライアントは初期化しない
func HistoryAddAction(ctx context.Context, cmd *cli.Command) error {
	propertyID := cmd.String("property")
	if propertyID == "" {
		return fmt.Errorf("--property を指定してください")
	}

	date, err := parseEventDate(cmd.String("date"))
	if err != nil {
		return err
	}

	eventType := maintenance.EventType(cmd.String("type"))
	switch eventType {
	case maintenance.EventRoutine, maintenance.EventRepair:
	default:
		return fmt.Errorf("イベント種別が不正です（routine / repair）: %s", eventType)
	}

	assetName := cmd.String("asset-name")
	if assetName == "" {
		assetName = cmd.String("asset-id")
	}

	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	appLogger := logger.New(logger.ParseLevel(cfg.Logging.Level))

	store := history.NewFileStore(cfg.Data.HistoryDir, logger.WithComponent(appLogger, "history"))
	event := &maintenance.MaintenanceEvent{
		AssetID:   cmd.String("asset-id"),
		AssetName: assetName,
		AssetType: cmd.String("asset-type"),
		Date:      date,
		EventType: eventType,
	}
	if err := store.AppendEvent(ctx, propertyID, event); err != nil {
		return fmt.Errorf("履歴の追記に失敗: %w", err)
	}

	fmt.Printf("✓ 履歴を追記しました\n")
	fmt.Printf("  Property: %s\n", propertyID)
	fmt.Printf("  Asset:    %s (%s)\n", event.AssetName, event.AssetID)
	fmt.Printf("  Date:     %s\n", event.Date.Format("2006-01-02"))
	fmt.Printf("  Type:     %s\n", event.EventType)
	return nil
}

// parseEventDate は --date の値を解釈する。空文字は当日（UTC、日付のみ）として扱う
func parseEventDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日付の形式が不正です（YYYY-MM-DD）: %s", s)
	}
	return date, nil
}
