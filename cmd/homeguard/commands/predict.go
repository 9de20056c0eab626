package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/maintenance"
)

// PredictAction はメンテナンス予測を表示するコマンドのアクション
func PredictAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	propertyID := cmd.String("property")

	if propertyID == "" {
		return fmt.Errorf("--property は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	predictions, err := appCtx.Assistant.MaintenancePredictions(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("予測の生成に失敗: %w", err)
	}

	if len(predictions) == 0 {
		fmt.Println("予測可能な設備がありません（履歴2件以上の設備が必要です）")
		return nil
	}

	renderPredictionsTable(predictions)
	return nil
}

// renderPredictionsTable はテーブル形式でメンテナンス予測を表示します
func renderPredictionsTable(predictions []*maintenance.MaintenancePrediction) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Asset", "Type", "Predicted", "Days Until", "Confidence", "Reasoning")

	for _, p := range predictions {
		daysUntil := fmt.Sprintf("%d", p.DaysUntil)
		if p.Overdue() {
			daysUntil += " (overdue)"
		}
		table.Append(
			p.AssetName,
			p.AssetType,
			p.PredictedDate.Format("2006-01-02"),
			daysUntil,
			fmt.Sprintf("%.2f", p.Confidence),
			p.Reasoning,
		)
	}

	table.Render()
}
