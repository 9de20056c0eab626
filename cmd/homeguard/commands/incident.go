package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/assistant"
)

// IncidentListAction はプロパティのインシデント一覧を表示するコマンドのアクション
func IncidentListAction(ctx context.Context, cmd *cli.Command) error {
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

	incidents, err := appCtx.Assistant.Incidents(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("インシデントの取得に失敗: %w", err)
	}

	if len(incidents) == 0 {
		fmt.Println("インシデントはありません")
		return nil
	}

	renderIncidentsTable(incidents)
	return nil
}

// renderIncidentsTable はテーブル形式でインシデントリストを表示します
func renderIncidentsTable(incidents []*assistant.Incident) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Incident ID", "Category", "Severity", "Status", "Created At")

	for _, inc := range incidents {
		table.Append(
			inc.ID.String(),
			string(inc.Classification.Category),
			inc.Classification.Severity.String(),
			string(inc.Status),
			inc.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	table.Render()
}
