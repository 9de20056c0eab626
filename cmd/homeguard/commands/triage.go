package commands

import (
	"context"
	"fmt"

	"github.com/samber/mo"
	"github.com/urfave/cli/v3"
)

// TriageAction は不具合報告を分類するコマンドのアクション
// --property 指定時はインシデントも作成する
func TriageAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	propertyID := cmd.String("property")
	description := cmd.String("description")
	conversationID := cmd.String("conversation")

	if description == "" {
		return fmt.Errorf("--description は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	convOpt := mo.None[string]()
	if conversationID != "" {
		convOpt = mo.Some(conversationID)
	}

	resp, err := appCtx.Assistant.TriageIssue(ctx, propertyID, description, convOpt)
	if err != nil {
		return fmt.Errorf("トリアージに失敗: %w", err)
	}

	c := resp.Classification
	fmt.Printf("\n=== トリアージ結果 ===\n\n")
	fmt.Printf("Category:   %s\n", c.Category)
	fmt.Printf("Severity:   %s\n", c.Severity)
	fmt.Printf("Confidence: %.2f\n", c.Confidence)
	fmt.Println("Suggested actions:")
	for _, action := range c.SuggestedActions {
		fmt.Printf("  - %s\n", action)
	}
	if id, ok := resp.IncidentID.Get(); ok {
		fmt.Printf("\n✓ インシデントを作成しました: %s\n", id)
	}
	return nil
}
