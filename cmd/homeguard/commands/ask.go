package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AskAction は単発の質問に回答するコマンドのアクション
func AskAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	propertyID := cmd.String("property")
	question := cmd.String("question")
	userRole := cmd.String("role")

	if question == "" {
		return fmt.Errorf("--question は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// in-memory構成では先にインデックスを構築する
	if err := appCtx.EnsureIndexed(ctx, propertyID); err != nil {
		return err
	}

	resp, err := appCtx.Assistant.AskQuestion(ctx, propertyID, question, userRole)
	if err != nil {
		return fmt.Errorf("回答の生成に失敗: %w", err)
	}

	fmt.Printf("\n%s\n", resp.Answer)
	fmt.Printf("\nTier: %s\n", resp.Tier)
	if confidence, ok := resp.Confidence.Get(); ok {
		fmt.Printf("Confidence: %.2f\n", confidence)
	}
	if len(resp.Sources) > 0 {
		fmt.Println("Sources:")
		for _, src := range resp.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	return nil
}
