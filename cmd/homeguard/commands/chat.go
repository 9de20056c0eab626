package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/assistant"
)

// ChatAction は会話メッセージを1件処理するコマンドのアクション
// 質問は回答フローへ、不具合報告はトリアージフローへ振り分けられる
func ChatAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	params := assistant.ChatParams{
		ConversationID: cmd.String("conversation"),
		PropertyID:     cmd.String("property"),
		Message:        cmd.String("message"),
		UserID:         cmd.String("user"),
		UserRole:       cmd.String("role"),
	}

	if params.Message == "" {
		return fmt.Errorf("--message は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// in-memory構成では先にインデックスを構築する
	if err := appCtx.EnsureIndexed(ctx, params.PropertyID); err != nil {
		return err
	}

	resp, err := appCtx.Assistant.HandleChatMessage(ctx, params)
	if err != nil {
		return fmt.Errorf("メッセージの処理に失敗: %w", err)
	}

	fmt.Printf("\n%s\n", resp.Response)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range resp.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	if incident, ok := resp.Incident.Get(); ok {
		fmt.Printf("\n✓ インシデントを作成しました\n")
		fmt.Printf("  Incident ID: %s\n", incident.ID)
		fmt.Printf("  Category:    %s\n", incident.Classification.Category)
		fmt.Printf("  Severity:    %s\n", incident.Classification.Severity)
	}
	return nil
}
