package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/assistant"
)

// ReplySuggestAction は会話履歴から大家向けの返信案を生成するコマンドのアクション
// 会話履歴は --message "role:content" の繰り返しで渡す
func ReplySuggestAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	tone := cmd.String("tone")
	rawMessages := cmd.StringSlice("message")

	if len(rawMessages) == 0 {
		return fmt.Errorf("--message は必須です")
	}

	messages := make([]assistant.ChatMessage, 0, len(rawMessages))
	for _, raw := range rawMessages {
		role, content, found := strings.Cut(raw, ":")
		if !found {
			return fmt.Errorf("メッセージの形式が不正です（role:content 形式で指定してください）: %q", raw)
		}
		messages = append(messages, assistant.ChatMessage{
			Role:    strings.TrimSpace(role),
			Content: strings.TrimSpace(content),
		})
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	reply, err := appCtx.Assistant.SuggestReply(ctx, messages, tone)
	if err != nil {
		return fmt.Errorf("返信案の生成に失敗: %w", err)
	}

	fmt.Printf("\n%s\n", reply)
	return nil
}
