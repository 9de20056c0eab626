package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/homeguard/internal/core/indexing"
	"github.com/jinford/homeguard/internal/infra/manuals"
	"github.com/jinford/homeguard/internal/platform/logger"
)

// IndexBuildAction はマニュアルをインデックス化するコマンドのアクション
// --property 未指定の場合はマニュアルディレクトリ内の全プロパティを対象にする
func IndexBuildAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	propertyID := cmd.String("property")
	watch := cmd.Bool("watch")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if propertyID != "" {
		if err := buildOne(ctx, appCtx, propertyID); err != nil {
			return err
		}
	} else {
		docs, err := appCtx.Manuals.LoadAll()
		if err != nil {
			return fmt.Errorf("マニュアルディレクトリの読み込みに失敗: %w", err)
		}
		if len(docs) == 0 {
			fmt.Printf("マニュアルが見つかりません: %s\n", appCtx.Config.Data.ManualsDir)
			return nil
		}
		for id, doc := range docs {
			if err := indexText(ctx, appCtx, id, doc.Text); err != nil {
				return err
			}
		}
	}

	if !watch {
		return nil
	}

	// --watch 指定時はマニュアルの変更を監視して自動再インデックス
	watcher := manuals.NewWatcher(appCtx.Manuals, appCtx.Assistant,
		logger.WithComponent(appCtx.Logger, "watcher"))

	fmt.Printf("マニュアルの変更を監視中: %s (Ctrl+C で終了)\n", appCtx.Config.Data.ManualsDir)
	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("監視に失敗: %w", err)
	}
	return nil
}

func buildOne(ctx context.Context, appCtx *AppContext, propertyID string) error {
	doc, err := appCtx.Manuals.Load(propertyID)
	if err != nil {
		return fmt.Errorf("マニュアルの読み込みに失敗: %w", err)
	}
	return indexText(ctx, appCtx, propertyID, doc.Text)
}

func indexText(ctx context.Context, appCtx *AppContext, propertyID, text string) error {
	index, err := appCtx.Indexer.BuildIndex(ctx, propertyID, text)
	if err != nil {
		if errors.Is(err, indexing.ErrEmptyDocument) {
			fmt.Printf("スキップ: %s のマニュアルが空です（既存インデックスは保持）\n", propertyID)
			return nil
		}
		return fmt.Errorf("インデックス構築に失敗 (%s): %w", propertyID, err)
	}

	fmt.Printf("✓ インデックスを構築しました\n")
	fmt.Printf("  Property: %s\n", index.PropertyID)
	fmt.Printf("  Chunks:   %d\n", index.ChunkCount())
	fmt.Printf("  Built At: %s\n", index.BuiltAt.Format("2006-01-02 15:04:05"))
	return nil
}
