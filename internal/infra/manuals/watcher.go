package manuals

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Reindexer はマニュアル変更時に呼び出されるインデックス再構築インターフェース
type Reindexer interface {
	Reindex(ctx context.Context, propertyID, rawText string) error
}

// Watcher はマニュアルディレクトリを監視し、変更されたプロパティの
// インデックス再構築をトリガーする
type Watcher struct {
	loader    *Loader
	reindexer Reindexer
	logger    *slog.Logger
}

// NewWatcher は新しいWatcherを作成する
func NewWatcher(loader *Loader, reindexer Reindexer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		loader:    loader,
		reindexer: reindexer,
		logger:    logger,
	}
}

// Watch はctxがキャンセルされるまでマニュアルディレクトリを監視する
// ファイルの作成・書き込みのたびに該当プロパティを再インデックスする
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.loader.dir); err != nil {
		return fmt.Errorf("failed to watch manuals dir %s: %w", w.loader.dir, err)
	}

	w.logger.Info("watching manuals directory", "dir", w.loader.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.handleChange(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("manuals watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleChange(ctx context.Context, path string) {
	propertyID, ok := PropertyIDFromFilename(filepath.Base(path))
	if !ok {
		return
	}

	doc, err := w.loader.Load(propertyID)
	if err != nil {
		w.logger.Warn("failed to load changed manual", "propertyID", propertyID, "error", err)
		return
	}

	if err := w.reindexer.Reindex(ctx, propertyID, doc.Text); err != nil {
		// 空ドキュメント等は既存インデックスを保持したまま記録するだけ
		w.logger.Warn("reindex after manual change failed", "propertyID", propertyID, "error", err)
		return
	}

	w.logger.Info("manual reindexed after change", "propertyID", propertyID)
}
