package history

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinford/homeguard/internal/core/maintenance"
)

// FileStore はプレーンテキストのメンテナンス履歴ファイルを読み書きする
// 1行1イベントのパイプ区切り形式:
//
//	asset_id|asset_name|asset_type|YYYY-MM-DD|routine
//
// `#` で始まる行と空行は無視される
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore は新しいFileStoreを作成する
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

// historyFile はプロパティの履歴ファイルパスを返す
func (s *FileStore) historyFile(propertyID string) string {
	return filepath.Join(s.dir, propertyID+"_maintenance_history.txt")
}

// History はプロパティの全イベントを返す
// 履歴ファイルが存在しない場合は空（エラーではない）
func (s *FileStore) History(ctx context.Context, propertyID string) ([]*maintenance.MaintenanceEvent, error) {
	path := s.historyFile(propertyID)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no maintenance history file", "propertyID", propertyID, "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file %s: %w", path, err)
	}
	defer f.Close()

	var events []*maintenance.MaintenanceEvent
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		event, err := parseLine(line)
		if err != nil {
			// 壊れた行は読み飛ばす（履歴ファイルは人手でも編集される）
			s.logger.Warn("skipping malformed history line", "path", path, "line", lineNo, "error", err)
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", path, err)
	}

	return events, nil
}

// AppendEvent は履歴ファイルにイベントを追記する
// ファイルがなければヘッダコメント付きで新規作成する
func (s *FileStore) AppendEvent(ctx context.Context, propertyID string, event *maintenance.MaintenanceEvent) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	path := s.historyFile(propertyID)
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file %s: %w", path, err)
	}
	defer f.Close()

	if isNew {
		header := fmt.Sprintf("# Maintenance History for %s\n# Format: asset_id|asset_name|asset_type|date|event_type\n\n", propertyID)
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}

	line := fmt.Sprintf("%s|%s|%s|%s|%s\n",
		event.AssetID,
		event.AssetName,
		event.AssetType,
		event.Date.Format("2006-01-02"),
		event.EventType,
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append history line: %w", err)
	}
	return nil
}

func parseLine(line string) (*maintenance.MaintenanceEvent, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", parts[3], err)
	}

	eventType := maintenance.EventType(strings.TrimSpace(parts[4]))
	switch eventType {
	case maintenance.EventRoutine, maintenance.EventRepair:
	default:
		return nil, fmt.Errorf("unknown event type %q", parts[4])
	}

	return &maintenance.MaintenanceEvent{
		AssetID:   strings.TrimSpace(parts[0]),
		AssetName: strings.TrimSpace(parts[1]),
		AssetType: strings.TrimSpace(parts[2]),
		Date:      date,
		EventType: eventType,
	}, nil
}

var _ maintenance.HistoryStore = (*FileStore)(nil)
