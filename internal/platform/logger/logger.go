package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New は指定レベルでstderrにJSONログを書き出すロガーを作成し、
// デフォルトロガーとして設定します
// CLIの整形出力はstdoutを使うため、ログは常にstderrに分離する
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel はLOG_LEVELの文字列表現をslog.Levelに解釈します
// 未知の値や空文字はinfoとして扱う
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent はコンポーネント名付きの子ロガーを返します
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
