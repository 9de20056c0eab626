package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseLevel はLOG_LEVELの文字列がレベルに解釈されることを確認します
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "ERROR", expected: slog.LevelError},
		{input: " debug ", expected: slog.LevelDebug},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

// TestWithComponent はnilロガーでもcomponent付き子ロガーが返ることを確認します
func TestWithComponent(t *testing.T) {
	assert.NotNil(t, WithComponent(nil, "indexing"))

	logger := New(slog.LevelInfo)
	child := WithComponent(logger, "indexing")
	assert.NotNil(t, child)
	assert.NotSame(t, logger, child)
}
