package llm

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable は生成バックエンドに到達できない場合のエラー
	// 呼び出し側はエスカレーションと区別して「一時的に利用不可」として扱う
	ErrModelUnavailable = errors.New("language model backend unavailable")

	// ErrEmptyCompletion は生成結果が空だった場合のエラー
	ErrEmptyCompletion = errors.New("empty completion returned")
)

// Generator はテキスト生成インターフェース
type Generator interface {
	// GenerateCompletion はプロンプトから回答テキストを生成する
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	// GenerateJSON はJSONオブジェクトのみを返すよう強制して生成する
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
