package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定（チャンク・インシデント永続化用、未設定なら in-memory）
	Database DatabaseConfig

	// OpenAI設定（Embeddings + LLM）
	OpenAI OpenAIConfig

	// アシスタントの判定しきい値
	Assistant AssistantConfig

	// チャンク分割設定
	Chunking ChunkingConfig

	// データディレクトリ設定
	Data DataConfig

	// ログ出力設定
	Logging LoggingConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled はデータベースが設定されているかどうかを返します
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// OpenAIConfig はOpenAI API設定（Embeddings + LLM）
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	LLMModel           string
	Timeout            time.Duration // LLM呼び出しのタイムアウト
}

// AssistantConfig は回答ティアとトリアージの判定しきい値
type AssistantConfig struct {
	// ManualThreshold はマニュアル根拠回答とみなす最小類似度（閉区間下限）
	ManualThreshold float64
	// IssueThreshold はインシデント作成に必要な分類信頼度
	IssueThreshold float64
	// TopK は検索で取得するチャンク数
	TopK int
}

// ChunkingConfig はドキュメント分割設定
type ChunkingConfig struct {
	MinChunkChars int
	MaxChunkChars int
	OverlapChars  int
}

// DataConfig は外部コラボレータが所有するデータの参照先
type DataConfig struct {
	// ManualsDir はプロパティごとのマニュアルtxtを置くディレクトリ
	ManualsDir string
	// HistoryDir はメンテナンス履歴ファイルを置くディレクトリ
	HistoryDir string
}

// LoggingConfig はログ出力設定
type LoggingConfig struct {
	// Level は最小ログレベル（debug / info / warn / error）
	Level string
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "homeguard"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "homeguard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			LLMModel:           getEnv("OPENAI_LLM_MODEL", "gpt-4o-mini"),
			Timeout:            time.Duration(getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 45)) * time.Second,
		},
		Assistant: AssistantConfig{
			ManualThreshold: getEnvAsFloat("ASSISTANT_MANUAL_THRESHOLD", 0.32),
			IssueThreshold:  getEnvAsFloat("ASSISTANT_ISSUE_THRESHOLD", 0.6),
			TopK:            getEnvAsInt("ASSISTANT_TOP_K", 5),
		},
		Chunking: ChunkingConfig{
			MinChunkChars: getEnvAsInt("CHUNK_MIN_CHARS", 80),
			MaxChunkChars: getEnvAsInt("CHUNK_MAX_CHARS", 500),
			OverlapChars:  getEnvAsInt("CHUNK_OVERLAP_CHARS", 50),
		},
		Data: DataConfig{
			ManualsDir: getEnv("MANUALS_DIR", "data/house_manuals"),
			HistoryDir: getEnv("HISTORY_DIR", "data/maintenance_history"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Assistant.TopK <= 0 {
		return nil, fmt.Errorf("ASSISTANT_TOP_K must be positive")
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
