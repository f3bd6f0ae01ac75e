package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/prompts"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel     = "imagen-4.0-generate-001"
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 7860
	DefaultRequestTimeout = 2 * time.Minute
	DefaultRateInterval   = 2 * time.Second
	DefaultCacheTTL       = 30 * time.Minute
	DefaultOutputFile     = "output/pudding.png"
)

// Config はアプリケーション全体の環境設定（APIキーやサーバー設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	ImageModel        string
	ImagePromptSuffix string

	Host string
	Port int

	RequestTimeout time.Duration
	RateInterval   time.Duration
	CacheTTL       time.Duration
	RedisURL       string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageModel:        envutil.GetEnv("IMAGE_MODEL", DefaultImageModel),
		ImagePromptSuffix: envutil.GetEnv("IMAGE_PROMPT_SUFFIX", prompts.BaseStyle),
		Host:              envutil.GetEnv("HOST", DefaultHost),
		Port:              portEnv("PORT", DefaultPort),
		RequestTimeout:    durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		RateInterval:      durationEnv("RATE_INTERVAL", DefaultRateInterval),
		CacheTTL:          durationEnv("CACHE_TTL", DefaultCacheTTL),
		RedisURL:          envutil.GetEnv("REDIS_URL", ""),
	}
}

// Addr は listen するアドレスを返すのだ。
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 回答
	EnergyType string // --energy
	Mood       string // --mood
	Value      string // --value

	// 出力
	OutputFile string // --output-file

	// AI挙動設定
	ImageModel string // --image-model

	// サーバー
	Host string // --host
	Port int    // --port

	Verbose bool // --verbose
}

const maxPort = 65535

func intEnv(key string, fallback int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("数値の環境変数を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw)
		return fallback
	}
	return v
}

// portEnv は intEnv に加えて TCP ポートの範囲外の値を弾くのだ。
func portEnv(key string, fallback int) int {
	v := intEnv(key, fallback)
	if v > maxPort {
		slog.Warn("ポート番号が範囲外なのでデフォルト値を使うのだ", "key", key, "value", v)
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		slog.Warn("期間の環境変数を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw)
		return fallback
	}
	return v
}
