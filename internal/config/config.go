package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Moderation
	ReviewerName string

	// Caption
	CaptionAPIURL  string // 未設定の場合はローカルのテンプレート生成にフォールバックする
	CaptionTimeout time.Duration
	CaptionMaxSize int64

	// Display
	SyncInterval      time.Duration
	RotateInterval    time.Duration
	TransitionDelay   time.Duration
	SpotlightInterval time.Duration
	SpotlightDuration time.Duration

	// Retention
	RetentionMax      int // 0は無制限（レビュー済み投稿のプルーニングを行わない）
	RetentionInterval time.Duration

	// Rate Limit (req/min)
	RateLimitGeneral int
	RateLimitSubmit  int
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.ReviewerName = getEnvString("REVIEWER_NAME", "Staff")
	cfg.CaptionAPIURL = getEnvString("CAPTION_API_URL", "")
	cfg.CaptionTimeout = getEnvDuration("CAPTION_TIMEOUT", 10*time.Second)
	cfg.CaptionMaxSize = getEnvInt64("CAPTION_MAX_SIZE", 1048576)
	cfg.SyncInterval = getEnvDuration("SYNC_INTERVAL", 5*time.Second)
	cfg.RotateInterval = getEnvDuration("ROTATE_INTERVAL", 4*time.Second)
	cfg.TransitionDelay = getEnvDuration("TRANSITION_DELAY", 500*time.Millisecond)
	cfg.SpotlightInterval = getEnvDuration("SPOTLIGHT_INTERVAL", 30*time.Second)
	cfg.SpotlightDuration = getEnvDuration("SPOTLIGHT_DURATION", 5*time.Second)
	cfg.RetentionMax = getEnvInt("RETENTION_MAX", 0)
	cfg.RetentionInterval = getEnvDuration("RETENTION_INTERVAL", 24*time.Hour)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubmit = getEnvInt("RATE_LIMIT_SUBMIT", 10)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
