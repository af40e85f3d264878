package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Translate  TranslateConfig  `yaml:"translate"`
	Chat       ChatConfig       `yaml:"chat"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Learner-ID"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// StorageConfig selects where learner progress is kept.
type StorageConfig struct {
	Driver         string `yaml:"driver"           env:"STORAGE_DRIVER"           env-default:"memory"`
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"STORAGE_MIGRATE_ON_START" env-default:"true"`
	// RetentionDays is how long an inactive learner's progress is kept
	// before cmd/cleanup removes it.
	RetentionDays int `yaml:"retention_days" env:"STORAGE_RETENTION_DAYS" env-default:"365"`
}

// DatabaseConfig holds PostgreSQL connection settings. Used when the
// storage driver is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
}

// SQLiteConfig holds settings for single-device mode.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"lingua-cards.db"`
}

// VocabularyConfig controls where vocabulary data and outlines come from.
type VocabularyConfig struct {
	// DataDir overrides the embedded static sets and tables when set.
	DataDir         string        `yaml:"data_dir"          env:"VOCAB_DATA_DIR"`
	OutlineDir      string        `yaml:"outline_dir"       env:"VOCAB_OUTLINE_DIR"`
	OutlineURL      string        `yaml:"outline_url"       env:"VOCAB_OUTLINE_URL"`
	OutlineTimeout  time.Duration `yaml:"outline_timeout"   env:"VOCAB_OUTLINE_TIMEOUT"   env-default:"10s"`
	RefreshInterval time.Duration `yaml:"refresh_interval"  env:"VOCAB_REFRESH_INTERVAL"  env-default:"0s"`
	CrossTopicOrder string        `yaml:"cross_topic_order" env:"VOCAB_CROSS_TOPIC_ORDER" env-default:"insertion"`
}

// TranslateConfig configures the machine translation API used by vocabgen.
type TranslateConfig struct {
	URL      string        `yaml:"url"       env:"TRANSLATE_URL"`
	APIKey   string        `yaml:"api_key"   env:"TRANSLATE_API_KEY"`
	BaseLang string        `yaml:"base_lang" env:"TRANSLATE_BASE_LANG" env-default:"de"`
	Timeout  time.Duration `yaml:"timeout"   env:"TRANSLATE_TIMEOUT"   env-default:"10s"`
}

// ChatConfig configures conversation practice.
type ChatConfig struct {
	APIKey        string        `yaml:"api_key"         env:"ANTHROPIC_API_KEY"`
	Model         string        `yaml:"model"           env:"CHAT_MODEL"           env-default:"claude-3-5-haiku-latest"`
	MaxTokens     int           `yaml:"max_tokens"      env:"CHAT_MAX_TOKENS"      env-default:"300"`
	Timeout       time.Duration `yaml:"timeout"         env:"CHAT_TIMEOUT"         env-default:"30s"`
	RatePerMinute float64       `yaml:"rate_per_minute" env:"CHAT_RATE_PER_MINUTE" env-default:"10"`
	Burst         int           `yaml:"burst"           env:"CHAT_BURST"           env-default:"5"`
}

// LLMEnabled reports whether replies come from the language model.
func (c ChatConfig) LLMEnabled() bool { return c.APIKey != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
