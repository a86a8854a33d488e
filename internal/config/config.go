package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AI        AIConfig        `mapstructure:"ai"`
	Workers   WorkersConfig   `mapstructure:"workers"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Report    ReportConfig    `mapstructure:"report"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type HTTPConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Deals      string        `mapstructure:"deals"`
	Sessions   string        `mapstructure:"sessions"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AIConfig struct {
	Provider  string          `mapstructure:"provider"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type WorkersConfig struct {
	Assist int `mapstructure:"assist"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type ReportConfig struct {
	ChromePath string `mapstructure:"chrome_path"`
}

const (
	DealsSQLite   = "sqlite"
	DealsPostgres = "postgres"
	DealsRedis    = "redis"
	DealsMemory   = "memory"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

var ErrInvalid = errors.New("invalid configuration")

var defaults = map[string]interface{}{
	"app.env":                 "development",
	"http.listen_addr":        ":8080",
	"http.request_timeout":    "60s",
	"logging.level":           "info",
	"logging.format":          "console",
	"storage.deals":           DealsSQLite,
	"storage.sessions":        SessionsMemory,
	"storage.session_ttl":     "24h",
	"database.url":            "",
	"database.max_conns":      10,
	"sqlite.path":             "valuator.db",
	"redis.address":           "localhost:6379",
	"redis.password":          "",
	"redis.db":                0,
	"ai.provider":             ProviderGemini,
	"ai.timeout":              "30s",
	"ai.gemini.api_key":       "",
	"ai.gemini.model":         "gemini-1.5-pro",
	"ai.anthropic.api_key":    "",
	"ai.anthropic.model":      "claude-sonnet-4-20250514",
	"workers.assist":          2,
	"telemetry.otlp_endpoint": "",
	"report.chrome_path":      "",
}

// Load reads config.yaml from ./configs or the working directory when
// present, then VALUATOR_* environment variables (VALUATOR_HTTP_LISTEN_ADDR
// for http.listen_addr). A .env file is loaded first if one exists.
func Load() (Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvPrefix("VALUATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	overrideEmpty(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadEnvFile() {
	for _, p := range []string{".env", "../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// overrideEmpty falls back to the vendor-standard key variables.
func overrideEmpty(cfg *Config) {
	if cfg.AI.Gemini.APIKey == "" {
		cfg.AI.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.AI.Anthropic.APIKey == "" {
		cfg.AI.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
}

func (c Config) Validate() error {
	switch c.Storage.Deals {
	case DealsSQLite, DealsRedis, DealsMemory:
	case DealsPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for postgres deal storage", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage.deals %q", ErrInvalid, c.Storage.Deals)
	}

	switch c.Storage.Sessions {
	case SessionsMemory, SessionsRedis:
	default:
		return fmt.Errorf("%w: storage.sessions %q", ErrInvalid, c.Storage.Sessions)
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderNone:
	default:
		return fmt.Errorf("%w: ai.provider %q", ErrInvalid, c.AI.Provider)
	}

	if c.Workers.Assist < 0 {
		return fmt.Errorf("%w: workers.assist must not be negative", ErrInvalid)
	}
	return nil
}

// APIKey returns the key for the configured provider, empty when unset.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	}
	return ""
}
