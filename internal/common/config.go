package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sink drivers.
const (
	SinkSupabase = "supabase"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
	SinkXLSX     = "xlsx"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderEino   = "eino"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Supabase   SupabaseConfig
	Sink       SinkConfig
	OCR        OCRConfig
	LLM        LLMConfig
	Cache      CacheConfig
	Metrics    MetricsConfig
	Classifier ClassifierConfig
	LogLevel   string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	SQLitePath       string
}

// SupabaseConfig holds the REST endpoint credentials.
type SupabaseConfig struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// SinkConfig selects where records go.
type SinkConfig struct {
	Driver      string
	Table       string
	XLSXDir     string
	MaxAttempts int
	Backoff     time.Duration
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	Pdftotext   string
	Pdftoppm    string
	Tesseract   string
	TessdataDir string
	Fallback    bool
	MaxPages    int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

// CacheConfig enables the optional LLM response cache.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// MetricsConfig configures the pushgateway target.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// ClassifierConfig holds the routing and score policies.
type ClassifierConfig struct {
	PolicyPath string
	Policy     ClassifierPolicy
}

// ClassifierPolicy is the on-disk (YAML) shape of the classifier settings.
type ClassifierPolicy struct {
	ScoreKeywords   []string `yaml:"score_keywords"`
	ScoreWeight     int      `yaml:"score_weight"`
	RouteKeywords   []string `yaml:"route_keywords"`
	MinKeywordHits  int      `yaml:"min_keyword_hits"`
	MinTextLength   int      `yaml:"min_text_length"`
	MinTabularLines int      `yaml:"min_tabular_lines"`
}

// DefaultClassifierPolicy mirrors the keyword set and weight the rate sheets were scored with.
func DefaultClassifierPolicy() ClassifierPolicy {
	return ClassifierPolicy{
		ScoreKeywords:   []string{"room", "rate", "season", "check-in", "child"},
		ScoreWeight:     20,
		MinKeywordHits:  3,
		MinTextLength:   400,
		MinTabularLines: 5,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 4),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 0),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 5*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
			SQLitePath:       getEnv("SQLITE_PATH", "./hotel-rates.db"),
		},
		Supabase: SupabaseConfig{
			URL:     getEnv("SUPABASE_URL", ""),
			Key:     getEnv("SUPABASE_KEY", ""),
			Timeout: getEnvAsDuration("SUPABASE_TIMEOUT", 30*time.Second),
		},
		Sink: SinkConfig{
			Driver:      strings.ToLower(getEnv("SINK_DRIVER", SinkSupabase)),
			Table:       getEnv("SINK_TABLE", "hotels_rate_data"),
			XLSXDir:     getEnv("XLSX_DIR", "./out"),
			MaxAttempts: getEnvAsInt("SINK_MAX_ATTEMPTS", 1),
			Backoff:     getEnvAsDuration("SINK_BACKOFF", 500*time.Millisecond),
		},
		OCR: OCRConfig{
			Pdftotext:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Fallback:    getEnvAsBool("OCR_FALLBACK", false),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
			Model:       getEnv("OPENAI_MODEL", "gpt-4"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxAttempts: getEnvAsInt("LLM_MAX_ATTEMPTS", 1),
			Backoff:     getEnvAsDuration("LLM_BACKOFF", time.Second),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			TTL:           getEnvAsDuration("CACHE_TTL", 7*24*time.Hour),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
			Job:            getEnv("PUSHGATEWAY_JOB", "hotel-rates"),
		},
		Classifier: ClassifierConfig{
			PolicyPath: getEnv("CLASSIFIER_CONFIG", ""),
			Policy:     DefaultClassifierPolicy(),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Classifier.PolicyPath != "" {
		p, err := LoadClassifierPolicy(cfg.Classifier.PolicyPath)
		if err != nil {
			return nil, err
		}
		cfg.Classifier.Policy = p
	}
	return cfg, nil
}

// LoadClassifierPolicy reads a YAML policy file; keys left out keep their defaults.
func LoadClassifierPolicy(path string) (ClassifierPolicy, error) {
	p := DefaultClassifierPolicy()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, NewAppError(CodeConfig, "read classifier policy", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, NewAppError(CodeConfig, "parse classifier policy", err)
	}
	return p, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. needLLM is false when the run is forced onto
// the native extractor; needSink is false for dry runs.
func (c *Config) Validate(needLLM, needSink bool) error {
	if needLLM {
		if c.LLM.APIKey == "" {
			return NewAppError(CodeConfig, "OPENAI_API_KEY is required", ErrInvalidInput)
		}
		switch c.LLM.Provider {
		case ProviderOpenAI, ProviderEino:
		default:
			return NewAppError(CodeConfig, fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLM.Provider), ErrInvalidInput)
		}
	}
	if needSink {
		if err := c.ValidateSink(); err != nil {
			return err
		}
	}
	p := c.Classifier.Policy
	if len(p.ScoreKeywords) == 0 || p.ScoreWeight <= 0 {
		return NewAppError(CodeConfig, "classifier score policy needs keywords and a positive weight", ErrInvalidInput)
	}
	return nil
}

// ValidateSink checks only the persistence settings.
func (c *Config) ValidateSink() error {
	if strings.TrimSpace(c.Sink.Table) == "" {
		return NewAppError(CodeConfig, "SINK_TABLE is required", ErrInvalidInput)
	}
	switch c.Sink.Driver {
	case SinkSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return NewAppError(CodeConfig, "SUPABASE_URL and SUPABASE_KEY are required", ErrInvalidInput)
		}
	case SinkPostgres:
		if c.Database.DSN == "" {
			return NewAppError(CodeConfig, "DB_URL is required", ErrInvalidInput)
		}
	case SinkSQLite:
		if c.Database.SQLitePath == "" {
			return NewAppError(CodeConfig, "SQLITE_PATH is required", ErrInvalidInput)
		}
	case SinkXLSX:
		if c.Sink.XLSXDir == "" {
			return NewAppError(CodeConfig, "XLSX_DIR is required", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("unknown SINK_DRIVER %q", c.Sink.Driver), ErrInvalidInput)
	}
	return nil
}
