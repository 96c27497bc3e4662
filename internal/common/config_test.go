package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SINK_DRIVER", "SINK_TABLE", "LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL",
		"OPENAI_TEMPERATURE", "LLM_MAX_ATTEMPTS", "SUPABASE_URL", "SUPABASE_KEY",
		"CLASSIFIER_CONFIG", "REDIS_ADDR", "DB_MAX_CONNS", "SINK_BACKOFF",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SinkSupabase, cfg.Sink.Driver)
	assert.Equal(t, "hotels_rate_data", cfg.Sink.Table)
	assert.Equal(t, 1, cfg.Sink.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Sink.Backoff)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 1, cfg.LLM.MaxAttempts)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, DefaultClassifierPolicy(), cfg.Classifier.Policy)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SINK_DRIVER", "SQLite")
	t.Setenv("OPENAI_TEMPERATURE", "0")
	t.Setenv("LLM_MAX_ATTEMPTS", "3")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("SINK_BACKOFF", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SinkSQLite, cfg.Sink.Driver)
	assert.Zero(t, cfg.LLM.Temperature)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, int32(4), cfg.Database.MaxConns, "unparseable values keep the default")
	assert.Equal(t, 2*time.Second, cfg.Sink.Backoff)
}

func TestLoadConfig_ClassifierPolicyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("score_keywords: [tariff, board]\nscore_weight: 50\n"), 0o600))
	t.Setenv("CLASSIFIER_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	p := cfg.Classifier.Policy
	assert.Equal(t, []string{"tariff", "board"}, p.ScoreKeywords)
	assert.Equal(t, 50, p.ScoreWeight)
	assert.Equal(t, 3, p.MinKeywordHits, "keys left out keep their defaults")
	assert.Equal(t, 400, p.MinTextLength)
}

func TestLoadClassifierPolicy_Errors(t *testing.T) {
	_, err := LoadClassifierPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("score_weight: [1, 2"), 0o600))
	_, err = LoadClassifierPolicy(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse classifier policy")
}

func validConfig() *Config {
	return &Config{
		Supabase:   SupabaseConfig{URL: "https://x.supabase.co", Key: "k"},
		Sink:       SinkConfig{Driver: SinkSupabase, Table: "hotels_rate_data"},
		LLM:        LLMConfig{Provider: ProviderOpenAI, APIKey: "sk-test"},
		Classifier: ClassifierConfig{Policy: DefaultClassifierPolicy()},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		needLLM  bool
		needSink bool
		wantErr  string
	}{
		{name: "complete", needLLM: true, needSink: true},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.LLM.APIKey = "" },
			needLLM: true,
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:   "api key not needed for native runs",
			mutate: func(c *Config) { c.LLM.APIKey = "" },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "bard" },
			needLLM: true,
			wantErr: "LLM_PROVIDER",
		},
		{
			name:     "missing supabase key",
			mutate:   func(c *Config) { c.Supabase.Key = "" },
			needSink: true,
			wantErr:  "SUPABASE_URL and SUPABASE_KEY",
		},
		{
			name:   "sink ignored on dry run",
			mutate: func(c *Config) { c.Sink.Driver = "bogus" },
		},
		{
			name:     "postgres needs dsn",
			mutate:   func(c *Config) { c.Sink.Driver = SinkPostgres },
			needSink: true,
			wantErr:  "DB_URL",
		},
		{
			name:     "blank table",
			mutate:   func(c *Config) { c.Sink.Table = "  " },
			needSink: true,
			wantErr:  "SINK_TABLE",
		},
		{
			name:    "zero weight",
			mutate:  func(c *Config) { c.Classifier.Policy.ScoreWeight = 0 },
			wantErr: "positive weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.needLLM, tt.needSink)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}
