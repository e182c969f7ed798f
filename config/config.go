// Package config loads memorag settings from a YAML file and MEMORAG_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/session"
)

// Config is the complete application configuration.
type Config struct {
	Data    DataConfig    `koanf:"data"`
	Index   IndexConfig   `koanf:"index"`
	AI      AIConfig      `koanf:"ai"`
	Search  SearchConfig  `koanf:"search"`
	Session SessionConfig `koanf:"session"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Log     LogConfig     `koanf:"log"`
}

// DataConfig locates on-disk state.
type DataConfig struct {
	Dir string `koanf:"dir"` // root for the badger store and the chromem index
}

// IndexConfig configures the fact index.
type IndexConfig struct {
	Collection             string `koanf:"collection"`
	Compress               bool   `koanf:"compress"`
	AllowDimensionMismatch bool   `koanf:"allow_dimension_mismatch"`
}

// AIConfig configures the embedding and answer services.
type AIConfig struct {
	EmbeddingHost  string        `koanf:"embedding_host"`
	EmbeddingModel string        `koanf:"embedding_model"`
	EmbeddingToken string        `koanf:"embedding_token"`
	ResponderHost  string        `koanf:"responder_host"`
	ResponderModel string        `koanf:"responder_model"`
	ResponderToken string        `koanf:"responder_token"`
	Temperature    float64       `koanf:"temperature"`
	MaxTokens      int           `koanf:"max_tokens"`
	Attempts       int           `koanf:"attempts"`
	RetryDelay     time.Duration `koanf:"retry_delay"`
}

// SearchConfig configures query answering.
type SearchConfig struct {
	TopK              int           `koanf:"top_k"`
	EmbeddingCacheTTL time.Duration `koanf:"embedding_cache_ttl"`
}

// SessionConfig configures the interactive session.
type SessionConfig struct {
	HistoryCapacity int           `koanf:"history_capacity"`
	RecentWindow    time.Duration `koanf:"recent_window"`
	TopN            int           `koanf:"top_n"`
	Locale          string        `koanf:"locale"`
	Mode            string        `koanf:"mode"`
}

// IngestConfig configures corpus loading.
type IngestConfig struct {
	BatchSize      int           `koanf:"batch_size"`
	PoolSize       int           `koanf:"pool_size"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills every zero value with its default.
func applyDefaults(cfg *Config) {
	aiDefaults := ai.DefaultConfig()
	sessionDefaults := session.DefaultConfig()

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "~/.memorag"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "esg_fields"
	}

	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = aiDefaults.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = aiDefaults.EmbeddingModel
	}
	if cfg.AI.EmbeddingToken == "" {
		cfg.AI.EmbeddingToken = aiDefaults.EmbeddingToken
	}
	if cfg.AI.ResponderHost == "" {
		cfg.AI.ResponderHost = aiDefaults.ResponderHost
	}
	if cfg.AI.ResponderModel == "" {
		cfg.AI.ResponderModel = aiDefaults.ResponderModel
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = aiDefaults.Temperature
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = aiDefaults.MaxTokens
	}
	if cfg.AI.Attempts == 0 {
		cfg.AI.Attempts = answer.DefaultAttempts
	}
	if cfg.AI.RetryDelay == 0 {
		cfg.AI.RetryDelay = answer.DefaultRetryDelay
	}

	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.Search.EmbeddingCacheTTL == 0 {
		cfg.Search.EmbeddingCacheTTL = 10 * time.Minute
	}

	if cfg.Session.HistoryCapacity == 0 {
		cfg.Session.HistoryCapacity = sessionDefaults.HistoryCapacity
	}
	if cfg.Session.RecentWindow == 0 {
		cfg.Session.RecentWindow = sessionDefaults.RecentWindow
	}
	if cfg.Session.TopN == 0 {
		cfg.Session.TopN = sessionDefaults.TopN
	}
	if cfg.Session.Locale == "" {
		cfg.Session.Locale = string(sessionDefaults.Locale)
	}
	if cfg.Session.Mode == "" {
		cfg.Session.Mode = sessionDefaults.Mode.String()
	}

	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 64
	}
	if cfg.Ingest.MaxRetries == 0 {
		cfg.Ingest.MaxRetries = 3
	}
	if cfg.Ingest.RetryBaseDelay == 0 {
		cfg.Ingest.RetryBaseDelay = time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.Dir) == "" {
		errs = append(errs, errors.New("data.dir is required"))
	}
	if c.Search.TopK < 1 {
		errs = append(errs, fmt.Errorf("search.top_k must be at least 1, got %d", c.Search.TopK))
	}
	if c.AI.Attempts < 1 {
		errs = append(errs, fmt.Errorf("ai.attempts must be at least 1, got %d", c.AI.Attempts))
	}
	if c.Ingest.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("ingest.batch_size must be at least 1, got %d", c.Ingest.BatchSize))
	}
	if c.Ingest.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("ingest.pool_size must not be negative, got %d", c.Ingest.PoolSize))
	}
	if c.Ingest.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("ingest.max_retries must be at least 1, got %d", c.Ingest.MaxRetries))
	}
	if _, err := ParseMode(c.Session.Mode); err != nil {
		errs = append(errs, err)
	}
	if err := c.AIConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.SessionConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseMode reads an answer mode name.
func ParseMode(s string) (answer.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "template", "basic":
		return answer.ModeTemplate, nil
	case "llm":
		return answer.ModeLLM, nil
	}
	return answer.ModeTemplate, fmt.Errorf("unknown answer mode %q", s)
}

// AIConfig converts the ai section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithEmbeddingToken(c.AI.EmbeddingToken),
		ai.WithResponderHost(c.AI.ResponderHost),
		ai.WithResponderModel(c.AI.ResponderModel),
		ai.WithResponderToken(c.AI.ResponderToken),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithMaxTokens(c.AI.MaxTokens),
	)
}

// SessionConfig converts the session section into a session.Config.
// Unknown modes select template answers and unknown locales are passed
// through; Validate reports both.
func (c *Config) SessionConfig() *session.Config {
	mode, _ := ParseMode(c.Session.Mode)
	locale, err := i18n.ParseLocale(c.Session.Locale)
	if err != nil {
		locale = i18n.Locale(c.Session.Locale)
	}
	return session.NewConfig(
		session.WithHistoryCapacity(c.Session.HistoryCapacity),
		session.WithRecentWindow(c.Session.RecentWindow),
		session.WithTopN(c.Session.TopN),
		session.WithLocale(locale),
		session.WithMode(mode),
	)
}

// StorePath is the badger directory under Data.Dir.
func (c *Config) StorePath() string {
	return filepath.Join(expandHome(c.Data.Dir), "store")
}

// IndexPath is the chromem directory under Data.Dir.
func (c *Config) IndexPath() string {
	return filepath.Join(expandHome(c.Data.Dir), "index")
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
