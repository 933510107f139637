package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/learnspacy/annotate"
	"github.com/revelaction/learnspacy/embedding"
	"github.com/revelaction/learnspacy/logger"
	"github.com/revelaction/learnspacy/pipeline"
	"github.com/revelaction/learnspacy/pipeline/spacy"
)

const (
	ScorerSpacy  = "spacy"
	ScorerOpenAI = "openai"
)

// Config holds the learnspacy configuration.
type Config struct {
	Model    string `yaml:"model"`
	Python   string `yaml:"python"`
	Cache    string `yaml:"cache"`
	Scorer   string `yaml:"scorer"` // spacy, openai (default: spacy)
	LogLevel string `yaml:"log_level"`

	// LoadTimeoutSec bounds the model load, 0 waits forever
	LoadTimeoutSec int `yaml:"load_timeout_sec"`

	Text  string `yaml:"text"`
	Words string `yaml:"words"`

	Embedding EmbeddingConfig `yaml:"embedding"`
}

// EmbeddingConfig holds the settings of the openai scorer.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// Resolve fills the unset fields with defaults and validates the result.
// Call it after the command line overrides are applied.
func (c *Config) Resolve() error {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Read reads the YAML file at path, if path is not empty, and applies the
// environment. Defaults are not applied and the result is not validated, so
// that callers can override fields first.
func Read(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields with the LEARNSPACY_* and OPENAI_* variables that
// are set.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Model, "LEARNSPACY_MODEL")
	setFromEnv(&c.Python, "LEARNSPACY_PYTHON")
	setFromEnv(&c.Cache, "LEARNSPACY_CACHE")
	setFromEnv(&c.Scorer, "LEARNSPACY_SCORER")
	setFromEnv(&c.LogLevel, "LEARNSPACY_LOG_LEVEL")
	setFromEnv(&c.Embedding.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.Embedding.BaseURL, "OPENAI_BASE_URL")
}

func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = pipeline.DefaultModel
	}
	if c.Python == "" {
		c.Python = spacy.DefaultPython
	}
	if c.Scorer == "" {
		c.Scorer = ScorerSpacy
	}
	if c.LogLevel == "" {
		c.LogLevel = logger.DefaultLevel
	}
	if c.Text == "" {
		c.Text = annotate.DefaultText
	}
	if c.Words == "" {
		c.Words = annotate.DefaultWords
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = embedding.DefaultModel
	}
}

func (c *Config) Validate() error {
	switch c.Scorer {
	case ScorerSpacy:
	case ScorerOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("scorer %q requires embedding.api_key or OPENAI_API_KEY", c.Scorer)
		}
	default:
		return fmt.Errorf("scorer must be %q or %q, got %q", ScorerSpacy, ScorerOpenAI, c.Scorer)
	}

	if c.LoadTimeoutSec < 0 {
		return fmt.Errorf("load_timeout_sec must not be negative, got %d", c.LoadTimeoutSec)
	}

	return nil
}

func setFromEnv(field *string, name string) {
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} in the raw file.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
