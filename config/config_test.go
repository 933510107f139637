package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/learnspacy/annotate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "learnspacy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// load reads path the way the commands do when no flag is set.
func load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func TestResolveDefaults(t *testing.T) {
	for _, name := range []string{"LEARNSPACY_MODEL", "LEARNSPACY_PYTHON", "LEARNSPACY_CACHE", "LEARNSPACY_SCORER"} {
		t.Setenv(name, "")
	}

	cfg, err := load("")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.Model != "en_core_web_sm" || cfg.Python != "python3" || cfg.Scorer != ScorerSpacy {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Text != annotate.DefaultText || cfg.Words != annotate.DefaultWords {
		t.Errorf("unexpected default inputs %q %q", cfg.Text, cfg.Words)
	}
	if cfg.Cache != "" {
		t.Errorf("expected cache disabled, got %q", cfg.Cache)
	}
}

func TestReadFileAndEnv(t *testing.T) {
	t.Setenv("LEARNSPACY_MODEL", "en_core_web_md")
	t.Setenv("TEST_EMBEDDING_KEY", "sk-test")
	t.Setenv("TEST_EMBEDDING_URL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("LEARNSPACY_CACHE", "")
	t.Setenv("LEARNSPACY_SCORER", "")

	path := writeConfig(t, `
model: en_core_web_lg
cache: /tmp/learnspacy.db
scorer: openai
load_timeout_sec: 30
words: "cat dog"
embedding:
  api_key: ${TEST_EMBEDDING_KEY}
  base_url: ${TEST_EMBEDDING_URL:-http://localhost:8080/v1}
  dimensions: 256
`)

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	// environment wins over the file
	if cfg.Model != "en_core_web_md" {
		t.Errorf("expected env model, got %s", cfg.Model)
	}
	if cfg.Cache != "/tmp/learnspacy.db" || cfg.LoadTimeoutSec != 30 || cfg.Words != "cat dog" {
		t.Errorf("unexpected file values %+v", cfg)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("expected expanded api key, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("expected default base url, got %q", cfg.Embedding.BaseURL)
	}
	if cfg.Embedding.Dimensions != 256 || cfg.Embedding.Model == "" {
		t.Errorf("unexpected embedding config %+v", cfg.Embedding)
	}
}

func TestResolveInvalid(t *testing.T) {
	t.Setenv("LEARNSPACY_SCORER", "")
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown scorer", "scorer: glove\n", "scorer must be"},
		{"openai without key", "scorer: openai\n", "requires embedding.api_key"},
		{"negative timeout", "load_timeout_sec: -1\n", "must not be negative"},
		{"bad yaml", "model: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestReadKeepsEmptyFields(t *testing.T) {
	t.Setenv("LEARNSPACY_MODEL", "")
	t.Setenv("LEARNSPACY_SCORER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Read("")
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if cfg.Model != "" || cfg.Scorer != ScorerOpenAI {
		t.Errorf("unexpected config %+v", cfg)
	}

	// a flag can still fix what Resolve would reject
	cfg.Scorer = ScorerSpacy
	if err := cfg.Resolve(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if cfg.Model != "en_core_web_sm" {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
}
