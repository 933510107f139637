package pipeline_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/revelaction/learnspacy/pipeline"
	"github.com/revelaction/learnspacy/pipeline/pipelinetest"
	"github.com/revelaction/learnspacy/storage/filesystem"
	"github.com/revelaction/learnspacy/storage/sqlite/zombiezen"
)

func TestErrorUnwrap(t *testing.T) {
	err := error(&pipeline.Error{Op: "load", Model: "xx_missing", Err: pipeline.ErrModelNotFound})

	if !errors.Is(err, pipeline.ErrModelNotFound) {
		t.Fatal("expected error to match ErrModelNotFound")
	}

	var pErr *pipeline.Error
	if !errors.As(err, &pErr) || pErr.Op != "load" {
		t.Fatalf("expected *pipeline.Error with op load, got %v", err)
	}

	want := "pipeline load (xx_missing): model not found"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		text     string
		sentinel error
	}{
		{"", pipeline.ErrEmptyText},
		{"  \n\t", pipeline.ErrEmptyText},
		{"dog \xff\xfe bus", pipeline.ErrInvalidText},
		{"dog", nil},
		{"Zürich", nil},
	}

	for _, tt := range tests {
		err := pipeline.ValidateText("m", tt.text)
		if tt.sentinel == nil {
			if err != nil {
				t.Errorf("text %q: expected no error, got %v", tt.text, err)
			}
			continue
		}
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("text %q: expected %v, got %v", tt.text, tt.sentinel, err)
		}
	}
}

func TestValidateWords(t *testing.T) {
	if err := pipeline.ValidateWords("m", "dog", "", "bus"); err != nil {
		t.Errorf("expected valid words, got %v", err)
	}

	err := pipeline.ValidateWords("m", "dog", "b\xffs")
	var pErr *pipeline.Error
	if !errors.As(err, &pErr) || pErr.Op != "similarity" || !errors.Is(err, pipeline.ErrInvalidText) {
		t.Errorf("expected similarity *pipeline.Error wrapping ErrInvalidText, got %v", err)
	}
}

func TestCachedProcessFilesystem(t *testing.T) {
	fake := pipelinetest.New()
	store, err := filesystem.NewDocStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	p := pipeline.NewCached(fake, store, nil)

	for i := 0; i < 3; i++ {
		doc, err := p.Process(pipelinetest.AppleText)
		if err != nil {
			t.Fatalf("failed to process: %v", err)
		}
		if len(doc.Ents) != 3 {
			t.Fatalf("expected 3 entities, got %d", len(doc.Ents))
		}
	}

	if fake.ProcessCalls != 1 {
		t.Errorf("expected 1 pipeline call, got %d", fake.ProcessCalls)
	}

	// scores are not cached without a score repository
	for i := 0; i < 2; i++ {
		if _, err := p.Similarity("dog", "bus"); err != nil {
			t.Fatalf("failed similarity: %v", err)
		}
	}
	if fake.SimilarityCalls != 2 {
		t.Errorf("expected 2 similarity calls, got %d", fake.SimilarityCalls)
	}
}

func TestCachedSqlite(t *testing.T) {
	pool, err := zombiezen.NewPool(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	defer pool.Close()

	store := zombiezen.NewCacheStore(pool)
	fake := pipelinetest.New()
	p := pipeline.NewCached(fake, store, store)

	for i := 0; i < 2; i++ {
		score, err := p.Similarity("dog", "rotweiller")
		if err != nil {
			t.Fatalf("failed similarity: %v", err)
		}
		if score != 0.7 {
			t.Errorf("expected 0.7, got %v", score)
		}
	}

	if fake.SimilarityCalls != 1 {
		t.Errorf("expected 1 similarity call, got %d", fake.SimilarityCalls)
	}

	if _, err := p.Process("the dog"); err != nil {
		t.Fatalf("failed to process: %v", err)
	}
	if _, err := p.Process("the dog"); err != nil {
		t.Fatalf("failed to process: %v", err)
	}
	if fake.ProcessCalls != 1 {
		t.Errorf("expected 1 process call, got %d", fake.ProcessCalls)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	fake := pipelinetest.New()
	fake.Err = &pipeline.Error{Op: "process", Model: fake.Name, Err: pipeline.ErrNotLoaded}

	store, err := filesystem.NewDocStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	p := pipeline.NewCached(fake, store, nil)
	if _, err := p.Process("dog"); !errors.Is(err, pipeline.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}

	docs, err := store.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no cached docs, got %d", len(docs))
	}
}

func TestCachedEmptyText(t *testing.T) {
	fake := pipelinetest.New()
	store, err := filesystem.NewDocStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	p := pipeline.NewCached(fake, store, nil)
	if _, err := p.Process(" "); !errors.Is(err, pipeline.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if fake.ProcessCalls != 0 {
		t.Errorf("expected no pipeline call, got %d", fake.ProcessCalls)
	}
}

func TestCachedInvalidText(t *testing.T) {
	fake := pipelinetest.New()
	store, err := filesystem.NewDocStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	p := pipeline.NewCached(fake, store, nil)
	if _, err := p.Process("dog \xff\xfe bus"); !errors.Is(err, pipeline.ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if fake.ProcessCalls != 0 {
		t.Errorf("expected no pipeline call, got %d", fake.ProcessCalls)
	}

	docs, err := store.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no cached docs, got %d", len(docs))
	}
}

func TestCachedInContext(t *testing.T) {
	pool, err := zombiezen.NewPool(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	defer pool.Close()

	store := zombiezen.NewCacheStore(pool)
	fake := pipelinetest.New()
	p := pipeline.NewCached(fake, store, store)

	for i := 0; i < 2; i++ {
		score, err := p.InContext("rotweiller dog bus").Similarity("dog", "bus")
		if err != nil {
			t.Fatalf("failed similarity: %v", err)
		}
		if score != 0.2 {
			t.Errorf("expected 0.2, got %v", score)
		}
	}

	// the same pair out of context is a different cache entry
	if _, err := p.Similarity("dog", "bus"); err != nil {
		t.Fatalf("failed similarity: %v", err)
	}

	if fake.SimilarityCalls != 2 {
		t.Errorf("expected 2 similarity calls, got %d", fake.SimilarityCalls)
	}
	if len(fake.Contexts) != 2 || fake.Contexts[0] != "rotweiller dog bus" {
		t.Errorf("expected the context to reach the pipeline, got %v", fake.Contexts)
	}

	if _, found, _ := store.Score(fake.Name, "rotweiller dog bus", "dog", "bus"); !found {
		t.Error("expected the score to be stored under its context")
	}
}

func TestWithScorerIsNotContextual(t *testing.T) {
	p := pipeline.WithScorer(pipelinetest.New(), constScorer(0.5))
	if _, ok := p.(pipeline.Contextual); ok {
		t.Error("expected an overridden scorer to ignore the context")
	}
}

type constScorer float64

func (s constScorer) Similarity(a, b string) (float64, error) {
	return float64(s), nil
}

func TestWithScorer(t *testing.T) {
	fake := pipelinetest.New()
	p := pipeline.WithScorer(fake, constScorer(0.5))

	score, err := p.Similarity("dog", "dog")
	if err != nil {
		t.Fatalf("failed similarity: %v", err)
	}
	if score != 0.5 {
		t.Errorf("expected scorer value 0.5, got %v", score)
	}
	if fake.SimilarityCalls != 0 {
		t.Errorf("expected pipeline similarity not to be called")
	}

	if p.Model() != fake.Name {
		t.Errorf("expected model %q, got %q", fake.Name, p.Model())
	}
}
