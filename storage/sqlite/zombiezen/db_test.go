package zombiezen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenPool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	if _, err := OpenPool(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected no database file to be created, got %v", err)
	}

	if _, err := OpenPool(dir); err == nil {
		t.Fatal("expected error for a directory")
	}

	pool, err := NewPool(path)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	store := NewCacheStore(pool)
	if err := store.WriteScore("m", "", "dog", "bus", 0.5); err != nil {
		t.Fatalf("failed to write score: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	pool, err = OpenPool(path)
	if err != nil {
		t.Fatalf("failed to open existing cache: %v", err)
	}
	defer pool.Close()

	score, found, err := NewCacheStore(pool).Score("m", "", "dog", "bus")
	if err != nil || !found || score != 0.5 {
		t.Errorf("expected stored score 0.5, got %v %t %v", score, found, err)
	}
}
