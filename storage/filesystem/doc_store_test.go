package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	sent "github.com/revelaction/learnspacy/sentence"
)

func TestDocStoreWriteFind(t *testing.T) {
	store, err := NewDocStore(filepath.Join(t.TempDir(), "docs"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	doc := sent.Doc{
		Id:     1,
		Model:  "en_core_web_sm",
		Text:   "Apple is big",
		Tokens: []sent.Token{{Index: 0, Text: "Apple", Pos: "PROPN"}, {Index: 1, Idx: 6, Text: "is"}, {Index: 2, Idx: 9, Text: "big"}},
		Ents:   []sent.Entity{{Text: "Apple", Start: 0, End: 5, Label: "ORG"}},
	}

	if err := store.Write(doc); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	got, found, err := store.Find("en_core_web_sm", "Apple is big")
	if err != nil {
		t.Fatalf("failed to find: %v", err)
	}
	if !found {
		t.Fatal("expected doc to be found")
	}
	if len(got.Tokens) != 3 || got.Tokens[0].Pos != "PROPN" {
		t.Errorf("unexpected tokens %+v", got.Tokens)
	}
	if len(got.Ents) != 1 || got.Ents[0].Label != "ORG" {
		t.Errorf("unexpected ents %+v", got.Ents)
	}

	_, found, err = store.Find("en_core_web_md", "Apple is big")
	if err != nil {
		t.Fatalf("failed to find: %v", err)
	}
	if found {
		t.Error("expected no doc for a different model")
	}
}

func TestDocStoreList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	for _, d := range []sent.Doc{{Id: 0, Text: "a"}, {Id: 1, Title: "named", Text: "b"}} {
		if err := store.Write(d); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
	}

	// non JSON files are ignored
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := store.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}

	titles := map[string]bool{docs[0].Title: true, docs[1].Title: true}
	if !titles[Key("", "a")] || !titles["named"] {
		t.Errorf("unexpected titles %q %q", docs[0].Title, docs[1].Title)
	}

	if docs[0].Tokens != nil || docs[1].Tokens != nil {
		t.Error("expected List not to load tokens")
	}
}

func TestDocStoreWriteInvalidName(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := store.Write(sent.Doc{Title: "../escape"}); err == nil {
		t.Fatal("expected error for a title with a path separator")
	}
}
