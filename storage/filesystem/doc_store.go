package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/learnspacy/sentence"
	"github.com/revelaction/learnspacy/storage"
)

// DocStore keeps one JSON file per doc in a directory. The file name is the
// doc Title, or a hash of model and text when the doc has no title.
type DocStore struct {
	docDir string
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store, creating docDir if needed.
func NewDocStore(docDir string) (*DocStore, error) {
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, err
	}

	return &DocStore{docDir: docDir}, nil
}

func (h *DocStore) names() ([]string, error) {
	files, err := os.ReadDir(h.docDir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, file := range files {
		if filepath.Ext(file.Name()) == ".json" {
			names = append(names, file.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// List returns doc metadata, in file name order.
func (h *DocStore) List() ([]sent.Doc, error) {
	names, err := h.names()
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(names))
	for _, name := range names {
		doc, err := ReadDoc(filepath.Join(h.docDir, name))
		if err != nil {
			return nil, err
		}

		docs = append(docs, sent.Doc{
			Id:    doc.Id,
			Title: strings.TrimSuffix(name, ".json"),
			Model: doc.Model,
			Text:  doc.Text,
		})
	}

	return docs, nil
}

func (h *DocStore) Find(model, text string) (sent.Doc, bool, error) {
	names, err := h.names()
	if err != nil {
		return sent.Doc{}, false, err
	}

	for _, name := range names {
		doc, err := ReadDoc(filepath.Join(h.docDir, name))
		if err != nil {
			return sent.Doc{}, false, err
		}

		if doc.Model == model && doc.Text == text {
			return doc, true, nil
		}
	}

	return sent.Doc{}, false, nil
}

// Write stores doc as <Title>.json. An existing file with the same name is
// replaced.
func (h *DocStore) Write(doc sent.Doc) error {
	name := doc.Title
	if name == "" {
		name = Key(doc.Model, doc.Text)
	}

	if strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid doc name: %s", name)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}

	return os.WriteFile(filepath.Join(h.docDir, name+".json"), data, 0o644)
}

// Key returns the file name used for an untitled doc.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:8])
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
