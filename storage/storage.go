package storage

import (
	sent "github.com/revelaction/learnspacy/sentence"
)

// DocReader defines read operations for annotated document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Model, Text) of documents.
	// Content (Tokens, Ents) is not loaded.
	List() ([]sent.Doc, error)

	// Find returns the document annotated by model for text. found is false
	// if no such document is stored.
	Find(model, text string) (doc sent.Doc, found bool, err error)
}

// DocWriter defines write operations for annotated document storage
type DocWriter interface {
	// Write persists a document with its tokens and entities
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// ScoreReader defines read operations for similarity score storage
type ScoreReader interface {
	// Score returns the similarity of a and b under model, compared within
	// the context text ("" for words compared on their own). found is false
	// if the pair was never stored.
	Score(model, context, a, b string) (score float64, found bool, err error)
}

// ScoreWriter defines write operations for similarity score storage
type ScoreWriter interface {
	WriteScore(model, context, a, b string, score float64) error
}

// ScoreRepository combines read and write operations
type ScoreRepository interface {
	ScoreReader
	ScoreWriter
}
