// Package pipeline defines the capability surface of an external NLP
// pipeline: load by name, process a text into a sentence.Doc, compare two
// words and release the loaded model.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sent "github.com/revelaction/learnspacy/sentence"
)

const DefaultModel = "en_core_web_sm"

var (
	// ErrNotLoaded is returned by calls on a pipeline that failed to load or
	// was closed.
	ErrNotLoaded = errors.New("pipeline not loaded")

	ErrEmptyText = errors.New("empty text")

	ErrInvalidText = errors.New("text is not valid UTF-8")

	ErrModelNotFound = errors.New("model not found")
)

// Scorer computes the similarity of two words. spaCy vectors give a cosine
// in [-1, 1]; words without a vector score 0.
type Scorer interface {
	Similarity(a, b string) (float64, error)
}

// Contextual is implemented by pipelines whose word vectors depend on the
// surrounding tokens.
type Contextual interface {
	// InContext returns a Scorer that compares words as tokens of the doc of
	// text.
	InContext(text string) Scorer
}

// Pipeline is a loaded NLP model.
type Pipeline interface {
	Scorer

	// Process annotates text and returns the resulting doc.
	Process(text string) (sent.Doc, error)

	// Model returns the name the pipeline was loaded with.
	Model() string

	// Close releases the model. Calls after Close return ErrNotLoaded.
	Close() error
}

// Error is returned when the pipeline is unavailable or cannot process its
// input.
type Error struct {
	Op    string
	Model string
	Err   error
}

func (e *Error) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("pipeline %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pipeline %s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidateText returns a *Error wrapping ErrEmptyText when text has no
// content, or ErrInvalidText when it is not valid UTF-8.
func ValidateText(model, text string) error {
	if strings.TrimSpace(text) == "" {
		return &Error{Op: "process", Model: model, Err: ErrEmptyText}
	}
	if !utf8.ValidString(text) {
		return &Error{Op: "process", Model: model, Err: ErrInvalidText}
	}
	return nil
}

// ValidateWords returns a *Error wrapping ErrInvalidText when a word is not
// valid UTF-8.
func ValidateWords(model string, words ...string) error {
	for _, w := range words {
		if !utf8.ValidString(w) {
			return &Error{Op: "similarity", Model: model, Err: fmt.Errorf("%w: %q", ErrInvalidText, w)}
		}
	}
	return nil
}
