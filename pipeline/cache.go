package pipeline

import (
	"fmt"

	sent "github.com/revelaction/learnspacy/sentence"
	"github.com/revelaction/learnspacy/storage"
)

// Cached serves docs and scores from storage and falls back to the wrapped
// pipeline on a miss, storing the result.
type Cached struct {
	Pipeline

	docs   storage.DocRepository
	scores storage.ScoreRepository
}

var (
	_ Pipeline   = (*Cached)(nil)
	_ Contextual = (*Cached)(nil)
)

// NewCached wraps p. scores may be nil, then similarity is not cached.
func NewCached(p Pipeline, docs storage.DocRepository, scores storage.ScoreRepository) *Cached {
	return &Cached{Pipeline: p, docs: docs, scores: scores}
}

func (c *Cached) Process(text string) (sent.Doc, error) {
	model := c.Model()
	if err := ValidateText(model, text); err != nil {
		return sent.Doc{}, err
	}

	doc, found, err := c.docs.Find(model, text)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("cache lookup: %w", err)
	}
	if found {
		return doc, nil
	}

	doc, err = c.Pipeline.Process(text)
	if err != nil {
		return sent.Doc{}, err
	}

	if err := c.docs.Write(doc); err != nil {
		return sent.Doc{}, fmt.Errorf("cache write: %w", err)
	}

	return doc, nil
}

func (c *Cached) Similarity(a, b string) (float64, error) {
	return c.score(c.Pipeline, "", a, b)
}

// InContext returns the contextual scorer of the wrapped pipeline, with its
// scores cached under text. A pipeline that is not Contextual scores words
// on their own.
func (c *Cached) InContext(text string) Scorer {
	inner, ok := c.Pipeline.(Contextual)
	if !ok {
		return c
	}

	return &cachedScorer{c: c, scorer: inner.InContext(text), within: text}
}

type cachedScorer struct {
	c       *Cached
	scorer  Scorer
	within string
}

func (s *cachedScorer) Similarity(a, b string) (float64, error) {
	return s.c.score(s.scorer, s.within, a, b)
}

func (c *Cached) score(scorer Scorer, within, a, b string) (float64, error) {
	if c.scores == nil {
		return scorer.Similarity(a, b)
	}

	model := c.Model()
	score, found, err := c.scores.Score(model, within, a, b)
	if err != nil {
		return 0, fmt.Errorf("cache lookup: %w", err)
	}
	if found {
		return score, nil
	}

	score, err = scorer.Similarity(a, b)
	if err != nil {
		return 0, err
	}

	if err := c.scores.WriteScore(model, within, a, b, score); err != nil {
		return 0, fmt.Errorf("cache write: %w", err)
	}

	return score, nil
}
