// Package annotate runs texts and word lists through a pipeline and prints
// the annotations.
package annotate

import (
	"strings"

	"github.com/revelaction/learnspacy/pipeline"
	"github.com/revelaction/learnspacy/render"
	sent "github.com/revelaction/learnspacy/sentence"
	"github.com/revelaction/learnspacy/similarity"
)

const (
	DefaultText = "Apple is looking at buying U.K. startup for $1 billion"

	DefaultWords = "rotweiller dog bus"
)

type Printer struct {
	Pipeline pipeline.Pipeline
	Renderer *render.Renderer

	// Progress, if set, is called after each similarity call
	Progress func(done, total int)
}

func NewPrinter(p pipeline.Pipeline, r *render.Renderer) *Printer {
	return &Printer{Pipeline: p, Renderer: r}
}

// Annotate processes text with one pipeline call and renders the doc. If
// the pipeline fails nothing is written.
func (p *Printer) Annotate(text string) (sent.Doc, error) {
	doc, err := p.Pipeline.Process(text)
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, p.Renderer.Doc(doc)
}

// SimilarityTable builds the similarity table of words and renders it. A
// Contextual pipeline compares the words as tokens of the words joined by
// spaces.
func (p *Printer) SimilarityTable(words []string) (*similarity.Table, error) {
	return p.similarityTable(words, strings.Join(words, " "))
}

// SimilarityTableOf tokenizes text and renders the similarity table of its
// tokens, compared within text like the tokens of one doc.
func (p *Printer) SimilarityTableOf(text string) (*similarity.Table, error) {
	words, err := p.Words(text)
	if err != nil {
		return nil, err
	}

	return p.similarityTable(words, text)
}

func (p *Printer) similarityTable(words []string, text string) (*similarity.Table, error) {
	var scorer pipeline.Scorer = p.Pipeline
	if c, ok := p.Pipeline.(pipeline.Contextual); ok && text != "" {
		scorer = c.InContext(text)
	}

	t, err := similarity.Build(words, scorer, p.Progress)
	if err != nil {
		return nil, err
	}

	return t, p.Renderer.Table(t)
}

// Words tokenizes text with the pipeline and returns the token texts, the
// way a word list is obtained from a sentence like DefaultWords.
func (p *Printer) Words(text string) ([]string, error) {
	doc, err := p.Pipeline.Process(text)
	if err != nil {
		return nil, err
	}

	words := make([]string, 0, len(doc.Tokens))
	for token := range doc.AllTokens() {
		words = append(words, token.Text)
	}

	return words, nil
}
