// Package pipelinetest provides an in-memory pipeline for tests.
package pipelinetest

import (
	"strings"
	"unicode"

	"github.com/revelaction/learnspacy/pipeline"
	sent "github.com/revelaction/learnspacy/sentence"
)

const AppleText = "Apple is looking at buying U.K. startup for $1 billion"

// Fake returns the doc registered for a text, or a whitespace tokenized doc
// without annotations. Similarity is looked up in Scores, 1 for identical
// words and 0 otherwise, in or out of context.
type Fake struct {
	Name   string
	Docs   map[string]sent.Doc
	Scores map[[2]string]float64

	// Err is returned by every call when set
	Err error

	ProcessCalls    int
	SimilarityCalls int
	Closed          bool

	// Contexts holds the texts passed to InContext
	Contexts []string
}

var (
	_ pipeline.Pipeline   = (*Fake)(nil)
	_ pipeline.Contextual = (*Fake)(nil)
)

func New() *Fake {
	return &Fake{
		Name: pipeline.DefaultModel,
		Docs: map[string]sent.Doc{AppleText: AppleDoc()},
		Scores: map[[2]string]float64{
			{"dog", "rotweiller"}: 0.7,
			{"rotweiller", "dog"}: 0.7,
			{"dog", "bus"}:        0.2,
			{"bus", "dog"}:        0.2,
			{"rotweiller", "bus"}: 0.1,
			{"bus", "rotweiller"}: 0.1,
		},
	}
}

func (f *Fake) Model() string {
	return f.Name
}

func (f *Fake) Process(text string) (sent.Doc, error) {
	f.ProcessCalls++
	if f.Closed {
		return sent.Doc{}, &pipeline.Error{Op: "process", Model: f.Name, Err: pipeline.ErrNotLoaded}
	}
	if f.Err != nil {
		return sent.Doc{}, f.Err
	}
	if err := pipeline.ValidateText(f.Name, text); err != nil {
		return sent.Doc{}, err
	}

	if doc, ok := f.Docs[text]; ok {
		return doc, nil
	}

	return Tokenize(f.Name, text), nil
}

func (f *Fake) Similarity(a, b string) (float64, error) {
	f.SimilarityCalls++
	if f.Closed {
		return 0, &pipeline.Error{Op: "similarity", Model: f.Name, Err: pipeline.ErrNotLoaded}
	}
	if f.Err != nil {
		return 0, f.Err
	}
	if err := pipeline.ValidateWords(f.Name, a, b); err != nil {
		return 0, err
	}

	if a == b {
		return 1, nil
	}

	return f.Scores[[2]string{a, b}], nil
}

func (f *Fake) InContext(text string) pipeline.Scorer {
	f.Contexts = append(f.Contexts, text)
	return f
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Tokenize splits text on white space and sets Text, Idx, Index, IsAlpha and
// Lemma of each token.
func Tokenize(model, text string) sent.Doc {
	doc := sent.Doc{Model: model, Text: text}

	runes := []rune(text)
	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			if start < 0 {
				start = i
			}
			continue
		}

		if start >= 0 {
			word := string(runes[start:i])
			doc.Tokens = append(doc.Tokens, sent.Token{
				Index:   len(doc.Tokens),
				Idx:     start,
				Text:    word,
				Lemma:   strings.ToLower(word),
				IsAlpha: strings.IndexFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }) < 0,
			})
			start = -1
		}
	}

	return doc
}

// AppleDoc returns the en_core_web_sm annotation of AppleText.
func AppleDoc() sent.Doc {
	tokens := []sent.Token{
		{Text: "Apple", Lemma: "Apple", Pos: "PROPN", Tag: "NNP", Dep: "nsubj", Head: 2, Shape: "Xxxxx", IsAlpha: true},
		{Text: "is", Lemma: "be", Pos: "AUX", Tag: "VBZ", Dep: "aux", Head: 2, Shape: "xx", IsAlpha: true, IsStop: true},
		{Text: "looking", Lemma: "look", Pos: "VERB", Tag: "VBG", Dep: "ROOT", Head: 2, Shape: "xxxx", IsAlpha: true},
		{Text: "at", Lemma: "at", Pos: "ADP", Tag: "IN", Dep: "prep", Head: 2, Shape: "xx", IsAlpha: true, IsStop: true},
		{Text: "buying", Lemma: "buy", Pos: "VERB", Tag: "VBG", Dep: "pcomp", Head: 3, Shape: "xxxx", IsAlpha: true},
		{Text: "U.K.", Lemma: "U.K.", Pos: "PROPN", Tag: "NNP", Dep: "compound", Head: 6, Shape: "X.X."},
		{Text: "startup", Lemma: "startup", Pos: "NOUN", Tag: "NN", Dep: "dobj", Head: 4, Shape: "xxxx", IsAlpha: true},
		{Text: "for", Lemma: "for", Pos: "ADP", Tag: "IN", Dep: "prep", Head: 4, Shape: "xxx", IsAlpha: true, IsStop: true},
		{Text: "$", Lemma: "$", Pos: "SYM", Tag: "$", Dep: "quantmod", Head: 10, Shape: "$"},
		{Text: "1", Lemma: "1", Pos: "NUM", Tag: "CD", Dep: "compound", Head: 10, Shape: "d"},
		{Text: "billion", Lemma: "billion", Pos: "NUM", Tag: "CD", Dep: "pobj", Head: 7, Shape: "xxxx", IsAlpha: true},
	}

	idx := []int{0, 6, 9, 17, 20, 27, 32, 40, 44, 45, 47}
	for i := range tokens {
		tokens[i].Index = i
		tokens[i].Idx = idx[i]
	}

	return sent.Doc{
		Model:  pipeline.DefaultModel,
		Text:   AppleText,
		Tokens: tokens,
		Ents: []sent.Entity{
			{Text: "Apple", Start: 0, End: 5, Label: "ORG"},
			{Text: "U.K.", Start: 27, End: 31, Label: "GPE"},
			{Text: "$1 billion", Start: 44, End: 54, Label: "MONEY"},
		},
	}
}
