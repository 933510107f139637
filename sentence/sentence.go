package sentence

import (
	"iter"
	"strings"
)

// Doc is the annotated result of running a pipeline over one text.
type Doc struct {
	Id int `json:"id"`

	Title string `json:"title,omitempty"`

	// Model is the name of the pipeline model that produced the doc
	Model string `json:"model"`

	// The unmodified input text
	Text string `json:"text"`

	Tokens []Token  `json:"tokens"`
	Ents   []Entity `json:"ents"`
}

// Token represents a word of the doc, with POS and metadata.
type Token struct {
	// The index of the word in the doc, starting at 0.
	Index int `json:"index"`

	// The index of the head token in the doc
	Head int `json:"head"`

	Pos string `json:"pos"`
	Dep string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc (set by spacy)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// Orthographic shape, f.ex. "Xxxxx" for "Apple" or "d" for "1"
	Shape string `json:"shape"`

	IsAlpha   bool `json:"is_alpha"`
	IsStop    bool `json:"is_stop"`
	HasVector bool `json:"has_vector"`
}

// Entity is a labeled span of the doc text. Start and End are character
// offsets, End is exclusive.
type Entity struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// AllTokens returns a sequence over the tokens of the doc, in order.
func (d Doc) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, t := range d.Tokens {
			if !yield(t) {
				return
			}
		}
	}
}

// Entities returns a sequence over the entity spans of the doc, in order. A
// doc without entities yields nothing.
func (d Doc) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range d.Ents {
			if !yield(e) {
				return
			}
		}
	}
}

// Reconstruct rebuilds the doc text from the tokens, placing each token at its
// Idx offset and filling the gaps with spaces.
func (d Doc) Reconstruct() string {
	var str strings.Builder
	var pos int
	for _, token := range d.Tokens {
		// offsets are rune based
		if gap := token.Idx - pos; gap > 0 {
			str.WriteString(strings.Repeat(" ", gap))
			pos += gap
		}

		// multi token words share the same idx, do not write the text twice
		if token.Idx < pos {
			continue
		}

		str.WriteString(token.Text)
		pos += len([]rune(token.Text))
	}

	return str.String()
}
