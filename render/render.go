package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	sent "github.com/revelaction/learnspacy/sentence"
	"github.com/revelaction/learnspacy/similarity"
)

const (
	Defaultformat = "all"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

func SupportedFormats() []string {
	return []string{"all", "tokens", "details", "ents", "json"}
}

type Renderer struct {
	HasColor bool

	// HasHeader prints a title line before each section
	HasHeader bool

	// Format determines which sections of a doc are rendered
	//
	// all: tokens, details and ents
	// tokens: one line per token, text pos dep
	// details: one line per token, text lemma pos tag dep shape is_alpha is_stop
	// ents: one line per entity, text start end label
	// json: the doc as JSON
	Format string

	Out io.Writer
}

func NewRenderer() *Renderer {
	return &Renderer{Format: Defaultformat, Out: os.Stdout}
}

// Doc renders doc in the current Format.
func (r *Renderer) Doc(doc sent.Doc) error {
	switch r.Format {
	case "tokens":
		return r.Tokens(doc)
	case "details":
		return r.Details(doc)
	case "ents":
		return r.Entities(doc)
	case "json":
		return NewJSONRenderer(r.Out).Render(doc)
	case "all", "":
		if err := r.Tokens(doc); err != nil {
			return err
		}
		if err := r.Details(doc); err != nil {
			return err
		}
		return r.Entities(doc)
	}

	return fmt.Errorf("unknown format: %s", r.Format)
}

// Tokens writes one line per token: text, coarse POS and dependency label.
func (r *Renderer) Tokens(doc sent.Doc) error {
	r.header("tokens")
	for token := range doc.AllTokens() {
		if _, err := fmt.Fprintln(r.Out, token.Text, r.pos(token.Pos), token.Dep); err != nil {
			return err
		}
	}

	return nil
}

// Details writes one line per token: text, lemma, coarse POS, fine tag,
// dependency label, shape, is alpha and is stop.
func (r *Renderer) Details(doc sent.Doc) error {
	r.header("details")
	for token := range doc.AllTokens() {
		_, err := fmt.Fprintln(r.Out, token.Text, token.Lemma, r.pos(token.Pos), token.Tag, token.Dep,
			token.Shape, boolString(token.IsAlpha), boolString(token.IsStop))
		if err != nil {
			return err
		}
	}

	return nil
}

// Entities writes one line per entity span: text, start offset, end offset
// and label. A doc without entities writes nothing.
func (r *Renderer) Entities(doc sent.Doc) error {
	r.header("ents")
	for ent := range doc.Entities() {
		if _, err := fmt.Fprintln(r.Out, ent.Text, ent.Start, ent.End, r.label(ent.Label)); err != nil {
			return err
		}
	}

	return nil
}

// Table writes a header line with the words and one line per word with its
// scores against every word.
func (r *Renderer) Table(t *similarity.Table) error {
	words := t.Words()

	width := 6
	for _, w := range words {
		if l := len([]rune(w)); l > width {
			width = l
		}
	}

	var str strings.Builder
	str.WriteString(strings.Repeat(" ", width))
	for _, w := range words {
		fmt.Fprintf(&str, " %*s", width, w)
	}
	str.WriteString("\n")

	for i, w := range words {
		fmt.Fprintf(&str, "%-*s", width, r.word(w, width))
		for _, score := range t.Row(i) {
			fmt.Fprintf(&str, " %*.4f", width, score)
		}
		str.WriteString("\n")
	}

	_, err := io.WriteString(r.Out, str.String())
	return err
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) header(section string) {
	if !r.HasHeader {
		return
	}

	if r.HasColor {
		fmt.Fprintf(r.Out, "%s# %s%s\n", Grey256, section, Off)
		return
	}

	fmt.Fprintf(r.Out, "# %s\n", section)
}

func (r *Renderer) pos(pos string) string {
	if !r.HasColor {
		return pos
	}

	return Green256 + pos + Off
}

func (r *Renderer) label(label string) string {
	if !r.HasColor {
		return label
	}

	return Yellow256 + label + Off
}

// word pads before coloring, escape codes would break the alignment
func (r *Renderer) word(w string, width int) string {
	if !r.HasColor {
		return w
	}

	return Teal + fmt.Sprintf("%-*s", width, w) + Off
}

// boolString prints booleans the way spaCy does.
func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
