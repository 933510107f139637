package render

import (
	"encoding/json"
	"io"

	sent "github.com/revelaction/learnspacy/sentence"
)

// JSONRenderer writes docs as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes doc as one JSON object followed by a newline.
func (r *JSONRenderer) Render(doc sent.Doc) error {
	return json.NewEncoder(r.W).Encode(doc)
}
