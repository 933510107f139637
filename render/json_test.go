package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/revelaction/learnspacy/pipeline/pipelinetest"
	sent "github.com/revelaction/learnspacy/sentence"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(sent.Doc{}); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	var doc sent.Doc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(doc.Tokens) != 0 || len(doc.Ents) != 0 {
		t.Fatalf("expected empty doc, got %+v", doc)
	}
}

func TestJSONRendererRenderDoc(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(pipelinetest.AppleDoc()); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if raw["model"] != "en_core_web_sm" {
		t.Errorf("expected model en_core_web_sm, got %v", raw["model"])
	}

	tokens := raw["tokens"].([]any)
	if len(tokens) != 11 {
		t.Fatalf("expected 11 tokens, got %d", len(tokens))
	}

	first := tokens[0].(map[string]any)
	if first["shape"] != "Xxxxx" || first["is_alpha"] != true {
		t.Errorf("unexpected first token %v", first)
	}

	ents := raw["ents"].([]any)
	if len(ents) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(ents))
	}
}
