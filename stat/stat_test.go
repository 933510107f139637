package stat

import (
	"slices"
	"testing"

	"github.com/revelaction/learnspacy/pipeline/pipelinetest"
)

func TestAggregate(t *testing.T) {
	hdl := NewHandler()
	hdl.Aggregate(pipelinetest.AppleDoc())

	stats := hdl.Get()
	if stats.NumDocs != 1 || stats.NumTokens != 11 || stats.TokensPerDocMean != 11 {
		t.Errorf("unexpected token counts %+v", stats)
	}
	if stats.NumEntities != 3 {
		t.Errorf("expected 3 entities, got %d", stats.NumEntities)
	}
	if stats.LabelDis["ORG"] != 1 || stats.LabelDis["GPE"] != 1 || stats.LabelDis["MONEY"] != 1 {
		t.Errorf("unexpected label distribution %v", stats.LabelDis)
	}
	if stats.PosDis["PROPN"] != 2 {
		t.Errorf("expected 2 PROPN tokens, got %d", stats.PosDis["PROPN"])
	}

	hdl.Aggregate(pipelinetest.AppleDoc())
	stats = hdl.Get()
	if stats.NumDocs != 2 || stats.NumTokens != 22 || stats.TokensPerDocMean != 11 {
		t.Errorf("unexpected totals after two docs %+v", stats)
	}
}

func TestKeys(t *testing.T) {
	got := Keys(map[string]int{"NOUN": 2, "ADP": 3, "DET": 2, "VERB": 1})
	want := []string{"ADP", "DET", "NOUN", "VERB"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
