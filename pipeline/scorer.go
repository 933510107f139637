package pipeline

type scored struct {
	Pipeline
	scorer Scorer
}

// WithScorer returns a pipeline that processes text with p and computes
// similarity with s.
func WithScorer(p Pipeline, s Scorer) Pipeline {
	return &scored{Pipeline: p, scorer: s}
}

func (p *scored) Similarity(a, b string) (float64, error) {
	return p.scorer.Similarity(a, b)
}
