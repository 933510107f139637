package stat

import (
	"sort"

	sent "github.com/revelaction/learnspacy/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs          int
	NumTokens        int
	NumEntities      int
	NumStop          int
	NumAlpha         int
	TokensPerDocMean int
	PosDis           map[string]int
	LabelDis         map[string]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{PosDis: map[string]int{}, LabelDis: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the counts of doc to the running totals.
func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumDocs++
	for token := range doc.AllTokens() {
		h.stats.NumTokens++
		h.stats.PosDis[token.Pos]++
		if token.IsStop {
			h.stats.NumStop++
		}
		if token.IsAlpha {
			h.stats.NumAlpha++
		}
	}

	for ent := range doc.Entities() {
		h.stats.NumEntities++
		h.stats.LabelDis[ent.Label]++
	}

	h.stats.TokensPerDocMean = h.stats.NumTokens / h.stats.NumDocs
}

// Keys returns the keys of a distribution, most frequent first and ties in
// alphabetical order.
func Keys(dis map[string]int) []string {
	keys := make([]string, 0, len(dis))
	for k := range dis {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if dis[keys[i]] != dis[keys[j]] {
			return dis[keys[i]] > dis[keys[j]]
		}
		return keys[i] < keys[j]
	})

	return keys
}
