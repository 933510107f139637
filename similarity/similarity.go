// Package similarity builds the pairwise similarity table of a word list.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/revelaction/learnspacy/pipeline"
)

var ErrKeyNotFound = errors.New("key not found")

// Table holds the score of every ordered pair of a word list, indexed by
// position. Duplicate words keep their own rows and columns.
type Table struct {
	words  []string
	scores [][]float64

	// last position of each word
	pos map[string]int
}

// Build asks scorer for the similarity of every (prime, compare) pair of
// words × words, the diagonal included: len(words)² calls. progress, if not
// nil, is called after each call with the number of calls done.
func Build(words []string, scorer pipeline.Scorer, progress func(done, total int)) (*Table, error) {
	n := len(words)
	t := &Table{
		words:  append([]string(nil), words...),
		scores: make([][]float64, n),
		pos:    make(map[string]int, n),
	}

	total := n * n
	done := 0
	for i, prime := range words {
		t.pos[prime] = i
		t.scores[i] = make([]float64, n)

		for j, compare := range words {
			score, err := scorer.Similarity(prime, compare)
			if err != nil {
				return nil, fmt.Errorf("similarity %q %q: %w", prime, compare, err)
			}

			t.scores[i][j] = score
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}

	return t, nil
}

// Words returns the word list the table was built from.
func (t *Table) Words() []string {
	return t.words
}

func (t *Table) Len() int {
	return len(t.words)
}

// At returns the score of the i-th word against the j-th word.
func (t *Table) At(i, j int) float64 {
	return t.scores[i][j]
}

// Row returns the scores of the i-th word against every word.
func (t *Table) Row(i int) []float64 {
	return t.scores[i]
}

// Lookup returns the score of prime against compare. A word that appears more
// than once resolves to its last position. Words not in the table return an
// error wrapping ErrKeyNotFound.
func (t *Table) Lookup(prime, compare string) (float64, error) {
	i, ok := t.pos[prime]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrKeyNotFound, prime)
	}

	j, ok := t.pos[compare]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrKeyNotFound, compare)
	}

	return t.scores[i][j], nil
}

// Map returns the table as prime -> compare -> score. Later duplicates
// overwrite earlier ones.
func (t *Table) Map() map[string]map[string]float64 {
	m := make(map[string]map[string]float64, len(t.words))
	for i, prime := range t.words {
		row := make(map[string]float64, len(t.words))
		for j, compare := range t.words {
			row[compare] = t.scores[i][j]
		}
		m[prime] = row
	}

	return m
}

// Asymmetry returns the largest |s(i,j) - s(j,i)| of the table. Scores are
// computed in both directions, so float rounding can make it non zero.
func (t *Table) Asymmetry() float64 {
	var worst float64
	for i := range t.scores {
		for j := i + 1; j < len(t.scores); j++ {
			if d := math.Abs(t.scores[i][j] - t.scores[j][i]); d > worst {
				worst = d
			}
		}
	}

	return worst
}
