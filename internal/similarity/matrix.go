package similarity

import (
	"log/slog"
	"time"
)

// ScoredEntry pairs a catalog position with a similarity score.
type ScoredEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// VectorIndex is the capability the recommendation engine depends on. The
// dense matrix below is the only backend today; an approximate
// nearest-neighbor index could replace it for large catalogs without
// touching the engine.
type VectorIndex interface {
	// SimilarityRow returns the full similarity row for entry i, in catalog
	// order (pair j carries the score between entries i and j).
	SimilarityRow(i int) []ScoredEntry
	Len() int
}

// Matrix is the dense N×N cosine-similarity matrix over the catalog. It is
// symmetric with a 1.0 diagonal, built exactly once per catalog snapshot,
// and read-only afterwards. Memory is O(N²); fine for a static catalog of
// moderate size.
type Matrix struct {
	n         int
	rows      [][]float64
	vocabSize int
}

// Build fits the TF-IDF vector space over docs (one document per catalog
// entry, same order) and computes the pairwise cosine matrix.
func Build(docs []string, maxFeatures int) *Matrix {
	start := time.Now()
	vectorizer := FitVectorizer(docs, maxFeatures)

	vectors := make([]Vector, len(docs))
	for i, doc := range docs {
		vectors[i] = vectorizer.Transform(doc)
	}

	n := len(docs)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score := vectors[i].Dot(vectors[j])
			rows[i][j] = score
			rows[j][i] = score
		}
	}

	m := &Matrix{n: n, rows: rows, vocabSize: vectorizer.VocabSize()}
	slog.Default().With("component", "similarity").Info("similarity matrix built",
		"entries", n,
		"vocab_size", m.vocabSize,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return m
}

// SimilarityRow returns the similarity row for entry i in catalog order.
func (m *Matrix) SimilarityRow(i int) []ScoredEntry {
	row := m.rows[i]
	out := make([]ScoredEntry, m.n)
	for j, score := range row {
		out[j] = ScoredEntry{Index: j, Score: score}
	}
	return out
}

// Len returns the number of entries in the matrix.
func (m *Matrix) Len() int {
	return m.n
}

// VocabSize returns the size of the fitted vocabulary.
func (m *Matrix) VocabSize() int {
	return m.vocabSize
}
