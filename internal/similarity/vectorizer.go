package similarity

import (
	"math"
	"sort"
)

// Vector is a sparse L2-normalized TF-IDF vector, keyed by vocabulary
// column.
type Vector map[int]float64

// Dot returns the dot product of two vectors. For normalized vectors this
// is their cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	if len(other) < len(v) {
		v, other = other, v
	}
	var sum float64
	for col, weight := range v {
		if w, ok := other[col]; ok {
			sum += weight * w
		}
	}
	return sum
}

// Vectorizer holds a fitted vocabulary and the per-term inverse document
// frequencies.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// FitVectorizer learns a vocabulary from the corpus, bounded to maxFeatures
// terms. When the corpus exceeds the bound, the terms with the highest
// corpus-wide frequency are kept, ties broken lexicographically so fits are
// deterministic.
func FitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(doc) {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termFreq[terms[i]] != termFreq[terms[j]] {
			return termFreq[terms[i]] > termFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	// Columns assigned in sorted-term order for stable vector layouts.
	sort.Strings(terms)

	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for col, term := range terms {
		v.vocab[term] = col
		// Smoothed idf: never zero, so every vocabulary term contributes.
		v.idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// VocabSize returns the number of terms in the fitted vocabulary.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// Transform converts a document into an L2-normalized TF-IDF vector.
// Out-of-vocabulary terms are ignored.
func (v *Vectorizer) Transform(doc string) Vector {
	counts := make(map[int]int)
	for _, term := range Tokenize(doc) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}

	vec := make(Vector, len(counts))
	var norm float64
	for col, count := range counts {
		w := float64(count) * v.idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}
