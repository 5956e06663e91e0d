package similarity

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			in:   "Star-Wars: A New Hope!",
			want: []string{"star", "wars", "new", "hope"},
		},
		{
			name: "drops stop words",
			in:   "the force is with him",
			want: []string{"force"},
		},
		{
			name: "drops single characters",
			in:   "a b c jedi",
			want: []string{"jedi"},
		},
		{
			name: "keeps digits",
			in:   "Blade Runner 2049",
			want: []string{"blade", "runner", "2049"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVectorizerTransformIsNormalized(t *testing.T) {
	docs := []string{
		"space adventure among distant stars",
		"romance story set in wartime paris",
		"space station thriller",
	}
	v := FitVectorizer(docs, 0)

	for i, doc := range docs {
		vec := v.Transform(doc)
		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
			t.Errorf("doc %d: vector norm = %f, want 1.0", i, math.Sqrt(norm))
		}
	}
}

func TestVectorizerIgnoresUnknownTerms(t *testing.T) {
	v := FitVectorizer([]string{"space adventure"}, 0)
	vec := v.Transform("completely unrelated words")
	if len(vec) != 0 {
		t.Errorf("expected empty vector for out-of-vocabulary doc, got %v", vec)
	}
}

func TestVectorizerMaxFeaturesBound(t *testing.T) {
	docs := []string{
		"alpha beta gamma delta epsilon",
		"alpha beta gamma",
		"alpha beta",
	}
	v := FitVectorizer(docs, 2)
	if v.VocabSize() != 2 {
		t.Fatalf("VocabSize() = %d, want 2", v.VocabSize())
	}
	// alpha and beta have the highest corpus frequency and must survive the cut.
	for _, term := range []string{"alpha", "beta"} {
		if _, ok := v.vocab[term]; !ok {
			t.Errorf("expected %q in bounded vocabulary %v", term, v.vocab)
		}
	}
}

func TestVectorizerEmptyDocProducesEmptyVector(t *testing.T) {
	v := FitVectorizer([]string{"space adventure", ""}, 0)
	if vec := v.Transform(""); len(vec) != 0 {
		t.Errorf("Transform(\"\") = %v, want empty", vec)
	}
}

func testDocs() []string {
	return []string{
		"Star Wars space opera about jedi knights fighting galactic empire Sci-Fi",
		"Star Trek starship crew explores space final frontier Sci-Fi",
		"The Notebook elderly man reads romance diary aloud Romance Drama",
	}
}

func TestMatrixDiagonalAndSymmetry(t *testing.T) {
	m := Build(testDocs(), 0)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	for i := 0; i < m.Len(); i++ {
		row := m.SimilarityRow(i)
		if math.Abs(row[i].Score-1.0) > 1e-9 {
			t.Errorf("diagonal [%d][%d] = %f, want 1.0", i, i, row[i].Score)
		}
		for j := 0; j < m.Len(); j++ {
			if row[j].Index != j {
				t.Errorf("row %d position %d has index %d, want %d", i, j, row[j].Index, j)
			}
			mirror := m.SimilarityRow(j)
			if math.Abs(row[j].Score-mirror[i].Score) > 1e-9 {
				t.Errorf("matrix not symmetric at (%d,%d): %f vs %f", i, j, row[j].Score, mirror[i].Score)
			}
		}
	}
}

func TestMatrixRanksSharedVocabularyHigher(t *testing.T) {
	m := Build(testDocs(), 0)

	row := m.SimilarityRow(0)
	starTrek := row[1].Score
	notebook := row[2].Score
	if starTrek <= notebook {
		t.Errorf("expected sci-fi pair to outscore unrelated pair: %f vs %f", starTrek, notebook)
	}
	if starTrek <= 0 {
		t.Errorf("expected positive similarity for overlapping vocabulary, got %f", starTrek)
	}
}

func TestMatrixDisjointDocsScoreZero(t *testing.T) {
	m := Build([]string{"alpha beta gamma", "delta epsilon zeta"}, 0)
	row := m.SimilarityRow(0)
	if row[1].Score != 0 {
		t.Errorf("disjoint docs similarity = %f, want 0", row[1].Score)
	}
}

func BenchmarkMatrixBuild(b *testing.B) {
	docs := make([]string, 200)
	for i := range docs {
		docs[i] = testDocs()[i%3]
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(docs, 0)
	}
}
