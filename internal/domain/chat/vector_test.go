package chat

import (
	"math"
	"testing"
)

func TestCosineIdenticalVectors(t *testing.T) {
	v := Embedding{0.3, 0.5, 0.8}
	if got := v.Cosine(v); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0 for identical vectors, got %v", got)
	}
}

func TestCosineOrthogonalVectors(t *testing.T) {
	a := Embedding{1, 0}
	b := Embedding{0, 1}
	if got := a.Cosine(b); math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0 for orthogonal vectors, got %v", got)
	}
}

func TestCosineOppositeVectors(t *testing.T) {
	a := Embedding{1, 2}
	b := Embedding{-1, -2}
	if got := a.Cosine(b); math.Abs(got+1.0) > 1e-9 {
		t.Fatalf("expected -1.0 for opposite vectors, got %v", got)
	}
}

func TestCosineStaysInRange(t *testing.T) {
	pairs := [][2]Embedding{
		{{0.1, 0.9, 0.4}, {0.8, 0.2, 0.6}},
		{{5, 5, 5}, {1, 2, 3}},
		{{-1, 4, -2}, {3, -1, 0.5}},
	}
	for _, pair := range pairs {
		got := pair[0].Cosine(pair[1])
		if got < -1.0-1e-9 || got > 1.0+1e-9 {
			t.Fatalf("cosine out of range: %v", got)
		}
	}
}

func TestCosineMismatchedLengthsReturnsZero(t *testing.T) {
	a := Embedding{1, 2, 3}
	b := Embedding{1, 2}
	if got := a.Cosine(b); got != 0 {
		t.Fatalf("expected exactly 0 for mismatched lengths, got %v", got)
	}
}

func TestCosineZeroMagnitudeReturnsZero(t *testing.T) {
	a := Embedding{0, 0, 0}
	b := Embedding{1, 2, 3}
	if got := a.Cosine(b); got != 0 {
		t.Fatalf("expected exactly 0 for zero vector, got %v", got)
	}
	if got := b.Cosine(a); got != 0 {
		t.Fatalf("expected exactly 0 for zero vector, got %v", got)
	}
}

func TestFindMostSimilarEmptyCandidates(t *testing.T) {
	if _, ok := findMostSimilar(Embedding{1, 0}, nil, 0.5); ok {
		t.Fatal("expected no match for empty candidate list")
	}
}

func TestFindMostSimilarRespectsThreshold(t *testing.T) {
	query := Embedding{1, 0}
	faqs := []FAQ{
		{ID: "a", Embedding: Embedding{0.42, 0.9075}},
	}
	if _, ok := findMostSimilar(query, faqs, 0.50); ok {
		t.Fatal("expected no match below threshold")
	}
	match, ok := findMostSimilar(query, faqs, 0.42)
	if !ok {
		t.Fatal("expected match at threshold")
	}
	if match.FAQ.ID != "a" {
		t.Fatalf("unexpected match %q", match.FAQ.ID)
	}
}

func TestFindMostSimilarPicksBest(t *testing.T) {
	query := Embedding{1, 0}
	faqs := []FAQ{
		{ID: "weak", Embedding: Embedding{0.6, 0.8}},
		{ID: "strong", Embedding: Embedding{0.99, 0.14}},
	}
	match, ok := findMostSimilar(query, faqs, 0.5)
	if !ok || match.FAQ.ID != "strong" {
		t.Fatalf("expected strong match, got %+v ok=%v", match, ok)
	}
}

func TestFindMostSimilarTieKeepsFirst(t *testing.T) {
	query := Embedding{1, 0}
	faqs := []FAQ{
		{ID: "first", Embedding: Embedding{2, 0}},
		{ID: "second", Embedding: Embedding{3, 0}},
	}
	match, ok := findMostSimilar(query, faqs, 0.5)
	if !ok || match.FAQ.ID != "first" {
		t.Fatalf("expected stable tie-break on first candidate, got %+v", match)
	}
}

func TestFindMostSimilarSkipsMissingEmbeddings(t *testing.T) {
	query := Embedding{1, 0}
	faqs := []FAQ{
		{ID: "no-embedding"},
		{ID: "with-embedding", Embedding: Embedding{1, 0}},
	}
	match, ok := findMostSimilar(query, faqs, 0.5)
	if !ok || match.FAQ.ID != "with-embedding" {
		t.Fatalf("expected entries without embeddings to be filtered, got %+v", match)
	}
}
