package chat

import "math"

// Embedding is an opaque fixed-dimension vector produced by the embedding
// provider. Floating-point edge cases (zero magnitude, mismatched
// dimensionality) are handled here, not in the pipeline.
type Embedding []float32

// IsZero reports whether the vector is absent.
func (e Embedding) IsZero() bool {
	return len(e) == 0
}

// Cosine returns the cosine similarity between e and other. Vectors of
// different lengths or zero magnitude yield 0 rather than an error, which is
// compatible with "no match" downstream.
func (e Embedding) Cosine(other Embedding) float64 {
	if len(e) != len(other) || len(e) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range e {
		a := float64(e[i])
		b := float64(other[i])
		dot += a * b
		normA += a * a
		normB += b * b
	}
	magnitude := math.Sqrt(normA) * math.Sqrt(normB)
	if magnitude == 0 {
		return 0
	}
	return dot / magnitude
}

// Match pairs a candidate FAQ with its measured similarity.
type Match struct {
	FAQ        FAQ
	Similarity float64
}

// findMostSimilar scans candidates once and keeps the best score at or above
// threshold. A strictly greater score replaces the running maximum, so ties
// resolve to the candidate encountered first. FAQs without an embedding never
// participate.
func findMostSimilar(query Embedding, candidates []FAQ, threshold float64) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, faq := range candidates {
		if faq.Embedding.IsZero() {
			continue
		}
		similarity := query.Cosine(faq.Embedding)
		if similarity < threshold {
			continue
		}
		if !found || similarity > best.Similarity {
			best = Match{FAQ: faq, Similarity: similarity}
			found = true
		}
	}
	return best, found
}
