package face

import (
	"fmt"
	"math"
)

// CosineDistance computes 1 - cosine similarity between two embedding
// vectors. 0 means identical direction, 1 orthogonal, 2 opposite. Returns an
// error for mismatched dimensions or a zero-norm vector; the ranker treats
// that as a per-candidate failure, not a fatal one.
func CosineDistance(a, b []float64) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-norm embedding")
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}
