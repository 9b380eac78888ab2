// Package similarity provides vector primitives for comparing embeddings.
package similarity

import "math"

// Cosine returns the cosine similarity of a and b in [-1,1].
// ok is false when the similarity is undefined: either vector is empty,
// the lengths differ, or a norm is zero. Callers treat that as "no signal".
func Cosine(a, b []float32) (sim float64, ok bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0, false
	}

	sim = dot / denom
	// float error can land just outside the unit interval
	return math.Max(-1, math.Min(1, sim)), true
}

// Mean returns the element-wise mean of vectors.
// Vectors whose length differs from the first non-empty one are skipped.
// Returns nil if nothing is averaged.
func Mean(vectors [][]float32) []float32 {
	var dim int
	for _, v := range vectors {
		if len(v) > 0 {
			dim = len(v)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	n := 0
	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
		n++
	}

	out := make([]float32, dim)
	for i, s := range sum {
		out[i] = float32(s / float64(n))
	}
	return out
}
