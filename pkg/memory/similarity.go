package memory

import "math"

// Cosine computes the cosine similarity between two vectors. Mismatched
// lengths are compared over the shorter prefix; zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// centroid averages a set of vectors element-wise
func centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	out := make([]float32, len(vectors[0]))
	for _, vec := range vectors {
		for i := 0; i < len(out) && i < len(vec); i++ {
			out[i] += vec[i]
		}
	}
	for i := range out {
		out[i] /= float32(len(vectors))
	}

	return out
}
