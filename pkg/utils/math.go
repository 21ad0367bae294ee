package utils

import "math"

// NormalizeL2 normalizes the slice in place to unit L2 norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float32) {
	var sum float32
	for _, v := range x {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range x {
		x[i] *= norm
	}
}

// SimilarityPercent maps a cosine similarity score in [-1, 1] to a 0-100
// percentage. The mapping is linear and assumes the cosine metric; it must be
// revisited if the index metric ever changes.
func SimilarityPercent(score float64) float64 {
	return (score + 1) / 2 * 100
}
