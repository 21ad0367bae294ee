package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	var sum float64
	for _, x := range v {
		sum += float64(x * x)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("norm after normalize: got %f, want 1", sum)
	}
}

func TestNormalizeL2_zeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	NormalizeL2(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("v[%d]: got %f, want 0", i, x)
		}
	}
}

func TestSimilarityPercent(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{-1, 0},
		{0, 50},
		{0.5, 75},
		{1, 100},
	}
	for _, c := range cases {
		got := SimilarityPercent(c.score)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("SimilarityPercent(%f): got %f, want %f", c.score, got, c.want)
		}
	}
}

func TestSimilarityPercent_monotonic(t *testing.T) {
	prev := SimilarityPercent(-1)
	for s := -0.99; s <= 1.0; s += 0.01 {
		cur := SimilarityPercent(s)
		if cur < prev {
			t.Fatalf("mapping not monotonic at score %f: %f < %f", s, cur, prev)
		}
		prev = cur
	}
}
