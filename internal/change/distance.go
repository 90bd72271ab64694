package change

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the distance primitives.
var (
	ErrZeroVector  = errors.New("cosine distance undefined for all-zero vector")
	ErrEmptyInput  = errors.New("empty input")
	ErrDimMismatch = errors.New("vector dimension mismatch")
)

// CosineDistance returns 1 minus the cosine similarity of a and b, in
// [0, 2]. Returns ErrZeroVector when either vector has zero magnitude,
// since the angle is undefined there.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyInput
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0, ErrZeroVector
	}
	return 1 - dot/denom, nil
}

// Centroid returns the elementwise mean of the vectors.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}
	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: %d vs %d", ErrDimMismatch, len(v), dim)
		}
		for d := range v {
			sums[d] += float64(v[d])
		}
	}
	mean := make([]float32, dim)
	for d := range sums {
		mean[d] = float32(sums[d] / float64(len(vectors)))
	}
	return mean, nil
}

// AveragedEmbeddingDistance computes the centroid of each slice
// independently and returns the cosine distance between the two
// centroids. Cheap, but blind to within-slice variance.
func AveragedEmbeddingDistance(xs, ys [][]float32) (float64, error) {
	cx, err := Centroid(xs)
	if err != nil {
		return 0, fmt.Errorf("t1 centroid: %w", err)
	}
	cy, err := Centroid(ys)
	if err != nil {
		return 0, fmt.Errorf("t2 centroid: %w", err)
	}
	return CosineDistance(cx, cy)
}

// MeanPairwiseCosineDistance averages the cosine distance over every
// (x, y) pair. O(|xs|·|ys|) pairwise comparisons; diagnostic only.
func MeanPairwiseCosineDistance(xs, ys [][]float32) (float64, error) {
	if len(xs) == 0 || len(ys) == 0 {
		return 0, ErrEmptyInput
	}
	var total float64
	for _, x := range xs {
		for _, y := range ys {
			d, err := CosineDistance(x, y)
			if err != nil {
				return 0, err
			}
			total += d
		}
	}
	return total / float64(len(xs)*len(ys)), nil
}

// isZeroVector reports whether every component is zero.
func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
