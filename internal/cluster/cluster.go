// Package cluster implements the clustering strategies used to group
// contextual word embeddings into sense clusters: affinity propagation,
// seeded k-means, and DBSCAN. All strategies take a pooled set of vectors
// and return one integer label per input row.
package cluster

import (
	"errors"
	"math"
)

// Noise is the label assigned by DBSCAN to points outside any dense region.
// The partitional strategies never produce it.
const Noise = -1

// Errors returned by clustering strategies.
var (
	ErrNoVectors   = errors.New("no vectors to cluster")
	ErrDimMismatch = errors.New("vectors have inconsistent dimensions")
	ErrTooFewRows  = errors.New("fewer vectors than requested clusters")
)

// checkVectors validates that the input is non-empty with uniform dimensions.
func checkVectors(vectors [][]float32) error {
	if len(vectors) == 0 {
		return ErrNoVectors
	}
	dim := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return ErrDimMismatch
		}
	}
	return nil
}

// squaredDistance returns the squared euclidean distance between two vectors.
func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func euclideanDistance(a, b []float32) float64 {
	return math.Sqrt(squaredDistance(a, b))
}
