package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// kmeansMaxIterations bounds Lloyd's algorithm; assignment usually
	// stabilizes long before this on embedding-sized inputs.
	kmeansMaxIterations = 300
)

// KMeans partitions vectors into k clusters using Lloyd's algorithm with
// k-means++ seeding. The seed fully determines the run: the same vectors,
// k, and seed always produce identical labels and centroids.
//
// Every vector receives exactly one label in [0, k). Returns the labels
// and the k centroid vectors.
func KMeans(vectors [][]float32, k int, seed int64) ([]int, [][]float32, error) {
	if err := checkVectors(vectors); err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("invalid cluster count %d", k)
	}
	if len(vectors) < k {
		return nil, nil, fmt.Errorf("%w: %d < %d", ErrTooFewRows, len(vectors), k)
	}

	rng := rand.New(rand.NewSource(seed))
	dim := len(vectors[0])

	centroids := seedPlusPlus(vectors, k, rng)
	labels := make([]int, len(vectors))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as the mean of their members.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for d := range v {
				sums[c][d] += float64(v[d])
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster from the point farthest
				// from its current centroid, so k clusters survive.
				centroids[c] = vectors[farthestPoint(vectors, labels, centroids)]
				continue
			}
			mean := make([]float32, dim)
			for d := 0; d < dim; d++ {
				mean[d] = float32(sums[c][d] / float64(counts[c]))
			}
			centroids[c] = mean
		}
	}

	out := make([][]float32, k)
	for c := range centroids {
		out[c] = append([]float32(nil), centroids[c]...)
	}
	return labels, out, nil
}

// seedPlusPlus picks k initial centroids with the k-means++ scheme: the
// first uniformly at random, each subsequent one with probability
// proportional to its squared distance from the nearest chosen centroid.
func seedPlusPlus(vectors [][]float32, k int, rng *rand.Rand) [][]float32 {
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vectors[rng.Intn(len(vectors))])

	dists := make([]float64, len(vectors))
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(v, c); sq < d {
					d = sq
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; any pick works.
			centroids = append(centroids, vectors[rng.Intn(len(vectors))])
			continue
		}

		target := rng.Float64() * total
		var cum float64
		pick := len(vectors) - 1
		for i, d := range dists {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, vectors[pick])
	}
	return centroids
}

// nearestCentroid returns the index of the centroid closest to v.
// Ties break toward the lower index, keeping assignment deterministic.
func nearestCentroid(v []float32, centroids [][]float32) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(v, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// farthestPoint returns the index of the vector farthest from its assigned
// centroid, used to re-seed empty clusters.
func farthestPoint(vectors [][]float32, labels []int, centroids [][]float32) int {
	worst := 0
	worstDist := -1.0
	for i, v := range vectors {
		if d := squaredDistance(v, centroids[labels[i]]); d > worstDist {
			worstDist = d
			worst = i
		}
	}
	return worst
}
