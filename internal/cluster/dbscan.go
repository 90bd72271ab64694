package cluster

const (
	// DefaultEps is the default neighborhood radius for DBSCAN.
	DefaultEps = 0.5

	// DefaultMinPoints is the default density threshold: a point needs this
	// many neighbors (itself included) within eps to seed a cluster.
	DefaultMinPoints = 5
)

// DBSCAN clusters vectors by density. Points within eps of at least
// minPoints neighbors form cluster cores; reachable points join them;
// everything else is labeled Noise. No exemplars are produced.
func DBSCAN(vectors [][]float32, eps float64, minPoints int) ([]int, error) {
	if err := checkVectors(vectors); err != nil {
		return nil, err
	}
	if eps <= 0 {
		eps = DefaultEps
	}
	if minPoints <= 0 {
		minPoints = DefaultMinPoints
	}

	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	visited := make([]bool, n)

	next := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := regionQuery(vectors, i, eps)
		if len(neighbors) < minPoints {
			continue // stays Noise unless claimed by a later expansion
		}

		labels[i] = next
		// Expand the cluster over the reachable region. The queue grows as
		// new core points contribute their neighborhoods.
		for q := 0; q < len(neighbors); q++ {
			j := neighbors[q]
			if labels[j] == Noise {
				labels[j] = next
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			more := regionQuery(vectors, j, eps)
			if len(more) >= minPoints {
				neighbors = append(neighbors, more...)
			}
		}
		next++
	}

	return labels, nil
}

// regionQuery returns the indices of all vectors within eps of vectors[i],
// including i itself.
func regionQuery(vectors [][]float32, i int, eps float64) []int {
	var neighbors []int
	for j := range vectors {
		if euclideanDistance(vectors[i], vectors[j]) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
