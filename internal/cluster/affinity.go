package cluster

import (
	"math"
	"sort"
)

const (
	// apDamping smooths responsibility/availability updates between
	// iterations to avoid oscillation.
	apDamping = 0.5

	// apMaxIterations bounds the message-passing loop.
	apMaxIterations = 200

	// apConvergenceWindow is how many consecutive iterations the exemplar
	// set must stay unchanged before the loop stops early.
	apConvergenceWindow = 15
)

// apConfig holds affinity propagation parameters.
type apConfig struct {
	preference    float64
	hasPreference bool
}

// APOption configures AffinityPropagation.
type APOption func(*apConfig)

// WithPreference sets the self-similarity (preference) for every point.
// More negative values yield fewer clusters. When unset, the median
// pairwise similarity is used.
func WithPreference(p float64) APOption {
	return func(c *apConfig) {
		c.preference = p
		c.hasPreference = true
	}
}

// AffinityPropagation clusters vectors by message passing over negative
// squared euclidean similarities, discovering the cluster count and one
// exemplar vector per cluster. Returns per-point labels in [0, clusters)
// and the exemplar vectors in label order.
func AffinityPropagation(vectors [][]float32, opts ...APOption) ([]int, [][]float32, error) {
	if err := checkVectors(vectors); err != nil {
		return nil, nil, err
	}

	var cfg apConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(vectors)
	if n == 1 {
		return []int{0}, [][]float32{append([]float32(nil), vectors[0]...)}, nil
	}

	// Similarity matrix: s(i,k) = -||xi - xk||^2, diagonal set to the
	// preference.
	sim := make([][]float64, n)
	var offDiag []float64
	for i := range sim {
		sim[i] = make([]float64, n)
		for k := range sim[i] {
			if i == k {
				continue
			}
			sim[i][k] = -squaredDistance(vectors[i], vectors[k])
			if i < k {
				offDiag = append(offDiag, sim[i][k])
			}
		}
	}
	// Degenerate geometry: when every pairwise similarity is identical
	// (e.g. all points coincide) the messages carry no information to
	// break the symmetry. Collapse to a single cluster.
	if allEqual(offDiag) {
		labels := make([]int, n)
		return labels, [][]float32{append([]float32(nil), vectors[0]...)}, nil
	}

	pref := cfg.preference
	if !cfg.hasPreference {
		pref = median(offDiag)
	}
	for i := range sim {
		sim[i][i] = pref
	}

	resp := make([][]float64, n)
	avail := make([][]float64, n)
	for i := 0; i < n; i++ {
		resp[i] = make([]float64, n)
		avail[i] = make([]float64, n)
	}

	var lastExemplars []int
	stable := 0
	for iter := 0; iter < apMaxIterations; iter++ {
		updateResponsibilities(sim, avail, resp)
		updateAvailabilities(resp, avail)

		exemplars := currentExemplars(resp, avail)
		if equalInts(exemplars, lastExemplars) {
			stable++
			if stable >= apConvergenceWindow {
				break
			}
		} else {
			stable = 0
			lastExemplars = exemplars
		}
	}

	exemplars := currentExemplars(resp, avail)
	if len(exemplars) == 0 {
		// Degenerate run (all evidence negative): fall back to a single
		// cluster around the point with the strongest self-evidence.
		best, bestEv := 0, math.Inf(-1)
		for i := 0; i < n; i++ {
			if ev := resp[i][i] + avail[i][i]; ev > bestEv {
				bestEv = ev
				best = i
			}
		}
		exemplars = []int{best}
	}

	// Assign every point to its most similar exemplar; exemplars map to
	// themselves.
	exemplarIndex := make(map[int]int, len(exemplars))
	for label, e := range exemplars {
		exemplarIndex[e] = label
	}
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		if label, ok := exemplarIndex[i]; ok {
			labels[i] = label
			continue
		}
		best, bestSim := exemplars[0], math.Inf(-1)
		for _, e := range exemplars {
			if sim[i][e] > bestSim {
				bestSim = sim[i][e]
				best = e
			}
		}
		labels[i] = exemplarIndex[best]
	}

	centers := make([][]float32, len(exemplars))
	for label, e := range exemplars {
		centers[label] = append([]float32(nil), vectors[e]...)
	}
	return labels, centers, nil
}

// updateResponsibilities computes r(i,k) = s(i,k) - max_{k'!=k}(a(i,k') + s(i,k'))
// with damping against the previous values.
func updateResponsibilities(sim, avail, resp [][]float64) {
	n := len(sim)
	for i := 0; i < n; i++ {
		// Track the largest and second-largest a+s over k so each k can
		// exclude itself in O(1).
		max1, max2 := math.Inf(-1), math.Inf(-1)
		argmax := -1
		for k := 0; k < n; k++ {
			v := avail[i][k] + sim[i][k]
			if v > max1 {
				max2 = max1
				max1 = v
				argmax = k
			} else if v > max2 {
				max2 = v
			}
		}
		for k := 0; k < n; k++ {
			competing := max1
			if k == argmax {
				competing = max2
			}
			newVal := sim[i][k] - competing
			resp[i][k] = apDamping*resp[i][k] + (1-apDamping)*newVal
		}
	}
}

// updateAvailabilities computes
// a(i,k) = min(0, r(k,k) + sum_{i'∉{i,k}} max(0, r(i',k))) for i != k and
// a(k,k) = sum_{i'!=k} max(0, r(i',k)), with damping.
func updateAvailabilities(resp, avail [][]float64) {
	n := len(resp)
	for k := 0; k < n; k++ {
		var posSum float64
		for i := 0; i < n; i++ {
			if i != k && resp[i][k] > 0 {
				posSum += resp[i][k]
			}
		}
		for i := 0; i < n; i++ {
			var newVal float64
			if i == k {
				newVal = posSum
			} else {
				v := resp[k][k] + posSum
				if resp[i][k] > 0 {
					v -= resp[i][k]
				}
				newVal = math.Min(0, v)
			}
			avail[i][k] = apDamping*avail[i][k] + (1-apDamping)*newVal
		}
	}
}

// currentExemplars returns the sorted indices whose combined evidence
// r(k,k)+a(k,k) is positive.
func currentExemplars(resp, avail [][]float64) []int {
	var exemplars []int
	for k := range resp {
		if resp[k][k]+avail[k][k] > 0 {
			exemplars = append(exemplars, k)
		}
	}
	return exemplars
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
