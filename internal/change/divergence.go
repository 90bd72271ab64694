package change

import (
	"math"
	"sort"
)

// JensenShannonDivergence computes the JSD between two frequency vectors
// over the same label set, using natural log: with m = (p+q)/2,
// 0.5*KL(p||m) + 0.5*KL(q||m). Inputs are normalized internally, so raw
// counts are fine. Zero-probability entries contribute nothing
// (0*log(0/x) = 0). The result lies in [0, ln 2].
func JensenShannonDivergence(p, q []float64) float64 {
	pn := normalize(p)
	qn := normalize(q)

	var jsd float64
	for i := range pn {
		m := (pn[i] + qn[i]) / 2
		jsd += klTerm(pn[i], m)/2 + klTerm(qn[i], m)/2
	}
	return jsd
}

// klTerm is one summand of KL divergence, safe at zero.
func klTerm(p, m float64) float64 {
	if p == 0 || m == 0 {
		return 0
	}
	return p * math.Log(p/m)
}

// normalize scales a non-negative frequency vector to sum to 1. A zero
// vector is returned unchanged.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

// DivergenceFromLabels builds per-slice cluster-usage histograms over the
// union of labels seen in either slice (labels absent from one slice count
// zero there) and returns their Jensen-Shannon divergence.
func DivergenceFromLabels(labels1, labels2 []int) float64 {
	counts1 := countLabels(labels1)
	counts2 := countLabels(labels2)

	union := make(map[int]struct{}, len(counts1)+len(counts2))
	for l := range counts1 {
		union[l] = struct{}{}
	}
	for l := range counts2 {
		union[l] = struct{}{}
	}
	senses := make([]int, 0, len(union))
	for l := range union {
		senses = append(senses, l)
	}
	sort.Ints(senses)

	p := make([]float64, len(senses))
	q := make([]float64, len(senses))
	for i, l := range senses {
		p[i] = float64(counts1[l])
		q[i] = float64(counts2[l])
	}
	return JensenShannonDivergence(p, q)
}

func countLabels(labels []int) map[int]int {
	counts := make(map[int]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// DistinctLabels returns the number of distinct labels in the list.
func DistinctLabels(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
