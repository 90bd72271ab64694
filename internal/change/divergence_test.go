package change

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func TestJensenShannonDivergence(t *testing.T) {
	tests := []struct {
		name     string
		p, q     []float64
		expected float64
	}{
		{
			name:     "identical distributions",
			p:        []float64{0.5, 0.3, 0.2},
			q:        []float64{0.5, 0.3, 0.2},
			expected: 0,
		},
		{
			name:     "disjoint distributions",
			p:        []float64{1, 0},
			q:        []float64{0, 1},
			expected: math.Ln2,
		},
		{
			name:     "raw counts normalized internally",
			p:        []float64{10, 0},
			q:        []float64{0, 40},
			expected: math.Ln2,
		},
		{
			name:     "identical counts at different scale",
			p:        []float64{2, 2, 4},
			q:        []float64{5, 5, 10},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JensenShannonDivergence(tt.p, tt.q)
			if math.Abs(got-tt.expected) > floatTolerance {
				t.Errorf("JSD = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJensenShannonDivergenceSymmetry(t *testing.T) {
	pairs := [][2][]float64{
		{{0.7, 0.2, 0.1}, {0.1, 0.1, 0.8}},
		{{1, 2, 3, 4}, {4, 3, 2, 1}},
		{{5, 0, 5}, {0, 10, 0}},
	}
	for _, pair := range pairs {
		pq := JensenShannonDivergence(pair[0], pair[1])
		qp := JensenShannonDivergence(pair[1], pair[0])
		if math.Abs(pq-qp) > floatTolerance {
			t.Errorf("JSD(p,q) = %v but JSD(q,p) = %v", pq, qp)
		}
	}
}

func TestJensenShannonDivergenceBounds(t *testing.T) {
	// Natural log JSD is bounded by [0, ln 2] for any pair of
	// distributions, including ones with zero entries.
	pairs := [][2][]float64{
		{{0.9, 0.1}, {0.1, 0.9}},
		{{1, 0, 0}, {0, 0, 1}},
		{{0.25, 0.25, 0.25, 0.25}, {0.4, 0.3, 0.2, 0.1}},
		{{3, 1, 0, 7}, {0, 2, 9, 1}},
	}
	for _, pair := range pairs {
		jsd := JensenShannonDivergence(pair[0], pair[1])
		if jsd < 0 || jsd > math.Ln2+floatTolerance {
			t.Errorf("JSD(%v, %v) = %v outside [0, ln 2]", pair[0], pair[1], jsd)
		}
		if math.IsNaN(jsd) || math.IsInf(jsd, 0) {
			t.Errorf("JSD(%v, %v) is not finite: %v", pair[0], pair[1], jsd)
		}
	}
}

func TestDivergenceFromLabels(t *testing.T) {
	tests := []struct {
		name             string
		labels1, labels2 []int
		expected         float64
	}{
		{
			name:     "same usage",
			labels1:  []int{0, 0, 1, 1},
			labels2:  []int{0, 0, 1, 1},
			expected: 0,
		},
		{
			name:     "fully shifted usage",
			labels1:  []int{0, 0, 0},
			labels2:  []int{1, 1, 1},
			expected: math.Ln2,
		},
		{
			name:     "label absent from one slice is zero filled",
			labels1:  []int{0, 1},
			labels2:  []int{0, 1, 2, 2},
			expected: JensenShannonDivergence([]float64{1, 1, 0}, []float64{1, 1, 2}),
		},
		{
			name:     "noise label participates like any other",
			labels1:  []int{-1, 0},
			labels2:  []int{-1, 0},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DivergenceFromLabels(tt.labels1, tt.labels2)
			if math.Abs(got-tt.expected) > floatTolerance {
				t.Errorf("divergence = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDistinctLabels(t *testing.T) {
	if got := DistinctLabels([]int{0, 1, 1, 2, 0}); got != 3 {
		t.Errorf("DistinctLabels = %d, want 3", got)
	}
	if got := DistinctLabels(nil); got != 0 {
		t.Errorf("DistinctLabels(nil) = %d, want 0", got)
	}
}
