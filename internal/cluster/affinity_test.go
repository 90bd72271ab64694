package cluster

import (
	"errors"
	"testing"
)

func TestAffinityPropagationTwoClusters(t *testing.T) {
	vectors := twoGroups(20)
	labels, exemplars, err := AffinityPropagation(vectors, WithPreference(-430))
	if err != nil {
		t.Fatalf("AffinityPropagation: %v", err)
	}

	if len(labels) != len(vectors) {
		t.Fatalf("labels = %d, want %d", len(labels), len(vectors))
	}
	distinct := make(map[int]struct{})
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	if len(distinct) != 2 {
		t.Errorf("clusters = %d, want 2 (labels %v)", len(distinct), labels)
	}
	if len(exemplars) != len(distinct) {
		t.Errorf("exemplars = %d, want one per cluster (%d)", len(exemplars), len(distinct))
	}

	// Group membership should be uniform within each region.
	for i := 1; i < 10; i++ {
		if labels[i] != labels[0] {
			t.Errorf("group 1 not uniform: labels = %v", labels)
			break
		}
	}
	for i := 11; i < 20; i++ {
		if labels[i] != labels[10] {
			t.Errorf("group 2 not uniform: labels = %v", labels)
			break
		}
	}
}

func TestAffinityPropagationMedianPreference(t *testing.T) {
	// Without an explicit preference the median similarity is used; the
	// run must still label every point and return matching exemplars.
	vectors := twoGroups(12)
	labels, exemplars, err := AffinityPropagation(vectors)
	if err != nil {
		t.Fatalf("AffinityPropagation: %v", err)
	}
	if len(labels) != 12 {
		t.Fatalf("labels = %d, want 12", len(labels))
	}
	distinct := make(map[int]struct{})
	for _, l := range labels {
		if l < 0 || l >= len(exemplars) {
			t.Errorf("label %d outside [0, %d)", l, len(exemplars))
		}
		distinct[l] = struct{}{}
	}
	if len(distinct) != len(exemplars) {
		t.Errorf("distinct labels = %d, exemplars = %d", len(distinct), len(exemplars))
	}
}

func TestAffinityPropagationIdenticalPoints(t *testing.T) {
	vectors := make([][]float32, 8)
	for i := range vectors {
		vectors[i] = []float32{3, 1, 4}
	}
	labels, exemplars, err := AffinityPropagation(vectors, WithPreference(-430))
	if err != nil {
		t.Fatalf("AffinityPropagation: %v", err)
	}
	for i, l := range labels {
		if l != 0 {
			t.Errorf("label[%d] = %d, want 0 (single cluster)", i, l)
		}
	}
	if len(exemplars) != 1 {
		t.Errorf("exemplars = %d, want 1", len(exemplars))
	}
}

func TestAffinityPropagationSinglePoint(t *testing.T) {
	labels, exemplars, err := AffinityPropagation([][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("AffinityPropagation: %v", err)
	}
	if len(labels) != 1 || labels[0] != 0 {
		t.Errorf("labels = %v, want [0]", labels)
	}
	if len(exemplars) != 1 {
		t.Errorf("exemplars = %d, want 1", len(exemplars))
	}
}

func TestAffinityPropagationErrors(t *testing.T) {
	if _, _, err := AffinityPropagation(nil); !errors.Is(err, ErrNoVectors) {
		t.Errorf("error = %v, want ErrNoVectors", err)
	}
	if _, _, err := AffinityPropagation([][]float32{{1, 2}, {1}}); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("error = %v, want ErrDimMismatch", err)
	}
}
