package change

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// occurrences builds n occurrences with the given base vector, jittering
// the first dimension so points are distinct but tightly clustered.
func occurrences(n int, base []float32, sentenceFormat string) []Occurrence {
	occs := make([]Occurrence, n)
	for i := 0; i < n; i++ {
		v := append([]float32(nil), base...)
		v[0] += float32(i) * 0.01
		occs[i] = Occurrence{
			Vector:   v,
			Sentence: fmt.Sprintf(sentenceFormat, i),
		}
	}
	return occs
}

func TestAnalyzeWordShiftedUsage(t *testing.T) {
	// Two visibly different embedding regions: t1 tight around (1,0,0,0),
	// t2 tight around (0,30,0,0). The cluster-usage distributions are
	// disjoint, so divergence should approach ln 2.
	rec := WordRecord{
		T1: occurrences(10, []float32{1, 0, 0, 0}, "the plane landed %d"),
		T2: occurrences(10, []float32{0, 30, 0, 0}, "a plane of existence %d"),
	}

	res, err := NewAnalyzer().AnalyzeWord("plane_nn", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}

	if res.AffPropClusters != 2 {
		t.Errorf("AffPropClusters = %d, want 2", res.AffPropClusters)
	}
	if jsd := res.Divergences[StrategyAffProp]; jsd <= 0.5 {
		t.Errorf("aff_prop divergence = %v, want > 0.5", jsd)
	}
	// The two slices are orthogonal in direction, so the averaged
	// embedding distance is close to 1.
	if math.Abs(res.Averaging-1) > 0.05 {
		t.Errorf("averaging distance = %v, want ~1", res.Averaging)
	}

	// Split invariant: every strategy's labels divide exactly at the
	// slice boundary.
	for strategy, labels := range res.Labels {
		if len(labels.T1) != 10 {
			t.Errorf("%s: len(T1 labels) = %d, want 10", strategy, len(labels.T1))
		}
		if len(labels.T2) != 10 {
			t.Errorf("%s: len(T2 labels) = %d, want 10", strategy, len(labels.T2))
		}
	}
}

func TestAnalyzeWordStableUsage(t *testing.T) {
	// Identical embeddings in both slices: no measurable change anywhere.
	occ := Occurrence{Vector: []float32{1, 2, 3, 4}, Sentence: "the plane landed"}
	rec := WordRecord{
		T1: []Occurrence{occ, occ, occ, occ, occ},
		T2: []Occurrence{occ, occ, occ, occ, occ},
	}

	res, err := NewAnalyzer().AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}

	if res.Averaging > 1e-9 {
		t.Errorf("averaging distance = %v, want 0", res.Averaging)
	}
	for strategy, jsd := range res.Divergences {
		if jsd > 1e-9 {
			t.Errorf("%s divergence = %v, want 0", strategy, jsd)
		}
	}
}

func TestAnalyzeWordWholeWordFilter(t *testing.T) {
	// "airplane" must not count as an occurrence of "plane".
	t1 := occurrences(5, []float32{1, 0, 0, 0}, "a plane flew %d")
	t1 = append(t1, Occurrence{Vector: []float32{1, 0, 0, 0}, Sentence: "airplane noise"})
	rec := WordRecord{
		T1: t1,
		T2: occurrences(5, []float32{1, 0, 0, 0}, "the plane landed %d"),
	}

	res, err := NewAnalyzer().AnalyzeWord("plane_nn", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}

	if len(res.Sentences.T1) != 5 {
		t.Errorf("t1 sentences = %d, want 5 (airplane excluded)", len(res.Sentences.T1))
	}
	for _, s := range res.Sentences.T1 {
		if s == "airplane noise" {
			t.Error("airplane sentence survived the whole-word filter")
		}
	}
	if labels := res.Labels[StrategyAffProp]; len(labels.T1) != 5 {
		t.Errorf("t1 labels = %d, want 5", len(labels.T1))
	}
}

func TestAnalyzeWordNonASCIIWord(t *testing.T) {
	// Whole-word matching must treat non-ASCII letters as word characters:
	// "må" occurs in "hon kommer att må bra" but not inside "målet".
	base := []float32{1, 0, 0, 0}
	t1 := occurrences(5, base, "hon kommer att må bra %d")
	t1 = append(t1, Occurrence{Vector: base, Sentence: "han sprang mot målet"})
	rec := WordRecord{
		T1: t1,
		T2: occurrences(5, base, "de ska må bättre %d"),
	}

	res, err := NewAnalyzer().AnalyzeWord("må", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if len(res.Sentences.T1) != 5 {
		t.Errorf("t1 sentences = %d, want 5 (målet excluded)", len(res.Sentences.T1))
	}
	for _, s := range res.Sentences.T1 {
		if s == "han sprang mot målet" {
			t.Error("målet sentence survived the whole-word filter")
		}
	}
	if len(res.Sentences.T2) != 5 {
		t.Errorf("t2 sentences = %d, want 5", len(res.Sentences.T2))
	}
}

func TestAnalyzeWordDedupe(t *testing.T) {
	base := []float32{1, 0, 0, 0}
	t1 := []Occurrence{
		{Vector: base, Sentence: "the plane landed"},
		// Same sentence, divergent vector: must be dropped as a later
		// duplicate when dedupe is on.
		{Vector: []float32{0, 5, 0, 0}, Sentence: "the plane landed"},
		{Vector: base, Sentence: "a plane taxied"},
		{Vector: base, Sentence: "one plane waited"},
		{Vector: base, Sentence: "that plane departed"},
	}
	rec := WordRecord{
		T1: t1,
		T2: occurrences(5, base, "some plane appeared %d"),
	}

	res, err := NewAnalyzer(WithOneEmbeddingPerSentence(true)).AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}

	if len(res.Sentences.T1) != 4 {
		t.Errorf("t1 sentences = %d, want 4 after dedupe", len(res.Sentences.T1))
	}
	dupes := 0
	for _, s := range res.Sentences.T1 {
		if s == "the plane landed" {
			dupes++
		}
	}
	if dupes != 1 {
		t.Errorf("duplicate sentence appears %d times, want 1", dupes)
	}
	// The first occurrence's vector was kept: all surviving vectors point
	// the same way, so the averaged distance stays ~0.
	if res.Averaging > 1e-6 {
		t.Errorf("averaging distance = %v, want ~0 (first duplicate retained)", res.Averaging)
	}
}

func TestAnalyzeWordDedupeOffKeepsDuplicates(t *testing.T) {
	occ := Occurrence{Vector: []float32{1, 0, 0, 0}, Sentence: "the plane landed"}
	rec := WordRecord{
		T1: []Occurrence{occ, occ, occ, occ, occ},
		T2: []Occurrence{occ, occ, occ, occ, occ},
	}

	res, err := NewAnalyzer().AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if len(res.Sentences.T1) != 5 {
		t.Errorf("t1 sentences = %d, want 5 with dedupe off", len(res.Sentences.T1))
	}
}

func TestAnalyzeWordDedupeAfterZeroVectorSameSentence(t *testing.T) {
	base := []float32{1, 0, 0, 0}
	t1 := []Occurrence{
		// A zero-vector occurrence must not mark its sentence as seen;
		// the valid duplicate that follows still survives.
		{Vector: []float32{0, 0, 0, 0}, Sentence: "the plane landed"},
		{Vector: base, Sentence: "the plane landed"},
		{Vector: base, Sentence: "a plane taxied"},
		{Vector: base, Sentence: "one plane waited"},
	}
	rec := WordRecord{
		T1: t1,
		T2: occurrences(5, base, "some plane appeared %d"),
	}

	res, err := NewAnalyzer(WithOneEmbeddingPerSentence(true)).AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if res.ZeroDropped != 1 {
		t.Errorf("ZeroDropped = %d, want 1", res.ZeroDropped)
	}
	if len(res.Sentences.T1) != 3 {
		t.Errorf("t1 sentences = %d, want 3 (valid duplicate kept)", len(res.Sentences.T1))
	}
	found := false
	for _, s := range res.Sentences.T1 {
		if s == "the plane landed" {
			found = true
		}
	}
	if !found {
		t.Error("valid duplicate of the zero-vector sentence was dropped")
	}
}

func TestAnalyzeWordEmptySlice(t *testing.T) {
	rec := WordRecord{
		T1: occurrences(5, []float32{1, 0, 0, 0}, "the plane landed %d"),
		T2: []Occurrence{
			{Vector: []float32{1, 0, 0, 0}, Sentence: "airplane noise"},
		},
	}

	_, err := NewAnalyzer().AnalyzeWord("plane", rec)
	if !errors.Is(err, ErrEmptySlice) {
		t.Fatalf("error = %v, want ErrEmptySlice", err)
	}
}

func TestAnalyzeWordDropsZeroVectors(t *testing.T) {
	t1 := occurrences(5, []float32{1, 0, 0, 0}, "the plane landed %d")
	t1 = append(t1, Occurrence{Vector: []float32{0, 0, 0, 0}, Sentence: "a plane with no signal"})
	rec := WordRecord{
		T1: t1,
		T2: occurrences(5, []float32{1, 0, 0, 0}, "a plane flew %d"),
	}

	res, err := NewAnalyzer().AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if res.ZeroDropped != 1 {
		t.Errorf("ZeroDropped = %d, want 1", res.ZeroDropped)
	}
	if len(res.Sentences.T1) != 5 {
		t.Errorf("t1 sentences = %d, want 5 (zero vector excluded)", len(res.Sentences.T1))
	}
}

func TestAnalyzeWordDBSCANOptional(t *testing.T) {
	rec := WordRecord{
		T1: occurrences(10, []float32{1, 0, 0, 0}, "the plane landed %d"),
		T2: occurrences(10, []float32{0, 30, 0, 0}, "a plane of existence %d"),
	}

	res, err := NewAnalyzer(WithDBSCAN(true)).AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if _, ok := res.Labels[StrategyDBSCAN]; !ok {
		t.Error("dbscan labels missing with WithDBSCAN(true)")
	}
	if _, ok := res.Centroids[StrategyDBSCAN]; ok {
		t.Error("dbscan must not produce centroids")
	}

	res, err = NewAnalyzer().AnalyzeWord("plane", rec)
	if err != nil {
		t.Fatalf("AnalyzeWord: %v", err)
	}
	if _, ok := res.Labels[StrategyDBSCAN]; ok {
		t.Error("dbscan labels present without WithDBSCAN")
	}
}

func TestBaseWord(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plane_nn", "plane"},
		{"walk_vb", "walk"},
		{"plane", "plane"},
	}
	for _, tt := range tests {
		if got := BaseWord(tt.in); got != tt.want {
			t.Errorf("BaseWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
