// Package change measures semantic change for target words between two
// time slices: it filters and pools contextual embeddings, clusters the
// pooled set into sense clusters, and scores the shift in cluster usage
// with Jensen-Shannon divergence.
package change

// Time-slice tags. Slice t1 is the earlier corpus, t2 the later one.
const (
	SliceT1 = "t1"
	SliceT2 = "t2"
)

// Strategy names used to key scores, labels, and centroids.
const (
	StrategyAffProp = "aff_prop"
	StrategyKMeans5 = "kmeans_5"
	StrategyKMeans7 = "kmeans_7"
	StrategyDBSCAN  = "dbscan"
)

// Occurrence is one contextual usage of a target word: its embedding
// vector and the sentence it was extracted from. Immutable once produced
// by the extraction step.
type Occurrence struct {
	Vector   []float32
	Sentence string
}

// WordRecord holds the occurrences of one target word in both time
// slices, in extraction order.
type WordRecord struct {
	T1 []Occurrence
	T2 []Occurrence
}

// PooledSet is the concatenation of the surviving t1 occurrences followed
// by the surviving t2 occurrences. Split is the count of t1 occurrences;
// labels[:Split] belong to t1 and labels[Split:] to t2 for every
// clustering strategy run on the set.
type PooledSet struct {
	Vectors [][]float32
	Split   int
}

// T1Count returns the number of slice-1 vectors in the pool.
func (p PooledSet) T1Count() int { return p.Split }

// T2Count returns the number of slice-2 vectors in the pool.
func (p PooledSet) T2Count() int { return len(p.Vectors) - p.Split }

// SplitLabels divides a pooled label list at the split index.
func (p PooledSet) SplitLabels(labels []int) (t1, t2 []int) {
	return labels[:p.Split], labels[p.Split:]
}

// SliceLabels holds one strategy's cluster labels divided by time slice.
type SliceLabels struct {
	T1 []int
	T2 []int
}

// SliceSentences holds the surviving source sentences per time slice,
// parallel to the pooled vectors.
type SliceSentences struct {
	T1 []string
	T2 []string
}

// WordResult is the full analysis output for one word.
type WordResult struct {
	Word string

	// Divergences maps strategy name to the Jensen-Shannon divergence
	// between the word's t1 and t2 cluster-usage distributions.
	Divergences map[string]float64

	// Averaging is the cosine distance between the two slice centroids.
	Averaging float64

	// AffPropClusters is the cluster count discovered by affinity
	// propagation, the one strategy whose count is a meaningful output.
	AffPropClusters int

	// Labels and Centroids are keyed by strategy name. DBSCAN produces
	// labels but no centroids.
	Labels    map[string]SliceLabels
	Centroids map[string][][]float32

	// Sentences are the filtered (and, when enabled, deduped) source
	// sentences that survived into the pooled set.
	Sentences SliceSentences

	// ZeroDropped counts occurrences excluded for having all-zero
	// vectors, on which cosine math is undefined.
	ZeroDropped int
}
