package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lexdrift/lexdrift/internal/change"
	"github.com/lexdrift/lexdrift/internal/config"
	"github.com/lexdrift/lexdrift/internal/results"
	"github.com/lexdrift/lexdrift/internal/wordvec"
	"github.com/spf13/cobra"
)

var (
	analyzeConfigPath string
	analyzeLanguage   string
	analyzeEmbeddings string
	analyzeResultsDir string
	analyzeOnePerSent bool
	analyzePreference float64
	analyzeDBSCAN     bool
	analyzeVerbose    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "YAML config file (flags override it)")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "Target language (english, latin, swedish, german)")
	analyzeCmd.Flags().StringVar(&analyzeEmbeddings, "embeddings", "", "Path to the bulk embeddings store (.gob, or .json from an external extractor)")
	analyzeCmd.Flags().StringVar(&analyzeResultsDir, "results-dir", "", "Output directory for result artifacts")
	analyzeCmd.Flags().BoolVar(&analyzeOnePerSent, "one-embedding-per-sentence", false, "Keep only the first occurrence per distinct sentence in a slice")
	analyzeCmd.Flags().Float64Var(&analyzePreference, "preference", change.DefaultPreference, "Affinity propagation preference (more negative = fewer clusters)")
	analyzeCmd.Flags().BoolVar(&analyzeDBSCAN, "dbscan", false, "Also run the diagnostic density-based strategy")
	analyzeCmd.Flags().BoolVar(&analyzeVerbose, "verbose", false, "Print per-word diagnostics to stderr")
}

// AnalyzeResult is the response for the analyze command.
type AnalyzeResult struct {
	Status     string                `json:"status"`
	Language   string                `json:"language"`
	Processed  int                   `json:"processed"`
	Skipped    int                   `json:"skipped"`
	ScoreTable string                `json:"score_table"`
	TopWords   []results.Row         `json:"top_words,omitempty"`
	SkipLog    []results.SkippedWord `json:"skip_log,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score semantic change for every word in the embeddings store",
	Long: `Run the full analysis: for each target word, filter occurrences to
whole-word sentence matches, pool both time slices, cluster the pooled
embeddings (affinity propagation, k-means k=5 and k=7), and score the
usage shift with Jensen-Shannon divergence.

Output artifacts are rewritten after every word, so an interrupted run
leaves a complete, correctly sorted snapshot up to the last word.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := loadAnalyzeConfig(cmd)
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	store, err := loadStore(cfg.EmbeddingsPath)
	if err != nil {
		exitWithError(ExitDataError, "loading embeddings: %v", err)
	}

	agg, err := results.NewAggregator(cfg.ResultsDir, cfg.Language)
	if err != nil {
		exitWithError(ExitError, "preparing results directory: %v", err)
	}
	defer agg.Close()

	opts := []change.Option{
		change.WithOneEmbeddingPerSentence(cfg.OneEmbeddingPerSentence),
		change.WithDBSCAN(cfg.RunDBSCAN),
	}
	if cfg.PreferenceSet {
		opts = append(opts, change.WithPreference(cfg.Preference))
	}
	if analyzeVerbose {
		opts = append(opts, change.WithVerbose(os.Stderr))
	}
	analyzer := change.NewAnalyzer(opts...)

	processed := 0
	for i, word := range store.WordOrder {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(store.WordOrder), word)
		}

		data, err := store.Get(word)
		if err != nil {
			agg.RecordSkip(word, err)
			continue
		}

		res, err := analyzer.AnalyzeWord(word, toRecord(data))
		if err != nil {
			// Per-word failures never abort the run; later words still count.
			agg.RecordSkip(word, err)
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", word, err)
			continue
		}
		agg.RecordWord(res)
		processed++

		if err := agg.Flush(); err != nil {
			exitWithError(ExitError, "persisting results after %q: %v", word, err)
		}
	}

	// A run with skips but no successes still flushed nothing; make sure
	// the skip log reaches disk.
	if err := agg.Flush(); err != nil {
		exitWithError(ExitError, "persisting results: %v", err)
	}

	result := AnalyzeResult{
		Status:     "ok",
		Language:   cfg.Language,
		Processed:  processed,
		Skipped:    len(agg.Skipped()),
		ScoreTable: results.ScoreTablePath(cfg.ResultsDir, cfg.Language),
		SkipLog:    agg.Skipped(),
	}
	rows := agg.Rows()
	if len(rows) > 10 {
		rows = rows[:10]
	}
	result.TopWords = rows

	if humanOutput {
		fmt.Printf("Processed %d words (%d skipped), results in %s\n",
			result.Processed, result.Skipped, result.ScoreTable)
		printRowsHuman(result.TopWords)
		return nil
	}
	return outputJSON(result)
}

// loadAnalyzeConfig builds the effective config: file (when given), then
// flag overrides for anything the user set explicitly.
func loadAnalyzeConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Default()
	if analyzeConfigPath != "" {
		loaded, err := config.Load(analyzeConfigPath)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("language") {
		cfg.Language = analyzeLanguage
		if !cmd.Flags().Changed("embeddings") && analyzeConfigPath == "" {
			cfg.EmbeddingsPath = "embeddings_" + cfg.Language + ".gob"
		}
	}
	if cmd.Flags().Changed("embeddings") {
		cfg.EmbeddingsPath = analyzeEmbeddings
	}
	if cmd.Flags().Changed("results-dir") {
		cfg.ResultsDir = analyzeResultsDir
	}
	if cmd.Flags().Changed("one-embedding-per-sentence") {
		cfg.OneEmbeddingPerSentence = analyzeOnePerSent
	}
	if cmd.Flags().Changed("preference") {
		cfg.Preference = analyzePreference
		cfg.PreferenceSet = true
	}
	if cmd.Flags().Changed("dbscan") {
		cfg.RunDBSCAN = analyzeDBSCAN
	}
	return cfg
}

// loadStore picks the loader from the file extension: .json for external
// extractor output, native gob otherwise.
func loadStore(path string) (*wordvec.Store, error) {
	if strings.HasSuffix(path, ".json") {
		return wordvec.LoadJSON(path)
	}
	return wordvec.Load(path)
}

func toRecord(data wordvec.WordData) change.WordRecord {
	return change.WordRecord{
		T1: toOccurrences(data.T1),
		T2: toOccurrences(data.T2),
	}
}

func toOccurrences(slice wordvec.SliceData) []change.Occurrence {
	occs := make([]change.Occurrence, len(slice.Vectors))
	for i := range slice.Vectors {
		occs[i] = change.Occurrence{
			Vector:   slice.Vectors[i],
			Sentence: slice.Sentences[i],
		}
	}
	return occs
}

func printRowsHuman(rows []results.Row) {
	for i, r := range rows {
		fmt.Printf("%d. %-20s aff_prop=%.4f kmeans_5=%.4f kmeans_7=%.4f averaging=%.4f clusters=%d\n",
			i+1, r.Word, r.AffProp, r.KMeans5, r.KMeans7, r.Averaging, r.AffPropClusters)
	}
}
