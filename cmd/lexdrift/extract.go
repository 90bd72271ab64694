package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lexdrift/lexdrift/internal/change"
	"github.com/lexdrift/lexdrift/internal/corpus"
	"github.com/lexdrift/lexdrift/internal/embedding"
	"github.com/lexdrift/lexdrift/internal/wordvec"
	"github.com/spf13/cobra"
)

var (
	extractT1Path    string
	extractT2Path    string
	extractWordsPath string
	extractOutPath   string
	extractModel     string
	extractURL       string
	extractDims      int
	extractRPS       float64
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractT1Path, "t1", "", "Earlier time-slice corpus (one sentence per line, .gz supported)")
	extractCmd.Flags().StringVar(&extractT2Path, "t2", "", "Later time-slice corpus (one sentence per line, .gz supported)")
	extractCmd.Flags().StringVar(&extractWordsPath, "words", "", "Target word list (one word per line, POS suffixes like _nn allowed)")
	extractCmd.Flags().StringVar(&extractOutPath, "out", "", "Output embeddings store path")
	extractCmd.Flags().StringVar(&extractModel, "model", embedding.DefaultModel, "Embedding model name")
	extractCmd.Flags().StringVar(&extractURL, "url", "", "Embedding endpoint URL (default $LEXDRIFT_OLLAMA_URL or localhost)")
	extractCmd.Flags().IntVar(&extractDims, "dimensions", embedding.DefaultDimensions, "Expected embedding dimensions")
	extractCmd.Flags().Float64Var(&extractRPS, "rps", embedding.DefaultRequestsPerSecond, "Embedding requests per second")

	extractCmd.MarkFlagRequired("t1")
	extractCmd.MarkFlagRequired("t2")
	extractCmd.MarkFlagRequired("words")
	extractCmd.MarkFlagRequired("out")
}

// ExtractResult is the response for the extract command.
type ExtractResult struct {
	Status          string  `json:"status"`
	Words           int     `json:"words"`
	T1Occurrences   int     `json:"t1_occurrences"`
	T2Occurrences   int     `json:"t2_occurrences"`
	Model           string  `json:"model"`
	Out             string  `json:"out"`
	DurationSeconds float64 `json:"duration_seconds"`
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build the bulk embeddings store from two time-sliced corpora",
	Long: `Scan both corpora for whole-word occurrences of each target word and
embed every matching sentence through the configured embedding endpoint.

The resulting store maps each word to its per-slice embedding vectors and
source sentences, and is the input to 'lexdrift analyze'. Endpoint
settings may come from a .env file (LEXDRIFT_OLLAMA_URL).`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// .env holds endpoint settings in development; absence is fine.
	godotenv.Load()
	baseURL := extractURL
	if baseURL == "" {
		baseURL = os.Getenv("LEXDRIFT_OLLAMA_URL")
	}

	opts := []embedding.OllamaOption{
		embedding.WithModel(extractModel),
		embedding.WithDimensions(extractDims),
	}
	if baseURL != "" {
		opts = append(opts, embedding.WithBaseURL(baseURL))
	}
	provider := embedding.NewOllamaProvider(opts...)

	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitModelNotFound, "embedding endpoint not available: %v", err)
	}

	words, err := corpus.ReadWordList(extractWordsPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	t1Sentences, err := corpus.ReadSentences(extractT1Path)
	if err != nil {
		exitWithError(ExitDataError, "t1 corpus: %v", err)
	}
	t2Sentences, err := corpus.ReadSentences(extractT2Path)
	if err != nil {
		exitWithError(ExitDataError, "t2 corpus: %v", err)
	}

	batcher := embedding.NewBatcher(provider, extractRPS)
	store := wordvec.NewStore(provider.ModelName(), provider.Dimensions())

	start := time.Now()
	var total1, total2 int
	for i, word := range words {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(words), word)
		}

		data, n1, n2, err := extractWord(ctx, batcher, word, t1Sentences, t2Sentences)
		if err != nil {
			exitWithError(ExitError, "extracting %q: %v", word, err)
		}
		if err := store.AddWord(word, data); err != nil {
			exitWithError(ExitError, "storing %q: %v", word, err)
		}
		total1 += n1
		total2 += n2

		// Save after every word so a long extraction can resume review
		// from a usable partial store.
		if err := store.Save(extractOutPath); err != nil {
			exitWithError(ExitError, "saving store: %v", err)
		}
	}

	result := ExtractResult{
		Status:          "ok",
		Words:           len(words),
		T1Occurrences:   total1,
		T2Occurrences:   total2,
		Model:           provider.ModelName(),
		Out:             extractOutPath,
		DurationSeconds: time.Since(start).Seconds(),
	}
	if humanOutput {
		fmt.Printf("Embedded %d words (%d t1 + %d t2 occurrences) into %s in %.1fs\n",
			result.Words, result.T1Occurrences, result.T2Occurrences, result.Out, result.DurationSeconds)
		return nil
	}
	return outputJSON(result)
}

// extractWord embeds every whole-word occurrence of word in both corpora.
func extractWord(ctx context.Context, batcher *embedding.Batcher, word string, t1, t2 []string) (wordvec.WordData, int, int, error) {
	base := change.BaseWord(word)

	hits1, err := corpus.FindOccurrences(t1, base)
	if err != nil {
		return wordvec.WordData{}, 0, 0, err
	}
	hits2, err := corpus.FindOccurrences(t2, base)
	if err != nil {
		return wordvec.WordData{}, 0, 0, err
	}

	var progress func(done, total int)
	if humanOutput {
		progress = printProgress
	}

	vecs1, err := batcher.EmbedAll(ctx, hits1, progress)
	if err != nil {
		return wordvec.WordData{}, 0, 0, fmt.Errorf("t1: %w", err)
	}
	vecs2, err := batcher.EmbedAll(ctx, hits2, progress)
	if err != nil {
		return wordvec.WordData{}, 0, 0, fmt.Errorf("t2: %w", err)
	}

	data := wordvec.WordData{
		T1: wordvec.SliceData{Vectors: vecs1, Sentences: hits1},
		T2: wordvec.SliceData{Vectors: vecs2, Sentences: hits2},
	}
	return data, len(hits1), len(hits2), nil
}
