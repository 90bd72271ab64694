package main

import (
	"github.com/lexdrift/lexdrift/internal/config"
	"github.com/lexdrift/lexdrift/internal/results"
	"github.com/spf13/cobra"
)

var (
	resultsLanguage string
	resultsDir      string
	resultsLimit    int
)

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().StringVar(&resultsLanguage, "language", config.DefaultLanguage, "Target language of the run to inspect")
	resultsCmd.Flags().StringVar(&resultsDir, "results-dir", config.DefaultResultsDir, "Results directory of the run")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "Maximum rows to show (0 for all)")
}

// ResultsResponse is the response for the results command.
type ResultsResponse struct {
	Language string        `json:"language"`
	Rows     []results.Row `json:"rows"`
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show ranked semantic-change scores from a finished or running analysis",
	RunE:  runResults,
}

func runResults(cmd *cobra.Command, args []string) error {
	db, err := results.OpenDB(results.ScoresDBPath(resultsDir, resultsLanguage))
	if err != nil {
		exitWithError(ExitDataError, "opening scores database: %v", err)
	}
	defer db.Close()

	rows, err := db.TopRows(resultsLimit)
	if err != nil {
		exitWithError(ExitError, "reading scores: %v", err)
	}

	if humanOutput {
		printRowsHuman(rows)
		return nil
	}
	return outputJSON(ResultsResponse{Language: resultsLanguage, Rows: rows})
}
