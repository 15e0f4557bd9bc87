package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/observability"
)

var batchCmd = &cobra.Command{
	Use:   "batch --job-profile <file> <resume>...",
	Short: "Score several resumes against one job profile",
	Long:  "Scores every resume argument concurrently against the same JobProfile and prints one summary row per resume.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

var (
	batchJobProfile  string
	batchExclude     []string
	batchConcurrency int
	batchFormat      string
)

func init() {
	batchCmd.Flags().StringVarP(&batchJobProfile, "job-profile", "j", "", "Path to the JobProfile JSON or TOML file (required)")
	batchCmd.Flags().StringArrayVarP(&batchExclude, "exclude", "x", nil, "Keyword to leave out of scoring (repeatable, exact match)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", ats.DefaultBatchConcurrency, "Resumes scored in parallel")
	batchCmd.Flags().StringVar(&batchFormat, "format", "table", "Output format: table or json")

	if err := batchCmd.MarkFlagRequired("job-profile"); err != nil {
		panic(fmt.Sprintf("failed to mark job-profile flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(batchFormat); err != nil {
		return err
	}
	profile, err := loadJobProfile(batchJobProfile)
	if err != nil {
		return err
	}

	docs := make([]ats.Document, 0, len(args))
	for _, path := range args {
		text, err := ingestion.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, ats.Document{ID: filepath.Base(path), Text: text})
	}

	results, err := ats.ScoreBatch(cmd.Context(), docs, profile, batchExclude, batchConcurrency)
	if err != nil {
		return fmt.Errorf("batch scoring interrupted: %w", err)
	}

	if batchFormat == "json" {
		out := make(map[string]any, len(results))
		for _, r := range results {
			out[r.ID] = r.Score
		}
		return printJSON(out)
	}
	return observability.NewPrinter(os.Stdout).PrintBatch(results)
}
