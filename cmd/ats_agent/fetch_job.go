package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/logging"
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Fetch a job posting and extract its text",
	Long:  "Downloads a job posting, extracts the title, company and description, and writes them as JSON or prints the description.",
	RunE:  runFetchJob,
}

var (
	fetchJobURL     string
	fetchJobOutput  string
	fetchJobBrowser bool
	fetchJobTimeout int
)

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchJobURL, "url", "u", "", "URL of the job posting (required)")
	fetchJobCmd.Flags().StringVarP(&fetchJobOutput, "out", "o", "", "Write the posting JSON to this file instead of printing the description")
	fetchJobCmd.Flags().BoolVar(&fetchJobBrowser, "browser", false, "Render JavaScript-heavy postings with headless Chrome")
	fetchJobCmd.Flags().IntVar(&fetchJobTimeout, "timeout", int(fetch.DefaultTimeout.Seconds()), "Request timeout in seconds")

	if err := fetchJobCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	if err := fetch.ValidateURL(fetchJobURL); err != nil {
		return err
	}
	ctx := cmd.Context()

	opts := fetch.DefaultOptions()
	opts.UseBrowser = fetchJobBrowser
	if fetchJobTimeout > 0 {
		opts.Timeout = time.Duration(fetchJobTimeout) * time.Second
	}

	logger := logging.NewNop()
	cfg, cfgErr := loadConfig()
	if cfgErr == nil {
		if l, err := newLogger(cfg); err == nil {
			logger = l
		}
	}

	posting, err := fetch.FetchPosting(ctx, fetchJobURL, opts, logger)
	if err != nil {
		return err
	}

	if cfgErr == nil && cfg.LLM.APIKey != "" && needsMetadata(posting) {
		analyzer, cleanup, err := newAnalyzer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		completeMetadata(ctx, analyzer, posting, logger)
	}

	if fetchJobOutput != "" {
		if err := writeJSON(fetchJobOutput, posting); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Fetched %q (%s) to %s\n", posting.Title, posting.Company, fetchJobOutput)
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "Title:   %s\nCompany: %s\n\n%s\n", posting.Title, posting.Company, posting.Description)
	return nil
}

func needsMetadata(posting *fetch.Posting) bool {
	return posting.Title == "" || posting.Company == ""
}

// completeMetadata asks the model for a missing title or company. On failure the scraped values are kept.
func completeMetadata(ctx context.Context, analyzer *analysis.Analyzer, posting *fetch.Posting, logger *zap.Logger) {
	if analyzer == nil || !needsMetadata(posting) {
		return
	}
	meta, err := analyzer.ExtractMetadata(ctx, posting.Description)
	if err != nil {
		logger.Warn("posting metadata extraction failed", zap.String("url", posting.URL), zap.Error(err))
		return
	}
	if posting.Title == "" {
		posting.Title = meta.Title
	}
	if posting.Company == "" {
		posting.Company = meta.Company
	}
}
