package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/cache"
	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/schemas"
	schemafiles "github.com/jonathan/ats-tailor/schemas"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract a weighted JobProfile from a job posting",
	Long:  "Analyzes a job description file or posting URL with the configured LLM and writes a JobProfile JSON with per-section keyword weights.",
	RunE:  runAnalyze,
}

var (
	analyzeJob     string
	analyzeJobURL  string
	analyzeOutput  string
	analyzeBrowser bool
	analyzeVerbose bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to a job description text file")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL of a job posting")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to output JobProfile JSON file (required)")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render JavaScript-heavy postings with headless Chrome")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a summary of the extracted profile")

	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	analyzeCmd.MarkFlagsOneRequired("job", "job-url")
	if err := analyzeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

// newAnalyzer builds the Gemini-backed analyzer, with the Redis cache when redis.addr is set.
// The returned cleanup closes both clients.
func newAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*analysis.Analyzer, func(), error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY (llm.api_key) is required for job analysis")
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig().WithOverrides(cfg.LLM.Models), cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = client.Close() }}

	opts := []analysis.Option{analysis.WithLogger(logger), analysis.WithTier(llm.ModelTier(cfg.LLM.Tier))}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("analysis cache unavailable, continuing without it", zap.Error(err))
		} else {
			opts = append(opts, analysis.WithCache(rc))
			closers = append(closers, func() { _ = rc.Close() })
		}
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return analysis.NewAnalyzer(client, opts...), cleanup, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := cmd.Context()

	var description string
	if analyzeJobURL != "" {
		opts := fetch.DefaultOptions()
		opts.UseBrowser = analyzeBrowser
		posting, err := fetch.FetchPosting(ctx, analyzeJobURL, opts, logger)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		description = posting.Description
	} else {
		description, err = ingestion.ReadFile(analyzeJob)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("job description is empty")
	}

	analyzer, cleanup, err := newAnalyzer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	profile, err := analyzer.Analyze(ctx, description)
	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}

	if err := schemas.ValidateValue(schemafiles.JobProfile, profile); err != nil {
		return fmt.Errorf("generated job profile is invalid: %w", err)
	}
	if err := writeJSON(analyzeOutput, profile); err != nil {
		return err
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintJobProfile(profile)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed job posting to %s\n", analyzeOutput)
	return nil
}
