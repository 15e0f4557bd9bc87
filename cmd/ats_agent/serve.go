package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/db"
	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing ATS scoring, formatting, job analysis and saved job applications.

Scoring works without any backing services. DATABASE_URL and JWT_SECRET enable accounts and
saved jobs, GEMINI_API_KEY enables /analyze, and REDIS_ADDR caches analyses.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var analyzer *analysis.Analyzer
	deps := server.Deps{
		Logger: logger,
		Fetcher: server.PostingFetcherFunc(func(ctx context.Context, url string) (*fetch.Posting, error) {
			posting, err := fetch.FetchPosting(ctx, url, fetch.DefaultOptions(), logger)
			if err != nil {
				return nil, err
			}
			completeMetadata(ctx, analyzer, posting, logger)
			return posting, nil
		}),
	}

	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		jwtConfig, err := cfg.Auth.JWT()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
		passwordConfig, err := cfg.Auth.Password()
		if err != nil {
			return fmt.Errorf("failed to create password config: %w", err)
		}
		deps.Users = database
		deps.Applications = database
		deps.JWT = jwtConfig
		deps.Password = passwordConfig
	} else {
		logger.Warn("DATABASE_URL not set, accounts and saved jobs are disabled")
	}

	if cfg.LLM.APIKey != "" {
		a, cleanup, err := newAnalyzer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		analyzer = a
		deps.Analyzer = a
	} else {
		logger.Warn("GEMINI_API_KEY not set, /analyze is disabled")
	}

	srv, err := server.New(cfg.Server, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	logger.Info("starting API", zap.Int("port", cfg.Server.Port))
	return srv.Start(ctx)
}
