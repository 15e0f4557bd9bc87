package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/queue"
	"github.com/jonathan/ats-tailor/internal/storage"
)

var workerConcurrency int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume scoring requests from RabbitMQ",
	Long:  "Starts a pool of consumers on the score request queue. Results are published to the results exchange with routing key score.<request_id>.",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of consumers (overrides amqp.concurrency)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.AMQP.URL == "" {
		return fmt.Errorf("AMQP_URL (amqp.url) is required")
	}
	if workerConcurrency > 0 {
		cfg.AMQP.Concurrency = workerConcurrency
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var downloader queue.Downloader
	if cfg.Storage.Bucket != "" {
		client, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		downloader = client
	} else {
		logger.Warn("storage.bucket not set, only inline resume text is accepted")
	}

	worker := queue.NewWorker(cfg.AMQP, queue.NewProcessor(downloader, logger), logger)
	logger.Info("starting worker",
		zap.String("queue", cfg.AMQP.Queue),
		zap.Int("concurrency", cfg.AMQP.Concurrency))
	return worker.Run(ctx)
}
