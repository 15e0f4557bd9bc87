package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/history"
	"github.com/jonathan/ats-tailor/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List scores recorded with score --history",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyID    int64
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().Int64Var(&historyID, "id", 0, "Show the full score of one entry")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	printer := observability.NewPrinter(os.Stdout)
	if historyID > 0 {
		entry, err := store.Get(cmd.Context(), historyID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("no history entry with id %d", historyID)
		}
		_, _ = fmt.Fprintf(os.Stdout, "#%d %s vs %s (%s)\n\n", entry.ID, entry.Resume, entry.JobProfile, entry.Strategy)
		return printer.PrintScore(entry.Score)
	}

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return printer.PrintHistory(entries)
}
