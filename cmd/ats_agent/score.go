package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/history"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/schemas"
	schemafiles "github.com/jonathan/ats-tailor/schemas"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job profile",
	Long:  "Scores a resume (.txt, .md, .pdf or .docx) against a JobProfile (.json or .toml) and prints the breakdown, keyword details and recommendations.",
	RunE:  runScore,
}

var (
	scoreResume     string
	scoreJobProfile string
	scoreExclude    []string
	scoreOutput     string
	scoreFormat     string
	scoreHistory    bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to the resume file (required)")
	scoreCmd.Flags().StringVarP(&scoreJobProfile, "job-profile", "j", "", "Path to the JobProfile JSON or TOML file (required)")
	scoreCmd.Flags().StringArrayVarP(&scoreExclude, "exclude", "x", nil, "Keyword to leave out of scoring (repeatable, exact match)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Write the full score JSON to this file")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "table", "Output format: table or json")
	scoreCmd.Flags().BoolVar(&scoreHistory, "history", false, "Record the result in the local score history")

	if err := scoreCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("job-profile"); err != nil {
		panic(fmt.Sprintf("failed to mark job-profile flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(scoreFormat); err != nil {
		return err
	}

	resumeText, err := ingestion.ReadFile(scoreResume)
	if err != nil {
		return err
	}
	profile, err := loadJobProfile(scoreJobProfile)
	if err != nil {
		return err
	}

	strategy := ats.SelectStrategy(profile, scoreExclude)
	score := ats.ScoreWith(strategy, resumeText)

	if scoreOutput != "" {
		if err := schemas.ValidateValue(schemafiles.ATSScore, score); err != nil {
			return fmt.Errorf("score output is invalid: %w", err)
		}
		if err := writeJSON(scoreOutput, score); err != nil {
			return err
		}
	}

	if scoreHistory {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if _, err := store.Record(cmd.Context(), scoreResume, scoreJobProfile, strategy.Name(), score); err != nil {
			return err
		}
	}

	if scoreFormat == "json" {
		return printJSON(score)
	}

	_, _ = fmt.Fprintf(os.Stdout, "ATS score: %d/100 (%s keywords)\n\n", score.Overall, strategy.Name())
	return observability.NewPrinter(os.Stdout).PrintScore(score)
}
