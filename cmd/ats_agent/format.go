package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/ingestion"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Rewrite resume text into an ATS-friendly form",
	Long:  "Replaces bullet glyphs and tabs, puts section headers on their own line and collapses blank lines.",
	RunE:  runFormat,
}

var (
	formatInput  string
	formatOutput string
)

func init() {
	formatCmd.Flags().StringVarP(&formatInput, "in", "i", "", "Path to the resume file (required)")
	formatCmd.Flags().StringVarP(&formatOutput, "out", "o", "", "Output file (defaults to stdout)")

	if err := formatCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(formatCmd)
}

func runFormat(_ *cobra.Command, _ []string) error {
	text, err := ingestion.ReadFile(formatInput)
	if err != nil {
		return err
	}
	formatted := ats.FormatForATS(text)

	if formatOutput == "" {
		_, err := fmt.Fprintln(os.Stdout, formatted)
		return err
	}
	if err := writeFile(formatOutput, []byte(formatted+"\n")); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Formatted resume written to %s\n", formatOutput)
	return nil
}
