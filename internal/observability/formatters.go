// Package observability renders scores, job profiles and history for the CLI.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/history"
	"github.com/jonathan/ats-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxKeywordRows caps the keyword table
	maxKeywordRows = 15
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList appends up to limit items as bullets with an overflow note.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString("  • " + item + "\n")
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintJobProfile outputs a human-readable summary of a job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if profile.ExperienceLevel != "" {
		fmt.Fprintf(&sb, "Level:    %s\n\n", profile.ExperienceLevel)
	}
	writeList(&sb, "Key Skills", profile.KeySkills, maxItemsToShow)
	writeList(&sb, "Required", profile.RequiredQualifications, 3)
	writeList(&sb, "Preferred", profile.PreferredQualifications, 3)
	writeList(&sb, "Keywords", profile.Keywords, maxItemsToShow)
	fmt.Fprintf(&sb, "Weighted keywords: %d", len(profile.EnhancedKeywords))

	p.printBox("JOB PROFILE", sb.String())
}

// PrintScore prints the breakdown table, the keyword table and the recommendations.
func (p *Printer) PrintScore(score *types.ATSScore) error {
	if score == nil {
		return nil
	}

	breakdown := tablewriter.NewWriter(p.out)
	breakdown.Header("Category", "Score", "Max")
	rows := [][]string{
		{"Keyword match", strconv.Itoa(score.Breakdown.KeywordMatch), fmtBudget(ats.KeywordBudget)},
		{"Formatting", strconv.Itoa(score.Breakdown.Formatting), fmtBudget(ats.FormattingBudget)},
		{"Length", strconv.Itoa(score.Breakdown.Length), fmtBudget(ats.LengthBudget)},
		{"Sections", strconv.Itoa(score.Breakdown.Sections), fmtBudget(ats.SectionsBudget)},
		{"Overall", strconv.Itoa(score.Overall), "100"},
	}
	if err := breakdown.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build breakdown table: %w", err)
	}
	if err := breakdown.Render(); err != nil {
		return fmt.Errorf("failed to render breakdown table: %w", err)
	}

	if len(score.DetailedScores) > 0 {
		if err := p.printKeywordTable(score); err != nil {
			return err
		}
	} else {
		p.printTerms("Matched", score.MatchedKeywords)
		p.printTerms("Missing", score.MissingKeywords)
	}

	if len(score.Recommendations) > 0 {
		fmt.Fprintln(p.out, "\nRecommendations:")
		for i, rec := range score.Recommendations {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, rec)
		}
	}
	return nil
}

func (p *Printer) printKeywordTable(score *types.ATSScore) error {
	table := tablewriter.NewWriter(p.out)
	table.Header("Keyword", "Section", "Found", "Importance", "Context", "Points")

	ordered := append(append([]types.KeywordScore{}, score.TopKeywords...), score.OtherKeywords...)
	for _, ks := range ordered[:min(len(ordered), maxKeywordRows)] {
		row := []string{
			ks.Keyword.Term,
			string(ks.Keyword.SectionType),
			strconv.Itoa(ks.Occurrences),
			strconv.FormatFloat(ks.Keyword.Importance, 'f', 2, 64),
			strings.Join(ks.Contexts, ","),
			strconv.FormatFloat(ks.FinalScore, 'f', 2, 64),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to build keyword table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render keyword table: %w", err)
	}
	if len(ordered) > maxKeywordRows {
		fmt.Fprintf(p.out, "... and %d more keywords\n", len(ordered)-maxKeywordRows)
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printTerms(label string, terms []string) {
	if len(terms) == 0 {
		return
	}
	fmt.Fprintf(p.out, "%s (%d): %s\n", label, len(terms), strings.Join(terms, ", "))
}

func fmtBudget(v float64) string {
	return strconv.Itoa(int(v))
}

// PrintBatch prints one summary row per scored resume.
func (p *Printer) PrintBatch(results []ats.BatchResult) error {
	table := tablewriter.NewWriter(p.out)
	table.Header("Resume", "Overall", "Keywords", "Format", "Length", "Sections", "Missing")
	for _, r := range results {
		if r.Score == nil {
			continue
		}
		s := r.Score
		row := []string{
			r.ID,
			strconv.Itoa(s.Overall),
			strconv.Itoa(s.Breakdown.KeywordMatch),
			strconv.Itoa(s.Breakdown.Formatting),
			strconv.Itoa(s.Breakdown.Length),
			strconv.Itoa(s.Breakdown.Sections),
			strconv.Itoa(len(s.MissingKeywords)),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to build batch table: %w", err)
		}
	}
	return table.Render()
}

// PrintHistory prints recorded scores, newest first.
func (p *Printer) PrintHistory(entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(p.out, "No scores recorded yet.")
		return err
	}
	table := tablewriter.NewWriter(p.out)
	table.Header("ID", "When", "Resume", "Job profile", "Strategy", "Overall")
	for _, e := range entries {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(e.Resume, 40),
			truncate(e.JobProfile, 40),
			e.Strategy,
			strconv.Itoa(e.Overall),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to build history table: %w", err)
		}
	}
	return table.Render()
}
