package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/prompts"
)

// PostingMetadata is the title and company of a posting.
type PostingMetadata struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// maxMetadataChars bounds the posting text sent for metadata extraction.
const maxMetadataChars = 4000

// ExtractMetadata asks the lite model for the posting's title and company.
func (a *Analyzer) ExtractMetadata(ctx context.Context, postingText string) (*PostingMetadata, error) {
	if len(postingText) > maxMetadataChars {
		postingText = postingText[:maxMetadataChars]
	}
	prompt, err := prompts.Render("analysis.json", "extract-posting-metadata", map[string]string{"PostingText": postingText})
	if err != nil {
		return nil, err
	}
	response, err := a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Message: "failed to extract posting metadata", Cause: err}
	}

	var meta PostingMetadata
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(llm.CleanJSONBlock(response))), &meta); err != nil {
		return nil, &ParseError{Message: "failed to parse metadata JSON", Cause: err}
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Company = strings.TrimSpace(meta.Company)
	return &meta, nil
}
