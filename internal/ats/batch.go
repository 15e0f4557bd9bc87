package ats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-tailor/internal/types"
)

// DefaultBatchConcurrency bounds concurrent scoring in ScoreBatch.
const DefaultBatchConcurrency = 4

// Document is one resume in a batch.
type Document struct {
	ID   string
	Text string
}

// BatchResult pairs a document ID with its score.
type BatchResult struct {
	ID    string
	Score *types.ATSScore
}

// ScoreBatch scores docs against one profile concurrently. Results are in input order.
// The only error is ctx's, returned when it is cancelled before every document is scored.
func ScoreBatch(ctx context.Context, docs []Document, profile *types.JobProfile, excluded []string, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	strategy := SelectStrategy(profile, excluded)
	results := make([]BatchResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = BatchResult{ID: doc.ID, Score: ScoreWith(strategy, doc.Text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
