package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/logging"
	"github.com/jonathan/ats-tailor/internal/metrics"
)

// DownloadAttempts is how often an object download is tried before the request fails.
const DownloadAttempts = 3

// Downloader fetches uploaded resume files.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Processor turns a raw message body into a Result. It never returns an error:
// every failure becomes a failed Result.
type Processor struct {
	downloader Downloader
	logger     *zap.Logger
}

// NewProcessor creates a Processor. downloader may be nil when only inline text is expected.
func NewProcessor(downloader Downloader, logger *zap.Logger) *Processor {
	return &Processor{downloader: downloader, logger: logging.OrNop(logger)}
}

// Process decodes, scores and reports one request.
func (p *Processor) Process(ctx context.Context, body []byte) Result {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return p.fail(req.RequestID, fmt.Errorf("invalid message body: %w", err))
	}
	if err := req.Validate(); err != nil {
		return p.fail(req.RequestID, err)
	}
	if err := analysis.ValidateProfile(req.JobProfile); err != nil {
		return p.fail(req.RequestID, err)
	}

	text, err := p.resumeText(ctx, &req)
	if err != nil {
		return p.fail(req.RequestID, err)
	}

	start := time.Now()
	strategy := ats.SelectStrategy(req.JobProfile, req.ExcludedTerms)
	score := ats.ScoreWith(strategy, text)
	metrics.ObserveScore(strategy.Name(), "worker", score, time.Since(start))
	metrics.WorkerMessages.WithLabelValues(StatusCompleted).Inc()

	p.logger.Info("scored request",
		zap.String("request_id", req.RequestID),
		zap.String("strategy", strategy.Name()),
		zap.Int("overall", score.Overall))

	return Result{
		RequestID: req.RequestID,
		Status:    StatusCompleted,
		Strategy:  strategy.Name(),
		ATSScore:  score,
	}
}

func (p *Processor) resumeText(ctx context.Context, req *Request) (string, error) {
	if req.ResumeText != "" {
		return req.ResumeText, nil
	}
	if p.downloader == nil {
		return "", errors.New("object storage is not configured")
	}
	data, err := retry(ctx, DownloadAttempts, func() ([]byte, error) {
		return p.downloader.Download(ctx, req.ResumeObjectKey)
	})
	if err != nil {
		return "", fmt.Errorf("file download error: %w", err)
	}
	kind := ingestion.DetectKind(req.ResumeObjectKey, req.ResumeMIME)
	return ingestion.ExtractText(data, kind, req.ResumeObjectKey)
}

func (p *Processor) fail(requestID string, err error) Result {
	metrics.WorkerMessages.WithLabelValues(StatusFailed).Inc()
	p.logger.Warn("scoring request failed", zap.String("request_id", requestID), zap.Error(err))
	return Result{RequestID: requestID, Status: StatusFailed, Error: err.Error()}
}
