// Package metrics holds the Prometheus collectors for scoring, HTTP and the queue worker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/ats-tailor/internal/types"
)

var (
	ScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_scores_total",
			Help: "Resumes scored, by keyword strategy and caller",
		},
		[]string{"strategy", "source"},
	)

	ScoreOverall = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ats_score_overall",
			Help:    "Distribution of overall ATS scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ScoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_score_duration_seconds",
			Help:    "Time spent scoring one resume",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"strategy"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	WorkerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_worker_messages_total",
			Help: "Scoring requests consumed from the queue, by outcome",
		},
		[]string{"status"},
	)

	AnalysisCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_analysis_cache_total",
			Help: "Job analysis cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveScore records one finished scoring call.
func ObserveScore(strategy, source string, score *types.ATSScore, elapsed time.Duration) {
	ScoresTotal.WithLabelValues(strategy, source).Inc()
	ScoreDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if score != nil {
		ScoreOverall.Observe(float64(score.Overall))
	}
}
