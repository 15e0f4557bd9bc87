// Package queue runs the AMQP scoring worker: it consumes score requests, scores them and publishes results.
package queue

import (
	"errors"

	"github.com/jonathan/ats-tailor/internal/types"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Request is a scoring job. Exactly one of ResumeText and ResumeObjectKey is used;
// ResumeText wins when both are set.
type Request struct {
	RequestID       string            `json:"request_id"`
	ResumeText      string            `json:"resume_text,omitempty"`
	ResumeObjectKey string            `json:"resume_object_key,omitempty"`
	ResumeMIME      string            `json:"resume_mime,omitempty"`
	JobProfile      *types.JobProfile `json:"job_profile"`
	ExcludedTerms   []string          `json:"excluded_terms,omitempty"`
}

// Validate checks that the request can be scored.
func (r *Request) Validate() error {
	switch {
	case r.RequestID == "":
		return errors.New("request_id is required")
	case r.JobProfile == nil:
		return errors.New("job_profile is required")
	case r.ResumeText == "" && r.ResumeObjectKey == "":
		return errors.New("resume_text or resume_object_key is required")
	}
	return nil
}

// Result is published for every consumed request.
type Result struct {
	RequestID string          `json:"request_id"`
	Status    string          `json:"status"`
	Strategy  string          `json:"strategy,omitempty"`
	ATSScore  *types.ATSScore `json:"ats_score,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// RoutingKey is the routing key results are published with.
func RoutingKey(requestID string) string {
	return "score." + requestID
}
