package server

import (
	"net/http"

	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/types"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
}

// AnalyzeResponse carries the job profile extracted from a description.
type AnalyzeResponse struct {
	Analysis *types.JobProfile `json:"analysis"`
}

// FetchJobRequest is the body of POST /fetch-job.
type FetchJobRequest struct {
	URL string `json:"url" validate:"required"`
}

// handleAnalyze extracts a weighted job profile from a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.deps.Analyzer.Analyze(r.Context(), req.JobDescription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{Analysis: profile})
}

// handleFetchJob downloads a posting and returns its title, company and description.
func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	var req FetchJobRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fetch.ValidateURL(req.URL); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "url", Message: "must be an absolute http(s) URL"})
		return
	}

	posting, err := s.deps.Fetcher.FetchPosting(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
