package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/metrics"
	"github.com/jonathan/ats-tailor/internal/server/middleware"
	"github.com/jonathan/ats-tailor/internal/types"
)

// ScoreResponse wraps an ATS score.
type ScoreResponse struct {
	ATSScore *types.ATSScore `json:"ats_score"`
}

// FormatRequest is the body of POST /format-ats.
type FormatRequest struct {
	Content string `json:"content" validate:"required"`
}

// FormatResponse is the result of POST /format-ats.
type FormatResponse struct {
	Content string `json:"content"`
}

// score runs the engine and records metrics for one API call.
func score(resume string, profile *types.JobProfile, excluded []string, source string) *types.ATSScore {
	start := time.Now()
	strategy := ats.SelectStrategy(profile, excluded)
	result := ats.ScoreWith(strategy, resume)
	metrics.ObserveScore(strategy.Name(), source, result, time.Since(start))
	return result
}

// handleATSScore scores a resume against a job analysis.
func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := analysis.ValidateProfile(req.JobAnalysis); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		ATSScore: score(req.ResumeContent, req.JobAnalysis, req.ExcludedTerms, "api"),
	})
}

// handleFormatATS normalizes resume text for ATS parsers.
func (s *Server) handleFormatATS(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FormatResponse{Content: ats.FormatForATS(req.Content)})
}

// handleReanalyzeATS rescores an optimized resume. With a job_id the result is stored on that application.
func (s *Server) handleReanalyzeATS(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ReanalyzeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := analysis.ValidateProfile(req.JobAnalysis); err != nil {
		s.writeError(w, r, err)
		return
	}

	result := score(req.OptimizedResumeContent, req.JobAnalysis, req.ExcludedTerms, "reanalyze")

	if req.JobID != nil {
		found, err := s.deps.Applications.UpdateOptimizedScore(r.Context(), userID, *req.JobID, req.OptimizedResumeContent, result)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !found {
			s.writeError(w, r, &ErrNotFound{Resource: "job", ID: *req.JobID})
			return
		}
		s.logger.Debug("stored optimized score", zap.Stringer("job_id", req.JobID), zap.Int("overall", result.Overall))
	}

	s.jsonResponse(w, http.StatusOK, ScoreResponse{ATSScore: result})
}
