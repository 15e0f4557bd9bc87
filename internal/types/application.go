package types

import (
	"time"

	"github.com/google/uuid"
)

// Application is a saved job application: the posting, its analysis and the resume versions scored against it.
type Application struct {
	ID                     uuid.UUID   `json:"id"`
	UserID                 uuid.UUID   `json:"user_id"`
	Title                  string      `json:"title"`
	Company                string      `json:"company,omitempty"`
	JobDescription         string      `json:"job_description"`
	JobURL                 string      `json:"job_url,omitempty"`
	Analysis               *JobProfile `json:"analysis,omitempty"`
	BaseResumeContent      string      `json:"base_resume_content,omitempty"`
	OptimizedResumeContent string      `json:"optimized_resume_content,omitempty"`
	OptimizedCoverLetter   string      `json:"optimized_cover_letter,omitempty"`
	BaseATSScore           *ATSScore   `json:"base_ats_score,omitempty"`
	OptimizedATSScore      *ATSScore   `json:"optimized_ats_score,omitempty"`
	ExcludedTerms          []string    `json:"excluded_terms,omitempty"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

// SaveApplicationRequest is the body of POST /jobs and PUT /jobs/{id}.
type SaveApplicationRequest struct {
	Title                  string      `json:"title" validate:"required,min=1"`
	Company                string      `json:"company,omitempty"`
	JobDescription         string      `json:"job_description" validate:"required"`
	JobURL                 string      `json:"job_url,omitempty" validate:"omitempty,url"`
	Analysis               *JobProfile `json:"analysis,omitempty"`
	BaseResumeContent      string      `json:"base_resume_content,omitempty"`
	OptimizedResumeContent string      `json:"optimized_resume_content,omitempty"`
	OptimizedCoverLetter   string      `json:"optimized_cover_letter,omitempty"`
	BaseATSScore           *ATSScore   `json:"base_ats_score,omitempty"`
	OptimizedATSScore      *ATSScore   `json:"optimized_ats_score,omitempty"`
	ExcludedTerms          []string    `json:"excluded_terms,omitempty"`
}

func (r *SaveApplicationRequest) Validate() error { return validate.Struct(r) }

// ScoreRequest is the body of POST /ats-score.
type ScoreRequest struct {
	ResumeContent string      `json:"resume_content" validate:"required"`
	JobAnalysis   *JobProfile `json:"job_analysis" validate:"required"`
	ExcludedTerms []string    `json:"excluded_terms,omitempty"`
}

func (r *ScoreRequest) Validate() error { return validate.Struct(r) }

// ReanalyzeRequest is the body of POST /reanalyze-ats.
type ReanalyzeRequest struct {
	JobID                  *uuid.UUID  `json:"job_id,omitempty"`
	OptimizedResumeContent string      `json:"optimized_resume_content" validate:"required"`
	JobDescription         string      `json:"job_description,omitempty"`
	JobAnalysis            *JobProfile `json:"job_analysis" validate:"required"`
	ExcludedTerms          []string    `json:"excluded_terms,omitempty"`
}

func (r *ReanalyzeRequest) Validate() error { return validate.Struct(r) }
