package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-tailor/internal/types"
)

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApplicationInput holds the writable columns of an application row.
type ApplicationInput struct {
	Title                  string
	Company                string
	JobDescription         string
	JobURL                 string
	Analysis               *types.JobProfile
	BaseResumeContent      string
	OptimizedResumeContent string
	OptimizedCoverLetter   string
	BaseATSScore           *types.ATSScore
	OptimizedATSScore      *types.ATSScore
	ExcludedTerms          []string
}

// InputFromRequest maps an API save request onto row columns.
func InputFromRequest(req *types.SaveApplicationRequest) *ApplicationInput {
	return &ApplicationInput{
		Title:                  req.Title,
		Company:                req.Company,
		JobDescription:         req.JobDescription,
		JobURL:                 req.JobURL,
		Analysis:               req.Analysis,
		BaseResumeContent:      req.BaseResumeContent,
		OptimizedResumeContent: req.OptimizedResumeContent,
		OptimizedCoverLetter:   req.OptimizedCoverLetter,
		BaseATSScore:           req.BaseATSScore,
		OptimizedATSScore:      req.OptimizedATSScore,
		ExcludedTerms:          req.ExcludedTerms,
	}
}

// jsonbValue encodes v for a JSONB column, mapping nil pointers to SQL NULL.
func jsonbValue[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSONB: %w", err)
	}
	return data, nil
}

// jsonbPointer decodes a nullable JSONB column.
func jsonbPointer[T any](data []byte) (*T, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to decode JSONB: %w", err)
	}
	return v, nil
}

func termsValue(terms []string) ([]byte, error) {
	if terms == nil {
		terms = []string{}
	}
	return json.Marshal(terms)
}

func decodeTerms(data []byte) ([]string, error) {
	terms := []string{}
	if len(data) == 0 {
		return terms, nil
	}
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("failed to decode excluded terms: %w", err)
	}
	return terms, nil
}
