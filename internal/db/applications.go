package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ats-tailor/internal/types"
)

// -----------------------------------------------------------------------------
// Saved application methods. Every query is scoped to the owning user.
// -----------------------------------------------------------------------------

const applicationColumns = `id, user_id, title, company, job_description, job_url, analysis,
	base_resume_content, optimized_resume_content, optimized_cover_letter,
	base_ats_score, optimized_ats_score, excluded_terms, created_at, updated_at`

// DefaultListLimit caps ListApplications when no limit is given.
const DefaultListLimit = 100

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var analysisJSON, baseScoreJSON, optimizedScoreJSON, excludedJSON []byte

	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Company, &a.JobDescription, &a.JobURL, &analysisJSON,
		&a.BaseResumeContent, &a.OptimizedResumeContent, &a.OptimizedCoverLetter,
		&baseScoreJSON, &optimizedScoreJSON, &excludedJSON, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if a.Analysis, err = jsonbPointer[types.JobProfile](analysisJSON); err != nil {
		return nil, err
	}
	if a.BaseATSScore, err = jsonbPointer[types.ATSScore](baseScoreJSON); err != nil {
		return nil, err
	}
	if a.OptimizedATSScore, err = jsonbPointer[types.ATSScore](optimizedScoreJSON); err != nil {
		return nil, err
	}
	if a.ExcludedTerms, err = decodeTerms(excludedJSON); err != nil {
		return nil, err
	}
	return &a, nil
}

// encodedInput holds the JSONB columns of an ApplicationInput.
type encodedInput struct {
	analysis, baseScore, optimizedScore, excluded []byte
}

func encodeInput(in *ApplicationInput) (*encodedInput, error) {
	var e encodedInput
	var err error
	if e.analysis, err = jsonbValue(in.Analysis); err != nil {
		return nil, err
	}
	if e.baseScore, err = jsonbValue(in.BaseATSScore); err != nil {
		return nil, err
	}
	if e.optimizedScore, err = jsonbValue(in.OptimizedATSScore); err != nil {
		return nil, err
	}
	if e.excluded, err = termsValue(in.ExcludedTerms); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateApplication saves a new application for userID
func (db *DB) CreateApplication(ctx context.Context, userID uuid.UUID, in *ApplicationInput) (*types.Application, error) {
	enc, err := encodeInput(in)
	if err != nil {
		return nil, err
	}
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, title, company, job_description, job_url, analysis,
		        base_resume_content, optimized_resume_content, optimized_cover_letter,
		        base_ats_score, optimized_ats_score, excluded_terms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+applicationColumns,
		userID, in.Title, in.Company, in.JobDescription, in.JobURL, enc.analysis,
		in.BaseResumeContent, in.OptimizedResumeContent, in.OptimizedCoverLetter,
		enc.baseScore, enc.optimizedScore, enc.excluded,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves one of userID's applications. Returns nil, nil when not found.
func (db *DB) GetApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns userID's applications, most recently updated first
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, limit int) ([]types.Application, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []types.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// UpdateApplication replaces the writable columns. Returns nil, nil when not found.
func (db *DB) UpdateApplication(ctx context.Context, userID, id uuid.UUID, in *ApplicationInput) (*types.Application, error) {
	enc, err := encodeInput(in)
	if err != nil {
		return nil, err
	}
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET title = $3, company = $4, job_description = $5, job_url = $6,
		        analysis = $7, base_resume_content = $8, optimized_resume_content = $9,
		        optimized_cover_letter = $10, base_ats_score = $11, optimized_ats_score = $12,
		        excluded_terms = $13, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		id, userID, in.Title, in.Company, in.JobDescription, in.JobURL, enc.analysis,
		in.BaseResumeContent, in.OptimizedResumeContent, in.OptimizedCoverLetter,
		enc.baseScore, enc.optimizedScore, enc.excluded,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// DeleteApplication removes an application. Reports whether a row was deleted.
func (db *DB) DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DuplicateApplication copies an application into a new row titled "<title> (Copy)".
// Returns nil, nil when the source is not found.
func (db *DB) DuplicateApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, title, company, job_description, job_url, analysis,
		        base_resume_content, optimized_resume_content, optimized_cover_letter,
		        base_ats_score, optimized_ats_score, excluded_terms)
		 SELECT user_id, title || ' (Copy)', company, job_description, job_url, analysis,
		        base_resume_content, optimized_resume_content, optimized_cover_letter,
		        base_ats_score, optimized_ats_score, excluded_terms
		 FROM applications WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to duplicate application: %w", err)
	}
	return app, nil
}

// UpdateOptimizedScore stores a re-analysis result: the optimized resume and its ATS score.
// Reports whether the application exists.
func (db *DB) UpdateOptimizedScore(ctx context.Context, userID, id uuid.UUID, resumeContent string, score *types.ATSScore) (bool, error) {
	scoreJSON, err := jsonbValue(score)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET optimized_resume_content = $3, optimized_ats_score = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		id, userID, resumeContent, scoreJSON,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update optimized score: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
