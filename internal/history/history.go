// Package history keeps a local SQLite log of CLI score runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jonathan/ats-tailor/internal/types"
)

//go:embed migrations/001_initial.sql
var initialMigration string

// DefaultLimit is the number of entries List returns when no limit is given.
const DefaultLimit = 20

const (
	insertEntrySQL = `INSERT INTO score_history
		(created_at, resume, job_profile, strategy, overall, keyword_match, formatting, length, sections, score_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	listEntriesSQL = `SELECT id, created_at, resume, job_profile, strategy, overall,
		keyword_match, formatting, length, sections, score_json
		FROM score_history ORDER BY created_at DESC, id DESC LIMIT ?`
	getEntrySQL = `SELECT id, created_at, resume, job_profile, strategy, overall,
		keyword_match, formatting, length, sections, score_json
		FROM score_history WHERE id = ?`
)

// Entry is one recorded score.
type Entry struct {
	ID         int64           `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Resume     string          `json:"resume"`      // resume file path or label
	JobProfile string          `json:"job_profile"` // job profile file path or label
	Strategy   string          `json:"strategy"`
	Overall    int             `json:"overall"`
	Breakdown  types.Breakdown `json:"breakdown"`
	Score      *types.ATSScore `json:"score,omitempty"`
}

// Store persists entries.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(initialMigration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run history migration: %w", err)
	}
	return New(db), nil
}

// New wraps an already-migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a score and returns the new entry's ID.
func (s *Store) Record(ctx context.Context, resume, jobProfile, strategy string, score *types.ATSScore) (int64, error) {
	if score == nil {
		return 0, errors.New("score is required")
	}
	data, err := json.Marshal(score)
	if err != nil {
		return 0, fmt.Errorf("failed to encode score: %w", err)
	}

	res, err := s.db.ExecContext(ctx, insertEntrySQL,
		s.now().UTC(), resume, jobProfile, strategy, score.Overall,
		score.Breakdown.KeywordMatch, score.Breakdown.Formatting, score.Breakdown.Length, score.Breakdown.Sections,
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read entry id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, listEntriesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Get returns one entry, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, getEntrySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var scoreJSON string
	err := row.Scan(&e.ID, &e.CreatedAt, &e.Resume, &e.JobProfile, &e.Strategy, &e.Overall,
		&e.Breakdown.KeywordMatch, &e.Breakdown.Formatting, &e.Breakdown.Length, &e.Breakdown.Sections,
		&scoreJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}
	if scoreJSON != "" {
		e.Score = &types.ATSScore{}
		if err := json.Unmarshal([]byte(scoreJSON), e.Score); err != nil {
			return nil, fmt.Errorf("failed to decode stored score: %w", err)
		}
	}
	return &e, nil
}
