// Package bench records benchmark runs of the ensemble classifiers in a
// local SQLite database so results accumulate across invocations.
package bench

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one fitted-and-scored estimator on one dataset.
type Run struct {
	ID               string
	Dataset          string
	Estimator        string
	Seed             int64
	BalancedAccuracy float64
	GMean            float64
	FitDuration      time.Duration
	CreatedAt        time.Time
}

// Store persists Runs in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	dataset           TEXT NOT NULL,
	estimator         TEXT NOT NULL,
	seed              INTEGER NOT NULL,
	balanced_accuracy REAL NOT NULL,
	gmean             REAL NOT NULL,
	fit_ms            INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// OpenStore opens (and if needed initializes) the run database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("bench: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bench: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Insert stores a run, assigning an ID and timestamp when missing.
func (s *Store) Insert(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, dataset, estimator, seed, balanced_accuracy, gmean, fit_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Dataset, r.Estimator, r.Seed,
		r.BalancedAccuracy, r.GMean, r.FitDuration.Milliseconds(),
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("bench: insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, dataset, estimator, seed, balanced_accuracy, gmean, fit_ms, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("bench: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var fitMS int64
		var created string
		if err := rows.Scan(&r.ID, &r.Dataset, &r.Estimator, &r.Seed,
			&r.BalancedAccuracy, &r.GMean, &fitMS, &created); err != nil {
			return nil, fmt.Errorf("bench: scan run: %w", err)
		}
		r.FitDuration = time.Duration(fitMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
