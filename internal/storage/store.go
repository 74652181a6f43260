package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
	run_id             TEXT PRIMARY KEY,
	corpus_fingerprint TEXT NOT NULL,
	samples            INTEGER NOT NULL,
	classes            INTEGER NOT NULL,
	vocabulary         INTEGER NOT NULL,
	iterations         INTEGER NOT NULL,
	converged          INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store owns the responder's SQLite database. Other packages create their
// own tables on DB(): learned knowledge and the conversation log.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (learned, logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region record-training-run
// RecordTrainingRun stores a run, assigning RunID and CreatedAt when unset.
func (s *Store) RecordTrainingRun(run TrainingRun) (TrainingRun, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	converged := 0
	if run.Converged {
		converged = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO training_runs (run_id, corpus_fingerprint, samples, classes, vocabulary, iterations, converged, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CorpusFingerprint, run.Samples, run.Classes, run.Vocabulary,
		run.Iterations, converged, run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return TrainingRun{}, fmt.Errorf("insert training run: %w", err)
	}
	return run, nil
}
// #endregion record-training-run

// #region latest-training-run
// LatestTrainingRun returns the most recent run, or nil if none exists.
func (s *Store) LatestTrainingRun() (*TrainingRun, error) {
	runs, err := s.ListTrainingRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
// #endregion latest-training-run

// #region list-training-runs
// ListTrainingRuns returns the most recent runs, newest first.
func (s *Store) ListTrainingRuns(limit int) ([]TrainingRun, error) {
	rows, err := s.db.Query(
		`SELECT run_id, corpus_fingerprint, samples, classes, vocabulary, iterations, converged, created_at
		 FROM training_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list training runs: %w", err)
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		var converged int
		var createdStr string
		if err := rows.Scan(&run.RunID, &run.CorpusFingerprint, &run.Samples, &run.Classes,
			&run.Vocabulary, &run.Iterations, &converged, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		run.Converged = converged == 1
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
// #endregion list-training-runs
