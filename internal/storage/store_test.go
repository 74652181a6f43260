package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndLatestTrainingRun(t *testing.T) {
	s := tempDB(t)

	latest, err := s.LatestTrainingRun()
	if err != nil {
		t.Fatalf("LatestTrainingRun: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no runs, got %+v", latest)
	}

	run, err := s.RecordTrainingRun(TrainingRun{
		CorpusFingerprint: "abc123",
		Samples:           9,
		Classes:           3,
		Vocabulary:        20,
		Iterations:        412,
		Converged:         true,
	})
	if err != nil {
		t.Fatalf("RecordTrainingRun: %v", err)
	}
	if run.RunID == "" {
		t.Fatal("expected generated run ID")
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected generated created_at")
	}

	latest, err = s.LatestTrainingRun()
	if err != nil {
		t.Fatalf("LatestTrainingRun: %v", err)
	}
	if latest == nil || latest.RunID != run.RunID {
		t.Fatalf("expected %s, got %+v", run.RunID, latest)
	}
	if !latest.Converged || latest.Iterations != 412 || latest.CorpusFingerprint != "abc123" {
		t.Fatalf("round trip mismatch: %+v", latest)
	}
}

func TestListTrainingRunsNewestFirst(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		_, err := s.RecordTrainingRun(TrainingRun{
			RunID:     id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordTrainingRun %s: %v", id, err)
		}
	}

	runs, err := s.ListTrainingRuns(2)
	if err != nil {
		t.Fatalf("ListTrainingRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "r3" || runs[1].RunID != "r2" {
		t.Fatalf("expected r3, r2; got %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	s := tempDB(t)
	if _, err := s.RecordTrainingRun(TrainingRun{RunID: "same"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := s.RecordTrainingRun(TrainingRun{RunID: "same"}); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestDBAccessorSharesConnection(t *testing.T) {
	s := tempDB(t)
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM training_runs`).Scan(&n); err != nil {
		t.Fatalf("query via DB(): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty table, got %d", n)
	}
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := NewStore(filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "test.db"))
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}
