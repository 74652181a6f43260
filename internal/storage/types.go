package storage

import "time"

// #region training-run
// TrainingRun records one classifier build against a specific corpus.
type TrainingRun struct {
	RunID             string
	CorpusFingerprint string
	Samples           int
	Classes           int
	Vocabulary        int
	Iterations        int
	Converged         bool
	CreatedAt         time.Time
}
// #endregion training-run
