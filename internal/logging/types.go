package logging

import "time"

// #region exchange
// Exchange is one user turn and the reply it produced.
type Exchange struct {
	ID         int64
	SessionID  string
	Input      string
	Response   string
	Source     string
	Tag        string
	Confidence float64
	CreatedAt  time.Time
}

// #endregion exchange
