package session

import (
	"errors"

	"github.com/danielpatrickdp/intent-responder/internal/logging"
)

// #region pending
// PendingLearning is the normalized key awaiting a user-supplied answer.
// A session holds at most one.
type PendingLearning struct {
	Key    string
	Active bool
}

// #endregion pending

// #region exchange-logger
// ExchangeLogger records completed turns. *logging.ConversationLog satisfies it.
type ExchangeLogger interface {
	LogExchange(ex logging.Exchange) error
}

// #endregion exchange-logger

// #region defaults
// DefaultThanks is the reply after a correction has been stored.
const DefaultThanks = "Thank you! I have learned this and will remember it."

// #endregion defaults

// #region errors
var (
	// ErrNoPendingLearning is returned by Teach when no turn asked to learn.
	ErrNoPendingLearning = errors.New("no pending learning")
	// ErrEmptyAnswer is returned by Teach for a blank correction.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrSessionNotFound is returned by Manager for an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
)

// #endregion errors
