package session

// #region imports
import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/logging"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #endregion imports

// #region session-struct
// Session is one conversation: a resolver plus the pending learning state
// between an uncertain reply and the user's correction. Not safe for
// concurrent use; Manager serializes access for network callers.
type Session struct {
	id       string
	resolver *resolver.Resolver
	store    learned.Store
	exchange ExchangeLogger
	thanks   string
	log      *zap.Logger

	pending PendingLearning
}

// Option configures a Session.
type Option func(*Session)

// WithID tags logged exchanges with a session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithExchangeLog records every turn.
func WithExchangeLog(l ExchangeLogger) Option {
	return func(s *Session) { s.exchange = l }
}

// WithThanks overrides the reply returned by Teach.
func WithThanks(text string) Option {
	return func(s *Session) {
		if text != "" {
			s.thanks = text
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// #endregion session-struct

// #region constructor
// New creates a session. store must be the one r reads from, so a taught
// answer is visible on the next Submit.
func New(r *resolver.Resolver, store learned.Store, opts ...Option) *Session {
	s := &Session{
		resolver: r,
		store:    store,
		thanks:   DefaultThanks,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID, empty for unnamed sessions.
func (s *Session) ID() string { return s.id }

// #endregion constructor

// #region submit
// Submit resolves one input. An uncertain reply replaces any pending key; other
// replies leave it alone so the user can still answer the earlier question.
func (s *Session) Submit(input string) resolver.Result {
	res := s.resolver.Resolve(input)
	if res.LearningRequested {
		if s.pending.Active && s.pending.Key != res.LearningKey {
			s.log.Debug("pending learning replaced", zap.String("old", s.pending.Key), zap.String("new", res.LearningKey))
		}
		s.pending = PendingLearning{Key: res.LearningKey, Active: true}
	}
	s.record(input, res)
	return res
}

// #endregion submit

// #region teach
// Teach stores answer for the pending key and clears it.
func (s *Session) Teach(answer string) (string, error) {
	if !s.pending.Active {
		return "", ErrNoPendingLearning
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	if err := s.store.Put(s.pending.Key, answer); err != nil {
		return "", fmt.Errorf("teach %q: %w", s.pending.Key, err)
	}
	s.log.Info("learned", zap.String("key", s.pending.Key), zap.String("session", s.id))
	s.pending = PendingLearning{}
	return s.thanks, nil
}

// #endregion teach

// #region reset
// Reset drops any pending learning without storing anything.
func (s *Session) Reset() {
	s.pending = PendingLearning{}
}

// Pending reports the key awaiting an answer.
func (s *Session) Pending() (string, bool) {
	return s.pending.Key, s.pending.Active
}

// #endregion reset

// #region helpers
func (s *Session) record(input string, res resolver.Result) {
	if s.exchange == nil {
		return
	}
	err := s.exchange.LogExchange(logging.Exchange{
		SessionID:  s.id,
		Input:      input,
		Response:   res.Text,
		Source:     string(res.Source),
		Tag:        res.Tag,
		Confidence: res.Confidence,
	})
	if err != nil {
		s.log.Warn("conversation log write failed", zap.Error(err))
	}
}

// #endregion helpers
