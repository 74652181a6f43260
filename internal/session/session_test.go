package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
	"github.com/danielpatrickdp/intent-responder/internal/corpus"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/logging"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #region fakes
// tablePredictor returns a fixed prediction per raw input, low-confidence
// irrigation otherwise.
type tablePredictor map[string]classifier.Prediction

func (t tablePredictor) Predict(text string) classifier.Prediction {
	if p, ok := t[text]; ok {
		return p
	}
	return classifier.Prediction{Tag: "irrigation", Confidence: 0.2}
}

type recordingLog struct {
	exchanges []logging.Exchange
	err       error
}

func (r *recordingLog) LogExchange(ex logging.Exchange) error {
	r.exchanges = append(r.exchanges, ex)
	return r.err
}

type failingPut struct{ learned.Store }

func (failingPut) Put(string, string) error { return errors.New("read-only") }

// #endregion fakes

// #region fixtures
func intents() []corpus.Intent {
	return []corpus.Intent{
		{Tag: "greeting", Patterns: []string{"hi"}, Responses: []string{"Hello!"}, System: true},
		{Tag: "irrigation", Patterns: []string{"how do I irrigate crops"}, Responses: []string{"Use drip irrigation for efficiency."}},
	}
}

func predictor() tablePredictor {
	return tablePredictor{
		"hi":          {Tag: "greeting", Confidence: 0.3},
		"drip please": {Tag: "irrigation", Confidence: 0.9},
	}
}

func newSession(store learned.Store, opts ...Option) *Session {
	r := resolver.New(predictor(), intents(), store, nil)
	return New(r, store, opts...)
}

// #endregion fixtures

// #region learning-tests
func TestSession_LearningRoundTrip(t *testing.T) {
	store := learned.NewMemoryStore(nil)
	s := newSession(store)

	res := s.Submit("How do I irrigate crops")
	require.True(t, res.LearningRequested)
	key, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "how do i irrigate crops", key)

	thanks, err := s.Teach("  Drip is best.  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultThanks, thanks)
	_, ok = s.Pending()
	assert.False(t, ok)

	for _, in := range []string{"how do I irrigate crops", "  HOW DO I IRRIGATE CROPS "} {
		res = s.Submit(in)
		assert.Equal(t, resolver.SourceLearned, res.Source)
		assert.Equal(t, "Drip is best.", res.Text)
	}
}

func TestSession_TeachWithoutPending(t *testing.T) {
	s := newSession(learned.NewMemoryStore(nil))
	_, err := s.Teach("anything")
	assert.ErrorIs(t, err, ErrNoPendingLearning)

	s.Submit("hi")
	_, err = s.Teach("anything")
	assert.ErrorIs(t, err, ErrNoPendingLearning)
}

func TestSession_TeachEmptyAnswerKeepsPending(t *testing.T) {
	s := newSession(learned.NewMemoryStore(nil))
	s.Submit("soil question")

	_, err := s.Teach(" \t ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	key, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, "soil question", key)
}

func TestSession_TeachStoreFailureKeepsPending(t *testing.T) {
	store := failingPut{learned.NewMemoryStore(nil)}
	s := newSession(store)
	s.Submit("soil question")

	_, err := s.Teach("compost")
	require.Error(t, err)
	_, ok := s.Pending()
	assert.True(t, ok)
}

func TestSession_PendingSurvivesConfidentTurn(t *testing.T) {
	s := newSession(learned.NewMemoryStore(nil))
	s.Submit("first question")
	s.Submit("hi")
	s.Submit("drip please")

	key, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, "first question", key)

	s.Submit("second question")
	key, _ = s.Pending()
	assert.Equal(t, "second question", key)
}

func TestSession_Reset(t *testing.T) {
	store := learned.NewMemoryStore(nil)
	s := newSession(store)
	s.Submit("soil question")
	s.Reset()

	_, ok := s.Pending()
	assert.False(t, ok)
	_, err := s.Teach("compost")
	assert.ErrorIs(t, err, ErrNoPendingLearning)

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSession_CustomThanks(t *testing.T) {
	s := newSession(learned.NewMemoryStore(nil), WithThanks("Got it."))
	s.Submit("soil question")
	got, err := s.Teach("compost")
	require.NoError(t, err)
	assert.Equal(t, "Got it.", got)
}

// #endregion learning-tests

// #region exchange-log-tests
func TestSession_RecordsExchanges(t *testing.T) {
	rec := &recordingLog{}
	s := newSession(learned.NewMemoryStore(nil), WithID("s-1"), WithExchangeLog(rec))

	s.Submit("hi")
	s.Submit("drip please")

	require.Len(t, rec.exchanges, 2)
	assert.Equal(t, logging.Exchange{
		SessionID: "s-1", Input: "hi", Response: "Hello!", Source: "system", Tag: "greeting", Confidence: 0.3,
	}, rec.exchanges[0])
	assert.Equal(t, "intent", rec.exchanges[1].Source)
}

func TestSession_ExchangeLogFailureDoesNotBreakTurn(t *testing.T) {
	rec := &recordingLog{err: errors.New("disk full")}
	s := newSession(learned.NewMemoryStore(nil), WithExchangeLog(rec))
	assert.Equal(t, "Hello!", s.Submit("hi").Text)
}

// #endregion exchange-log-tests

// #region manager-tests
func newManager() (*Manager, learned.Store) {
	store := learned.NewMemoryStore(nil)
	r := resolver.New(predictor(), intents(), store, nil)
	return NewManager(func(id string) *Session { return New(r, store, WithID(id)) }), store
}

func TestManager_IsolatesPending(t *testing.T) {
	m, _ := newManager()
	a, b := m.Open(), m.Open()
	require.NotEqual(t, a, b)
	assert.Equal(t, 2, m.Len())

	_, err := m.Submit(a, "soil question")
	require.NoError(t, err)

	_, active, err := m.Pending(b)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = m.Teach(b, "compost")
	assert.ErrorIs(t, err, ErrNoPendingLearning)

	_, err = m.Teach(a, "compost")
	require.NoError(t, err)

	res, err := m.Submit(b, "SOIL QUESTION")
	require.NoError(t, err)
	assert.Equal(t, "compost", res.Text, "learned answers are shared across sessions")
}

func TestManager_UnknownSession(t *testing.T) {
	m, _ := newManager()
	_, err := m.Submit("nope", "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Teach("nope", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Reset("nope"), ErrSessionNotFound)
	_, _, err = m.Pending("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close("nope"), ErrSessionNotFound)
}

func TestManager_ResetAndClose(t *testing.T) {
	m, _ := newManager()
	id := m.Open()
	m.Submit(id, "soil question")
	require.NoError(t, m.Reset(id))
	_, active, _ := m.Pending(id)
	assert.False(t, active)

	require.NoError(t, m.Close(id))
	assert.Equal(t, 0, m.Len())
	_, err := m.Submit(id, "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(id), ErrSessionNotFound)
}

func TestManager_ConcurrentTurns(t *testing.T) {
	m, store := newManager()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := m.Open()
			m.Submit(id, "question")
			m.Teach(id, string(rune('a'+i)))
		}()
	}
	wg.Wait()

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "question", entries[0].Key)
}

// #endregion manager-tests
