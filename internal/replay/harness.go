package replay

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #region types
// TurnKind is the session call a turn makes.
type TurnKind string

const (
	KindInput TurnKind = "input"
	KindTeach TurnKind = "teach"
	KindReset TurnKind = "reset"
)

// Error labels recorded for failed teach turns.
const (
	ErrLabelNoPending   = "no_pending_learning"
	ErrLabelEmptyAnswer = "empty_answer"
)

// Turn is a single scripted step for replay.
type Turn struct {
	TurnID string
	Kind   TurnKind
	Text   string // input text or teach answer
}

// TurnResult captures the outcome of replaying one turn.
type TurnResult struct {
	TurnID            string
	Kind              TurnKind
	Text              string
	Source            resolver.Source
	Tag               string
	Confidence        float64
	LearningRequested bool
	Error             string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns int
	BySource   map[resolver.Source]int
	Taught     int
	Errors     int
}

// Mismatch is a turn whose outcome differs from the fixture expectation.
type Mismatch struct {
	TurnID string
	Field  string
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s want %q, got %q", m.TurnID, m.Field, m.Want, m.Got)
}

// #endregion types

// #region replay
// Run plays turns through s in order. Operates entirely on the given session.
func Run(s *session.Session, turns []Turn) []TurnResult {
	results := make([]TurnResult, 0, len(turns))
	for _, turn := range turns {
		r := TurnResult{TurnID: turn.TurnID, Kind: turn.Kind}
		switch turn.Kind {
		case KindInput:
			res := s.Submit(turn.Text)
			r.Text, r.Source = res.Text, res.Source
			r.Tag, r.Confidence = res.Tag, res.Confidence
			r.LearningRequested = res.LearningRequested
		case KindTeach:
			text, err := s.Teach(turn.Text)
			r.Text, r.Error = text, errorLabel(err)
		case KindReset:
			s.Reset()
		}
		results = append(results, r)
	}
	return results
}

// Replay trains a classifier on the fixture corpus, builds an in-memory
// session seeded with the fixture's learned answers, and runs every turn.
func Replay(f *Fixture, opts ...classifier.Option) ([]TurnResult, error) {
	clf, err := classifier.Train(f.Intents, opts...)
	if err != nil {
		return nil, fmt.Errorf("train fixture corpus: %w", err)
	}
	store := learned.NewMemoryStore(f.Learned)
	r := resolver.New(clf, f.Intents, store, gate.NewGate(f.ToGateConfig()),
		resolver.WithRand(rand.New(rand.NewPCG(f.Seed, f.Seed))))

	turns := make([]Turn, len(f.Turns))
	for i := range f.Turns {
		turns[i] = f.Turns[i].ToTurn()
	}
	return Run(session.New(r, store), turns), nil
}

// Check compares results against the fixture expectations.
func Check(f *Fixture, results []TurnResult) []Mismatch {
	var out []Mismatch
	if len(results) != len(f.Turns) {
		return []Mismatch{{Field: "turns", Want: fmt.Sprint(len(f.Turns)), Got: fmt.Sprint(len(results))}}
	}
	for i, ft := range f.Turns {
		got, want := results[i], ft.Expect
		add := func(field, w, g string) {
			if w != g {
				out = append(out, Mismatch{TurnID: ft.TurnID, Field: field, Want: w, Got: g})
			}
		}
		if want.Source != "" {
			add("source", want.Source, string(got.Source))
		}
		if want.Text != "" {
			add("text", want.Text, got.Text)
		}
		if want.LearningRequested != nil {
			add("learning_requested", fmt.Sprint(*want.LearningRequested), fmt.Sprint(got.LearningRequested))
		}
		add("error", want.Error, got.Error)
	}
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []TurnResult) Summary {
	s := Summary{TotalTurns: len(results), BySource: map[resolver.Source]int{}}
	for _, r := range results {
		switch {
		case r.Kind == KindInput:
			s.BySource[r.Source]++
		case r.Error != "":
			s.Errors++
		case r.Kind == KindTeach:
			s.Taught++
		}
	}
	return s
}

func errorLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrNoPendingLearning):
		return ErrLabelNoPending
	case errors.Is(err, session.ErrEmptyAnswer):
		return ErrLabelEmptyAnswer
	default:
		return err.Error()
	}
}

// #endregion replay
