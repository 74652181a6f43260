package resolver

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
	"github.com/danielpatrickdp/intent-responder/internal/corpus"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
)

// #region fakes
type fixedPredictor struct {
	tag        string
	confidence float64
	calls      int
	lastInput  string
}

func (f *fixedPredictor) Predict(text string) classifier.Prediction {
	f.calls++
	f.lastInput = text
	return classifier.Prediction{
		Tag:           f.tag,
		Confidence:    f.confidence,
		Probabilities: map[string]float64{f.tag: f.confidence},
	}
}

type panicPredictor struct{}

func (panicPredictor) Predict(string) classifier.Prediction { panic("model not loaded") }

type brokenStore struct{ learned.Store }

func (brokenStore) Get(string) (string, bool, error) { return "", false, errors.New("disk on fire") }

// #endregion fakes

// #region fixtures
func scenarioIntents() []corpus.Intent {
	return []corpus.Intent{
		{Tag: "greeting", Patterns: []string{"hi", "hello"}, Responses: []string{"Hello!"}, System: true},
		{Tag: "irrigation", Patterns: []string{"how do I irrigate crops"}, Responses: []string{"Use drip irrigation for efficiency."}},
	}
}

func newResolver(p Predictor, store learned.Store) *Resolver {
	return New(p, scenarioIntents(), store, gate.NewGate(gate.DefaultGateConfig()),
		WithRand(rand.New(rand.NewPCG(1, 2))))
}

// #endregion fixtures

// #region scenario-tests
func TestResolve_Scenario(t *testing.T) {
	store := learned.NewMemoryStore(nil)

	greet := newResolver(&fixedPredictor{tag: "greeting", confidence: 0.3}, store)
	got := greet.Resolve("hi")
	assert.Equal(t, "Hello!", got.Text)
	assert.False(t, got.LearningRequested)
	assert.Equal(t, SourceSystem, got.Source)

	confident := newResolver(&fixedPredictor{tag: "irrigation", confidence: 0.8}, store)
	got = confident.Resolve("how do I irrigate crops")
	assert.Equal(t, "Use drip irrigation for efficiency.", got.Text)
	assert.False(t, got.LearningRequested)
	assert.Equal(t, SourceIntent, got.Source)

	unsure := newResolver(&fixedPredictor{tag: "irrigation", confidence: 0.2}, store)
	got = unsure.Resolve("how do I irrigate crops")
	assert.True(t, strings.HasPrefix(got.Text, "I'm not sure about this yet"))
	assert.True(t, got.LearningRequested)
	assert.Equal(t, "how do i irrigate crops", got.LearningKey)

	require.NoError(t, store.Put("how do i irrigate crops", "Drip is best."))
	got = unsure.Resolve("how do I irrigate crops")
	assert.Equal(t, Result{Text: "Drip is best.", Source: SourceLearned}, got)
}

func TestResolve_TrainedScenario(t *testing.T) {
	c, err := classifier.Train(scenarioIntents())
	require.NoError(t, err)
	g := gate.NewGate(gate.GateConfig{
		Threshold:     gate.DefaultThreshold,
		SystemIntents: corpus.SystemTags(scenarioIntents()),
	})
	r := New(c, scenarioIntents(), learned.NewMemoryStore(nil), g)

	got := r.Resolve("hi")
	assert.Equal(t, "Hello!", got.Text)
	assert.False(t, got.LearningRequested)
	assert.Equal(t, "greeting", got.Tag)
}

// #endregion scenario-tests

// #region precedence-tests
func TestResolve_LearnedOverridePrecedence(t *testing.T) {
	store := learned.NewMemoryStore(map[string]string{
		"hi":                      "Learned hello.",
		"how do i irrigate crops": "Drip is best.",
	})
	p := &fixedPredictor{tag: "greeting", confidence: 0.99}
	r := newResolver(p, store)

	for _, in := range []string{"hi", "HI", "  Hi\t", "how do I irrigate crops", " HOW DO I IRRIGATE CROPS "} {
		got := r.Resolve(in)
		assert.Equal(t, SourceLearned, got.Source, "input %q", in)
		assert.False(t, got.LearningRequested)
	}
	assert.Equal(t, "Learned hello.", r.Resolve("HI").Text)
	assert.Zero(t, p.calls, "classifier must not run when a learned answer exists")
}

func TestResolve_ClassifiesRawInput(t *testing.T) {
	p := &fixedPredictor{tag: "irrigation", confidence: 0.9}
	r := newResolver(p, nil)

	r.Resolve("  How Do I Irrigate?  ")
	assert.Equal(t, "  How Do I Irrigate?  ", p.lastInput)
}

// #endregion precedence-tests

// #region gate-tests
func TestResolve_SystemIntentsAlwaysAnswer(t *testing.T) {
	for _, c := range []float64{0, 0.01, 0.2, 0.5499, 0.9} {
		r := newResolver(&fixedPredictor{tag: "greeting", confidence: c}, nil)
		got := r.Resolve("anything at all")
		assert.Equal(t, SourceSystem, got.Source, "confidence %.4f", c)
		assert.NotEqual(t, r.Messages().Uncertain, got.Text)
		assert.False(t, got.LearningRequested)
	}
}

func TestResolve_ConfidenceGate(t *testing.T) {
	tests := []struct {
		confidence float64
		uncertain  bool
	}{
		{0.0, true},
		{0.2, true},
		{0.549, true},
		{0.55, false},
		{0.56, false},
		{1.0, false},
	}
	for _, tt := range tests {
		r := newResolver(&fixedPredictor{tag: "irrigation", confidence: tt.confidence}, nil)
		got := r.Resolve(" How do I irrigate crops ")
		if tt.uncertain {
			assert.Equal(t, DefaultMessages().Uncertain, got.Text, "confidence %.3f", tt.confidence)
			assert.True(t, got.LearningRequested)
			assert.Equal(t, "how do i irrigate crops", got.LearningKey)
		} else {
			assert.Equal(t, "Use drip irrigation for efficiency.", got.Text, "confidence %.3f", tt.confidence)
			assert.False(t, got.LearningRequested)
			assert.Empty(t, got.LearningKey)
		}
	}
}

// #endregion gate-tests

// #region fallback-tests
func TestResolve_UnknownTagFallsBack(t *testing.T) {
	r := newResolver(&fixedPredictor{tag: "weather", confidence: 0.9}, nil)
	got := r.Resolve("will it rain")
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, DefaultMessages().Fallback, got.Text)
	assert.False(t, got.LearningRequested)

	// Below threshold the gate still asks to learn.
	r = newResolver(&fixedPredictor{tag: "weather", confidence: 0.1}, nil)
	assert.Equal(t, SourceUncertain, r.Resolve("will it rain").Source)
}

func TestResolve_UnknownSystemTagFallsBack(t *testing.T) {
	r := newResolver(&fixedPredictor{tag: "goodbye", confidence: 0.9}, nil)
	assert.Equal(t, SourceFallback, r.Resolve("bye").Source)
}

func TestResolve_StoreErrorStillClassifies(t *testing.T) {
	r := newResolver(&fixedPredictor{tag: "irrigation", confidence: 0.9}, brokenStore{})
	got := r.Resolve("how do I irrigate crops")
	assert.Equal(t, SourceIntent, got.Source)
}

func TestResolve_PanicFallsBack(t *testing.T) {
	r := newResolver(panicPredictor{}, nil)
	got := r.Resolve("hi")
	assert.Equal(t, Result{Text: DefaultMessages().Fallback, Source: SourceFallback}, got)
}

func TestResolve_CustomMessages(t *testing.T) {
	r := New(&fixedPredictor{tag: "irrigation", confidence: 0.1}, scenarioIntents(), nil, nil,
		WithMessages(Messages{Uncertain: "Teach me?"}))
	assert.Equal(t, "Teach me?", r.Resolve("x").Text)
	assert.Equal(t, DefaultMessages().Fallback, r.Messages().Fallback)
}

// #endregion fallback-tests

// #region selection-tests
func TestResolve_RandomResponseCoversAll(t *testing.T) {
	intents := []corpus.Intent{{
		Tag:       "soil",
		Patterns:  []string{"soil"},
		Responses: []string{"Compost.", "Test pH.", "Rotate crops."},
	}}
	r := New(&fixedPredictor{tag: "soil", confidence: 1}, intents, nil, nil,
		WithRand(rand.New(rand.NewPCG(7, 7))))

	seen := map[string]int{}
	for range 300 {
		seen[r.Resolve("soil").Text]++
	}
	require.Len(t, seen, 3)
	for text, n := range seen {
		assert.Greater(t, n, 50, "response %q picked too rarely", text)
	}
}

// #endregion selection-tests

// #region totality-tests
func TestResolve_Totality(t *testing.T) {
	intents := append(scenarioIntents(), corpus.Intent{
		Tag: "goodbye", Patterns: []string{"bye", "see you"}, Responses: []string{"Goodbye!"}, System: true,
	})
	c, err := classifier.Train(intents)
	require.NoError(t, err)
	r := New(c, intents, learned.NewMemoryStore(nil), nil)

	faker := gofakeit.New(42)
	inputs := []string{
		"",
		" ",
		"\n\t",
		faker.LetterN(1000),
		faker.Sentence(200),
		"¿Cómo riego mis cultivos? 灌溉 🌾",
		string([]byte{0xff, 0xfe, 0x00}),
	}
	for _, in := range inputs {
		got := r.Resolve(in)
		assert.NotEmpty(t, got.Text, "input %q", in)
		assert.Contains(t, []Source{SourceSystem, SourceIntent, SourceUncertain, SourceFallback}, got.Source)
		if got.LearningRequested {
			assert.Equal(t, learned.Normalize(in), got.LearningKey)
		}
	}

	blank := r.Resolve("   ")
	if blank.LearningRequested {
		assert.Equal(t, "", blank.LearningKey)
	}
}

// #endregion totality-tests
