package resolver

// #region imports
import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/corpus"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
)

// #endregion imports

// #region resolver-struct
// Resolver turns one raw user input into one reply: learned override first,
// then classification behind the confidence gate.
type Resolver struct {
	predictor Predictor
	intents   corpus.Index
	store     learned.Store
	gate      *gate.Gate
	messages  Messages
	rng       *rand.Rand
	log       *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMessages overrides the fixed replies. Empty fields keep the defaults.
func WithMessages(m Messages) Option {
	return func(r *Resolver) {
		if m.Uncertain != "" {
			r.messages.Uncertain = m.Uncertain
		}
		if m.Fallback != "" {
			r.messages.Fallback = m.Fallback
		}
	}
}

// WithRand sets the source used to pick among an intent's responses.
func WithRand(rng *rand.Rand) Option {
	return func(r *Resolver) { r.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// #endregion resolver-struct

// #region constructor
// New wires a resolver. The predictor must have been trained on intents.
func New(p Predictor, intents []corpus.Intent, store learned.Store, g *gate.Gate, opts ...Option) *Resolver {
	if store == nil {
		store = learned.NewMemoryStore(nil)
	}
	if g == nil {
		g = gate.NewGate(gate.DefaultGateConfig())
	}
	r := &Resolver{
		predictor: p,
		intents:   corpus.NewIndex(intents),
		store:     store,
		gate:      g,
		messages:  DefaultMessages(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Messages returns the fixed replies in use.
func (r *Resolver) Messages() Messages { return r.messages }

// #endregion constructor

// #region resolve
// Resolve never fails. Store read errors are logged and classification
// proceeds; any unexpected internal state yields the fallback message.
func (r *Resolver) Resolve(raw string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("resolve recovered from panic", zap.Any("panic", rec), zap.String("input", raw))
			res = Result{Text: r.messages.Fallback, Source: SourceFallback}
		}
	}()

	key := learned.Normalize(raw)

	// 1. Learned override.
	value, ok, err := r.store.Get(key)
	if err != nil {
		r.log.Warn("learned store read failed, classifying instead", zap.String("key", key), zap.Error(err))
	} else if ok {
		r.log.Debug("resolved", zap.String("source", string(SourceLearned)), zap.String("key", key))
		return Result{Text: value, Source: SourceLearned}
	}

	// 2. Classify the raw input.
	pred := r.predictor.Predict(raw)
	decision := r.gate.Evaluate(pred)
	res = Result{Tag: pred.Tag, Confidence: pred.Confidence}
	intent, known := r.intents[pred.Tag]

	switch decision.Action {
	case gate.ActionSystem:
		// 3. System intents always answer.
		if text, ok := r.pick(intent.Responses); known && ok {
			res.Text, res.Source = text, SourceSystem
			r.logResolved(res, decision.Reason)
			return res
		}
	case gate.ActionUncertain:
		// 4. Below threshold: ask to be taught.
		res.Text, res.Source = r.messages.Uncertain, SourceUncertain
		res.LearningRequested, res.LearningKey = true, key
		r.logResolved(res, decision.Reason)
		return res
	case gate.ActionAnswer:
		// 5. Confident domain answer.
		if text, ok := r.pick(intent.Responses); known && ok {
			res.Text, res.Source = text, SourceIntent
			r.logResolved(res, decision.Reason)
			return res
		}
	}

	// 6. Corpus and classifier disagree.
	r.log.Warn("falling back", zap.Error(ErrCorpusClassifierMismatch), zap.String("tag", pred.Tag))
	res.Text, res.Source = r.messages.Fallback, SourceFallback
	return res
}

// #endregion resolve

// #region helpers
// pick chooses one response uniformly at random.
func (r *Resolver) pick(responses []string) (string, bool) {
	if len(responses) == 0 {
		return "", false
	}
	return responses[r.rng.IntN(len(responses))], true
}

func (r *Resolver) logResolved(res Result, reason string) {
	r.log.Debug("resolved",
		zap.String("source", string(res.Source)),
		zap.String("tag", res.Tag),
		zap.Float64("confidence", res.Confidence),
		zap.String("reason", reason),
	)
}

// #endregion helpers
