package resolver

import (
	"errors"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
)

// #region predictor
// Predictor classifies raw text. *classifier.Classifier satisfies it; tests
// substitute fixed predictions.
type Predictor interface {
	Predict(text string) classifier.Prediction
}

// #endregion predictor

// #region source
// Source records which step of resolution produced the reply.
type Source string

const (
	SourceLearned   Source = "learned"
	SourceSystem    Source = "system"
	SourceIntent    Source = "intent"
	SourceUncertain Source = "uncertain"
	SourceFallback  Source = "fallback"
)

// #endregion source

// #region messages
// Messages are the fixed replies that do not come from the corpus.
type Messages struct {
	Uncertain string
	Fallback  string
}

// DefaultMessages returns the shipped fixed replies.
func DefaultMessages() Messages {
	return Messages{
		Uncertain: "I'm not sure about this yet. If you know the correct answer, you can tell me and I'll remember it.",
		Fallback:  "I currently focus on smart farming topics.",
	}
}

// #endregion messages

// #region result
// Result is the reply for one turn. When LearningRequested is set the caller
// should collect a correction for LearningKey (which may be the empty string).
type Result struct {
	Text              string
	LearningRequested bool
	LearningKey       string

	Source     Source
	Tag        string  // predicted tag, empty for learned answers
	Confidence float64 // zero for learned answers
}

// #endregion result

// #region errors
// ErrCorpusClassifierMismatch marks a predicted tag with no intent definition.
// It is logged, never returned: the caller sees the fallback message.
var ErrCorpusClassifierMismatch = errors.New("predicted tag has no intent in corpus")

// #endregion errors
