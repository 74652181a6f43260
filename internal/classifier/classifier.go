package classifier

// #region imports
import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/intent-responder/internal/corpus"
)

// #endregion imports

// #region classifier
// Classifier is the immutable (vectorizer, model) pair produced by Train.
// It is safe to share across goroutines once built.
type Classifier struct {
	vectorizer *Vectorizer
	model      *Model
	stats      Stats
}

// Vectorizer exposes the fitted feature mapping.
func (c *Classifier) Vectorizer() *Vectorizer { return c.vectorizer }

// Model exposes the fitted logistic regression.
func (c *Classifier) Model() *Model { return c.model }

// Stats reports what the training run saw and did.
func (c *Classifier) Stats() Stats { return c.stats }

// #endregion classifier

// #region train
// Train fits a classifier on every pattern in the corpus, labelled with its
// intent's tag. The corpus is validated first.
func Train(intents []corpus.Intent, opts ...Option) (*Classifier, error) {
	if err := corpus.Validate(intents); err != nil {
		return nil, err
	}

	cfg := DefaultTrainConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxIter < 0 || cfg.C <= 0 || cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("train: invalid solver config max_iter=%d c=%g learning_rate=%g",
			cfg.MaxIter, cfg.C, cfg.LearningRate)
	}

	// Flatten patterns; tags become labels.
	var docs, tags []string
	for _, in := range intents {
		for _, p := range in.Patterns {
			docs = append(docs, p)
			tags = append(tags, in.Tag)
		}
	}

	classes := uniqueSorted(tags)
	classIdx := make(map[string]int, len(classes))
	for i, tag := range classes {
		classIdx[tag] = i
	}
	labels := make([]int, len(tags))
	for i, tag := range tags {
		labels[i] = classIdx[tag]
	}

	vec := fitVectorizer(docs)
	rows := make([][]feature, len(docs))
	for i, d := range docs {
		rows[i] = vec.transform(d)
	}

	model, iters, converged := fitModel(rows, labels, classes, vec.Size(), cfg)

	return &Classifier{
		vectorizer: vec,
		model:      model,
		stats: Stats{
			Samples:    len(docs),
			Classes:    len(classes),
			Vocabulary: vec.Size(),
			Iterations: iters,
			Converged:  converged,
		},
	}, nil
}

// #endregion train

// #region predict
// Predict classifies raw text. It never fails: text sharing no vocabulary
// with the corpus maps to the zero vector and is scored on intercepts alone.
func (c *Classifier) Predict(text string) Prediction {
	probs := c.model.probabilities(c.vectorizer.transform(text))
	best := argmax(probs)

	dist := make(map[string]float64, len(probs))
	for i, p := range probs {
		dist[c.model.classes[i]] = p
	}
	return Prediction{
		Tag:           c.model.classes[best],
		Confidence:    probs[best],
		Probabilities: dist,
	}
}

// #endregion predict

// #region helpers
func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// #endregion helpers
