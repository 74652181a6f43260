package classifier

import "math"

// #region model
// Model is a multinomial (softmax) logistic regression over TF-IDF rows.
// classes is sorted; weights is classes x features.
type Model struct {
	classes []string
	weights [][]float64
	bias    []float64
}

// Classes returns the known tags in model order.
func (m *Model) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// probabilities returns the softmax distribution for one sparse row.
func (m *Model) probabilities(row []feature) []float64 {
	scores := make([]float64, len(m.classes))
	for k := range m.classes {
		s := m.bias[k]
		for _, f := range row {
			s += m.weights[k][f.index] * f.value
		}
		scores[k] = s
	}
	softmax(scores)
	return scores
}

// #endregion model

// #region fit
// fitModel minimizes mean cross-entropy plus (1/(2*C*n))*||W||^2 with
// full-batch gradient descent from zero weights. The intercept is not
// penalized. Returns the step count and whether the tolerance was reached.
func fitModel(rows [][]feature, labels []int, classes []string, dim int, cfg TrainConfig) (*Model, int, bool) {
	k := len(classes)
	m := &Model{
		classes: classes,
		weights: make([][]float64, k),
		bias:    make([]float64, k),
	}
	for c := range m.weights {
		m.weights[c] = make([]float64, dim)
	}

	n := float64(len(rows))
	lambda := 1 / (cfg.C * n)

	gradW := make([][]float64, k)
	for c := range gradW {
		gradW[c] = make([]float64, dim)
	}
	gradB := make([]float64, k)

	iter := 0
	for iter < cfg.MaxIter {
		for c := range gradW {
			clear(gradW[c])
		}
		clear(gradB)

		for i, row := range rows {
			p := m.probabilities(row)
			p[labels[i]] -= 1
			for c := range p {
				gradB[c] += p[c]
				for _, f := range row {
					gradW[c][f.index] += p[c] * f.value
				}
			}
		}

		var maxAbs float64
		for c := range gradW {
			gradB[c] /= n
			maxAbs = math.Max(maxAbs, math.Abs(gradB[c]))
			for j := range gradW[c] {
				gradW[c][j] = gradW[c][j]/n + lambda*m.weights[c][j]
				maxAbs = math.Max(maxAbs, math.Abs(gradW[c][j]))
			}
		}
		if maxAbs < cfg.Tolerance {
			return m, iter, true
		}

		for c := range gradW {
			m.bias[c] -= cfg.LearningRate * gradB[c]
			for j := range gradW[c] {
				m.weights[c][j] -= cfg.LearningRate * gradW[c][j]
			}
		}
		iter++
		if cfg.Progress != nil {
			cfg.Progress(iter, cfg.MaxIter)
		}
	}
	return m, iter, false
}

// #endregion fit

// #region helpers
// softmax rewrites scores in place as a probability distribution.
func softmax(scores []float64) {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(s - maxScore)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}

// argmax returns the first index holding the largest value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// #endregion helpers
