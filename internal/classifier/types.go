package classifier

// #region prediction
// Prediction is the classifier output for one input.
type Prediction struct {
	Tag           string             // top-1 class
	Confidence    float64            // max probability across all classes
	Probabilities map[string]float64 // sums to 1 within float tolerance
}

// #endregion prediction

// #region train-config
// TrainConfig holds the solver settings for the logistic regression model.
type TrainConfig struct {
	MaxIter      int                  // full-batch gradient steps
	C            float64              // inverse L2 regularization strength
	LearningRate float64              // gradient step size
	Tolerance    float64              // stop when the largest gradient component drops below this
	Progress     func(iter, max int) // optional, called after every step
}

// DefaultTrainConfig mirrors the solver the responder ships with.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MaxIter:      1000,
		C:            1.0,
		LearningRate: 1.0,
		Tolerance:    1e-6,
	}
}

// Option adjusts a TrainConfig.
type Option func(*TrainConfig)

// WithMaxIter caps the number of gradient steps.
func WithMaxIter(n int) Option { return func(c *TrainConfig) { c.MaxIter = n } }

// WithC sets the inverse regularization strength.
func WithC(v float64) Option { return func(c *TrainConfig) { c.C = v } }

// WithLearningRate sets the gradient step size.
func WithLearningRate(v float64) Option { return func(c *TrainConfig) { c.LearningRate = v } }

// WithTolerance sets the convergence threshold.
func WithTolerance(v float64) Option { return func(c *TrainConfig) { c.Tolerance = v } }

// WithProgress registers a per-step callback.
func WithProgress(fn func(iter, max int)) Option { return func(c *TrainConfig) { c.Progress = fn } }

// #endregion train-config

// #region stats
// Stats summarizes a finished training run.
type Stats struct {
	Samples    int
	Classes    int
	Vocabulary int
	Iterations int
	Converged  bool
}

// #endregion stats
