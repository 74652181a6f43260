package gate

import (
	"fmt"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
)

// #region gate
// Gate decides whether a prediction is answered, answered unconditionally as
// a system intent, or turned into a learning request.
type Gate struct {
	config GateConfig
	system map[string]bool
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	system := make(map[string]bool, len(config.SystemIntents))
	for _, tag := range config.SystemIntents {
		system[tag] = true
	}
	return &Gate{config: config, system: system}
}

// Threshold returns the configured confidence threshold.
func (g *Gate) Threshold() float64 {
	return g.config.Threshold
}

// IsSystem reports whether tag bypasses the confidence check.
func (g *Gate) IsSystem(tag string) bool {
	return g.system[tag]
}

// Evaluate checks the system-intent bypass first, then the threshold.
func (g *Gate) Evaluate(pred classifier.Prediction) GateDecision {
	d := GateDecision{Tag: pred.Tag, Confidence: pred.Confidence}

	if g.system[pred.Tag] {
		d.Action = ActionSystem
		d.Reason = fmt.Sprintf("system intent %s: confidence %.4f not gated", pred.Tag, pred.Confidence)
		return d
	}

	if pred.Confidence < g.config.Threshold {
		d.Action = ActionUncertain
		d.Reason = fmt.Sprintf("confidence %.4f < threshold %.4f", pred.Confidence, g.config.Threshold)
		return d
	}

	d.Action = ActionAnswer
	d.Reason = fmt.Sprintf("passed gate: confidence %.4f >= threshold %.4f", pred.Confidence, g.config.Threshold)
	return d
}

// #endregion gate
