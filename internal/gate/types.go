package gate

// #region action
// Action is what the resolver should do with a classification.
type Action string

const (
	ActionSystem    Action = "system"    // system intent, answer regardless of confidence
	ActionAnswer    Action = "answer"    // confident domain intent
	ActionUncertain Action = "uncertain" // below threshold, ask the user to teach
)

// #endregion action

// #region gate-config
// GateConfig holds the confidence threshold and the tags exempt from it.
type GateConfig struct {
	Threshold     float64  // domain intents below this are uncertain
	SystemIntents []string // greeting/farewell/self-description tags
}

// DefaultThreshold is the minimum confidence for a domain intent answer.
const DefaultThreshold = 0.55

// DefaultSystemIntents are the meta-conversation tags that must always answer.
func DefaultSystemIntents() []string {
	return []string{"greeting", "goodbye", "about_bot"}
}

// DefaultGateConfig returns the shipped gate settings.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Threshold:     DefaultThreshold,
		SystemIntents: DefaultSystemIntents(),
	}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action     Action
	Reason     string
	Tag        string
	Confidence float64
}

// #endregion gate-decision
