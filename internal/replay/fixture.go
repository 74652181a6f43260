package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/intent-responder/internal/corpus"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a corpus, the
// settings to train and gate it with, and a scripted conversation.
type Fixture struct {
	Description string            `json:"description"`
	Seed        uint64            `json:"seed"`
	Config      FixtureConfig     `json:"config"`
	Intents     []corpus.Intent   `json:"intents"`
	Learned     map[string]string `json:"learned"`
	Turns       []FixtureTurn     `json:"turns"`
}

// FixtureConfig holds the gate settings. Zero values take the defaults.
type FixtureConfig struct {
	Threshold     *float64 `json:"threshold"`
	SystemIntents []string `json:"system_intents"`
}

// FixtureTurn is one scripted step. Exactly one of Input, Teach or Reset is used.
type FixtureTurn struct {
	TurnID string          `json:"turn_id"`
	Input  *string         `json:"input,omitempty"`
	Teach  *string         `json:"teach,omitempty"`
	Reset  bool            `json:"reset,omitempty"`
	Expect FixtureExpected `json:"expect"`
}

// FixtureExpected pins the outcome of a turn. Empty fields are not checked.
type FixtureExpected struct {
	Source            string `json:"source,omitempty"`
	Text              string `json:"text,omitempty"`
	LearningRequested *bool  `json:"learning_requested,omitempty"`
	Error             string `json:"error,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := corpus.Validate(f.Intents); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	for i, turn := range f.Turns {
		if kindOf(turn) == "" {
			return nil, fmt.Errorf("fixture %s: turn %d (%s) needs exactly one of input, teach, reset", path, i, turn.TurnID)
		}
	}
	return &f, nil
}

// ToGateConfig converts the fixture settings to a gate config, unioning the
// corpus system flags with the listed tags.
func (f *Fixture) ToGateConfig() gate.GateConfig {
	cfg := gate.DefaultGateConfig()
	if f.Config.Threshold != nil {
		cfg.Threshold = *f.Config.Threshold
	}
	if len(f.Config.SystemIntents) > 0 {
		cfg.SystemIntents = f.Config.SystemIntents
	}
	cfg.SystemIntents = append(append([]string{}, cfg.SystemIntents...), corpus.SystemTags(f.Intents)...)
	return cfg
}

// ToTurn converts a FixtureTurn to a domain Turn.
func (ft *FixtureTurn) ToTurn() Turn {
	t := Turn{TurnID: ft.TurnID, Kind: kindOf(*ft)}
	switch t.Kind {
	case KindInput:
		t.Text = *ft.Input
	case KindTeach:
		t.Text = *ft.Teach
	}
	return t
}

func kindOf(ft FixtureTurn) TurnKind {
	n := 0
	var k TurnKind
	if ft.Input != nil {
		n, k = n+1, KindInput
	}
	if ft.Teach != nil {
		n, k = n+1, KindTeach
	}
	if ft.Reset {
		n, k = n+1, KindReset
	}
	if n != 1 {
		return ""
	}
	return k
}

// #endregion fixture-loader
