package corpus

// #region imports
import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// #endregion imports

// #region document
// document is the wrapped form {"intents": [...]} accepted alongside a bare list.
type document struct {
	Intents []Intent `json:"intents" yaml:"intents"`
}

// #endregion document

// #region load
// Load reads an intent corpus from path and validates it.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func Load(path string) ([]Intent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var intents []Intent
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		intents, err = parseYAML(raw)
	default:
		intents, err = parseJSON(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	if err := Validate(intents); err != nil {
		return nil, err
	}
	return intents, nil
}

func parseJSON(raw []byte) ([]Intent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var intents []Intent
		if err := json.Unmarshal(trimmed, &intents); err != nil {
			return nil, err
		}
		return intents, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Intents, nil
}

func parseYAML(raw []byte) ([]Intent, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var intents []Intent
		if err := node.Decode(&intents); err != nil {
			return nil, err
		}
		return intents, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Intents, nil
}

// #endregion load

// #region validate
// Validate checks the corpus invariants: at least one intent, non-empty unique
// tags, and at least one pattern and one response per intent.
func Validate(intents []Intent) error {
	if len(intents) == 0 {
		return &InvalidCorpusError{Index: -1, Reason: "no intents defined"}
	}
	seen := make(map[string]int, len(intents))
	for i, in := range intents {
		if strings.TrimSpace(in.Tag) == "" {
			return &InvalidCorpusError{Index: i, Tag: in.Tag, Reason: "empty tag"}
		}
		if prev, dup := seen[in.Tag]; dup {
			return &InvalidCorpusError{Index: i, Tag: in.Tag, Reason: fmt.Sprintf("duplicate tag, first defined at %d", prev)}
		}
		seen[in.Tag] = i
		if len(in.Patterns) == 0 {
			return &InvalidCorpusError{Index: i, Tag: in.Tag, Reason: "no patterns"}
		}
		if len(in.Responses) == 0 {
			return &InvalidCorpusError{Index: i, Tag: in.Tag, Reason: "no responses"}
		}
	}
	return nil
}

// #endregion validate

// #region index
// Index maps tags to their intents for constant-time lookup after training.
type Index map[string]Intent

// NewIndex builds a tag index. Callers validate first; later duplicates win.
func NewIndex(intents []Intent) Index {
	idx := make(Index, len(intents))
	for _, in := range intents {
		idx[in.Tag] = in
	}
	return idx
}

// SystemTags returns the tags of intents flagged System in the corpus itself.
func SystemTags(intents []Intent) []string {
	var tags []string
	for _, in := range intents {
		if in.System {
			tags = append(tags, in.Tag)
		}
	}
	return tags
}

// #endregion index

// #region fingerprint
// Fingerprint is a stable hash of the corpus content, recorded with each
// training run so a changed corpus is visible in the run history.
func Fingerprint(intents []Intent) string {
	raw, _ := json.Marshal(intents)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// #endregion fingerprint
