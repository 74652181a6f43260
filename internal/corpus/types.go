package corpus

import "fmt"

// #region intent
// Intent is one named category of user request: example phrasings and the
// replies the responder may give when the category is matched.
type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
	System    bool     `json:"system,omitempty" yaml:"system,omitempty"` // exempt from confidence gating
}

// #endregion intent

// #region invalid-corpus-error
// InvalidCorpusError reports a corpus that cannot be trained on.
// Index is -1 when the problem is not tied to a single intent.
type InvalidCorpusError struct {
	Index  int
	Tag    string
	Reason string
}

func (e *InvalidCorpusError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid corpus: %s", e.Reason)
	}
	return fmt.Sprintf("invalid corpus: intent %d (%q): %s", e.Index, e.Tag, e.Reason)
}

// #endregion invalid-corpus-error
