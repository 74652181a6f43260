package corpus

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region load-tests
func TestLoad_JSONList(t *testing.T) {
	intents, err := Load(filepath.Join("testdata", "intents.json"))
	require.NoError(t, err)
	require.Len(t, intents, 3)

	want := Intent{
		Tag:       "irrigation",
		Patterns:  []string{"how do I irrigate crops", "best watering method", "drip irrigation"},
		Responses: []string{"Use drip irrigation for efficiency."},
	}
	if diff := cmp.Diff(want, intents[2]); diff != "" {
		t.Errorf("irrigation intent mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLDocument(t *testing.T) {
	intents, err := Load(filepath.Join("testdata", "intents.yaml"))
	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.True(t, intents[0].System)
	assert.False(t, intents[1].System)
	assert.Equal(t, []string{"greeting"}, SystemTags(intents))
	assert.Len(t, intents[1].Responses, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "malformed.json"))
	require.Error(t, err)

	var invalid *InvalidCorpusError
	assert.False(t, errors.As(err, &invalid), "parse failure is not a validation failure")
}

func TestLoad_InvalidCorpus(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "no_responses.json"))
	var invalid *InvalidCorpusError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, "greeting", invalid.Tag)
	assert.Equal(t, "no responses", invalid.Reason)
}

// #endregion load-tests

// #region validate-tests
func TestValidate(t *testing.T) {
	ok := Intent{Tag: "a", Patterns: []string{"x"}, Responses: []string{"y"}}

	tests := []struct {
		name    string
		intents []Intent
		reason  string
	}{
		{"empty", nil, "no intents defined"},
		{"empty-tag", []Intent{{Tag: " ", Patterns: []string{"x"}, Responses: []string{"y"}}}, "empty tag"},
		{"no-patterns", []Intent{{Tag: "a", Responses: []string{"y"}}}, "no patterns"},
		{"no-responses", []Intent{{Tag: "a", Patterns: []string{"x"}}}, "no responses"},
		{"duplicate", []Intent{ok, ok}, "duplicate tag, first defined at 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.intents)
			var invalid *InvalidCorpusError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.reason, invalid.Reason)
		})
	}

	assert.NoError(t, Validate([]Intent{ok}))
}

func TestInvalidCorpusError_Message(t *testing.T) {
	err := &InvalidCorpusError{Index: -1, Reason: "no intents defined"}
	assert.Equal(t, "invalid corpus: no intents defined", err.Error())

	err = &InvalidCorpusError{Index: 2, Tag: "soil", Reason: "no patterns"}
	assert.Equal(t, `invalid corpus: intent 2 ("soil"): no patterns`, err.Error())
}

// #endregion validate-tests

// #region index-tests
func TestNewIndex(t *testing.T) {
	intents := []Intent{
		{Tag: "greeting", Patterns: []string{"hi"}, Responses: []string{"Hello!"}},
		{Tag: "soil", Patterns: []string{"soil"}, Responses: []string{"Compost."}},
	}
	idx := NewIndex(intents)
	require.Len(t, idx, 2)
	assert.Equal(t, "Compost.", idx["soil"].Responses[0])
	_, ok := idx["weather"]
	assert.False(t, ok)
}

// #endregion index-tests

// #region fingerprint-tests
func TestFingerprint(t *testing.T) {
	a := []Intent{{Tag: "greeting", Patterns: []string{"hi"}, Responses: []string{"Hello!"}}}
	b := []Intent{{Tag: "greeting", Patterns: []string{"hi"}, Responses: []string{"Hello!"}}}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)

	b[0].Patterns = append(b[0].Patterns, "hello")
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

// #endregion fingerprint-tests
