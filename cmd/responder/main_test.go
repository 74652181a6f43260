package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/config"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/logging"
)

// #region helpers
const testCorpus = `[
  {"tag": "greeting", "patterns": ["hi", "hello"], "responses": ["Hello!"]},
  {"tag": "irrigation", "patterns": ["how do I irrigate crops"], "responses": ["Use drip irrigation for efficiency."]}
]`

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "intents.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpus), 0o644))

	t.Chdir(dir)
	v := config.NewViper()
	v.Set("corpus_path", corpusPath)
	v.Set("db_path", filepath.Join(dir, "responder.db"))
	v.Set("learned.backend", backend)
	v.Set("learned.path", filepath.Join(dir, "learned.json"))
	c, err := config.Load(v, "")
	require.NoError(t, err)
	return c
}

// #endregion helpers

// #region app-tests
func TestBuildApp_RecordsRunAndServesTurns(t *testing.T) {
	for _, backend := range []string{learned.BackendJSON, learned.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			c := testConfig(t, backend)
			a, err := buildApp(c, zap.NewNop(), nil)
			require.NoError(t, err)
			defer a.Close()

			assert.NotEmpty(t, a.run.RunID)
			runs, err := a.db.ListTrainingRuns(5)
			require.NoError(t, err)
			assert.Len(t, runs, 1)

			s := a.newSession("s1")
			assert.Equal(t, "Hello!", s.Submit("hi").Text)

			res := s.Submit("how do I irrigate crops")
			require.True(t, res.LearningRequested, "confidence %.3f should be below the gate", res.Confidence)
			_, err = s.Teach("Drip is best.")
			require.NoError(t, err)
			assert.Equal(t, "Drip is best.", s.Submit("How do I irrigate crops").Text)

			history, err := logging.History(a.db.DB(), 0)
			require.NoError(t, err)
			assert.Len(t, history, 3)
		})
	}
}

func TestBuildApp_MalformedLearnedFileFailsLoudly(t *testing.T) {
	c := testConfig(t, learned.BackendJSON)
	require.NoError(t, os.WriteFile(c.Learned.Path, []byte("{not json"), 0o644))

	_, err := buildApp(c, zap.NewNop(), nil)
	var loadErr *learned.StoreLoadError
	assert.ErrorAs(t, err, &loadErr)
}

// #endregion app-tests

// #region chat-tests
func TestChatLoop_LearningMode(t *testing.T) {
	c := testConfig(t, learned.BackendJSON)
	a, err := buildApp(c, zap.NewNop(), nil)
	require.NoError(t, err)
	defer a.Close()

	in := strings.NewReader(strings.Join([]string{
		"hi",
		"how do I irrigate crops",
		"/teach Drip is best.",
		"HOW DO I IRRIGATE CROPS",
		"how do I irrigate",
		"hi",
		"/skip",
		"how do I irrigate",
		"/reset",
		"/teach compost",
		"/teach",
		"quit",
		"never read",
	}, "\n"))
	var out bytes.Buffer
	require.NoError(t, chatLoop(in, &out, a.newSession("chat")))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "Hello!"), "a question asked in learning mode is answered, not stored")
	assert.Equal(t, 1, strings.Count(text, "Thank you! I have learned this"))
	assert.Equal(t, 1, strings.Count(text, "Drip is best."), "the taught answer is replied once and input is not echoed")
	assert.Equal(t, 3, strings.Count(text, "(learning mode: /teach <correct answer>"))
	assert.Equal(t, 2, strings.Count(text, "(learning mode off)"))
	assert.Equal(t, 2, strings.Count(text, "(could not save: no pending learning)"))
	assert.Contains(t, text, "learning> ")

	_, ok, err := a.store.Get("how do i irrigate")
	require.NoError(t, err)
	assert.False(t, ok, "nothing was taught for the second question")
}

func TestTeachArgument(t *testing.T) {
	tests := []struct {
		line   string
		answer string
		ok     bool
	}{
		{"/teach Drip is best.", "Drip is best.", true},
		{"/teach   spaced  ", "spaced", true},
		{"/teach", "", true},
		{"/teacher says hi", "", false},
		{"how do I /teach", "", false},
	}
	for _, tt := range tests {
		answer, ok := teachArgument(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.answer, answer, tt.line)
	}
}

func TestChatLoop_EOF(t *testing.T) {
	c := testConfig(t, learned.BackendJSON)
	a, err := buildApp(c, zap.NewNop(), nil)
	require.NoError(t, err)
	defer a.Close()

	var out bytes.Buffer
	assert.NoError(t, chatLoop(strings.NewReader("hi"), &out, a.newSession("eof")))
	assert.Contains(t, out.String(), "Hello!")
}

// #endregion chat-tests

// #region helper-tests
func TestFilterEntries(t *testing.T) {
	entries := []learned.Entry{
		{Key: "how do i irrigate crops", Value: "drip"},
		{Key: "what is mulch", Value: "cover"},
		{Key: "best soil for tomatoes", Value: "loam"},
	}
	got := filterEntries(entries, "IRRIG")
	require.Len(t, got, 1)
	assert.Equal(t, "drip", got[0].Value)

	assert.Len(t, filterEntries(entries, ""), 3)
	assert.Empty(t, filterEntries(entries, "zzz"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
}

// #endregion helper-tests
