package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `[
	{"id": "10", "collection": "bukhari", "text_ar": "عشرة"},
	{"id": 2, "collection": "bukhari", "text_ar": "بِسْمِ الله"},
	{"id": "1", "collection": "muslim", "text_ar": "الدِّينُ النَّصِيحَةُ"},
	{"id": "3", "collection": "muslim", "text_ar": ""}
]`

type testEnv struct {
	t       *testing.T
	dbPath  string
	dataset string
	export  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	dataset := filepath.Join(dir, "dataset.json")
	require.NoError(t, os.WriteFile(dataset, []byte(testDataset), 0644))

	env := &testEnv{
		t:       t,
		dbPath:  filepath.Join(dir, "hadith.db"),
		dataset: dataset,
		export:  filepath.Join(dir, "export"),
	}
	t.Setenv("DATABASE_LOG_LEVEL", "silent")
	t.Setenv("DEFAULT_COLLECTION", "bukhari")
	t.Setenv("EXPORT_DIR", env.export)
	return env
}

type runResult struct {
	out    string
	errOut string
	err    error
}

func (e *testEnv) runWith(interactive bool, stdin string, args ...string) runResult {
	e.t.Helper()
	s := &state{interactive: func() bool { return interactive }}
	cmd := newRootCmd("test", s)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", e.dbPath, "--dataset", e.dataset}, args...))

	err := cmd.Execute()
	return runResult{out: out.String(), errOut: errOut.String(), err: err}
}

func (e *testEnv) run(args ...string) runResult {
	e.t.Helper()
	return e.runWith(false, "", args...)
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	first := env.run("init")
	require.NoError(t, first.err)
	assert.Contains(t, first.out, "schema version")
	assert.Contains(t, first.out, "Imported 3 hadith into 2 collections (bukhari, muslim), 1 skipped")
	assert.Contains(t, first.out, "Default collection bukhari: 2 hadith")

	second := env.run("init")
	require.NoError(t, second.err)
	assert.Contains(t, second.out, "Dataset already imported")
}

func TestBrowseCommands(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run("init").err)

	t.Run("collections", func(t *testing.T) {
		res := env.run("collections")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "  bukhari      Sahih al-Bukhari\n")
		assert.Contains(t, res.out, "  muslim       Sahih Muslim\n")
	})

	t.Run("list one collection in numeric order", func(t *testing.T) {
		res := env.run("list", "bukhari")
		require.NoError(t, res.err)
		assert.Less(t, strings.Index(res.out, "[bukhari:2]"), strings.Index(res.out, "[bukhari:10]"))
		assert.Contains(t, res.out, "2 hadith\n")
	})

	t.Run("list everything without a selection", func(t *testing.T) {
		res := env.run("list")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "3 hadith\n")
	})

	t.Run("list unknown collection", func(t *testing.T) {
		res := env.run("list", "nawawi40")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "No hadith found")
	})

	t.Run("search ignores diacritics", func(t *testing.T) {
		res := env.run("search", "بسم")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "[bukhari:2]\nبِسْمِ الله\n")
		assert.Contains(t, res.out, "1 hadith\n")
	})

	t.Run("empty search lists the default collection", func(t *testing.T) {
		res := env.run("search")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "[bukhari:10]")
		assert.NotContains(t, res.out, "[muslim:1]")
	})

	t.Run("search within a collection", func(t *testing.T) {
		res := env.run("search", "ال", "--collection", "muslim")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "[muslim:1]")
		assert.NotContains(t, res.out, "[bukhari:2]")
	})

	t.Run("search without matches", func(t *testing.T) {
		res := env.run("search", "زكاة")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "No hadith match")
	})

	t.Run("get", func(t *testing.T) {
		res := env.run("get", "muslim:1")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "الدِّينُ النَّصِيحَةُ")

		res = env.run("get", "muslim:99")
		assert.EqualError(t, res.err, "hadith muslim:99 not found")
	})
}

func TestSelectCommand(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run("init").err)

	res := env.run("select", "unknown")
	assert.EqualError(t, res.err, "unknown collection: unknown")

	res = env.run("select")
	assert.Error(t, res.err)

	res = env.run("select", "muslim")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Selected: muslim")

	res = env.run("select", "--show")
	require.NoError(t, res.err)
	assert.Equal(t, "muslim\n", res.out)

	res = env.run("collections")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "* muslim")

	res = env.run("list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "1 hadith\n")

	res = env.run("search", "ال", "--selected")
	require.NoError(t, res.err)
	assert.NotContains(t, res.out, "[bukhari:")

	res = env.run("select", "--clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Selection cleared")

	res = env.run("select", "--show")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No collections selected")
}

func TestStatusAndExportCommands(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("status")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Seeded:         true")
	assert.Contains(t, res.out, "Hadith:         3")
	assert.Contains(t, res.out, "  bukhari      2\n")
	assert.Contains(t, res.out, "Last export:    never")

	res = env.run("export")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Exported 2 collections, 3 hadith to "+env.export)
	assert.FileExists(t, filepath.Join(env.export, "bukhari.md"))
	assert.FileExists(t, filepath.Join(env.export, "muslim.md"))

	res = env.run("status")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Last export:    success")

	other := filepath.Join(t.TempDir(), "other")
	res = env.run("export", "--collection", "muslim", "--dir", other)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Exported 1 collections, 1 hadith to "+other)
	assert.NoFileExists(t, filepath.Join(other, "bukhari.md"))
}

func TestBootstrapFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dbPath = filepath.Join(t.TempDir(), "missing", "hadith.db")

	t.Run("non-interactive reports and fails", func(t *testing.T) {
		res := env.run("list")
		require.Error(t, res.err)
		assert.Contains(t, res.errOut, "could not be loaded")
		assert.NotContains(t, res.errOut, "Retry?")
	})

	t.Run("interactive offers retry until declined", func(t *testing.T) {
		res := env.runWith(true, "y\nn\n", "list")
		require.Error(t, res.err)
		assert.Equal(t, 2, strings.Count(res.errOut, "Retry? [y/N]"))
		assert.Equal(t, 2, strings.Count(res.errOut, "could not be loaded"))
	})

	t.Run("end of input means no", func(t *testing.T) {
		res := env.runWith(true, "", "list")
		require.Error(t, res.err)
		assert.Equal(t, 1, strings.Count(res.errOut, "Retry? [y/N]"))
	})
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y \n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"y", true},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := newPrompt(strings.NewReader(tt.input), &out).confirm("Retry?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.True(t, strings.HasPrefix(out.String(), "Retry? [y/N] "))
	}
}
