package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/remap"
)

type warnRecorder struct {
	warnings []error
}

func (r *warnRecorder) Warn(err error) { r.warnings = append(r.warnings, err) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const firstDoc = `{
  "/src/a.js": {"path": "/src/a.js", "statementMap": {"0": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 4}}}, "s": {"0": 1}},
  "/src/b.js": {"path": "/src/b.js", "s": {}}
}`

const secondDoc = `{
  "/src/b.js": {"path": "/src/b.js", "statementMap": {"0": {"start": {"line": 2, "column": 0}, "end": {"line": 2, "column": 1}}}, "s": {"0": 9}},
  "/src/c.js": {"s": {}}
}`

func TestLoader_MergesLaterDocumentsLast(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	writeFile(t, first, firstDoc)
	writeFile(t, second, secondDoc)

	w := &warnRecorder{}
	l := &Loader{Warner: w}
	got, err := l.Load(first, second)
	require.NoError(t, err)
	assert.Empty(t, w.warnings)

	assert.Equal(t, []string{"/src/a.js", "/src/b.js", "/src/c.js"}, got.Paths())
	assert.Equal(t, 9, got["/src/b.js"].S["0"])
	assert.Equal(t, "/src/c.js", got["/src/c.js"].Path, "missing path is taken from the key")
	assert.NotNil(t, got["/src/c.js"].StatementMap)
}

func TestLoader_GlobPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "unit", "coverage-final.json"), firstDoc)
	writeFile(t, filepath.Join(dir, "e2e", "coverage-final.json"), secondDoc)
	writeFile(t, filepath.Join(dir, "e2e", "lcov.info"), "TN:")

	w := &warnRecorder{}
	got, err := (&Loader{Warner: w}).Load(filepath.Join(dir, "**", "*.json"))
	require.NoError(t, err)
	assert.Empty(t, w.warnings)
	assert.Len(t, got, 3)
	// Sorted expansion reads e2e before unit, so unit's record for b.js wins.
	assert.Equal(t, 0, got["/src/b.js"].S["0"])
}

func TestLoader_Warnings(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, good, firstDoc)
	writeFile(t, bad, "{not json")
	missing := filepath.Join(dir, "missing.json")

	w := &warnRecorder{}
	got, err := (&Loader{Warner: w}).Load(missing, bad, good, filepath.Join(dir, "none", "*.json"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Patterns are expanded before any file is read.
	require.Len(t, w.warnings, 3)
	assert.Contains(t, w.warnings[0].Error(), "no files match input pattern")
	var notFound *remap.MissingFileError
	require.ErrorAs(t, w.warnings[1], &notFound)
	assert.Equal(t, missing, notFound.Path)
	assert.Contains(t, w.warnings[2].Error(), "could not parse coverage file")
}

func TestLoader_NothingRead(t *testing.T) {
	_, err := (&Loader{Warner: &warnRecorder{}}).Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = (&Loader{Warner: &warnRecorder{}}).Load()
	assert.ErrorIs(t, err, ErrNoFiles)
}
