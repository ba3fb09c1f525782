package jsonreport

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

func sampleCoverage() model.CoverageMap {
	fc := model.NewFileCoverage("src/a.ts")
	fc.StatementMap["1"] = model.Location{Start: model.Position{Line: 1}, End: model.Position{Line: 1, Column: 10}}
	fc.StatementMap["2"] = model.Location{Start: model.Position{Line: 2}, End: model.Position{Line: 2, Column: 10}}
	fc.S["1"] = 3
	fc.S["2"] = 0
	fc.FnMap["1"] = model.FunctionMapping{Name: "main", Loc: fc.StatementMap["1"], Line: 1}
	fc.F["1"] = 3
	return model.CoverageMap{"src/a.ts": fc}
}

func TestCoverageBuilder_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CoverageBuilder{}).CreateReport(reporter.Output{Writer: &buf}, sampleCoverage(), nil))

	var got model.CoverageMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(sampleCoverage(), got); diff != "" {
		t.Errorf("coverage changed through the json report (-want +got):\n%s", diff)
	}
}

func TestCoverageBuilder_EmptyCoverage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CoverageBuilder{}).CreateReport(reporter.Output{Writer: &buf}, nil, nil))
	assert.Equal(t, "{}\n", buf.String())
}

func TestSummaryBuilder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&SummaryBuilder{}).CreateReport(reporter.Output{Writer: &buf}, sampleCoverage(), nil))

	assert.Regexp(t, `^\{"total":`, buf.String())

	var got map[string]summary.FileSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Contains(t, got, "src/a.ts")
	assert.Equal(t, got["total"], got["src/a.ts"])
	assert.Equal(t, summary.Metric{Total: 2, Covered: 1, Pct: 50}, got["total"].Statements)
	assert.Equal(t, summary.Metric{Total: 1, Covered: 1, Pct: 100}, got["total"].Functions)
	assert.Equal(t, summary.Metric{Total: 0, Covered: 0, Pct: 100}, got["total"].Branches)
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"json", "json-summary"} {
		mode, err := reporter.ModeOf(name)
		require.NoError(t, err)
		assert.Equal(t, reporter.ModeFile, mode)
	}
}
