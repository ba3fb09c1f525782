package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
)

func loc(sl, sc, el, ec int) model.Location {
	return model.Location{Start: model.Position{Line: sl, Column: sc}, End: model.Position{Line: el, Column: ec}}
}

func sampleCoverage() *model.FileCoverage {
	fc := model.NewFileCoverage("src/a.ts")
	fc.StatementMap["1"] = loc(1, 0, 1, 10)
	fc.StatementMap["2"] = loc(1, 12, 1, 20)
	fc.StatementMap["3"] = loc(2, 0, 2, 5)
	skipped := loc(3, 0, 3, 5)
	skipped.Skip = true
	fc.StatementMap["4"] = skipped
	fc.S = map[string]int{"1": 0, "2": 4, "3": 0, "4": 0}

	fc.FnMap["1"] = model.FunctionMapping{Name: "a", Loc: loc(1, 0, 3, 1), Line: 1}
	fc.FnMap["2"] = model.FunctionMapping{Name: "b", Loc: loc(5, 0, 6, 1), Line: 5}
	fc.F = map[string]int{"1": 2, "2": 0}

	fc.BranchMap["1"] = model.BranchMapping{Type: "if", Locations: []model.Location{loc(2, 0, 2, 1), loc(2, 2, 2, 3)}, Line: 2}
	fc.BranchMap["2"] = model.BranchMapping{Type: "if", Locations: []model.Location{loc(4, 0, 4, 1)}, Line: 4, Skip: true}
	fc.B = map[string][]int{"1": {1, 0}, "2": {0}}
	return fc
}

func TestLineHits(t *testing.T) {
	hits := LineHits(sampleCoverage())
	assert.Equal(t, map[int]int{1: 4, 2: 0, 3: 1}, hits)
	assert.Equal(t, []int{1, 2, 3}, SortedLines(hits))
}

func TestForFile(t *testing.T) {
	s := ForFile(sampleCoverage())

	assert.Equal(t, Metric{Total: 4, Covered: 2, Skipped: 1, Pct: 50}, s.Statements)
	assert.Equal(t, Metric{Total: 2, Covered: 1, Pct: 50}, s.Functions)
	assert.Equal(t, Metric{Total: 3, Covered: 2, Skipped: 1, Pct: 66.66}, s.Branches)
	assert.Equal(t, Metric{Total: 3, Covered: 2, Pct: 66.66}, s.Lines)
}

func TestTotal(t *testing.T) {
	empty := Total(model.CoverageMap{})
	assert.Equal(t, Metric{Pct: 100}, empty.Statements)

	total := Total(model.CoverageMap{"a": sampleCoverage(), "b": sampleCoverage()})
	assert.Equal(t, Metric{Total: 8, Covered: 4, Skipped: 2, Pct: 50}, total.Statements)
	assert.Equal(t, 6, total.Lines.Total)
}

func TestPercent(t *testing.T) {
	testCases := []struct {
		covered, total int
		want           float64
	}{
		{0, 0, 100},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.66},
		{5, 5, 100},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Percent(tc.covered, tc.total))
	}
	assert.Equal(t, "33.33", FormatPct(Percent(1, 3)))
	assert.Equal(t, "100", FormatPct(Percent(0, 0)))
	assert.Equal(t, "50", FormatPct(50))
}

func TestWatermarks(t *testing.T) {
	w := DefaultWatermarks()
	assert.NoError(t, w.Validate())
	assert.Equal(t, LevelLow, w.Lines.Classify(49.99))
	assert.Equal(t, LevelMedium, w.Lines.Classify(50))
	assert.Equal(t, LevelMedium, w.Lines.Classify(79.99))
	assert.Equal(t, LevelHigh, w.Lines.Classify(80))

	w.Branches = Watermark{Low: 90, High: 10}
	assert.ErrorContains(t, w.Validate(), "branches")
}

func TestBranchesByLine(t *testing.T) {
	fc := model.NewFileCoverage("a.ts")
	outer := model.Location{Start: model.Position{Line: 7}}
	arm := func(line int) model.Location { return model.Location{Start: model.Position{Line: line}} }
	fc.BranchMap["1"] = model.BranchMapping{Type: "if", Line: 3, Locations: []model.Location{arm(3), arm(5)}}
	fc.BranchMap["2"] = model.BranchMapping{Type: "cond-expr", Line: 3, Locations: []model.Location{arm(3), arm(3)}}
	fc.BranchMap["3"] = model.BranchMapping{Type: "switch", Loc: &outer, Line: 6, Locations: []model.Location{arm(8)}}
	fc.BranchMap["4"] = model.BranchMapping{Type: "binary-expr", Locations: []model.Location{arm(9), arm(9)}}
	fc.B["1"] = []int{1, 0}
	fc.B["2"] = []int{2, 2}
	fc.B["3"] = []int{0}
	fc.B["4"] = []int{4}

	assert.Equal(t, map[int]BranchCount{
		3: {Covered: 3, Total: 4},
		7: {Covered: 0, Total: 1},
		9: {Covered: 1, Total: 2},
	}, BranchesByLine(fc))
}
