package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
)

func loc(sl, sc, el, ec int) model.Location {
	return model.Location{Start: model.Position{Line: sl, Column: sc}, End: model.Position{Line: el, Column: ec}}
}

func TestSparseCoverage_StatementsShareIDsBySpan(t *testing.T) {
	sc := NewSparseCoverage()
	sc.UpdateStatement("a.ts", loc(1, 0, 1, 5), 3)
	sc.UpdateStatement("a.ts", loc(2, 0, 2, 5), 1)
	sc.UpdateStatement("a.ts", loc(1, 0, 1, 5), 4)

	got := sc.FilesCoverage()["a.ts"]
	require.NotNil(t, got)
	assert.Equal(t, "a.ts", got.Path)
	assert.Equal(t, map[string]model.Location{"1": loc(1, 0, 1, 5), "2": loc(2, 0, 2, 5)}, got.StatementMap)
	assert.Equal(t, map[string]int{"1": 7, "2": 1}, got.S)
}

func TestSparseCoverage_IDsAreDensePerKind(t *testing.T) {
	sc := NewSparseCoverage()
	sc.UpdateStatement("a.ts", loc(1, 0, 1, 5), 1)
	sc.UpdateFunction("a.ts", model.FunctionMapping{Name: "f", Loc: loc(1, 0, 1, 5), Line: 1}, 2)
	require.NoError(t, sc.UpdateBranch("a.ts", model.BranchMapping{
		Type:      "if",
		Locations: []model.Location{loc(1, 0, 1, 5)},
		Line:      1,
	}, []int{5}))

	got := sc.FilesCoverage()["a.ts"]
	assert.Equal(t, []string{"1"}, model.SortedIDs(got.StatementMap))
	assert.Equal(t, []string{"1"}, model.SortedIDs(got.FnMap))
	assert.Equal(t, []string{"1"}, model.SortedIDs(got.BranchMap))
	assert.Equal(t, 2, got.F["1"])
	assert.Equal(t, []int{5}, got.B["1"])
}

func TestSparseCoverage_FirstFunctionDescriptorWins(t *testing.T) {
	sc := NewSparseCoverage()
	sc.UpdateFunction("a.ts", model.FunctionMapping{Name: "first", Loc: loc(3, 0, 5, 1), Line: 3}, 1)
	sc.UpdateFunction("a.ts", model.FunctionMapping{Name: "second", Loc: loc(3, 0, 5, 1), Line: 3}, 2)

	got := sc.FilesCoverage()["a.ts"]
	require.Len(t, got.FnMap, 1)
	assert.Equal(t, "first", got.FnMap["1"].Name)
	assert.Equal(t, 3, got.F["1"])
}

func TestSparseCoverage_BranchCountersAddElementWise(t *testing.T) {
	sc := NewSparseCoverage()
	br := model.BranchMapping{Type: "cond-expr", Locations: []model.Location{loc(1, 0, 1, 2), loc(1, 5, 1, 7)}, Line: 1}
	hits := []int{1, 0}

	require.NoError(t, sc.UpdateBranch("a.ts", br, hits))
	require.NoError(t, sc.UpdateBranch("a.ts", br, []int{2, 3}))

	assert.Equal(t, []int{3, 3}, sc.FilesCoverage()["a.ts"].B["1"])
	assert.Equal(t, []int{1, 0}, hits, "input counters must not be aliased")
}

func TestSparseCoverage_BranchCardinalityMismatch(t *testing.T) {
	sc := NewSparseCoverage()
	br := model.BranchMapping{Type: "if", Locations: []model.Location{loc(1, 0, 1, 2), loc(1, 5, 1, 7)}, Line: 1}

	err := sc.UpdateBranch("a.ts", br, []int{1})

	var mismatch *BranchCardinalityError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Locations)
	assert.Equal(t, 1, mismatch.Hits)
	assert.Empty(t, sc.FilesCoverage())
}

func TestSparseCoverage_SetCoverageSeedsIDs(t *testing.T) {
	fc := model.NewFileCoverage("plain.js")
	fc.StatementMap["1"] = loc(1, 0, 1, 4)
	fc.StatementMap["2"] = loc(2, 0, 2, 4)
	fc.S["1"] = 1
	fc.S["2"] = 0

	sc := NewSparseCoverage()
	require.NoError(t, sc.SetCoverage("plain.js", fc))
	sc.UpdateStatement("plain.js", loc(2, 0, 2, 4), 5)
	sc.UpdateStatement("plain.js", loc(3, 0, 3, 4), 1)

	got := sc.FilesCoverage()["plain.js"]
	assert.Equal(t, map[string]int{"1": 1, "2": 5, "3": 1}, got.S)
	assert.Equal(t, 0, fc.S["2"], "stored record must be a copy")
}

func TestSparseCoverage_SetCoverageMerges(t *testing.T) {
	fc := model.NewFileCoverage("plain.js")
	fc.StatementMap["1"] = loc(1, 0, 1, 4)
	fc.S["1"] = 3
	fc.FnMap["1"] = model.FunctionMapping{Name: "f", Loc: loc(1, 0, 2, 1), Line: 1}
	fc.F["1"] = 1
	fc.BranchMap["1"] = model.BranchMapping{Type: "if", Locations: []model.Location{loc(1, 0, 1, 1), loc(1, 2, 1, 3)}, Line: 1}
	fc.B["1"] = []int{1, 2}

	sc := NewSparseCoverage()
	sc.UpdateStatement("plain.js", loc(5, 0, 5, 4), 7)
	require.NoError(t, sc.SetCoverage("plain.js", fc))
	require.NoError(t, sc.SetCoverage("plain.js", fc))

	got := sc.FilesCoverage()["plain.js"]
	assert.Equal(t, map[string]model.Location{"1": loc(5, 0, 5, 4), "2": loc(1, 0, 1, 4)}, got.StatementMap)
	assert.Equal(t, map[string]int{"1": 7, "2": 6}, got.S)
	assert.Equal(t, map[string]int{"1": 2}, got.F)
	assert.Equal(t, map[string][]int{"1": {2, 4}}, got.B)
	assert.Equal(t, []int{1, 2}, fc.B["1"], "input record must not be modified")

	bad := fc.Clone()
	bad.B["1"] = []int{1}
	err := sc.SetCoverage("plain.js", bad)
	var mismatch *BranchCardinalityError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Hits)
	got = sc.FilesCoverage()["plain.js"]
	assert.Equal(t, []int{2, 4}, got.B["1"])
	assert.Equal(t, 9, got.S["2"], "entries beside the bad branch are still merged")
}

func TestSparseCoverage_SourceCode(t *testing.T) {
	sc := NewSparseCoverage()
	sc.SetSourceCode("a.ts", model.NewSourceLines([]string{"a", "b"}))
	sc.SetSourceCode("b.ts", model.NewSourceText("b"))

	files := sc.FilesCoverage()
	require.Len(t, files, 2)
	assert.Equal(t, &model.SourceCode{Text: "a\nb", Lines: true}, files["a.ts"].Code)
	assert.Empty(t, files["a.ts"].StatementMap)
	assert.Equal(t, []string{"a.ts", "b.ts"}, files.Paths())
}

func TestSparseCoverage_SnapshotsAreIndependent(t *testing.T) {
	sc := NewSparseCoverage()
	sc.UpdateStatement("a.ts", loc(1, 0, 1, 1), 1)

	snapshot := sc.FilesCoverage()
	snapshot["a.ts"].S["1"] = 100

	assert.Equal(t, 1, sc.FilesCoverage()["a.ts"].S["1"])
}
