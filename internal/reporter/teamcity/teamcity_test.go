package teamcity

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
)

func TestTeamcityReportBuilder(t *testing.T) {
	fc := model.NewFileCoverage("a.ts")
	fc.StatementMap["1"] = model.Location{Start: model.Position{Line: 1}, End: model.Position{Line: 1, Column: 5}}
	fc.StatementMap["2"] = model.Location{Start: model.Position{Line: 2}, End: model.Position{Line: 2, Column: 5}}
	fc.S["1"], fc.S["2"] = 1, 0
	fc.FnMap["1"] = model.FunctionMapping{Name: "f", Loc: fc.StatementMap["1"], Line: 1}
	fc.F["1"] = 1
	fc.BranchMap["1"] = model.BranchMapping{Type: "if", Line: 1, Locations: []model.Location{fc.StatementMap["1"], fc.StatementMap["2"]}}
	fc.B["1"] = []int{1, 0}

	var buf bytes.Buffer
	builder := &TeamcityReportBuilder{BlockName: "Code Coverage Summary"}
	require.NoError(t, builder.CreateReport(reporter.Output{Writer: &buf}, model.CoverageMap{"a.ts": fc}, nil))

	assert.Equal(t, `
##teamcity[blockOpened name='Code Coverage Summary']
##teamcity[buildStatisticValue key='CodeCoverageAbsBCovered' value='1']
##teamcity[buildStatisticValue key='CodeCoverageAbsBTotal' value='2']
##teamcity[buildStatisticValue key='CodeCoverageAbsMCovered' value='1']
##teamcity[buildStatisticValue key='CodeCoverageAbsMTotal' value='1']
##teamcity[buildStatisticValue key='CodeCoverageAbsLCovered' value='1']
##teamcity[buildStatisticValue key='CodeCoverageAbsLTotal' value='2']
##teamcity[buildStatisticValue key='CodeCoverageAbsRCovered' value='1']
##teamcity[buildStatisticValue key='CodeCoverageAbsRTotal' value='2']
##teamcity[blockClosed name='Code Coverage Summary']
`, buf.String())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "it|'s |[a|] ||b|n", Escape("it's [a] |b\n"))
}
