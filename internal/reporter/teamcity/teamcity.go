// Package teamcity writes coverage totals as TeamCity service messages.
package teamcity

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

func init() {
	reporter.Register("teamcity", reporter.ModeFile, func() reporter.IReportBuilder {
		return &TeamcityReportBuilder{BlockName: "Code Coverage Summary"}
	})
}

// TeamcityReportBuilder reports statements (B), functions (M), lines (L)
// and branches (R) inside one named block.
type TeamcityReportBuilder struct {
	BlockName string
}

func (b *TeamcityReportBuilder) ReportType() string { return "teamcity" }

func (b *TeamcityReportBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	total := summary.Total(coverage)
	w := bufio.NewWriter(out.Writer)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "##teamcity[blockOpened name='%s']\n", Escape(b.BlockName))
	for _, stat := range []struct {
		key    string
		metric summary.Metric
	}{
		{"B", total.Statements},
		{"M", total.Functions},
		{"L", total.Lines},
		{"R", total.Branches},
	} {
		fmt.Fprintf(w, "##teamcity[buildStatisticValue key='CodeCoverageAbs%sCovered' value='%d']\n", stat.key, stat.metric.Covered)
		fmt.Fprintf(w, "##teamcity[buildStatisticValue key='CodeCoverageAbs%sTotal' value='%d']\n", stat.key, stat.metric.Total)
	}
	fmt.Fprintf(w, "##teamcity[blockClosed name='%s']\n", Escape(b.BlockName))
	return w.Flush()
}

var escaper = strings.NewReplacer(
	"|", "||",
	"'", "|'",
	"\n", "|n",
	"\r", "|r",
	"[", "|[",
	"]", "|]",
)

// Escape quotes a value for use inside a service message attribute.
func Escape(value string) string {
	return escaper.Replace(value)
}
