// Package lcovreport writes coverage in the lcov tracefile format, either to
// a file (lcovonly) or to the console (text-lcov).
package lcovreport

import (
	"bufio"
	"fmt"
	"io"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

func init() {
	reporter.Register("lcovonly", reporter.ModeFile, func() reporter.IReportBuilder { return &LcovReportBuilder{reportType: "lcovonly"} })
	reporter.Register("text-lcov", reporter.ModeConsole, func() reporter.IReportBuilder { return &LcovReportBuilder{reportType: "text-lcov"} })
}

// LcovReportBuilder writes one record per file.
type LcovReportBuilder struct {
	reportType string
}

func (b *LcovReportBuilder) ReportType() string { return b.reportType }

func (b *LcovReportBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	w := bufio.NewWriter(out.Writer)
	for _, path := range coverage.Paths() {
		writeRecord(w, path, coverage[path])
	}
	return w.Flush()
}

func writeRecord(w io.Writer, path string, fc *model.FileCoverage) {
	fmt.Fprintln(w, "TN:")
	fmt.Fprintf(w, "SF:%s\n", path)

	fnIDs := model.SortedIDs(fc.FnMap)
	for _, id := range fnIDs {
		fn := fc.FnMap[id]
		fmt.Fprintf(w, "FN:%d,%s\n", functionLine(fn), fn.Name)
	}
	hitFunctions := 0
	for _, id := range fnIDs {
		hits := fc.F[id]
		if hits > 0 {
			hitFunctions++
		}
		fmt.Fprintf(w, "FNDA:%d,%s\n", hits, fc.FnMap[id].Name)
	}
	fmt.Fprintf(w, "FNF:%d\n", len(fnIDs))
	fmt.Fprintf(w, "FNH:%d\n", hitFunctions)

	lineHits := summary.LineHits(fc)
	hitLines := 0
	for _, line := range summary.SortedLines(lineHits) {
		if lineHits[line] > 0 {
			hitLines++
		}
		fmt.Fprintf(w, "DA:%d,%d\n", line, lineHits[line])
	}
	fmt.Fprintf(w, "LF:%d\n", len(lineHits))
	fmt.Fprintf(w, "LH:%d\n", hitLines)

	arms, hitArms := 0, 0
	for _, id := range model.SortedIDs(fc.BranchMap) {
		br := fc.BranchMap[id]
		hits := fc.B[id]
		for i := range br.Locations {
			count := 0
			if i < len(hits) {
				count = hits[i]
			}
			arms++
			if count > 0 {
				hitArms++
			}
			fmt.Fprintf(w, "BRDA:%d,%s,%d,%d\n", branchLine(br), id, i, count)
		}
	}
	fmt.Fprintf(w, "BRF:%d\n", arms)
	fmt.Fprintf(w, "BRH:%d\n", hitArms)
	fmt.Fprintln(w, "end_of_record")
}

func functionLine(fn model.FunctionMapping) int {
	if fn.Decl != nil {
		return fn.Decl.Start.Line
	}
	return fn.Loc.Start.Line
}

func branchLine(br model.BranchMapping) int {
	switch {
	case br.Loc != nil:
		return br.Loc.Start.Line
	case br.Line > 0:
		return br.Line
	case len(br.Locations) > 0:
		return br.Locations[0].Start.Line
	}
	return 0
}
