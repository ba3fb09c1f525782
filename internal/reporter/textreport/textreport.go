// Package textreport prints coverage tables (text) and totals (text-summary).
package textreport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

func init() {
	reporter.Register("text", reporter.ModeFile, func() reporter.IReportBuilder { return &TableBuilder{} })
	reporter.Register("text-summary", reporter.ModeFile, func() reporter.IReportBuilder { return &SummaryBuilder{} })
}

const allFilesLabel = "All files"

// TableBuilder prints one row per file below a row for all files.
type TableBuilder struct{}

func (b *TableBuilder) ReportType() string { return "text" }

func (b *TableBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	paths := coverage.Paths()
	root := utils.CommonDirectory(paths)

	table := tablewriter.NewWriter(out.Writer)
	table.SetHeader([]string{"File", "% Stmts", "% Branch", "% Funcs", "% Lines", "Uncovered Line #s"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	table.Append(row(allFilesLabel, summary.Total(coverage), ""))
	for _, path := range paths {
		fc := coverage[path]
		table.Append(row(" "+utils.RelativeTo(root, path), summary.ForFile(fc), UncoveredLines(fc)))
	}
	table.Render()
	return nil
}

func row(name string, s summary.FileSummary, uncovered string) []string {
	return []string{
		name,
		summary.FormatPct(s.Statements.Pct),
		summary.FormatPct(s.Branches.Pct),
		summary.FormatPct(s.Functions.Pct),
		summary.FormatPct(s.Lines.Pct),
		uncovered,
	}
}

// UncoveredLines lists the lines without hits, folding runs of consecutive
// lines into ranges: "3-5,9".
func UncoveredLines(fc *model.FileCoverage) string {
	hits := summary.LineHits(fc)
	var ranges []string
	start, prev := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		if start == prev {
			ranges = append(ranges, strconv.Itoa(start))
		} else {
			ranges = append(ranges, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, line := range summary.SortedLines(hits) {
		if hits[line] > 0 {
			flush()
			start = -1
			continue
		}
		if start < 0 || line != prev+1 {
			flush()
			start = line
		}
		prev = line
	}
	flush()
	return strings.Join(ranges, ",")
}

// SummaryBuilder prints the totals of every metric.
type SummaryBuilder struct{}

func (b *SummaryBuilder) ReportType() string { return "text-summary" }

func (b *SummaryBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	total := summary.Total(coverage)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(banner(" Coverage summary "))
	for _, m := range []struct {
		label  string
		metric summary.Metric
	}{
		{"Statements", total.Statements},
		{"Branches", total.Branches},
		{"Functions", total.Functions},
		{"Lines", total.Lines},
	} {
		fmt.Fprintf(&sb, "%-12s : %s%% ( %d/%d )", m.label, summary.FormatPct(m.metric.Pct), m.metric.Covered, m.metric.Total)
		if m.metric.Skipped > 0 {
			fmt.Fprintf(&sb, ", %d ignored", m.metric.Skipped)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("=", bannerWidth) + "\n")

	_, err := io.WriteString(out.Writer, sb.String())
	return err
}

const bannerWidth = 80

func banner(title string) string {
	left := (bannerWidth - len(title)) / 2
	right := bannerWidth - len(title) - left
	return strings.Repeat("=", left) + title + strings.Repeat("=", right) + "\n"
}
