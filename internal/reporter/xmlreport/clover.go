package xmlreport

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

func init() {
	reporter.Register("clover", reporter.ModeFile, func() reporter.IReportBuilder { return &CloverReportBuilder{} })
	reporter.Register("cobertura", reporter.ModeFile, func() reporter.IReportBuilder { return &CoberturaReportBuilder{} })
}

const cloverHeader = `<?xml version="1.0" encoding="UTF-8"?>
`

type CloverXML struct {
	XMLName   xml.Name         `xml:"coverage"`
	Generated int64            `xml:"generated,attr"`
	Clover    string           `xml:"clover,attr"`
	Project   CloverProjectXML `xml:"project"`
}

type CloverProjectXML struct {
	Timestamp int64              `xml:"timestamp,attr"`
	Name      string             `xml:"name,attr"`
	Metrics   CloverMetricsXML   `xml:"metrics"`
	Packages  []CloverPackageXML `xml:"package"`
}

type CloverPackageXML struct {
	Name    string           `xml:"name,attr"`
	Metrics CloverMetricsXML `xml:"metrics"`
	Files   []CloverFileXML  `xml:"file"`
}

type CloverFileXML struct {
	Name    string           `xml:"name,attr"`
	Path    string           `xml:"path,attr"`
	Metrics CloverMetricsXML `xml:"metrics"`
	Lines   []CloverLineXML  `xml:"line"`
}

// CloverMetricsXML carries the counters of a project, package or file.
// Packages and Files are only set on the project.
type CloverMetricsXML struct {
	Statements          int `xml:"statements,attr"`
	CoveredStatements   int `xml:"coveredstatements,attr"`
	Conditionals        int `xml:"conditionals,attr"`
	CoveredConditionals int `xml:"coveredconditionals,attr"`
	Methods             int `xml:"methods,attr"`
	CoveredMethods      int `xml:"coveredmethods,attr"`
	Elements            int `xml:"elements,attr"`
	CoveredElements     int `xml:"coveredelements,attr"`
	Complexity          int `xml:"complexity,attr"`
	Packages            int `xml:"packages,attr,omitempty"`
	Files               int `xml:"files,attr,omitempty"`
}

type CloverLineXML struct {
	Num        int    `xml:"num,attr"`
	Count      int    `xml:"count,attr"`
	Type       string `xml:"type,attr"`
	Name       string `xml:"name,attr,omitempty"`
	Signature  string `xml:"signature,attr,omitempty"`
	TrueCount  *int   `xml:"truecount,attr"`
	FalseCount *int   `xml:"falsecount,attr"`
}

// CloverReportBuilder writes a clover 3 document titled "All files".
type CloverReportBuilder struct {
	Now func() time.Time
}

func (b *CloverReportBuilder) ReportType() string { return "clover" }

func (b *CloverReportBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	ts := now().UnixMilli()
	paths := coverage.Paths()
	_, groups := groupByDirectory(paths)

	doc := CloverXML{
		Generated: ts,
		Clover:    "3.2.0",
		Project: CloverProjectXML{
			Timestamp: ts,
			Name:      "All files",
			Metrics:   cloverMetrics(summary.Total(coverage)),
		},
	}
	doc.Project.Metrics.Packages = len(groups)
	doc.Project.Metrics.Files = len(paths)

	for _, g := range groups {
		pkg := CloverPackageXML{Name: g.name, Metrics: cloverMetrics(fileSummaries(coverage, g.paths))}
		for _, p := range g.paths {
			fc := coverage[p]
			pkg.Files = append(pkg.Files, CloverFileXML{
				Name:    path.Base(p),
				Path:    p,
				Metrics: cloverMetrics(summary.ForFile(fc)),
				Lines:   cloverLines(fc),
			})
		}
		doc.Project.Packages = append(doc.Project.Packages, pkg)
	}

	if err := writeDocument(out.Writer, cloverHeader, doc); err != nil {
		return fmt.Errorf("failed to write clover document: %w", err)
	}
	return nil
}

func cloverMetrics(s summary.FileSummary) CloverMetricsXML {
	return CloverMetricsXML{
		Statements:          s.Statements.Total,
		CoveredStatements:   s.Statements.Covered,
		Conditionals:        s.Branches.Total,
		CoveredConditionals: s.Branches.Covered,
		Methods:             s.Functions.Total,
		CoveredMethods:      s.Functions.Covered,
		Elements:            s.Statements.Total + s.Branches.Total + s.Functions.Total,
		CoveredElements:     s.Statements.Covered + s.Branches.Covered + s.Functions.Covered,
	}
}

// cloverLines lists functions as method lines and every line with
// statements as stmt, or cond when branches start on it. Method lines come
// first among lines with the same number.
func cloverLines(fc *model.FileCoverage) []CloverLineXML {
	var lines []CloverLineXML
	for _, id := range model.SortedIDs(fc.FnMap) {
		fn := fc.FnMap[id]
		lines = append(lines, CloverLineXML{
			Num:       fn.Loc.Start.Line,
			Count:     fc.F[id],
			Type:      "method",
			Name:      fn.Name,
			Signature: "()V",
		})
	}

	lineHits := summary.LineHits(fc)
	branches := summary.BranchesByLine(fc)
	for _, line := range summary.SortedLines(lineHits) {
		l := CloverLineXML{Num: line, Count: lineHits[line], Type: "stmt"}
		if lb, ok := branches[line]; ok && lb.Total > 0 {
			covered, missed := lb.Covered, lb.Total-lb.Covered
			l.Type = "cond"
			l.TrueCount = &covered
			l.FalseCount = &missed
		}
		lines = append(lines, l)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Num < lines[j].Num })
	return lines
}
