package xmlreport

import (
	"encoding/xml"
	"fmt"
	"path"
	"time"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

const coberturaHeader = `<?xml version="1.0" ?>
<!DOCTYPE coverage SYSTEM "http://cobertura.sourceforge.net/xml/coverage-04.dtd">
`

// CoverageXML is the root element of a cobertura report.
type CoverageXML struct {
	XMLName         xml.Name     `xml:"coverage"`
	LinesValid      int          `xml:"lines-valid,attr"`
	LinesCovered    int          `xml:"lines-covered,attr"`
	LineRate        string       `xml:"line-rate,attr"`
	BranchesValid   int          `xml:"branches-valid,attr"`
	BranchesCovered int          `xml:"branches-covered,attr"`
	BranchRate      string       `xml:"branch-rate,attr"`
	Timestamp       int64        `xml:"timestamp,attr"`
	Complexity      int          `xml:"complexity,attr"`
	Version         string       `xml:"version,attr"`
	Sources         []string     `xml:"sources>source"`
	Packages        []PackageXML `xml:"packages>package"`
}

type PackageXML struct {
	Name       string     `xml:"name,attr"`
	LineRate   string     `xml:"line-rate,attr"`
	BranchRate string     `xml:"branch-rate,attr"`
	Classes    []ClassXML `xml:"classes>class"`
}

type ClassXML struct {
	Name       string      `xml:"name,attr"`
	Filename   string      `xml:"filename,attr"`
	LineRate   string      `xml:"line-rate,attr"`
	BranchRate string      `xml:"branch-rate,attr"`
	Methods    []MethodXML `xml:"methods>method"`
	Lines      []LineXML   `xml:"lines>line"`
}

type MethodXML struct {
	Name      string    `xml:"name,attr"`
	Hits      int       `xml:"hits,attr"`
	Signature string    `xml:"signature,attr"`
	Lines     []LineXML `xml:"lines>line"`
}

type LineXML struct {
	Number            int    `xml:"number,attr"`
	Hits              int    `xml:"hits,attr"`
	Branch            bool   `xml:"branch,attr"`
	ConditionCoverage string `xml:"condition-coverage,attr,omitempty"`
}

// CoberturaReportBuilder groups files into packages by directory.
type CoberturaReportBuilder struct {
	Now func() time.Time
}

func (b *CoberturaReportBuilder) ReportType() string { return "cobertura" }

func (b *CoberturaReportBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	total := summary.Total(coverage)
	root, groups := groupByDirectory(coverage.Paths())

	doc := CoverageXML{
		LinesValid:      total.Lines.Total,
		LinesCovered:    total.Lines.Covered,
		LineRate:        rate(total.Lines.Pct),
		BranchesValid:   total.Branches.Total,
		BranchesCovered: total.Branches.Covered,
		BranchRate:      rate(total.Branches.Pct),
		Timestamp:       now().UnixMilli(),
		Version:         "0.1",
	}
	if root != "" {
		doc.Sources = []string{root}
	}

	for _, g := range groups {
		pkgSummary := fileSummaries(coverage, g.paths)
		pkg := PackageXML{
			Name:       g.name,
			LineRate:   rate(pkgSummary.Lines.Pct),
			BranchRate: rate(pkgSummary.Branches.Pct),
		}
		for _, p := range g.paths {
			pkg.Classes = append(pkg.Classes, coberturaClass(root, p, coverage[p]))
		}
		doc.Packages = append(doc.Packages, pkg)
	}

	if err := writeDocument(out.Writer, coberturaHeader, doc); err != nil {
		return fmt.Errorf("failed to write cobertura document: %w", err)
	}
	return nil
}

func coberturaClass(root, p string, fc *model.FileCoverage) ClassXML {
	s := summary.ForFile(fc)
	rel := utils.RelativeTo(root, p)
	class := ClassXML{
		Name:       path.Base(rel),
		Filename:   rel,
		LineRate:   rate(s.Lines.Pct),
		BranchRate: rate(s.Branches.Pct),
	}

	for _, id := range model.SortedIDs(fc.FnMap) {
		fn := fc.FnMap[id]
		hits := fc.F[id]
		class.Methods = append(class.Methods, MethodXML{
			Name:      fn.Name,
			Hits:      hits,
			Signature: "()V",
			Lines:     []LineXML{{Number: fn.Loc.Start.Line, Hits: hits}},
		})
	}

	lineHits := summary.LineHits(fc)
	branches := summary.BranchesByLine(fc)
	for _, line := range summary.SortedLines(lineHits) {
		l := LineXML{Number: line, Hits: lineHits[line]}
		if lb, ok := branches[line]; ok && lb.Total > 0 {
			l.Branch = true
			l.ConditionCoverage = fmt.Sprintf("%s%% (%d/%d)",
				summary.FormatPct(summary.Percent(lb.Covered, lb.Total)), lb.Covered, lb.Total)
		}
		class.Lines = append(class.Lines, l)
	}
	return class
}
