// Package htmlreport writes a browsable HTML report: an index with the
// metrics of every file and one page per file with its annotated source.
package htmlreport

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

const (
	indexFilename = "index.html"
	defaultTitle  = "Coverage Report"
)

func init() {
	reporter.Register("html", reporter.ModeDirectory, func() reporter.IReportBuilder { return NewHtmlReportBuilder() })
}

// HtmlReportBuilder is responsible for generating HTML reports.
type HtmlReportBuilder struct {
	Now func() time.Time

	outputDir   string
	reportTitle string
	generatedAt string
	watermarks  summary.Watermarks
	rctx        reporting.IReportContext
}

// NewHtmlReportBuilder creates a new HtmlReportBuilder.
func NewHtmlReportBuilder() *HtmlReportBuilder {
	return &HtmlReportBuilder{Now: time.Now}
}

// ReportType returns the type of report this builder creates.
func (b *HtmlReportBuilder) ReportType() string {
	return "html"
}

// CreateReport writes the stylesheet, one page per file and the index into
// out.Dir.
func (b *HtmlReportBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, rctx reporting.IReportContext) error {
	if rctx == nil {
		rctx = reporting.NewReportContext(nil, nil)
	}
	b.outputDir = out.Dir
	b.rctx = rctx
	b.watermarks = rctx.Watermarks()
	b.reportTitle = defaultTitle
	if cfg := rctx.ReportConfiguration(); cfg != nil && cfg.Title() != "" {
		b.reportTitle = cfg.Title()
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	b.generatedAt = now().Format("2006-01-02 15:04:05")

	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", b.outputDir, err)
	}
	if err := writeStaticAssets(b.outputDir); err != nil {
		return err
	}

	paths := coverage.Paths()
	root := utils.CommonDirectory(paths)
	existingFilenames := map[string]struct{}{}

	page := SummaryPageData{
		Title:       b.reportTitle,
		GeneratedAt: b.generatedAt,
		Root:        root,
		Cards:       b.buildCards(summary.Total(coverage)),
	}
	for _, path := range paths {
		fc := coverage[path]
		display := utils.RelativeTo(root, path)
		filename := generateUniqueFilename(display, existingFilenames)
		s := summary.ForFile(fc)

		if err := b.generateFileDetailHTML(path, display, fc, s, filename); err != nil {
			return err
		}
		page.Files = append(page.Files, FileRowViewModel{
			Path:       display,
			ReportPath: filename,
			Statements: b.metric("Statements", s.Statements, b.watermarks.Statements),
			Branches:   b.metric("Branches", s.Branches, b.watermarks.Branches),
			Functions:  b.metric("Functions", s.Functions, b.watermarks.Functions),
			Lines:      b.metric("Lines", s.Lines, b.watermarks.Lines),
		})
	}

	return b.render(summaryTpl, indexFilename, page)
}

func (b *HtmlReportBuilder) generateFileDetailHTML(path, display string, fc *model.FileCoverage, s summary.FileSummary, filename string) error {
	data := FileDetailData{
		Title:       b.reportTitle,
		GeneratedAt: b.generatedAt,
		Path:        display,
		Cards:       b.buildCards(s),
	}

	for _, id := range model.SortedIDs(fc.FnMap) {
		fn := fc.FnMap[id]
		hits := fc.F[id]
		level := summary.LevelHigh
		if hits == 0 && !fn.Skip {
			level = summary.LevelLow
		}
		data.Functions = append(data.Functions, SidebarElementViewModel{
			Name:  fn.Name,
			Line:  fn.Loc.Start.Line,
			Hits:  hits,
			Level: string(level),
		})
	}

	sourceLines, ok := b.rctx.SourceLines(path, fc)
	if !ok {
		slog.Warn("Source not available for HTML report", "file", path)
	}
	data.SourceAvailable = ok
	lineHits := summary.LineHits(fc)
	branches := summary.BranchesByLine(fc)
	for i, content := range sourceLines {
		data.Lines = append(data.Lines, buildLineViewModel(i+1, content, lineHits, branches))
	}

	return b.render(fileDetailTpl, filename, data)
}

func buildLineViewModel(lineNumber int, content string, lineHits map[int]int, branches map[int]summary.BranchCount) LineViewModelForDetail {
	hits, coverable := lineHits[lineNumber]
	if !coverable {
		hits = -1
	}
	bc, isBranch := branches[lineNumber]
	isBranch = isBranch && bc.Total > 0
	status := determineLineVisitStatus(hits, isBranch, bc.Covered, bc.Total)

	lvm := LineViewModelForDetail{
		LineNumber:      lineNumber,
		LineContent:     content,
		LineVisitStatus: lineVisitStatusToString(status),
		IsBranch:        isBranch,
	}
	if coverable {
		lvm.Hits = strconv.Itoa(hits)
		lvm.Tooltip = fmt.Sprintf("Covered: %d visits", hits)
		if hits == 0 {
			lvm.Tooltip = "Not covered"
		}
	}
	if isBranch && coverable {
		lvm.Tooltip += fmt.Sprintf(", %d of %d branches covered", bc.Covered, bc.Total)
	}
	return lvm
}

func (b *HtmlReportBuilder) buildCards(s summary.FileSummary) []MetricViewModel {
	return []MetricViewModel{
		b.metric("Statements", s.Statements, b.watermarks.Statements),
		b.metric("Branches", s.Branches, b.watermarks.Branches),
		b.metric("Functions", s.Functions, b.watermarks.Functions),
		b.metric("Lines", s.Lines, b.watermarks.Lines),
	}
}

func (b *HtmlReportBuilder) metric(name string, m summary.Metric, mark summary.Watermark) MetricViewModel {
	return MetricViewModel{
		Name:    name,
		Covered: m.Covered,
		Total:   m.Total,
		Pct:     summary.FormatPct(m.Pct),
		Level:   string(mark.Classify(m.Pct)),
	}
}

func (b *HtmlReportBuilder) render(tpl *template.Template, filename string, data any) error {
	target := filepath.Join(b.outputDir, filename)
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer f.Close()
	if err := tpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", target, err)
	}
	return nil
}
