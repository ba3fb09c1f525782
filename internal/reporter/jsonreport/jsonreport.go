// Package jsonreport writes the remapped coverage itself (json) and the
// per-file metrics (json-summary).
package jsonreport

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

func init() {
	reporter.Register("json", reporter.ModeFile, func() reporter.IReportBuilder { return &CoverageBuilder{} })
	reporter.Register("json-summary", reporter.ModeFile, func() reporter.IReportBuilder { return &SummaryBuilder{} })
}

// CoverageBuilder writes the coverage map as one JSON document, which is
// valid input for another run.
type CoverageBuilder struct{}

func (b *CoverageBuilder) ReportType() string { return "json" }

func (b *CoverageBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	if coverage == nil {
		coverage = model.CoverageMap{}
	}
	data, err := json.Marshal(coverage)
	if err != nil {
		return fmt.Errorf("failed to marshal coverage: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Writer.Write(data)
	return err
}

// SummaryBuilder writes {"total": ..., "<path>": ...} with one summary per
// file, total first and the files in path order.
type SummaryBuilder struct{}

func (b *SummaryBuilder) ReportType() string { return "json-summary" }

func (b *SummaryBuilder) CreateReport(out reporter.Output, coverage model.CoverageMap, _ reporting.IReportContext) error {
	w := bufio.NewWriter(out.Writer)

	writeEntry := func(key string, s summary.FileSummary, first bool) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal summary of %s: %w", key, err)
		}
		if !first {
			w.WriteString(",\n")
		}
		w.Write(k)
		w.WriteByte(':')
		w.Write(v)
		return nil
	}

	w.WriteString("{")
	if err := writeEntry("total", summary.Total(coverage), true); err != nil {
		return err
	}
	for _, path := range coverage.Paths() {
		if err := writeEntry(path, summary.ForFile(coverage[path]), false); err != nil {
			return err
		}
	}
	w.WriteString("}\n")
	return w.Flush()
}
