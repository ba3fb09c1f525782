package reporting

import (
	"log/slog"
	"path/filepath"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filereader"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reportconfig"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/store"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

// FileReader reads original sources that were neither embedded nor stored.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// IReportContext is what a report builder gets to see besides the coverage.
type IReportContext interface {
	ReportConfiguration() reportconfig.IRemapConfiguration
	Watermarks() summary.Watermarks
	// SourceLines returns the original text of a file, looked up in the
	// source store, then in the record's embedded code, then on disk.
	SourceLines(path string, fc *model.FileCoverage) ([]string, bool)
}

// ReportContext is the concrete IReportContext.
type ReportContext struct {
	Cfg     reportconfig.IRemapConfiguration
	Sources store.Store
	Reader  FileReader
}

// NewReportContext creates a ReportContext reading missing sources from disk.
func NewReportContext(config reportconfig.IRemapConfiguration, sources store.Store) *ReportContext {
	return &ReportContext{Cfg: config, Sources: sources, Reader: filereader.DiskReader{}}
}

func (rc *ReportContext) ReportConfiguration() reportconfig.IRemapConfiguration { return rc.Cfg }

// Watermarks falls back to the defaults without a configuration.
func (rc *ReportContext) Watermarks() summary.Watermarks {
	if rc.Cfg == nil {
		return summary.DefaultWatermarks()
	}
	return rc.Cfg.Watermarks()
}

func (rc *ReportContext) SourceLines(path string, fc *model.FileCoverage) ([]string, bool) {
	if rc.Sources != nil {
		if text, ok := rc.Sources.Get(path); ok {
			return model.NewSourceText(text).SplitLines(), true
		}
	}
	if fc != nil && fc.Code != nil {
		return fc.Code.SplitLines(), true
	}
	if rc.Reader == nil {
		return nil, false
	}

	candidates := []string{path}
	if !filepath.IsAbs(path) && rc.Cfg != nil && rc.Cfg.BasePath() != "" {
		candidates = append([]string{filepath.Join(rc.Cfg.BasePath(), path)}, candidates...)
	}
	for _, candidate := range candidates {
		data, err := rc.Reader.ReadFile(candidate)
		if err == nil {
			return filereader.SplitLines(data), true
		}
		slog.Debug("Source not available", "file", candidate, "error", err)
	}
	return nil, false
}
