package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filtering"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/loader"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/logging"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/remap"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporting"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/store"

	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/htmlreport"
	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/jsonreport"
	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/lcovreport"
	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/teamcity"
	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/textreport"
	_ "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/reporter/xmlreport"
)

// run loads the inputs, remaps them and writes every requested report.
func run(ctx context.Context, opts runOptions, stdout, stderr io.Writer) error {
	start := time.Now()
	logger, closeLog := logging.New(logging.Config{Verbosity: opts.Verbosity, Console: stderr, File: opts.Log})
	defer closeLog()

	cfg := opts.remapConfiguration()
	reportTypes := make([]string, 0, len(cfg.Reports()))
	for name := range cfg.Reports() {
		if _, err := reporter.ModeOf(name); err != nil {
			return err
		}
		reportTypes = append(reportTypes, name)
	}
	sort.Strings(reportTypes)

	exclude, err := buildExclude(opts)
	if err != nil {
		return err
	}

	coverage, err := (&loader.Loader{}).Load(cfg.InputPatterns()...)
	if err != nil {
		return err
	}
	logger.Debug("Loaded coverage", "files", len(coverage))

	sources := store.NewMemoryStore()
	remapped, err := remap.Remap(remap.Options{
		BasePath:         cfg.BasePath(),
		Exclude:          exclude,
		UseAbsolutePaths: cfg.UseAbsolutePaths(),
		Sources:          sources,
	}, coverage)
	if err != nil {
		return err
	}

	rctx := reporting.NewReportContext(cfg, sources)
	if err := reporter.WriteAll(ctx, remapped, cfg.Reports(), rctx, stdout); err != nil {
		return err
	}

	logger.Info("Remapped coverage",
		"generated", len(coverage),
		"original", len(remapped),
		"reports", reportTypes,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// buildExclude combines the substring, regexp and file filter options.
func buildExclude(opts runOptions) (remap.Exclude, error) {
	var rules remap.ExcludeAny
	if opts.Exclude != "" {
		rules = append(rules, remap.ExcludeSubstring(opts.Exclude))
	}
	if opts.ExcludePattern != "" {
		re, err := regexp.Compile(opts.ExcludePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", excludePatternFlagName, err)
		}
		rules = append(rules, remap.ExcludeRegexp{Regexp: re})
	}
	if len(opts.FileFilters) > 0 {
		filter, err := filtering.NewPathFilter(opts.FileFilters)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", fileFiltersFlagName, err)
		}
		rules = append(rules, remap.ExcludeFilter{Filter: filter})
	}
	if len(rules) == 0 {
		return nil, nil
	}
	slog.Debug("Exclusion rules", "count", len(rules))
	return rules, nil
}
