// Package loader reads generated coverage documents and merges them into one
// coverage map keyed by generated file.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filereader"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filesystem"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/glob"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/remap"
)

// ErrNoFiles is returned when none of the inputs could be read.
var ErrNoFiles = errors.New("loader: no coverage files could be read")

// Loader reads coverage JSON. Zero-value fields fall back to the host
// filesystem and slog warnings.
type Loader struct {
	Reader remap.JSONReader
	FS     filesystem.Filesystem
	Warner remap.Warner
}

// Load reads every file named by patterns, in order. A pattern may be a plain
// path or a glob. Top-level keys of later documents replace those of earlier
// ones.
func (l *Loader) Load(patterns ...string) (model.CoverageMap, error) {
	l.defaults()

	files := l.expand(patterns)
	merged := make(model.CoverageMap)
	read := 0
	for _, file := range files {
		var doc model.CoverageMap
		if err := l.Reader.ReadJSON(file, &doc); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				l.Warner.Warn(&remap.MissingFileError{Path: file, Err: err})
			} else {
				l.Warner.Warn(fmt.Errorf("could not parse coverage file %q: %w", file, err))
			}
			continue
		}
		read++
		slog.Debug("Loaded coverage file", "file", file, "records", len(doc))
		for key, fc := range doc {
			if fc == nil {
				continue
			}
			if fc.Path == "" {
				fc.Path = key
			}
			merged[key] = fc
		}
	}
	if read == 0 {
		return nil, ErrNoFiles
	}
	return merged, nil
}

func (l *Loader) defaults() {
	if l.Reader == nil {
		l.Reader = filereader.DiskReader{}
	}
	if l.FS == nil {
		l.FS = filesystem.DefaultFS{}
	}
	if l.Warner == nil {
		l.Warner = remap.WarnFunc(func(err error) { slog.Warn(err.Error()) })
	}
}

// expand turns patterns into file paths. Plain paths are kept as given so a
// missing file is reported by name; globs that match nothing are warned.
func (l *Loader) expand(patterns []string) []string {
	var files []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			files = append(files, pattern)
			continue
		}
		matches, err := glob.NewGlob(pattern, l.FS).ExpandFiles()
		if err != nil {
			l.Warner.Warn(fmt.Errorf("invalid input pattern %q: %w", pattern, err))
			continue
		}
		if len(matches) == 0 {
			l.Warner.Warn(fmt.Errorf("no files match input pattern %q", pattern))
			continue
		}
		files = append(files, matches...)
	}
	return files
}
