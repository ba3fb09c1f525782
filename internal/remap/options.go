package remap

import (
	"errors"
	"log/slog"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filereader"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filesystem"
)

// FileReader reads generated files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// JSONReader reads and decodes JSON documents such as source maps.
type JSONReader interface {
	ReadJSON(path string, v any) error
}

// SourceStore receives original source text keyed by the final original path.
// The same key may be written more than once, always with the same text.
type SourceStore interface {
	Set(path, text string)
}

// Warner receives the non-fatal diagnostics produced while remapping.
type Warner interface {
	Warn(err error)
}

// WarnFunc adapts a function to the Warner interface.
type WarnFunc func(err error)

func (f WarnFunc) Warn(err error) { f(err) }

// Options configures a Transformer. Every field is optional.
type Options struct {
	// BasePath replaces the source map directory as the root that original
	// sources are resolved against.
	BasePath string
	// Exclude skips generated files (and drops resulting original files)
	// whose path it matches.
	Exclude Exclude
	// UseAbsolutePaths keeps original paths absolute instead of making them
	// relative to the working directory.
	UseAbsolutePaths bool
	// MapFileName rewrites every resolved original path.
	MapFileName func(path string) string

	Reader     FileReader
	JSONReader JSONReader
	Sources    SourceStore
	Warner     Warner
	FS         filesystem.Filesystem
}

func (o Options) withDefaults() Options {
	if o.Reader == nil {
		o.Reader = filereader.DiskReader{}
	}
	if o.JSONReader == nil {
		o.JSONReader = filereader.DiskReader{}
	}
	if o.Warner == nil {
		o.Warner = slogWarner{}
	}
	if o.FS == nil {
		o.FS = filesystem.DefaultFS{}
	}
	return o
}

// slogWarner is the default Warner.
type slogWarner struct{}

func (slogWarner) Warn(err error) {
	var notice *ExclusionNotice
	if errors.As(err, &notice) {
		slog.Info(err.Error())
		return
	}
	slog.Warn(err.Error())
}
