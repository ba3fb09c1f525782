package remap

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filereader"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filesystem"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/sourcemap"
)

// Remap translates one or more generated coverage maps into a single coverage
// map keyed by original file. Inputs are processed in order into shared
// state, so counts for the same original entry add up across them.
func Remap(opts Options, inputs ...model.CoverageMap) (model.CoverageMap, error) {
	if len(inputs) == 0 {
		return nil, ErrNoCoverage
	}
	t := NewTransformer(opts)
	for _, coverage := range inputs {
		t.AddCoverage(coverage)
	}
	return t.FinalCoverage(), nil
}

// Transformer drives the remapping of generated files into a SparseCoverage.
// It holds the state of one run and is not safe for concurrent use.
type Transformer struct {
	opts     Options
	coverage *SparseCoverage
}

// NewTransformer returns a Transformer with empty state.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{
		opts:     opts.withDefaults(),
		coverage: NewSparseCoverage(),
	}
}

// loadedMap is a source map together with the directory its relative
// sources are anchored at.
type loadedMap struct {
	doc *sourcemap.Document
	dir string
}

// generatedSource tracks what is known about the text of a generated file.
type generatedSource struct {
	text      string
	code      *model.SourceCode
	diskTried bool
	disk      []byte
}

// AddCoverage remaps every file of a generated coverage map.
func (t *Transformer) AddCoverage(coverage model.CoverageMap) {
	for _, path := range coverage.Paths() {
		t.AddFileCoverage(path, coverage[path])
	}
}

// AddFileCoverage remaps the coverage of one generated file.
func (t *Transformer) AddFileCoverage(filePath string, fc *model.FileCoverage) {
	if fc == nil {
		return
	}
	if filePath == "" {
		filePath = fc.Path
	}
	if t.opts.Exclude != nil && t.opts.Exclude.Excludes(filePath) {
		t.opts.Warner.Warn(&ExclusionNotice{Path: filePath})
		return
	}

	sm, gen := t.findSourceMap(filePath, fc)
	if sm == nil {
		t.opts.Warner.Warn(&MissingSourceMapError{Path: filePath})
		t.passthrough(filePath, fc, gen)
		return
	}
	t.remapFile(filePath, fc, sm, gen)
}

// FinalCoverage returns the accumulated coverage, minus original files that
// match the exclusion rule.
func (t *Transformer) FinalCoverage() model.CoverageMap {
	out := t.coverage.FilesCoverage()
	if t.opts.Exclude == nil {
		return out
	}
	for path := range out {
		if t.opts.Exclude.Excludes(path) {
			delete(out, path)
		}
	}
	return out
}

func (t *Transformer) findSourceMap(filePath string, fc *model.FileCoverage) (*loadedMap, generatedSource) {
	gen := generatedSource{code: fc.Code}

	if len(fc.InputSourceMap) > 0 {
		doc, err := sourcemap.ParseDocument(fc.InputSourceMap)
		if err == nil {
			slog.Debug("Using input source map", "file", filePath)
			return &loadedMap{doc: doc, dir: filepath.Dir(filePath)}, gen
		}
		slog.Debug("Ignoring unusable input source map", "file", filePath, "error", err)
	}

	if fc.Code != nil {
		gen.text = fc.Code.Text
	} else {
		t.readGenerated(filePath, &gen)
	}

	refs := sourcemap.FindReferences(gen.text)
	if len(refs) == 0 && !gen.diskTried {
		// The embedded code may have been captured without its trailing directive.
		t.readGenerated(filePath, &gen)
		refs = sourcemap.FindReferences(gen.text)
	}
	return t.loadReferenced(filePath, refs), gen
}

func (t *Transformer) readGenerated(filePath string, gen *generatedSource) {
	gen.diskTried = true
	data, err := t.opts.Reader.ReadFile(filePath)
	if err != nil {
		t.opts.Warner.Warn(&MissingFileError{Path: filePath, Err: err})
		return
	}
	gen.disk = data
	gen.text = string(data)
}

// loadReferenced returns the first reference that yields a usable document.
func (t *Transformer) loadReferenced(filePath string, refs []sourcemap.Reference) *loadedMap {
	genDir := filepath.Dir(filePath)
	for _, ref := range refs {
		if ref.Inline {
			data, err := ref.Decode()
			if err != nil {
				slog.Debug("Skipping inline source map", "file", filePath, "error", err)
				continue
			}
			doc, err := sourcemap.ParseDocument(data)
			if err != nil {
				slog.Debug("Skipping inline source map", "file", filePath, "error", err)
				continue
			}
			return &loadedMap{doc: doc, dir: genDir}
		}

		mapPath := ref.URL
		if !filepath.IsAbs(mapPath) {
			mapPath = filepath.Join(genDir, mapPath)
		}
		var doc sourcemap.Document
		if err := t.opts.JSONReader.ReadJSON(mapPath, &doc); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				t.opts.Warner.Warn(&MissingFileError{Path: mapPath, Err: err})
			} else {
				slog.Debug("Skipping unreadable source map", "map", mapPath, "error", err)
			}
			continue
		}
		if err := doc.Validate(); err != nil {
			slog.Debug("Skipping unsupported source map", "map", mapPath, "error", err)
			continue
		}
		slog.Debug("Using source map", "file", filePath, "map", mapPath)
		return &loadedMap{doc: &doc, dir: filepath.Dir(mapPath)}
	}
	return nil
}

// passthrough keeps a generated file in generated coordinates, attaching its
// text from disk when the record carries none.
func (t *Transformer) passthrough(filePath string, fc *model.FileCoverage, gen generatedSource) {
	record := fc
	if fc.Code == nil {
		disk := gen.disk
		if !gen.diskTried {
			if data, err := t.opts.Reader.ReadFile(filePath); err == nil {
				disk = data
			}
		}
		if disk != nil {
			record = fc.Clone()
			record.Code = model.NewSourceLines(filereader.SplitLines(disk))
		}
	}
	if err := t.coverage.SetCoverage(filePath, record); err != nil {
		t.opts.Warner.Warn(err)
	}
}

func (t *Transformer) remapFile(filePath string, fc *model.FileCoverage, sm *loadedMap, gen generatedSource) {
	doc := sm.doc.Clone()
	doc.AbsolutizeSources(sm.dir, t.opts.FS.Abs)

	// A map with embedded sources whose first source has an extension is
	// treated as a renamed copy of the generated file, e.g. app.js -> app.ts.
	renamed := ""
	if doc.HasSourcesContent() && len(doc.Sources) > 0 {
		if ext := filepath.Ext(doc.Sources[0]); ext != "" {
			renamed = strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ext
			doc.Sources[0] = renamed
		}
	}

	consumer, err := sourcemap.NewConsumer(doc)
	if err != nil {
		slog.Debug("Source map could not be indexed", "file", filePath, "error", err)
		t.opts.Warner.Warn(&MissingSourceMapError{Path: filePath})
		t.passthrough(filePath, fc, gen)
		return
	}

	inline := make(map[string]bool)
	for i, src := range doc.Sources {
		text, ok := doc.Content(i)
		if !ok {
			continue
		}
		inline[src] = true
		final := t.originalPath(src, true, src == renamed, sm.dir)
		t.coverage.SetSourceCode(final, gen.code.WithText(text))
		if t.opts.Sources != nil {
			t.opts.Sources.Set(final, text)
		}
	}

	finalPaths := make(map[string]string)
	resolve := func(loc model.Location) (sourcemap.Mapping, bool) {
		mapping, ok := sourcemap.Resolve(consumer, loc)
		if !ok {
			return sourcemap.Mapping{}, false
		}
		final, seen := finalPaths[mapping.Source]
		if !seen {
			final = t.originalPath(mapping.Source, inline[mapping.Source], mapping.Source == renamed, sm.dir)
			finalPaths[mapping.Source] = final
		}
		mapping.Source = final
		return mapping, true
	}

	for _, id := range model.SortedIDs(fc.BranchMap) {
		source, br, ok := RemapBranch(fc.BranchMap[id], resolve)
		if !ok {
			continue
		}
		hits, present := fc.B[id]
		if !present {
			hits = make([]int, len(br.Locations))
		}
		if err := t.coverage.UpdateBranch(source, br, hits); err != nil {
			t.opts.Warner.Warn(err)
		}
	}
	for _, id := range model.SortedIDs(fc.FnMap) {
		if source, fn, ok := RemapFunction(fc.FnMap[id], resolve); ok {
			t.coverage.UpdateFunction(source, fn, fc.F[id])
		}
	}
	for _, id := range model.SortedIDs(fc.StatementMap) {
		if source, loc, ok := RemapStatement(fc.StatementMap[id], resolve); ok {
			t.coverage.UpdateStatement(source, loc, fc.S[id])
		}
	}
}

// originalPath turns a source name from the map into the key used in the
// output. Embedded sources are kept as named; the renamed copy of the
// generated file moves under BasePath when one is set. Other sources are
// resolved against BasePath or the map directory and then normalized.
func (t *Transformer) originalPath(source string, inline, renamed bool, mapDir string) string {
	p := source
	switch {
	case renamed && t.opts.BasePath != "":
		p = filepath.Join(t.opts.BasePath, filepath.Base(source))
	case inline || renamed:
	default:
		if !sourcemap.IsAbsoluteSource(p) {
			base := mapDir
			if t.opts.BasePath != "" {
				base = t.opts.BasePath
			}
			p = filepath.Join(base, p)
		}
		if filepath.IsAbs(p) || !sourcemap.IsAbsoluteSource(p) {
			p = t.normalize(p)
		}
	}
	if t.opts.MapFileName != nil {
		p = t.opts.MapFileName(p)
	}
	return p
}

func (t *Transformer) normalize(p string) string {
	if t.opts.UseAbsolutePaths {
		if abs, err := t.opts.FS.Abs(p); err == nil {
			return abs
		}
		return p
	}
	if t.opts.BasePath != "" && filepath.IsAbs(t.opts.BasePath) {
		return p
	}
	return filesystem.RelativeToWorkingDir(t.opts.FS, p)
}
