package remap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
)

type entryKind byte

const (
	kindStatement entryKind = 's'
	kindFunction  entryKind = 'f'
	kindBranch    entryKind = 'b'
)

// fileIndex is the id bookkeeping of one original file. It lives beside the
// record and is never exposed.
type fileIndex struct {
	indexes   map[string]int
	lastIndex map[entryKind]int
}

func newFileIndex() *fileIndex {
	return &fileIndex{
		indexes:   make(map[string]int),
		lastIndex: make(map[entryKind]int),
	}
}

// idFor returns the id of key, allocating the next one for its kind when the
// key is new.
func (fi *fileIndex) idFor(kind entryKind, key string) (string, bool) {
	if id, ok := fi.indexes[key]; ok {
		return strconv.Itoa(id), false
	}
	fi.lastIndex[kind]++
	id := fi.lastIndex[kind]
	fi.indexes[key] = id
	return strconv.Itoa(id), true
}

// SparseCoverage accumulates remapped entries per original file. Entries that
// land on the same original span share one id and their hits add up.
type SparseCoverage struct {
	files map[string]*indexedFile
}

type indexedFile struct {
	data  *model.FileCoverage
	index *fileIndex
}

// NewSparseCoverage returns an empty accumulator.
func NewSparseCoverage() *SparseCoverage {
	return &SparseCoverage{files: make(map[string]*indexedFile)}
}

func (sc *SparseCoverage) file(path string) *indexedFile {
	f, ok := sc.files[path]
	if !ok {
		f = &indexedFile{data: model.NewFileCoverage(path), index: newFileIndex()}
		sc.files[path] = f
	}
	return f
}

// UpdateFunction records hits for a function in an original file.
func (sc *SparseCoverage) UpdateFunction(path string, fn model.FunctionMapping, hits int) {
	f := sc.file(path)
	id, created := f.index.idFor(kindFunction, locationKey(kindFunction, fn.Loc))
	if created {
		f.data.FnMap[id] = fn
	}
	f.data.F[id] += hits
}

// UpdateStatement records hits for a statement in an original file.
func (sc *SparseCoverage) UpdateStatement(path string, loc model.Location, hits int) {
	f := sc.file(path)
	id, created := f.index.idFor(kindStatement, locationKey(kindStatement, loc))
	if created {
		f.data.StatementMap[id] = loc
	}
	f.data.S[id] += hits
}

// UpdateBranch records per-arm hits for a branch in an original file. The
// hit array must have one entry per location; nothing is recorded otherwise.
func (sc *SparseCoverage) UpdateBranch(path string, br model.BranchMapping, hits []int) error {
	if len(hits) != len(br.Locations) {
		return &BranchCardinalityError{Path: path, Locations: len(br.Locations), Hits: len(hits)}
	}
	f := sc.file(path)
	id, created := f.index.idFor(kindBranch, locationKey(kindBranch, br.Locations...))
	if created {
		f.data.BranchMap[id] = br
	}
	counters, ok := f.data.B[id]
	if !ok {
		counters = make([]int, len(hits))
		f.data.B[id] = counters
	} else if len(counters) != len(hits) {
		return &BranchCardinalityError{Path: path, Locations: len(counters), Hits: len(hits)}
	}
	for i, n := range hits {
		counters[i] += n
	}
	return nil
}

// SetSourceCode attaches original source text to a file.
func (sc *SparseCoverage) SetSourceCode(path string, code *model.SourceCode) {
	f := sc.file(path)
	c := *code
	f.data.Code = &c
}

// SetCoverage adds a record kept in its own coordinates, as used for
// generated files without a source map. The first record for a path is
// stored as is and seeds the ids; later records for the same path are merged
// entry by entry, so counters only ever grow. Branches whose hit arrays do not
// match their locations are skipped and reported.
func (sc *SparseCoverage) SetCoverage(path string, fc *model.FileCoverage) error {
	existing, ok := sc.files[path]
	if !ok {
		data := fc.Clone()
		index := newFileIndex()
		seedIndex(index, kindStatement, data.StatementMap, func(loc model.Location) string {
			return locationKey(kindStatement, loc)
		})
		seedIndex(index, kindFunction, data.FnMap, func(fn model.FunctionMapping) string {
			return locationKey(kindFunction, fn.Loc)
		})
		seedIndex(index, kindBranch, data.BranchMap, func(br model.BranchMapping) string {
			return locationKey(kindBranch, br.Locations...)
		})
		sc.files[path] = &indexedFile{data: data, index: index}
		return nil
	}

	if existing.data.Code == nil && fc.Code != nil {
		sc.SetSourceCode(path, fc.Code)
	}
	for _, id := range model.SortedIDs(fc.StatementMap) {
		sc.UpdateStatement(path, fc.StatementMap[id], fc.S[id])
	}
	for _, id := range model.SortedIDs(fc.FnMap) {
		sc.UpdateFunction(path, fc.FnMap[id], fc.F[id])
	}
	var errs []error
	for _, id := range model.SortedIDs(fc.BranchMap) {
		if err := sc.UpdateBranch(path, fc.BranchMap[id], fc.B[id]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FilesCoverage returns a snapshot of every accumulated file.
func (sc *SparseCoverage) FilesCoverage() model.CoverageMap {
	out := make(model.CoverageMap, len(sc.files))
	for path, f := range sc.files {
		out[path] = f.data.Clone()
	}
	return out
}

func seedIndex[V any](index *fileIndex, kind entryKind, table map[string]V, key func(V) string) {
	for id, entry := range table {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if _, seen := index.indexes[key(entry)]; !seen {
			index.indexes[key(entry)] = n
		}
		if n > index.lastIndex[kind] {
			index.lastIndex[kind] = n
		}
	}
}

// locationKey builds the identity of an entry from its kind and spans.
func locationKey(kind entryKind, locs ...model.Location) string {
	var sb strings.Builder
	sb.WriteByte(byte(kind))
	for _, loc := range locs {
		fmt.Fprintf(&sb, ":%d:%d:%d:%d", loc.Start.Line, loc.Start.Column, loc.End.Line, loc.End.Column)
	}
	return sb.String()
}
