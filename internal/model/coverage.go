package model

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Position is a point in a source file. Lines are 1-based, columns 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is a span between two positions. Skip marks entries that the
// instrumenter was told to ignore and must survive every transformation.
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
	Skip  bool     `json:"skip,omitempty"`
}

// FunctionMapping describes one entry of a fnMap table.
type FunctionMapping struct {
	Name string    `json:"name"`
	Decl *Location `json:"decl,omitempty"`
	Loc  Location  `json:"loc"`
	Line int       `json:"line,omitempty"`
	Skip bool      `json:"skip,omitempty"`
}

// BranchMapping describes one entry of a branchMap table. Locations holds one
// span per branch arm; the hit array for the entry is positional against it.
type BranchMapping struct {
	Loc       *Location  `json:"loc,omitempty"`
	Type      string     `json:"type"`
	Locations []Location `json:"locations"`
	Line      int        `json:"line,omitempty"`
	Skip      bool       `json:"skip,omitempty"`
}

// FileCoverage is the istanbul coverage record of a single file, keyed by
// string ids. The same shape is used for generated and original files.
type FileCoverage struct {
	Path           string                     `json:"path"`
	StatementMap   map[string]Location        `json:"statementMap"`
	FnMap          map[string]FunctionMapping `json:"fnMap"`
	BranchMap      map[string]BranchMapping   `json:"branchMap"`
	S              map[string]int             `json:"s"`
	F              map[string]int             `json:"f"`
	B              map[string][]int           `json:"b"`
	Code           *SourceCode                `json:"code,omitempty"`
	InputSourceMap json.RawMessage            `json:"inputSourceMap,omitempty"`
}

// NewFileCoverage returns an empty record with every table allocated.
func NewFileCoverage(path string) *FileCoverage {
	return &FileCoverage{
		Path:         path,
		StatementMap: make(map[string]Location),
		FnMap:        make(map[string]FunctionMapping),
		BranchMap:    make(map[string]BranchMapping),
		S:            make(map[string]int),
		F:            make(map[string]int),
		B:            make(map[string][]int),
	}
}

// UnmarshalJSON decodes a record and makes sure no table is left nil, so
// callers never need to guard map writes.
func (fc *FileCoverage) UnmarshalJSON(data []byte) error {
	type plain FileCoverage
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*fc = FileCoverage(p)
	fc.ensureTables()
	return nil
}

func (fc *FileCoverage) ensureTables() {
	if fc.StatementMap == nil {
		fc.StatementMap = make(map[string]Location)
	}
	if fc.FnMap == nil {
		fc.FnMap = make(map[string]FunctionMapping)
	}
	if fc.BranchMap == nil {
		fc.BranchMap = make(map[string]BranchMapping)
	}
	if fc.S == nil {
		fc.S = make(map[string]int)
	}
	if fc.F == nil {
		fc.F = make(map[string]int)
	}
	if fc.B == nil {
		fc.B = make(map[string][]int)
	}
}

// Clone returns a deep copy of the record.
func (fc *FileCoverage) Clone() *FileCoverage {
	if fc == nil {
		return nil
	}
	out := NewFileCoverage(fc.Path)
	for id, loc := range fc.StatementMap {
		out.StatementMap[id] = loc
	}
	for id, fn := range fc.FnMap {
		if fn.Decl != nil {
			decl := *fn.Decl
			fn.Decl = &decl
		}
		out.FnMap[id] = fn
	}
	for id, br := range fc.BranchMap {
		if br.Loc != nil {
			loc := *br.Loc
			br.Loc = &loc
		}
		br.Locations = append([]Location(nil), br.Locations...)
		out.BranchMap[id] = br
	}
	for id, n := range fc.S {
		out.S[id] = n
	}
	for id, n := range fc.F {
		out.F[id] = n
	}
	for id, hits := range fc.B {
		out.B[id] = append([]int(nil), hits...)
	}
	if fc.Code != nil {
		code := *fc.Code
		out.Code = &code
	}
	if fc.InputSourceMap != nil {
		out.InputSourceMap = append(json.RawMessage(nil), fc.InputSourceMap...)
	}
	return out
}

// CoverageMap maps a file path to its coverage record.
type CoverageMap map[string]*FileCoverage

// Clone returns a deep copy of every record in the map.
func (m CoverageMap) Clone() CoverageMap {
	out := make(CoverageMap, len(m))
	for path, fc := range m {
		out[path] = fc.Clone()
	}
	return out
}

// Paths returns the keys of the map in lexical order.
func (m CoverageMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// SortedIDs returns the keys of an id-keyed table. Numeric ids come first in
// numeric order; anything else follows in lexical order.
func SortedIDs[V any](table map[string]V) []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}
