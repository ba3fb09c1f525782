package remap

import (
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/sourcemap"
)

// ResolveFunc maps a generated location to its final original path and span.
type ResolveFunc func(loc model.Location) (sourcemap.Mapping, bool)

// RemapFunction places a function entry in original coordinates. The
// declaration span is preferred over the body span when present.
func RemapFunction(fn model.FunctionMapping, resolve ResolveFunc) (string, model.FunctionMapping, bool) {
	target := fn.Loc
	if fn.Decl != nil {
		target = *fn.Decl
	}
	mapping, ok := resolve(target)
	if !ok {
		return "", model.FunctionMapping{}, false
	}

	out := model.FunctionMapping{
		Name: fn.Name,
		Line: mapping.Loc.Start.Line,
		Loc:  mapping.Loc,
		Skip: fn.Skip,
	}
	if fn.Decl != nil {
		decl := mapping.Loc
		out.Decl = &decl
	}
	return mapping.Source, out, true
}

// RemapStatement places a statement span in original coordinates.
func RemapStatement(loc model.Location, resolve ResolveFunc) (string, model.Location, bool) {
	mapping, ok := resolve(loc)
	if !ok {
		return "", model.Location{}, false
	}
	return mapping.Source, mapping.Loc, true
}

// RemapBranch places a branch entry in original coordinates. A branch is kept
// only if every arm resolves, and all arms resolve into the same file.
func RemapBranch(br model.BranchMapping, resolve ResolveFunc) (string, model.BranchMapping, bool) {
	if len(br.Locations) == 0 {
		return "", model.BranchMapping{}, false
	}

	var source string
	locations := make([]model.Location, 0, len(br.Locations))
	for i, loc := range br.Locations {
		mapping, ok := resolve(loc)
		if !ok {
			return "", model.BranchMapping{}, false
		}
		if i == 0 {
			source = mapping.Source
		} else if mapping.Source != source {
			return "", model.BranchMapping{}, false
		}
		locations = append(locations, mapping.Loc)
	}

	out := model.BranchMapping{
		Line:      locations[0].Start.Line,
		Type:      br.Type,
		Locations: locations,
		Skip:      br.Skip,
	}
	if br.Loc != nil {
		if mapping, ok := resolve(*br.Loc); ok && mapping.Source == source {
			loc := mapping.Loc
			out.Loc = &loc
		}
	}
	return source, out, true
}
