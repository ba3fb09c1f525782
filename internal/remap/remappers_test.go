package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/sourcemap"
)

// fakeResolve maps generated lines onto fixed sources: line n of the
// generated file lands on line n*10 of the source named in sources[n], with
// columns unchanged. Lines without an entry do not resolve.
func fakeResolve(sources map[int]string) ResolveFunc {
	return func(l model.Location) (sourcemap.Mapping, bool) {
		src, ok := sources[l.Start.Line]
		if !ok || sources[l.End.Line] != src {
			return sourcemap.Mapping{}, false
		}
		return sourcemap.Mapping{
			Source: src,
			Loc: model.Location{
				Start: model.Position{Line: l.Start.Line * 10, Column: l.Start.Column},
				End:   model.Position{Line: l.End.Line * 10, Column: l.End.Column},
				Skip:  l.Skip,
			},
		}, true
	}
}

func TestRemapStatement(t *testing.T) {
	resolve := fakeResolve(map[int]string{1: "a.ts"})

	source, got, ok := RemapStatement(loc(1, 2, 1, 8), resolve)
	require.True(t, ok)
	assert.Equal(t, "a.ts", source)
	assert.Equal(t, loc(10, 2, 10, 8), got)

	_, _, ok = RemapStatement(loc(2, 0, 2, 1), resolve)
	assert.False(t, ok)
}

func TestRemapFunction(t *testing.T) {
	resolve := fakeResolve(map[int]string{1: "a.ts", 2: "a.ts", 4: "a.ts"})
	decl := loc(1, 9, 1, 12)

	testCases := []struct {
		name       string
		fn         model.FunctionMapping
		wantOK     bool
		wantLoc    model.Location
		wantDecl   *model.Location
		wantSkip   bool
		wantLineNo int
	}{
		{
			name:       "body span only",
			fn:         model.FunctionMapping{Name: "f", Loc: loc(2, 0, 4, 1), Line: 2},
			wantOK:     true,
			wantLoc:    loc(20, 0, 40, 1),
			wantLineNo: 20,
		},
		{
			name:       "declaration preferred",
			fn:         model.FunctionMapping{Name: "f", Decl: &decl, Loc: loc(2, 0, 4, 1), Line: 1},
			wantOK:     true,
			wantLoc:    loc(10, 9, 10, 12),
			wantDecl:   &model.Location{Start: model.Position{Line: 10, Column: 9}, End: model.Position{Line: 10, Column: 12}},
			wantLineNo: 10,
		},
		{
			name:       "skip carried",
			fn:         model.FunctionMapping{Name: "f", Loc: loc(2, 0, 4, 1), Line: 2, Skip: true},
			wantOK:     true,
			wantLoc:    loc(20, 0, 40, 1),
			wantSkip:   true,
			wantLineNo: 20,
		},
		{
			name: "unresolvable",
			fn:   model.FunctionMapping{Name: "f", Loc: loc(3, 0, 3, 1), Line: 3},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			source, got, ok := RemapFunction(tc.fn, resolve)
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, "a.ts", source)
			assert.Equal(t, tc.fn.Name, got.Name)
			assert.Equal(t, tc.wantLoc, got.Loc)
			assert.Equal(t, tc.wantDecl, got.Decl)
			assert.Equal(t, tc.wantSkip, got.Skip)
			assert.Equal(t, tc.wantLineNo, got.Line)
		})
	}
}

func TestRemapBranch(t *testing.T) {
	resolve := fakeResolve(map[int]string{1: "a.ts", 2: "a.ts", 3: "b.ts"})
	outer := loc(1, 0, 2, 9)

	t.Run("all arms resolve", func(t *testing.T) {
		br := model.BranchMapping{
			Type:      "if",
			Loc:       &outer,
			Locations: []model.Location{loc(1, 4, 1, 9), loc(2, 0, 2, 9)},
			Line:      1,
			Skip:      true,
		}
		source, got, ok := RemapBranch(br, resolve)
		require.True(t, ok)
		assert.Equal(t, "a.ts", source)
		assert.Equal(t, "if", got.Type)
		assert.Equal(t, []model.Location{loc(10, 4, 10, 9), loc(20, 0, 20, 9)}, got.Locations)
		assert.Equal(t, 10, got.Line)
		assert.True(t, got.Skip)
		require.NotNil(t, got.Loc)
		assert.Equal(t, loc(10, 0, 20, 9), *got.Loc)
	})

	t.Run("one arm unresolvable drops the branch", func(t *testing.T) {
		br := model.BranchMapping{Type: "if", Locations: []model.Location{loc(1, 0, 1, 2), loc(4, 0, 4, 2)}}
		_, _, ok := RemapBranch(br, resolve)
		assert.False(t, ok)
	})

	t.Run("arms in different sources drop the branch", func(t *testing.T) {
		br := model.BranchMapping{Type: "if", Locations: []model.Location{loc(1, 0, 1, 2), loc(3, 0, 3, 2)}}
		_, _, ok := RemapBranch(br, resolve)
		assert.False(t, ok)
	})

	t.Run("outer span in another source is left out", func(t *testing.T) {
		other := loc(3, 0, 3, 5)
		br := model.BranchMapping{Type: "if", Loc: &other, Locations: []model.Location{loc(1, 0, 1, 2)}}
		source, got, ok := RemapBranch(br, resolve)
		require.True(t, ok)
		assert.Equal(t, "a.ts", source)
		assert.Nil(t, got.Loc)
	})

	t.Run("no locations", func(t *testing.T) {
		_, _, ok := RemapBranch(model.BranchMapping{Type: "if"}, resolve)
		assert.False(t, ok)
	})
}
