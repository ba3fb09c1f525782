package sourcemap

import "github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"

// Mapping is a generated span translated to an original source.
type Mapping struct {
	Source string
	Loc    model.Location
}

// Resolve translates a generated location. It fails when either end does not
// map, when the ends land in different sources, or when the location is out of
// bounds. A span collapsing to a single original point is widened to end one
// column before the next token; at the end of the input, where no next token
// exists, the point is kept.
func Resolve(c *Consumer, loc model.Location) (Mapping, bool) {
	if loc.Start.Line < 1 || loc.Start.Column < 0 || loc.End.Line < 1 || loc.End.Column < 0 {
		return Mapping{}, false
	}

	start, ok := c.OriginalPositionFor(loc.Start.Line, loc.Start.Column, GreatestLowerBound)
	if !ok || start.Source == "" {
		return Mapping{}, false
	}
	end, ok := c.OriginalPositionFor(loc.End.Line, loc.End.Column, GreatestLowerBound)
	if !ok || end.Source != start.Source {
		return Mapping{}, false
	}

	if start.Line == end.Line && start.Column == end.Column {
		next, ok := c.OriginalPositionFor(loc.End.Line, loc.End.Column, LeastUpperBound)
		if ok && next.Source == start.Source && next.Column > 0 && after(next, start) {
			end = next
			end.Column--
		}
	}

	return Mapping{
		Source: start.Source,
		Loc: model.Location{
			Start: model.Position{Line: start.Line, Column: start.Column},
			End:   model.Position{Line: end.Line, Column: end.Column},
			Skip:  loc.Skip,
		},
	}, true
}

// after reports whether a lies strictly past b, so that stepping one column
// back from a cannot end before b.
func after(a, b OriginalPosition) bool {
	return a.Line > b.Line || (a.Line == b.Line && a.Column > b.Column)
}
