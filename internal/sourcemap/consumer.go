package sourcemap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// Bias selects which segment answers a lookup that falls between segments.
type Bias int

const (
	// GreatestLowerBound picks the closest segment at or before the column.
	GreatestLowerBound Bias = iota
	// LeastUpperBound picks the closest segment at or after the column, i.e.
	// the next token.
	LeastUpperBound
)

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// OriginalPosition is a resolved point in an original source. Line is 1-based,
// Column 0-based.
type OriginalPosition struct {
	Source string
	Line   int
	Column int
	Name   string
}

// segment is one decoded mapping of a generated line. source is -1 for
// segments that map to nothing.
type segment struct {
	column int
	source int
}

// Consumer answers position lookups against one document. Lookups never cross
// generated lines: a column before the first segment (or after the last one
// for LeastUpperBound) does not resolve.
type Consumer struct {
	doc    *Document
	lookup *gosourcemap.Consumer
	lines  [][]segment
}

// NewConsumer indexes doc. The document's sources are used as given, so any
// path rewriting must happen before.
func NewConsumer(doc *Document) (*Consumer, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	encoded, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("sourcemap: encoding document: %w", err)
	}
	lookup, err := gosourcemap.Parse("", encoded)
	if err != nil {
		return nil, fmt.Errorf("sourcemap: parsing document: %w", err)
	}
	lines, err := decodeMappings(doc.Mappings)
	if err != nil {
		return nil, err
	}
	return &Consumer{doc: doc, lookup: lookup, lines: lines}, nil
}

// OriginalPositionFor resolves a generated position (line 1-based, column
// 0-based).
func (c *Consumer) OriginalPositionFor(line, column int, bias Bias) (OriginalPosition, bool) {
	if line < 1 || line > len(c.lines) || column < 0 {
		return OriginalPosition{}, false
	}
	segs := c.lines[line-1]

	var seg segment
	switch bias {
	case LeastUpperBound:
		i := sort.Search(len(segs), func(i int) bool { return segs[i].column >= column })
		if i == len(segs) {
			return OriginalPosition{}, false
		}
		seg = segs[i]
	default:
		i := sort.Search(len(segs), func(i int) bool { return segs[i].column > column })
		if i == 0 {
			return OriginalPosition{}, false
		}
		seg = segs[i-1]
	}
	if seg.source < 0 || seg.source >= len(c.doc.Sources) {
		return OriginalPosition{}, false
	}

	_, name, origLine, origColumn, ok := c.lookup.Source(line, seg.column)
	if !ok {
		return OriginalPosition{}, false
	}
	return OriginalPosition{
		Source: c.doc.Sources[seg.source],
		Line:   origLine,
		Column: origColumn,
		Name:   name,
	}, true
}

// decodeMappings builds the per-line segment index of a "mappings" string.
func decodeMappings(mappings string) ([][]segment, error) {
	rawLines := strings.Split(mappings, ";")
	lines := make([][]segment, len(rawLines))
	source := 0
	for n, raw := range rawLines {
		if raw == "" {
			continue
		}
		column := 0
		var segs []segment
		for _, rawSeg := range strings.Split(raw, ",") {
			if rawSeg == "" {
				continue
			}
			fields, err := decodeVLQ(rawSeg)
			if err != nil {
				return nil, fmt.Errorf("sourcemap: line %d: %w", n+1, err)
			}
			switch len(fields) {
			case 1:
				column += fields[0]
				segs = append(segs, segment{column: column, source: -1})
			case 4, 5:
				column += fields[0]
				source += fields[1]
				segs = append(segs, segment{column: column, source: source})
			default:
				return nil, fmt.Errorf("sourcemap: line %d: segment %q has %d fields", n+1, rawSeg, len(fields))
			}
		}
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].column < segs[j].column })
		lines[n] = segs
	}
	return lines, nil
}

var errTruncatedVLQ = errors.New("truncated VLQ value")

func decodeVLQ(s string) ([]int, error) {
	var fields []int
	value, shift := 0, 0
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(base64Digits, s[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid VLQ character %q", s[i])
		}
		value += (digit & 31) << shift
		if digit&32 != 0 {
			shift += 5
			continue
		}
		negative := value&1 == 1
		value >>= 1
		if negative {
			value = -value
		}
		fields = append(fields, value)
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, errTruncatedVLQ
	}
	return fields, nil
}
