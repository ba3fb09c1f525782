package sourcemap

import (
	"sort"
	"strings"
)

// Builder assembles a Document from individual mappings. Lines are 1-based
// and columns 0-based, as in coverage locations.
type Builder struct {
	file     string
	sources  []string
	contents []*string
	index    map[string]int
	mappings []builderMapping
}

type builderMapping struct {
	genLine, genColumn int
	source             int
	line, column       int
}

// NewBuilder starts a document for the generated file name.
func NewBuilder(file string) *Builder {
	return &Builder{file: file, index: make(map[string]int)}
}

// AddSource registers a source, optionally with its text, and returns its index.
func (b *Builder) AddSource(name string, content *string) int {
	if i, ok := b.index[name]; ok {
		if content != nil {
			b.contents[i] = content
		}
		return i
	}
	b.index[name] = len(b.sources)
	b.sources = append(b.sources, name)
	b.contents = append(b.contents, content)
	return len(b.sources) - 1
}

// AddMapping maps a generated position to a position in source.
func (b *Builder) AddMapping(genLine, genColumn int, source string, line, column int) {
	b.mappings = append(b.mappings, builderMapping{
		genLine: genLine, genColumn: genColumn,
		source: b.AddSource(source, nil),
		line:   line, column: column,
	})
}

// AddUnmapped adds a segment that maps to no source.
func (b *Builder) AddUnmapped(genLine, genColumn int) {
	b.mappings = append(b.mappings, builderMapping{genLine: genLine, genColumn: genColumn, source: -1})
}

// Document encodes the collected mappings.
func (b *Builder) Document() *Document {
	doc := &Document{
		Version:  3,
		File:     b.file,
		Sources:  append([]string{}, b.sources...),
		Mappings: b.encode(),
	}
	for _, c := range b.contents {
		if c != nil {
			doc.SourcesContent = append([]*string(nil), b.contents...)
			break
		}
	}
	return doc
}

func (b *Builder) encode() string {
	mappings := append([]builderMapping(nil), b.mappings...)
	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].genLine != mappings[j].genLine {
			return mappings[i].genLine < mappings[j].genLine
		}
		return mappings[i].genColumn < mappings[j].genColumn
	})

	var sb strings.Builder
	line := 1
	prevColumn, prevSource, prevLine, prevOrigColumn := 0, 0, 0, 0
	first := true
	for _, m := range mappings {
		for line < m.genLine {
			sb.WriteByte(';')
			line++
			prevColumn = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		encodeVLQ(&sb, m.genColumn-prevColumn)
		prevColumn = m.genColumn
		if m.source < 0 {
			continue
		}
		encodeVLQ(&sb, m.source-prevSource)
		encodeVLQ(&sb, m.line-1-prevLine)
		encodeVLQ(&sb, m.column-prevOrigColumn)
		prevSource, prevLine, prevOrigColumn = m.source, m.line-1, m.column
	}
	return sb.String()
}

func encodeVLQ(sb *strings.Builder, v int) {
	if v < 0 {
		v = (-v << 1) | 1
	} else {
		v <<= 1
	}
	for {
		digit := v & 31
		v >>= 5
		if v > 0 {
			digit |= 32
		}
		sb.WriteByte(base64Digits[digit])
		if v == 0 {
			return
		}
	}
}
