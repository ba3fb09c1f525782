// Package glob expands file patterns into paths. Supported syntax:
//   - `?` matches one character of a name.
//   - `*` matches any run of characters within a name.
//   - `**` matches zero or more directories.
//   - `[...]` matches a character set such as `[abc]` or `[a-z]`.
//   - `{a,b}` matches either alternative and may nest.
//
// Matching is case-insensitive unless IgnoreCase is cleared.
package glob

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filesystem"
)

const globCharacters = "*?[]{}"

var (
	regexSpecialChars = map[rune]bool{
		'[': true, '\\': true, '^': true, '$': true, '.': true, '|': true,
		'?': true, '*': true, '+': true, '(': true, ')': true, '{': true, '}': true,
	}

	// Compiled name matchers keyed by segment and case flag.
	matcherCache sync.Map
)

// nameMatcher matches a single path segment, either literally or by regexp.
type nameMatcher struct {
	re         *regexp.Regexp
	literal    string
	ignoreCase bool
}

func (m *nameMatcher) match(name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	if m.ignoreCase {
		return strings.EqualFold(m.literal, name)
	}
	return m.literal == name
}

// Glob is a pattern bound to the filesystem it is expanded against.
type Glob struct {
	Pattern    string
	IgnoreCase bool

	fs filesystem.Filesystem
}

// NewGlob returns a case-insensitive Glob. A nil fsys means the host filesystem.
func NewGlob(pattern string, fsys filesystem.Filesystem) *Glob {
	if fsys == nil {
		fsys = filesystem.DefaultFS{}
	}
	return &Glob{Pattern: pattern, IgnoreCase: true, fs: fsys}
}

func (g *Glob) String() string {
	return g.Pattern
}

// Expand returns the absolute paths of every file and directory matching the
// pattern, without duplicates and in sorted order.
func (g *Glob) Expand() ([]string, error) {
	if g.Pattern == "" {
		return nil, nil
	}
	paths, err := g.expand(g.Pattern, false)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ExpandFiles is Expand restricted to regular files.
func (g *Glob) ExpandFiles() ([]string, error) {
	paths, err := g.Expand()
	if err != nil {
		return nil, err
	}
	files := paths[:0]
	for _, p := range paths {
		if info, err := g.fs.Stat(p); err == nil && !info.IsDir() {
			files = append(files, p)
		}
	}
	return files, nil
}

func (g *Glob) matcher(segment string) (*nameMatcher, error) {
	key := segment + "|" + strconv.FormatBool(g.IgnoreCase)
	if cached, ok := matcherCache.Load(key); ok {
		return cached.(*nameMatcher), nil
	}

	m := &nameMatcher{literal: segment, ignoreCase: g.IgnoreCase}
	if strings.ContainsAny(segment, "*?[]") {
		pattern, err := globToRegexPattern(segment, g.IgnoreCase)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling glob segment %q: %w", segment, err)
		}
		m.re = re
	}
	matcherCache.Store(key, m)
	return m, nil
}

// expand resolves pattern from right to left: the parent is expanded to
// directories first, then the last segment is matched against their entries.
func (g *Glob) expand(pattern string, dirOnly bool) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}

	if !strings.ContainsAny(pattern, globCharacters) {
		abs, err := g.fs.Abs(pattern)
		if err != nil {
			return nil, nil
		}
		info, err := g.fs.Stat(abs)
		if err != nil || (dirOnly && !info.IsDir()) {
			return nil, nil
		}
		return []string{abs}, nil
	}

	parent := filepath.Dir(pattern)
	child := filepath.Base(pattern)

	// A brace group spanning a separator is split by Dir/Base; expand the
	// whole pattern group by group instead.
	if strings.Count(child, "}") > strings.Count(child, "{") {
		groups, err := ungroup(pattern)
		if err != nil {
			return nil, err
		}
		seen := newPathSet()
		for _, group := range groups {
			paths, err := g.expand(group, dirOnly)
			if err != nil {
				slog.Warn("Skipping glob group", "group", group, "error", err)
				continue
			}
			seen.addAll(paths)
		}
		return seen.paths, nil
	}

	if parent == "." {
		cwd, err := g.fs.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		parent = cwd
	}

	parents, err := g.expand(parent, true)
	if err != nil {
		return nil, err
	}

	seen := newPathSet()
	if child == "**" {
		for _, dir := range parents {
			seen.add(dir)
			seen.addAll(g.walk(dir, dirOnly))
		}
		return seen.paths, nil
	}

	alternatives, err := ungroup(child)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", child, err)
	}
	var matchers []*nameMatcher
	for _, alt := range alternatives {
		m, err := g.matcher(alt)
		if err != nil {
			slog.Warn("Skipping malformed glob segment", "segment", alt, "error", err)
			continue
		}
		matchers = append(matchers, m)
	}

	for _, dir := range parents {
		entries, err := g.fs.ReadDir(dir)
		if err != nil {
			slog.Debug("Cannot list directory", "dir", dir, "error", err)
			continue
		}
		for _, entry := range entries {
			if dirOnly && !entry.IsDir() {
				continue
			}
			for _, m := range matchers {
				if m.match(entry.Name()) {
					seen.add(filepath.Join(dir, entry.Name()))
					break
				}
			}
		}
	}
	return seen.paths, nil
}

// walk lists everything below root, depth first.
func (g *Glob) walk(root string, dirOnly bool) []string {
	entries, err := g.fs.ReadDir(root)
	if err != nil {
		slog.Debug("Cannot list directory", "dir", root, "error", err)
		return nil
	}
	var paths []string
	for _, entry := range entries {
		p := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			paths = append(paths, p)
			paths = append(paths, g.walk(p, dirOnly)...)
		} else if !dirOnly {
			paths = append(paths, p)
		}
	}
	return paths
}

type pathSet struct {
	seen  map[string]bool
	paths []string
}

func newPathSet() *pathSet {
	return &pathSet{seen: make(map[string]bool)}
}

func (s *pathSet) add(p string) {
	if !s.seen[p] {
		s.seen[p] = true
		s.paths = append(s.paths, p)
	}
}

func (s *pathSet) addAll(paths []string) {
	for _, p := range paths {
		s.add(p)
	}
}

// globToRegexPattern converts one glob segment to an anchored expression.
func globToRegexPattern(segment string, ignoreCase bool) (string, error) {
	var sb strings.Builder
	if ignoreCase {
		sb.WriteString("(?i)")
	}
	sb.WriteByte('^')

	inClass := false
	for _, r := range segment {
		if inClass {
			if r == ']' {
				inClass = false
			}
			sb.WriteRune(r)
			continue
		}
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteByte('.')
		case '[':
			inClass = true
			sb.WriteRune(r)
		default:
			if regexSpecialChars[r] {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
	}
	if inClass {
		return "", fmt.Errorf("unterminated character class in %q", segment)
	}
	sb.WriteByte('$')
	return sb.String(), nil
}

// ungroup expands brace groups, e.g. "{a,b}c" -> ["ac", "bc"].
func ungroup(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "{") {
		return []string{pattern}, nil
	}

	level, open := 0, -1
	for i, r := range pattern {
		switch r {
		case '{':
			if level == 0 {
				open = i
			}
			level++
		case '}':
			level--
			if level < 0 {
				return nil, fmt.Errorf("unbalanced braces in %q", pattern)
			}
			if level > 0 {
				continue
			}
			prefix, body, suffix := pattern[:open], pattern[open+1:i], pattern[i+1:]

			suffixes, err := ungroup(suffix)
			if err != nil {
				return nil, err
			}
			var results []string
			for _, part := range splitTopLevel(body) {
				heads, err := ungroup(prefix + part)
				if err != nil {
					return nil, err
				}
				for _, head := range heads {
					for _, tail := range suffixes {
						results = append(results, head+tail)
					}
				}
			}
			return results, nil
		}
	}
	return nil, fmt.Errorf("unbalanced braces in %q", pattern)
}

// splitTopLevel splits a group body on commas that are not nested in braces.
func splitTopLevel(body string) []string {
	var parts []string
	var sb strings.Builder
	depth := 0
	for _, r := range body {
		switch {
		case r == '{':
			depth++
		case r == '}':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteRune(r)
	}
	return append(parts, sb.String())
}

// GetFiles expands pattern against the host filesystem.
func GetFiles(pattern string) ([]string, error) {
	return NewGlob(pattern, nil).Expand()
}
