package remap

import (
	"regexp"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/filtering"
)

// Exclude decides whether a file path is left out of the output.
type Exclude interface {
	Excludes(path string) bool
}

// ExcludeSubstring excludes paths containing the string.
type ExcludeSubstring string

func (s ExcludeSubstring) Excludes(path string) bool {
	return s != "" && strings.Contains(path, string(s))
}

// ExcludeRegexp excludes paths matching the expression.
type ExcludeRegexp struct {
	*regexp.Regexp
}

func (r ExcludeRegexp) Excludes(path string) bool {
	return r.Regexp != nil && r.MatchString(path)
}

// ExcludeFunc excludes paths for which the function returns true.
type ExcludeFunc func(path string) bool

func (f ExcludeFunc) Excludes(path string) bool { return f != nil && f(path) }

// ExcludeFilter excludes paths that a +/- path filter does not include.
type ExcludeFilter struct {
	Filter filtering.Filter
}

func (f ExcludeFilter) Excludes(path string) bool {
	return f.Filter != nil && !f.Filter.IsIncluded(path)
}

// ExcludeAny excludes a path when any of its rules does.
type ExcludeAny []Exclude

func (rules ExcludeAny) Excludes(path string) bool {
	for _, rule := range rules {
		if rule != nil && rule.Excludes(path) {
			return true
		}
	}
	return false
}
