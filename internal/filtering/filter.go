package filtering

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter decides whether a file path takes part in the output.
type Filter interface {
	IsIncluded(path string) bool
	HasCustomFilters() bool
}

// PathFilter applies "+pattern" / "-pattern" rules to file paths. Patterns
// use '*' and '?' wildcards, match case-insensitively and treat '/' and '\'
// alike. Exclusions win over inclusions; without any inclusion rule every
// path is included.
type PathFilter struct {
	includeFilters []*regexp.Regexp
	excludeFilters []*regexp.Regexp
	hasCustom      bool
}

// NewPathFilter compiles the given rules. Empty rules are ignored.
func NewPathFilter(rules []string) (*PathFilter, error) {
	pf := &PathFilter{}
	var errs []string

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		switch {
		case rule == "":
			continue
		case strings.HasPrefix(rule, "+"):
			re, err := compileRule(rule)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid include filter '%s': %v", rule, err))
				continue
			}
			pf.includeFilters = append(pf.includeFilters, re)
		case strings.HasPrefix(rule, "-"):
			re, err := compileRule(rule)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid exclude filter '%s': %v", rule, err))
				continue
			}
			pf.excludeFilters = append(pf.excludeFilters, re)
		default:
			errs = append(errs, fmt.Sprintf("filter '%s' must start with '+' or '-'", rule))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("error creating path filter: %s", strings.Join(errs, "; "))
	}

	pf.hasCustom = len(pf.includeFilters) > 0 || len(pf.excludeFilters) > 0
	return pf, nil
}

// IsIncluded checks the path against the rules.
func (pf *PathFilter) IsIncluded(path string) bool {
	for _, re := range pf.excludeFilters {
		if re.MatchString(path) {
			return false
		}
	}
	if len(pf.includeFilters) == 0 {
		return true
	}
	for _, re := range pf.includeFilters {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// HasCustomFilters returns true if any include or exclude rule was given.
func (pf *PathFilter) HasCustomFilters() bool {
	return pf.hasCustom
}

// compileRule turns "+src/**/*.ts" style rules into an anchored regex.
func compileRule(rule string) (*regexp.Regexp, error) {
	pattern := rule[1:]
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	pattern = regexp.QuoteMeta(strings.ReplaceAll(pattern, `\`, "/"))
	pattern = strings.ReplaceAll(pattern, `\*`, ".*")
	pattern = strings.ReplaceAll(pattern, `\?`, ".")
	pattern = strings.ReplaceAll(pattern, "/", `[/\\]`)

	return regexp.Compile("(?i)^" + pattern + "$")
}
