// Package summary derives coverage metrics from remapped coverage records.
package summary

import (
	"math"
	"sort"
	"strconv"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
)

// Metric counts the entries of one kind. Skipped entries count as covered.
type Metric struct {
	Total   int     `json:"total"`
	Covered int     `json:"covered"`
	Skipped int     `json:"skipped"`
	Pct     float64 `json:"pct"`
}

func (m *Metric) add(covered, skipped bool) {
	m.Total++
	if covered || skipped {
		m.Covered++
	}
	if !covered && skipped {
		m.Skipped++
	}
}

func (m *Metric) finish() {
	m.Pct = Percent(m.Covered, m.Total)
}

// FileSummary holds the four metrics reported per file and in total.
type FileSummary struct {
	Lines      Metric `json:"lines"`
	Statements Metric `json:"statements"`
	Functions  Metric `json:"functions"`
	Branches   Metric `json:"branches"`
}

// Merge adds the counts of other and recomputes percentages.
func (s *FileSummary) Merge(other FileSummary) {
	for _, pair := range []struct{ dst, src *Metric }{
		{&s.Lines, &other.Lines},
		{&s.Statements, &other.Statements},
		{&s.Functions, &other.Functions},
		{&s.Branches, &other.Branches},
	} {
		pair.dst.Total += pair.src.Total
		pair.dst.Covered += pair.src.Covered
		pair.dst.Skipped += pair.src.Skipped
		pair.dst.finish()
	}
}

// Percent is covered/total as a percentage truncated to two decimals, or 100
// when there is nothing to cover.
func Percent(covered, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Floor(float64(100000*covered)/float64(total)/10) / 100
}

// LineHits derives per-line hit counts from statements: each line carries the
// highest count of the statements starting on it. A skipped statement that was
// never hit counts once so it does not show as uncovered.
func LineHits(fc *model.FileCoverage) map[int]int {
	lines := make(map[int]int)
	for id, loc := range fc.StatementMap {
		count := fc.S[id]
		if loc.Skip && count == 0 {
			count = 1
		}
		line := loc.Start.Line
		if prev, ok := lines[line]; !ok || prev < count {
			lines[line] = count
		}
	}
	return lines
}

// SortedLines returns the keys of a LineHits result in ascending order.
func SortedLines(hits map[int]int) []int {
	lines := make([]int, 0, len(hits))
	for line := range hits {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// ForFile computes the summary of one record.
func ForFile(fc *model.FileCoverage) FileSummary {
	var s FileSummary

	for id, loc := range fc.StatementMap {
		s.Statements.add(fc.S[id] > 0, loc.Skip)
	}
	for id, fn := range fc.FnMap {
		s.Functions.add(fc.F[id] > 0, fn.Skip)
	}
	for id, br := range fc.BranchMap {
		hits := fc.B[id]
		for i := range br.Locations {
			covered := i < len(hits) && hits[i] > 0
			s.Branches.add(covered, br.Skip || br.Locations[i].Skip)
		}
	}
	for _, count := range LineHits(fc) {
		s.Lines.add(count > 0, false)
	}

	s.Lines.finish()
	s.Statements.finish()
	s.Functions.finish()
	s.Branches.finish()
	return s
}

// ForMap computes the summary of every file of coverage.
func ForMap(coverage model.CoverageMap) map[string]FileSummary {
	out := make(map[string]FileSummary, len(coverage))
	for path, fc := range coverage {
		out[path] = ForFile(fc)
	}
	return out
}

// Total sums the summaries of every file.
func Total(coverage model.CoverageMap) FileSummary {
	var total FileSummary
	total.Merge(FileSummary{})
	for _, fc := range coverage {
		total.Merge(ForFile(fc))
	}
	return total
}

// FormatPct prints a percentage without trailing zeros, e.g. "85.71" or "100".
func FormatPct(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// BranchCount is the number of branch arms starting on one line.
type BranchCount struct {
	Covered int
	Total   int
}

// BranchesByLine counts branch arms per line. A branch belongs to the line of
// its outer span, its recorded line, or its first arm, in that order.
func BranchesByLine(fc *model.FileCoverage) map[int]BranchCount {
	out := make(map[int]BranchCount)
	for id, br := range fc.BranchMap {
		line := br.Line
		if br.Loc != nil {
			line = br.Loc.Start.Line
		} else if line == 0 && len(br.Locations) > 0 {
			line = br.Locations[0].Start.Line
		}
		hits := fc.B[id]
		bc := out[line]
		for i := range br.Locations {
			bc.Total++
			if i < len(hits) && hits[i] > 0 {
				bc.Covered++
			}
		}
		out[line] = bc
	}
	return out
}
