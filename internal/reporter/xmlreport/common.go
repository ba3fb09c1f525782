// Package xmlreport writes clover and cobertura XML reports.
package xmlreport

import (
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/model"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/utils"
)

// rootPackage names the package of files directly in the common directory.
const rootPackage = "main"

// fileGroup holds the files of one directory below the common root.
type fileGroup struct {
	name  string
	paths []string
}

// groupByDirectory groups paths by directory relative to their common
// directory, returned as root. Groups and their paths are sorted.
func groupByDirectory(paths []string) (string, []fileGroup) {
	root := utils.CommonDirectory(paths)
	byName := make(map[string]*fileGroup)
	var names []string
	for _, p := range paths {
		dir := path.Dir(utils.RelativeTo(root, p))
		name := rootPackage
		if dir != "." && dir != "/" {
			name = strings.ReplaceAll(strings.TrimPrefix(dir, "/"), "/", ".")
		}
		g, ok := byName[name]
		if !ok {
			g = &fileGroup{name: name}
			byName[name] = g
			names = append(names, name)
		}
		g.paths = append(g.paths, p)
	}
	sort.Strings(names)
	groups := make([]fileGroup, 0, len(names))
	for _, name := range names {
		g := byName[name]
		sort.Strings(g.paths)
		groups = append(groups, *g)
	}
	return root, groups
}

// rate turns a percentage into the 0..1 ratio used by cobertura.
func rate(pct float64) string {
	return strconv.FormatFloat(pct/100, 'f', -1, 64)
}

func writeDocument(w io.Writer, header string, doc any) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func fileSummaries(coverage model.CoverageMap, paths []string) summary.FileSummary {
	var total summary.FileSummary
	total.Merge(summary.FileSummary{})
	for _, p := range paths {
		total.Merge(summary.ForFile(coverage[p]))
	}
	return total
}
