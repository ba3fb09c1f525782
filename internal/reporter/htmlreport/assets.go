package htmlreport

import (
	"fmt"
	"os"
	"path/filepath"
)

const stylesheetFilename = "report.css"

const reportCSS = `body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; font-size: 14px; margin: 0; color: #333; }
.container { padding: 1em 2em; }
h1 { font-size: 1.4em; }
h1 a.back { text-decoration: none; }
table.overview { border-collapse: collapse; width: 100%; }
table.overview th, table.overview td { border-bottom: 1px solid #ddd; padding: 4px 8px; text-align: right; }
table.overview th:first-child, table.overview td:first-child { text-align: left; }
.card-group { display: flex; gap: 1em; margin-bottom: 1em; }
.card { border: 1px solid #ddd; padding: 0.5em 1em; min-width: 10em; }
.card-header { font-weight: bold; }
.large { font-size: 1.6em; }
.low { background-color: #fce1e5; }
.medium { background-color: #fff4c2; }
.high { background-color: #e6f5d0; }
table.lineAnalysis { border-collapse: collapse; font-family: Consolas, monospace; }
table.lineAnalysis td { padding: 0 4px; white-space: nowrap; }
td.green { background-color: #4bb04b; }
td.red { background-color: #e2554c; }
td.orange { background-color: #f0ad4e; }
td.gray { background-color: #eee; }
td.lightgreen { background-color: #dcf4dc; }
td.lightred { background-color: #f7dede; }
td.lightorange { background-color: #fcebcc; }
td.lightgray { background-color: #fafafa; }
.sidebar a { display: block; }
.footer { margin-top: 2em; color: #888; font-size: 0.9em; }
`

// writeStaticAssets writes the stylesheet shared by every page.
func writeStaticAssets(outputDir string) error {
	target := filepath.Join(outputDir, stylesheetFilename)
	if err := os.WriteFile(target, []byte(reportCSS), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
