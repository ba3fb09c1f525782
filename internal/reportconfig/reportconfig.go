package reportconfig

import (
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/logging"
	"github.com/IgorBayerl/ReportGenerator/go_coverage_remap/internal/summary"
)

// DefaultReportType is written when no report is requested.
const DefaultReportType = "json"

// IRemapConfiguration is the resolved configuration of one run.
type IRemapConfiguration interface {
	InputPatterns() []string
	// Reports maps each requested report type to its destination. An empty
	// destination means the type's default.
	Reports() map[string]string
	BasePath() string
	ExcludeSubstring() string
	ExcludePattern() string
	FileFilters() []string
	UseAbsolutePaths() bool
	VerbosityLevel() logging.VerbosityLevel
	Watermarks() summary.Watermarks
	Title() string
}

// RemapConfiguration is the concrete IRemapConfiguration.
type RemapConfiguration struct {
	Inputs         []string
	ReportTargets  map[string]string
	Base           string
	ExcludeSubstr  string
	ExcludeRegexp  string
	FileFilterList []string
	AbsolutePaths  bool
	VLevel         logging.VerbosityLevel
	Marks          summary.Watermarks
	CfgTitle       string
}

func (rc *RemapConfiguration) InputPatterns() []string                { return rc.Inputs }
func (rc *RemapConfiguration) Reports() map[string]string             { return rc.ReportTargets }
func (rc *RemapConfiguration) BasePath() string                       { return rc.Base }
func (rc *RemapConfiguration) ExcludeSubstring() string               { return rc.ExcludeSubstr }
func (rc *RemapConfiguration) ExcludePattern() string                 { return rc.ExcludeRegexp }
func (rc *RemapConfiguration) FileFilters() []string                  { return rc.FileFilterList }
func (rc *RemapConfiguration) UseAbsolutePaths() bool                 { return rc.AbsolutePaths }
func (rc *RemapConfiguration) VerbosityLevel() logging.VerbosityLevel { return rc.VLevel }
func (rc *RemapConfiguration) Watermarks() summary.Watermarks         { return rc.Marks }
func (rc *RemapConfiguration) Title() string                          { return rc.CfgTitle }

// NewRemapConfiguration builds a configuration. A single output/type pair
// and any additional reports are merged into one report table; with no
// report at all the json report goes to output.
func NewRemapConfiguration(
	inputs []string,
	output string,
	reportType string,
	reports map[string]string,
	verbosity logging.VerbosityLevel,
) *RemapConfiguration {
	targets := make(map[string]string, len(reports)+1)
	for name, dest := range reports {
		targets[name] = dest
	}
	if reportType != "" {
		targets[reportType] = output
	}
	if len(targets) == 0 {
		targets[DefaultReportType] = output
	}
	return &RemapConfiguration{
		Inputs:         inputs,
		ReportTargets:  targets,
		FileFilterList: []string{},
		VLevel:         verbosity,
		Marks:          summary.DefaultWatermarks(),
		CfgTitle:       "Coverage Report",
	}
}
