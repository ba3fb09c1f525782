package htmlreport

// MetricViewModel is one coverage metric rendered as a card or table cell.
type MetricViewModel struct {
	Name    string
	Covered int
	Total   int
	Pct     string
	Level   string
}

// FileRowViewModel is a row of the summary table.
type FileRowViewModel struct {
	Path       string
	ReportPath string
	Statements MetricViewModel
	Branches   MetricViewModel
	Functions  MetricViewModel
	Lines      MetricViewModel
}

// SummaryPageData feeds index.html.
type SummaryPageData struct {
	Title       string
	GeneratedAt string
	Root        string
	Cards       []MetricViewModel
	Files       []FileRowViewModel
}

// LineViewModelForDetail is one source line of a file page.
type LineViewModelForDetail struct {
	LineNumber      int
	LineContent     string
	Hits            string
	LineVisitStatus string
	IsBranch        bool
	Tooltip         string
}

// SidebarElementViewModel links a function to its line.
type SidebarElementViewModel struct {
	Name  string
	Line  int
	Hits  int
	Level string
}

// FileDetailData feeds the page of one source file.
type FileDetailData struct {
	Title           string
	GeneratedAt     string
	Path            string
	Cards           []MetricViewModel
	Lines           []LineViewModelForDetail
	SourceAvailable bool
	Functions       []SidebarElementViewModel
}
