package htmlreport

import (
	"html"
	"html/template"
	"strings"
)

const cardsTemplate = `{{define "cards"}}<div class="card-group">
{{range .}}<div class="card {{.Level}}">
  <div class="card-header">{{.Name}}</div>
  <div class="large">{{.Pct}}%</div>
  <div class="ratio">{{.Covered}}/{{.Total}}</div>
</div>
{{end}}</div>{{end}}`

const summaryLayoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<link rel="stylesheet" type="text/css" href="report.css" />
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
{{if .Root}}<p class="root">{{.Root}}</p>{{end}}
{{template "cards" .Cards}}
<table class="overview" id="files">
<thead><tr><th>File</th><th>Statements</th><th>Branches</th><th>Functions</th><th>Lines</th></tr></thead>
<tbody>
{{range .Files}}<tr>
<td><a href="{{.ReportPath}}">{{.Path}}</a></td>
<td class="{{.Statements.Level}}" title="{{.Statements.Covered}}/{{.Statements.Total}}">{{.Statements.Pct}}%</td>
<td class="{{.Branches.Level}}" title="{{.Branches.Covered}}/{{.Branches.Total}}">{{.Branches.Pct}}%</td>
<td class="{{.Functions.Level}}" title="{{.Functions.Covered}}/{{.Functions.Total}}">{{.Functions.Pct}}%</td>
<td class="{{.Lines.Level}}" title="{{.Lines.Covered}}/{{.Lines.Total}}">{{.Lines.Pct}}%</td>
</tr>
{{else}}<tr><td colspan="5">No files found.</td></tr>
{{end}}</tbody>
</table>
<div class="footer">Generated on {{.GeneratedAt}}</div>
</div>
</body>
</html>`

const fileDetailLayoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{.Path}} - {{.Title}}</title>
<link rel="stylesheet" type="text/css" href="report.css" />
</head>
<body>
<div class="container">
<h1><a href="index.html" class="back">&lt;</a> {{.Path}}</h1>
{{template "cards" .Cards}}
{{if .Functions}}<div class="sidebar" id="functions">
<h2>Functions</h2>
{{range .Functions}}<a href="#line{{.Line}}" class="{{.Level}}" title="{{.Hits}} calls">{{.Name}}</a>
{{end}}</div>{{end}}
{{if .SourceAvailable}}<table class="lineAnalysis" id="source">
<thead><tr><th></th><th>#</th><th>Line</th><th></th><th>Source</th></tr></thead>
<tbody>
{{range .Lines}}<tr class="{{if ne .LineVisitStatus "gray"}}coverableline{{end}}" title="{{.Tooltip}}">
<td class="{{.LineVisitStatus}}"> </td>
<td class="hits">{{.Hits}}</td>
<td><a id="line{{.LineNumber}}"></a><code>{{.LineNumber}}</code></td>
<td>{{if .IsBranch}}&#x2442;{{end}}</td>
<td class="light{{.LineVisitStatus}}"><code>{{.LineContent | SanitizeSourceLine}}</code></td>
</tr>
{{end}}</tbody>
</table>{{else}}<p class="nosource">Source not available.</p>{{end}}
<div class="footer">Generated on {{.GeneratedAt}}</div>
</div>
</body>
</html>`

var templateFuncs = template.FuncMap{
	// SanitizeSourceLine escapes a source line and keeps its indentation.
	"SanitizeSourceLine": func(line string) template.HTML {
		escaped := html.EscapeString(line)
		escaped = strings.ReplaceAll(escaped, "\t", "    ")
		escaped = strings.ReplaceAll(escaped, " ", "&nbsp;")
		return template.HTML(escaped)
	},
}

var (
	summaryTpl    = template.Must(template.New("summary").Funcs(templateFuncs).Parse(cardsTemplate + summaryLayoutTemplate))
	fileDetailTpl = template.Must(template.New("fileDetail").Funcs(templateFuncs).Parse(cardsTemplate + fileDetailLayoutTemplate))
)
