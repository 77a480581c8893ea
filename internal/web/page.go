package web

import (
	"encoding/base64"
	"html/template"
	"io"

	"github.com/KaramelBytes/datasys-cli/internal/session"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/KaramelBytes/datasys-cli/internal/visual"
)

// grid is a table preview flattened for the template.
type grid struct {
	Header []string
	Rows   [][]string
}

func toGrid(t *table.Table) *grid {
	if t == nil {
		return nil
	}
	g := &grid{Header: t.Names()}
	for i := 0; i < t.Rows(); i++ {
		g.Rows = append(g.Rows, t.Record(i))
	}
	return g
}

type plotSection struct {
	Title string
	Set   *visual.Set
}

type pageData struct {
	Title    string
	State    string
	Error    string
	FileName string
	Rows     int
	Cols     int

	Raw      *grid
	Report   []string
	Cleaned  *grid
	Download bool
	Sections []plotSection
}

func newPageData(v session.View) pageData {
	d := pageData{Title: "DataSys – Smart Data Cleaner & Visualizer", State: v.State.String()}
	if v.Err != nil {
		d.Error = v.Err.Error()
	}
	if v.Dataset != nil {
		d.FileName = v.Dataset.Name
		d.Rows = v.Dataset.Table.Rows()
		d.Cols = len(v.Dataset.Table.Cols)
	}
	d.Raw = toGrid(v.RawPreview)
	switch v.State {
	case session.Visualizing:
		d.Sections = []plotSection{
			{Title: "Scatter Plots (Raw Data)", Set: v.Scatter},
			{Title: "Regression Plots (Raw Data)", Set: v.Regression},
		}
	case session.Cleaning:
		d.Report = v.Report
		d.Cleaned = toGrid(v.CleanedPreview)
		d.Download = len(v.Export) > 0
		d.Sections = []plotSection{
			{Title: "Scatter Plots (Cleaned Data)", Set: v.Scatter},
			{Title: "Regression Plots (Cleaned Data)", Set: v.Regression},
		}
	}
	return d
}

var funcs = template.FuncMap{
	"pngURI": func(b []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
	},
}

var pageTmpl = template.Must(template.New("page").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #fafafa; }
.title { background: #222; color: goldenrod; padding: 20px; border-radius: 12px; border: 2px solid goldenrod; text-align: center; }
button { background: #444; color: goldenrod; border: 1px solid goldenrod; border-radius: 8px; padding: 8px 16px; font-weight: bold; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
.error { color: #b00; font-weight: bold; }
.warning { color: #a60; }
.actions form { display: inline-block; margin-right: 1em; }
</style>
</head>
<body data-state="{{.State}}">
<div class="title"><h1>{{.Title}}</h1></div>
{{if .Error}}<p class="error" id="error">{{.Error}}</p>{{end}}
<form action="/upload" method="post" enctype="multipart/form-data">
<label>Upload your CSV file <input type="file" name="file" accept=".csv,text/csv"></label>
<button type="submit">Upload</button>
</form>
{{if .Raw}}
<h2>Preview of the First {{len .Raw.Rows}} Rows</h2>
<p>{{.FileName}}: {{.Rows}} rows, {{.Cols}} columns</p>
{{template "grid" .Raw}}
<div class="actions">
<form action="/visualize" method="post"><button type="submit">Visualize Without Cleaning</button></form>
<form action="/clean" method="post"><button type="submit">Clean &amp; Visualize</button></form>
<form action="/reset" method="post"><button type="submit">Reset</button></form>
</div>
{{else}}
<p>Please upload a CSV file to begin.</p>
{{end}}
{{if .Report}}
<h2>Cleaning Report</h2>
<ul id="report">{{range .Report}}<li>{{.}}</li>{{end}}</ul>
{{end}}
{{range .Sections}}{{if .Set}}
<h2>{{.Title}}</h2>
{{if .Set.Warning}}<p class="warning">{{.Set.Warning}}</p>{{end}}
{{range .Set.Errors}}<p class="warning">{{.}}</p>{{end}}
{{range .Set.Figures}}<details><summary>{{.Label}}</summary><img alt="{{.Title}}" src="{{pngURI .PNG}}"></details>
{{end}}{{end}}{{end}}
{{if .Cleaned}}
<h2>Cleaned Data Preview (First {{len .Cleaned.Rows}} Rows)</h2>
{{template "grid" .Cleaned}}
{{end}}
{{if .Download}}<p><a href="/download" download="cleaned_data.csv">Download Cleaned CSV</a></p>{{end}}
</body>
</html>
{{define "grid"}}<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>{{end}}`))

func renderPage(w io.Writer, v session.View) error {
	return pageTmpl.Execute(w, newPageData(v))
}
