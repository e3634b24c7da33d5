package dashboard

import "html/template"

// indexTemplate renders job counts and a recent-jobs table server-side.
// All interpolated values pass through html/template's contextual
// auto-escaping, so a job's command or error text can never be
// interpreted as markup by the browser. The page refreshes itself via
// a meta refresh tag rather than client-side JS.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="3">
<title>queuectl dashboard</title>
<style>
body { font-family: monospace; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
#status span { margin-right: 1.5rem; }
</style>
</head>
<body>
<h1>queuectl</h1>
<div id="status">
{{range .Status}}<span>{{.Label}}: {{.Count}}</span>{{end}}
</div>
<table id="jobs">
<thead><tr><th>id</th><th>command</th><th>state</th><th>attempts</th><th>priority</th><th>exit_code</th></tr></thead>
<tbody>
{{range .Jobs}}<tr><td>{{.Id}}</td><td>{{.Command}}</td><td>{{.State}}</td><td>{{.Attempts}}/{{.MaxRetries}}</td><td>{{.Priority}}</td><td>{{.ExitCode}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// indexData is the view model passed to indexTemplate.
type indexData struct {
	Status []statusRow
	Jobs   []jobRow
}

type statusRow struct {
	Label string
	Count int64
}

type jobRow struct {
	Id         string
	Command    string
	State      string
	Attempts   uint32
	MaxRetries uint32
	Priority   int64
	ExitCode   string
}
