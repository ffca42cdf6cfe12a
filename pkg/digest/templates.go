package digest

const (
	headingNew  = "Neue KI-Lerninhalte & Insights"
	headingBest = "Bestes pro Quelle"
	noticeEmpty = "Heute keine neuen Artikel. 📭"
)

const htmlTemplate = `{{define "item"}}
<hr>
<b>{{.Title}}</b><br>
<i>{{.Category}}</i><br>
<p>{{summary .Summary}}</p>
<a href="{{.Link}}">Weiterlesen</a>
<br><small>Quelle: {{.Source}}</small><br>
{{end}}<html>
<body>
{{if .New}}<h2>` + headingNew + `</h2>
{{range .New}}{{template "item" .}}{{end}}{{else}}<p>` + noticeEmpty + `</p>
{{end}}{{if .Best}}<h2>` + headingBest + `</h2>
{{range .Best}}{{template "item" .}}{{end}}{{end}}</body>
</html>
`

const textTemplate = `{{define "item"}}
* {{.Title}}
  [{{.Category}}]
  {{summary .Summary}}
  {{.Link}}
  Quelle: {{.Source}}
{{end}}{{.Subject}}

{{if .New}}` + headingNew + `
{{range .New}}{{template "item" .}}{{end}}{{else}}` + noticeEmpty + `
{{end}}{{if .Best}}
` + headingBest + `
{{range .Best}}{{template "item" .}}{{end}}{{end}}`
