package pdf

import (
	"bytes"
	"html/template"
)

var cvTemplate = template.Must(template.New("cv").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4; margin: 15mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
  h1 { font-size: 22pt; text-align: center; margin: 10px 0; }
  h2 { font-size: 16pt; margin: 10px 0 5px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 10px; }
  td { border: 1px solid #000; padding: 4px 6px; }
  td.label { width: 30%; }
  tr:nth-child(odd) { background: #f3f3f3; }
  p.experience { white-space: pre-wrap; margin-bottom: 10px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h2>Informations personnelles</h2>
<table>
{{- range .Rows}}
  <tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
<h2>Compétences</h2>
<ul>
{{- range .Skills}}
  <li>{{.}}</li>
{{- end}}
</ul>
<h2>Expérience</h2>
<p class="experience">{{.Experience}}</p>
</body>
</html>
`))

// RenderHTML executes the CV template; values are HTML-escaped.
func RenderHTML(doc CVDocument) (string, error) {
	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
