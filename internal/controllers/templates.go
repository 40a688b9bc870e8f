package controllers

import "html/template"

const (
	homeTemplate     = "home"
	redirectTemplate = "redirect"
)

var htmlTemplates = template.Must(template.New(homeTemplate).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Short links</title></head>
<body>
<h1>Short links</h1>
{{if .Links}}<table>
<tr><th>Short URL</th><th>URL</th><th>Expires</th></tr>
{{range .Links}}<tr{{if .Expired}} class="expired"{{end}}>
<td>{{if .Expired}}{{.ShortURL}}{{else}}<a href="{{.ShortURL}}">{{.ShortURL}}</a>{{end}}</td>
<td>{{.URL}}</td>
<td>{{.ExpireAt.Format "2006-01-02 15:04:05 MST"}}{{if .Expired}} (expired){{end}}</td>
</tr>
{{end}}</table>{{else}}<p>No links yet.</p>{{end}}
</body>
</html>
`))

func init() {
	template.Must(htmlTemplates.New(redirectTemplate).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.Seconds}};url={{.Target}}">
<title>Redirecting</title>
</head>
<body><p>Redirecting to <a href="{{.Target}}">{{.Target}}</a> in {{.Seconds}} s.</p></body>
</html>
`))
}
