package export

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Doc.Title}}{{with .Doc.Subtitle}} · {{.}}{{end}}</title>
<style>
body { margin: 0; display: flex; font-family: system-ui, sans-serif; color: #111827; }
nav { position: sticky; top: 0; height: 100vh; width: 16rem; flex-shrink: 0; overflow-y: auto; border-right: 1px solid #e5e7eb; }
nav header { padding: 1.5rem; border-bottom: 1px solid #f3f4f6; }
nav .brand { width: 2.5rem; height: 2.5rem; border-radius: .5rem; background: #1d4ed8; color: #fff; display: flex; align-items: center; justify-content: center; font: bold 1.25rem Georgia, serif; }
nav a, nav span.inert { display: block; padding: .75rem 1rem; color: #4b5563; text-decoration: none; font-size: .875rem; }
nav a:hover { background: #f9fafb; }
nav span.inert { color: #9ca3af; }
nav .source { margin: 1.5rem; padding: 1rem; background: #f9fafb; border-radius: .5rem; font-size: .75rem; color: #6b7280; }
main { flex: 1; max-width: 56rem; margin: 0 auto; padding: 3rem 1.5rem; }
main h1, main h2, main h3 { font-family: Georgia, serif; scroll-margin-top: 6rem; }
main pre { padding: 1.5rem; border-radius: .75rem; overflow-x: auto; }
main blockquote { border-left: 4px solid #1d4ed8; background: #f9fafb; margin: 2rem 0; padding: 1rem 1.5rem; font-style: italic; }
.badge { display: inline-block; padding: .25rem .75rem; border-radius: 9999px; background: #eff6ff; color: #1d4ed8; font-size: .75rem; text-transform: uppercase; letter-spacing: .05em; }
footer { border-top: 1px solid #e5e7eb; margin-top: 4rem; padding-top: 2.5rem; color: #6b7280; font-size: .875rem; }
footer a { color: #6b7280; margin-right: 1.5rem; }
</style>
</head>
<body>
<nav>
  <header>
    <div class="brand">{{.Doc.Brand}}</div>
    <h1>{{.Doc.Title}}</h1>
    {{with .Doc.Subtitle}}<p>{{.}}</p>{{end}}
  </header>
  {{range .Nav}}{{if .Present}}<a href="#{{.ID}}">{{.Label}}</a>{{else}}<span class="inert">{{.Label}}</span>{{end}}
  {{end}}
  {{with .Doc.Source}}{{if .Title}}<div class="source">
    <p><strong>Source Paper:</strong></p>
    <p><em>"{{.Title}}"</em></p>
    <p>{{.Authors}}{{if .Year}} ({{.Year}}){{end}}</p>
  </div>{{end}}{{end}}
</nav>
<main>
{{with .Doc.Badge}}<span class="badge">{{.}}</span>{{end}}
{{.Body}}
<footer>
  <p><strong>{{.Doc.Footer.Title}}</strong></p>
  {{with .Doc.Footer.Note}}<p>{{.}}</p>{{end}}
  {{range .Links}}<a href="{{.URL}}">{{.Label}}</a>{{end}}
</footer>
</main>
</body>
</html>
`))
