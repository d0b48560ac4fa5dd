// Package views wraps rendered page content in complete HTML documents.
package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pagecraft"
	"github.com/eringen/pagecraft/markdown"
	"github.com/eringen/pagecraft/render"
)

// Document returns a templ.Component that writes a complete HTML document
// for p: a head with title, description and OpenGraph tags, and a body
// holding the rendered blocks.
func Document(p *pagecraft.Page, site SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, head(MetaFor(p, site), site)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<body><main class="page page-`+templ.EscapeString(p.Slug)+`">`); err != nil {
			return err
		}
		if err := render.Component(p.Content).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

func head(m PageMeta, site SiteConfig) string {
	lang := site.Lang
	if lang == "" {
		lang = "en"
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="` + templ.EscapeString(lang) + `"><head>`)
	b.WriteString(`<meta charset="utf-8"/>`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
	b.WriteString("<title>" + templ.EscapeString(FullTitle(m.Title, site.Name)) + "</title>")
	meta(&b, "name", "description", m.Description)
	if len(m.Keywords) > 0 {
		meta(&b, "name", "keywords", strings.Join(m.Keywords, ", "))
	}
	if u := markdown.SafeURL(m.URL); u != "" {
		b.WriteString(`<link rel="canonical" href="` + u + `"/>`)
		b.WriteString(`<meta property="og:url" content="` + u + `"/>`)
	}
	meta(&b, "property", "og:type", m.OGType)
	meta(&b, "property", "og:title", m.Title)
	meta(&b, "property", "og:description", m.Description)
	meta(&b, "property", "og:site_name", site.Name)
	if img := markdown.SafeURL(m.Image); img != "" {
		b.WriteString(`<meta property="og:image" content="` + img + `"/>`)
	}
	b.WriteString("</head>")
	return b.String()
}

func meta(b *strings.Builder, attr, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(`<meta ` + attr + `="` + key + `" content="` + templ.EscapeString(value) + `"/>`)
}
