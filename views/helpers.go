package views

import (
	"strings"

	"github.com/eringen/pagecraft"
)

// MetaFor derives head metadata for p. SEO fields win over the page's own
// title and description, which in turn win over the site defaults.
func MetaFor(p *pagecraft.Page, site SiteConfig) PageMeta {
	m := PageMeta{
		Title:       p.Title,
		Description: p.Description,
		OGType:      "website",
	}
	if p.PublishedAt != nil {
		m.OGType = "article"
	}
	if seo := p.SEO; seo != nil {
		if seo.Title != "" {
			m.Title = seo.Title
		}
		if seo.Description != "" {
			m.Description = seo.Description
		}
		m.Keywords = seo.Keywords
		m.Image = seo.Image
	}
	if m.Description == "" {
		m.Description = site.Description
	}
	if site.URL != "" && p.Slug != "" {
		m.URL = pagecraft.BuildURL(site.URL, p.Slug)
	}
	return m
}

// FullTitle joins the page title and site name for the <title> element.
func FullTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return siteName
	case siteName == "":
		return title
	default:
		return title + " | " + siteName
	}
}
