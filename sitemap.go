package pagecraft

import (
	"encoding/xml"
	"io"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap for the published pages among pages. Page
// URLs are baseURL joined with the page slug.
func WriteSitemap(w io.Writer, baseURL string, pages []Page) error {
	urls := []sitemapURL{
		{Loc: BuildURL(baseURL)},
	}
	for _, p := range pages {
		if p.Status != StatusPublished {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(baseURL, p.Slug),
			LastMod: p.UpdatedAt.UTC().Format(time.DateOnly),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
