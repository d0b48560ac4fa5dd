package views

// SiteConfig holds site-wide settings for document rendering.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Site")
	URL         string // SITE_URL, base for canonical links
	Description string // SITE_DESCRIPTION, fallback meta description
	Lang        string // html lang attribute (default "en")
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	Image       string // og:image
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
