// Package pagecraft is a block-based page content engine. Pages are ordered
// sequences of typed blocks (text, heading, image, video, gallery, quote,
// code, embed, form, button, spacer, divider) that are built from per-kind
// defaults, validated before publishing, and rendered to HTML.
//
// The pure core lives in the block, render and markdown packages. This
// package adds the page and template aggregates, a SQLite reference store,
// a published-page cache, media import, sitemaps and feeds, tied together
// by Engine.
package pagecraft

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eringen/pagecraft/block"
)

// Engine is the central pagecraft service. It wires together the store,
// cache, block factory and media directory.
type Engine struct {
	Config Config
	Store  *Store
	Cache  *PageCache

	factory *block.Factory
	log     *logrus.Logger
}

// New creates an Engine with the given configuration, opening the store.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.setDefaults()

	e := &Engine{Config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	if e.factory == nil {
		e.factory = block.NewFactory(nil)
	}

	store, err := NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("pagecraft: init store: %w", err)
	}
	e.Store = store
	e.Cache = NewPageCache(store, cfg.CacheTTL)
	return e, nil
}

// Close releases the store.
func (e *Engine) Close() error {
	return e.Store.Close()
}

// Factory returns the block factory the engine assigns ids with.
func (e *Engine) Factory() *block.Factory {
	return e.factory
}

// CreatePage creates and stores an empty draft page. The slug is derived
// from title and suffixed when the tenant already uses it.
func (e *Engine) CreatePage(title, authorID, tenantID string) (*Page, error) {
	p := NewPage(title, authorID, tenantID, e.factory)
	if err := e.SavePage(p); err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"page_id":   p.ID,
		"tenant_id": tenantID,
		"slug":      p.Slug,
	}).Info("page created")
	return p, nil
}

// GetPage loads a page by id.
func (e *Engine) GetPage(id string) (*Page, error) {
	p, err := e.Store.GetPage(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePage stores p, first resolving slug collisions within the tenant by
// suffixing -2, -3, ... An empty slug is derived from the title.
func (e *Engine) SavePage(p *Page) error {
	base := p.Slug
	if base == "" {
		base = p.Title
	}
	slug, err := e.Store.UniqueSlug(p.TenantID, base, p.ID)
	if err != nil {
		return fmt.Errorf("pagecraft: resolve slug: %w", err)
	}
	if slug != p.Slug {
		e.log.WithFields(logrus.Fields{
			"page_id":   p.ID,
			"requested": p.Slug,
			"slug":      slug,
		}).Debug("slug adjusted")
		p.Slug = slug
	}
	if err := e.Store.SavePage(p); err != nil {
		return err
	}
	e.Cache.Invalidate(p.TenantID)
	return nil
}

// PublishPage validates and publishes the page with id. Content that fails
// validation yields a *ValidationFailedError and the stored page is left
// as it was.
func (e *Engine) PublishPage(id string) (*Page, error) {
	p, err := e.GetPage(id)
	if err != nil {
		return nil, err
	}
	if err := p.Publish(); err != nil {
		var vf *ValidationFailedError
		if errors.As(err, &vf) {
			e.log.WithFields(logrus.Fields{
				"page_id": id,
				"errors":  len(vf.Result.Errors()),
			}).Warn("publish refused")
		}
		return nil, err
	}
	if warnings := p.Validate().Warnings(); len(warnings) > 0 {
		e.log.WithField("page_id", id).Warnf("published with warnings: %s", strings.Join(warnings, "; "))
	}
	if err := e.SavePage(p); err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"page_id": id, "tenant_id": p.TenantID}).Info("page published")
	return p, nil
}

// ArchivePage archives the page with id.
func (e *Engine) ArchivePage(id string) (*Page, error) {
	p, err := e.GetPage(id)
	if err != nil {
		return nil, err
	}
	p.Archive()
	if err := e.SavePage(p); err != nil {
		return nil, err
	}
	e.log.WithField("page_id", id).Info("page archived")
	return p, nil
}

// PreviewPage renders p regardless of status or validity.
func (e *Engine) PreviewPage(p *Page) string {
	return p.Render()
}

// RenderPublished renders a tenant's published page by slug.
func (e *Engine) RenderPublished(tenantID, slug string) (string, error) {
	p, err := e.Cache.GetPublished(tenantID, slug)
	if err != nil {
		return "", err
	}
	return p.Render(), nil
}

// SaveAsTemplate stores the content of the page with id as a new template.
func (e *Engine) SaveAsTemplate(pageID, name string, public bool) (*Template, error) {
	p, err := e.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	t := TemplateFromPage(p, name, e.factory)
	t.IsPublic = public
	if err := e.Store.SaveTemplate(t); err != nil {
		return nil, fmt.Errorf("pagecraft: save template: %w", err)
	}
	e.log.WithFields(logrus.Fields{"template_id": t.ID, "page_id": pageID}).Info("template saved")
	return t, nil
}

// ApplyTemplate appends clones of a template's blocks to a page and stores
// the page. A template belonging to another tenant is only visible when
// public.
func (e *Engine) ApplyTemplate(templateID, pageID string) (*Page, error) {
	t, err := e.Store.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	p, err := e.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	if t.TenantID != p.TenantID && !t.IsPublic {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}
	p.ApplyTemplate(&t, e.factory)
	if err := e.SavePage(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportImage normalizes an uploaded image with ProcessImage, writes it to
// the tenant's media directory and records it in the store.
func (e *Engine) ImportImage(tenantID string, src io.Reader, originalName string) (MediaAsset, error) {
	asset, data, err := ProcessImage(src, originalName)
	if err != nil {
		return MediaAsset{}, err
	}
	return e.importMedia(tenantID, asset, data)
}

// ImportFile stores a file as-is, such as a video or document, after
// sniffing its type with ProbeMedia.
func (e *Engine) ImportFile(tenantID string, src io.Reader, originalName string) (MediaAsset, error) {
	data, err := readUpload(src)
	if err != nil {
		return MediaAsset{}, err
	}
	return e.importMedia(tenantID, ProbeMedia(originalName, data), data)
}

func (e *Engine) importMedia(tenantID string, asset MediaAsset, data []byte) (MediaAsset, error) {
	dir := filepath.Join(e.Config.MediaDir, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return MediaAsset{}, fmt.Errorf("pagecraft: create media dir: %w", err)
	}
	filename, err := e.uniqueFilename(tenantID, dir, asset.Filename)
	if err != nil {
		return MediaAsset{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return MediaAsset{}, fmt.Errorf("pagecraft: write media: %w", err)
	}

	asset.ID = e.factory.NextID()
	asset.TenantID = tenantID
	asset.Filename = filename
	asset.URL = strings.TrimSuffix(e.Config.MediaBaseURL, "/") + "/" + path.Join(tenantID, filename)
	if err := e.Store.SaveMedia(&asset); err != nil {
		return MediaAsset{}, fmt.Errorf("pagecraft: save media: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"media_id":  asset.ID,
		"tenant_id": tenantID,
		"mime_type": asset.MimeType,
		"size":      asset.Size,
	}).Info("media imported")
	return asset, nil
}

// uniqueFilename appends a counter if filename already exists in the
// directory or the store.
func (e *Engine) uniqueFilename(tenantID, dir, filename string) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken, err := e.Store.MediaFilenameTaken(tenantID, candidate)
		if err != nil {
			return "", err
		}
		if statErr != nil && !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
}

// DeleteMedia removes a media record and its file.
func (e *Engine) DeleteMedia(tenantID, id string) error {
	assets, err := e.Store.ListMedia(tenantID)
	if err != nil {
		return err
	}
	for _, m := range assets {
		if m.ID != id {
			continue
		}
		_ = os.Remove(filepath.Join(e.Config.MediaDir, tenantID, m.Filename)) // ignore error if file already gone
		return e.Store.DeleteMedia(id)
	}
	return fmt.Errorf("%w: media %s", ErrNotFound, id)
}

// Sitemap writes the sitemap of a tenant's published pages.
func (e *Engine) Sitemap(w io.Writer, tenantID string) error {
	pages, err := e.Cache.ListPublished(tenantID, "")
	if err != nil {
		return err
	}
	return WriteSitemap(w, e.Config.SiteURL, pages)
}

// Feed writes an RSS feed of a tenant's published pages.
func (e *Engine) Feed(w io.Writer, tenantID string, info FeedInfo) error {
	pages, err := e.Cache.ListPublished(tenantID, "")
	if err != nil {
		return err
	}
	if info.Link == "" {
		info.Link = e.Config.SiteURL
	}
	return WriteFeed(w, info, pages)
}
