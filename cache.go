package pagecraft

import (
	"sync"
	"time"

	"github.com/eringen/pagecraft/block"
)

// PageCache is an in-memory, per-tenant cache of published pages with TTL.
type PageCache struct {
	mu      sync.RWMutex
	tenants map[string]*tenantPages
	ttl     time.Duration
	store   *Store
}

type tenantPages struct {
	pages   []Page
	fetched time.Time
}

// NewPageCache creates a PageCache backed by the given Store.
func NewPageCache(s *Store, ttl time.Duration) *PageCache {
	return &PageCache{store: s, ttl: ttl, tenants: make(map[string]*tenantPages)}
}

func (c *PageCache) fresh(tenantID string) (*tenantPages, bool) {
	e, ok := c.tenants[tenantID]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return nil, false
	}
	return e, true
}

// Invalidate drops the cached pages of a tenant so the next read reloads.
func (c *PageCache) Invalidate(tenantID string) {
	c.mu.Lock()
	delete(c.tenants, tenantID)
	c.mu.Unlock()
}

// ensureLoaded returns the tenant's cached published pages, reloading them
// from the store under the write lock when stale.
func (c *PageCache) ensureLoaded(tenantID string) ([]Page, error) {
	c.mu.RLock()
	if e, ok := c.fresh(tenantID); ok {
		pages := e.pages
		c.mu.RUnlock()
		return pages, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.fresh(tenantID); ok {
		return e.pages, nil
	}
	pages, err := c.store.ListPages(tenantID, StatusPublished, "")
	if err != nil {
		return nil, err
	}
	c.tenants[tenantID] = &tenantPages{pages: pages, fetched: time.Now()}
	return pages, nil
}

// ListPublished returns a tenant's published pages, optionally filtered by
// tag. Callers must not modify the returned pages.
func (c *PageCache) ListPublished(tenantID, tag string) ([]Page, error) {
	pages, err := c.ensureLoaded(tenantID)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return pages, nil
	}
	normalized := normalizeTag(tag)
	filtered := []Page{}
	for _, p := range pages {
		for _, t := range p.Tags {
			if t == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// GetPublished returns a tenant's published page by slug. The content is a
// copy the caller may modify.
func (c *PageCache) GetPublished(tenantID, slug string) (Page, error) {
	pages, err := c.ensureLoaded(tenantID)
	if err != nil {
		return Page{}, err
	}
	for _, p := range pages {
		if p.Slug == slug {
			p.Content = block.CopyAll(p.Content)
			return p, nil
		}
	}
	return Page{}, ErrNotFound
}
