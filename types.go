package pagecraft

import (
	"time"

	"github.com/eringen/pagecraft/block"
)

// Status is the lifecycle state of a page.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// SEO carries per-page search and social metadata for the document head.
type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Image       string   `json:"image,omitempty"` // og:image
}

// Page owns an ordered block sequence and its publishing metadata.
// Slug uniqueness within a tenant is enforced by the Store, not here.
type Page struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Status      Status        `json:"status"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	AuthorID    string        `json:"authorId"`
	TenantID    string        `json:"tenantId"`
	Tags        []string      `json:"tags"`
	Category    string        `json:"category,omitempty"`
	SEO         *SEO          `json:"seo,omitempty"`
	Content     []block.Block `json:"content"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Template is a reusable, named block sequence. Applying it to a page
// always clones the blocks; pages never reference a template's blocks.
type Template struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	IsPublic    bool          `json:"isPublic"`
	TenantID    string        `json:"tenantId"`
	AuthorID    string        `json:"authorId"`
	Content     []block.Block `json:"content"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MediaAsset describes an uploaded file. Blocks reference assets by URL
// only; the content engine never owns them.
type MediaAsset struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName,omitempty"`
	MimeType     string    `json:"mimeType"`
	Size         int       `json:"size"`
	URL          string    `json:"url"`
	Alt          string    `json:"alt,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
