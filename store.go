package pagecraft

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pagecraft/block"
)

// Store is the reference persistence collaborator: a SQLite database of
// pages, templates and media records. It enforces (tenant, slug)
// uniqueness for pages.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a write; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    published_at TEXT,
    author_id TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT ',,',
    category TEXT NOT NULL DEFAULT '',
    seo TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (tenant_id, slug)
);
CREATE INDEX IF NOT EXISTS pages_tenant_status ON pages (tenant_id, status);

CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    author_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    is_public INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS media (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    original_name TEXT NOT NULL DEFAULT '',
    mime_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    url TEXT NOT NULL,
    alt TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',,',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL,
    UNIQUE (tenant_id, filename)
);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

const pageColumns = `id, tenant_id, slug, title, description, status, published_at, author_id, tags, category, seo, content, created_at, updated_at`

func scanPage(row rowScanner) (Page, error) {
	var (
		p                          Page
		status, tags, seo, content string
		publishedAt                sql.NullString
		createdAt, updatedAt       string
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Description, &status, &publishedAt,
		&p.AuthorID, &tags, &p.Category, &seo, &content, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	p.Status = Status(status)
	p.Tags = ParseTags(tags)
	if publishedAt.Valid && publishedAt.String != "" {
		t, err := parseTime(publishedAt.String)
		if err != nil {
			return Page{}, err
		}
		p.PublishedAt = &t
	}
	if seo != "" {
		p.SEO = &SEO{}
		if err := json.Unmarshal([]byte(seo), p.SEO); err != nil {
			return Page{}, fmt.Errorf("pagecraft: decode seo of page %s: %w", p.ID, err)
		}
	}
	if err := json.Unmarshal([]byte(content), &p.Content); err != nil {
		return Page{}, fmt.Errorf("pagecraft: decode content of page %s: %w", p.ID, err)
	}
	if p.Content == nil {
		p.Content = []block.Block{}
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return Page{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Page{}, err
	}
	return p, nil
}

// SavePage inserts or updates a page by id. A slug already used by another
// page of the same tenant yields ErrSlugTaken.
func (s *Store) SavePage(p *Page) error {
	content, err := json.Marshal(nonNilBlocks(p.Content))
	if err != nil {
		return fmt.Errorf("pagecraft: encode content: %w", err)
	}
	seo := ""
	if p.SEO != nil {
		b, err := json.Marshal(p.SEO)
		if err != nil {
			return fmt.Errorf("pagecraft: encode seo: %w", err)
		}
		seo = string(b)
	}
	var publishedAt any
	if p.PublishedAt != nil {
		publishedAt = formatTime(*p.PublishedAt)
	}
	_, err = s.db.Exec(`
INSERT INTO pages (`+pageColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    tenant_id = excluded.tenant_id,
    slug = excluded.slug,
    title = excluded.title,
    description = excluded.description,
    status = excluded.status,
    published_at = excluded.published_at,
    author_id = excluded.author_id,
    tags = excluded.tags,
    category = excluded.category,
    seo = excluded.seo,
    content = excluded.content,
    updated_at = excluded.updated_at`,
		p.ID, p.TenantID, p.Slug, p.Title, p.Description, string(p.Status), publishedAt,
		p.AuthorID, joinTags(p.Tags), p.Category, seo, string(content),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q in tenant %s", ErrSlugTaken, p.Slug, p.TenantID)
	}
	return err
}

// GetPage returns a page by id regardless of status.
func (s *Store) GetPage(id string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
}

// GetPageBySlug returns a tenant's page by slug regardless of status.
func (s *Store) GetPageBySlug(tenantID, slug string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE tenant_id = ? AND slug = ?`, tenantID, slug))
}

// ListPages returns a tenant's pages, most recently updated first. An empty
// status or tag matches everything.
func (s *Store) ListPages(tenantID string, status Status, tag string) ([]Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE tenant_id = ?`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	if tag != "" {
		query += ` AND instr(tags, ',' || ? || ',') > 0`
		args = append(args, normalizeTag(tag))
	}
	query += ` ORDER BY updated_at DESC, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags on a tenant's
// published pages.
func (s *Store) ListTags(tenantID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM pages WHERE tenant_id = ? AND status = ?`, tenantID, string(StatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		all = append(all, ParseTags(tags)...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NormalizeTags(all), nil
}

// DeletePage removes a page by id.
func (s *Store) DeletePage(id string) error {
	res, err := s.db.Exec(`DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UniqueSlug returns base, or base with a numeric suffix (-2, -3, ...),
// such that no page of the tenant other than exceptID uses it.
func (s *Store) UniqueSlug(tenantID, base, exceptID string) (string, error) {
	base = Slugify(base)
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for n := 2; ; n++ {
		var id string
		err := s.db.QueryRow(`SELECT id FROM pages WHERE tenant_id = ? AND slug = ?`, tenantID, candidate).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && id == exceptID) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

const templateColumns = `id, tenant_id, author_id, name, description, category, is_public, content, created_at, updated_at`

func scanTemplate(row rowScanner) (Template, error) {
	var (
		t                    Template
		isPublic             int
		content              string
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.TenantID, &t.AuthorID, &t.Name, &t.Description, &t.Category,
		&isPublic, &content, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	t.IsPublic = isPublic == 1
	if err := json.Unmarshal([]byte(content), &t.Content); err != nil {
		return Template{}, fmt.Errorf("pagecraft: decode content of template %s: %w", t.ID, err)
	}
	if t.Content == nil {
		t.Content = []block.Block{}
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return Template{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Template{}, err
	}
	return t, nil
}

// SaveTemplate upserts a template.
func (s *Store) SaveTemplate(t *Template) error {
	content, err := json.Marshal(nonNilBlocks(t.Content))
	if err != nil {
		return fmt.Errorf("pagecraft: encode content: %w", err)
	}
	isPublic := 0
	if t.IsPublic {
		isPublic = 1
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TenantID, t.AuthorID, t.Name, t.Description, t.Category, isPublic, string(content),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	return err
}

// GetTemplate returns a template by id.
func (s *Store) GetTemplate(id string) (Template, error) {
	return scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
}

// ListTemplates returns the tenant's own templates plus every public one,
// ordered by name.
func (s *Store) ListTemplates(tenantID string) ([]Template, error) {
	rows, err := s.db.Query(`SELECT `+templateColumns+` FROM templates WHERE tenant_id = ? OR is_public = 1 ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template by id.
func (s *Store) DeleteTemplate(id string) error {
	res, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const mediaColumns = `id, tenant_id, filename, original_name, mime_type, size, url, alt, caption, tags, width, height, uploaded_at`

// SaveMedia upserts a media record.
func (s *Store) SaveMedia(m *MediaAsset) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO media (`+mediaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TenantID, m.Filename, m.OriginalName, m.MimeType, m.Size, m.URL, m.Alt, m.Caption,
		joinTags(m.Tags), m.Width, m.Height, formatTime(m.UploadedAt))
	return err
}

// ListMedia returns a tenant's media records, newest first.
func (s *Store) ListMedia(tenantID string) ([]MediaAsset, error) {
	rows, err := s.db.Query(`SELECT `+mediaColumns+` FROM media WHERE tenant_id = ? ORDER BY uploaded_at DESC, filename`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []MediaAsset{}
	for rows.Next() {
		var (
			m                MediaAsset
			tags, uploadedAt string
		)
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size,
			&m.URL, &m.Alt, &m.Caption, &tags, &m.Width, &m.Height, &uploadedAt); err != nil {
			return nil, err
		}
		m.Tags = ParseTags(tags)
		if m.UploadedAt, err = parseTime(uploadedAt); err != nil {
			return nil, err
		}
		assets = append(assets, m)
	}
	return assets, rows.Err()
}

// MediaFilenameTaken reports whether a tenant already has a file by name.
func (s *Store) MediaFilenameTaken(tenantID, filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM media WHERE tenant_id = ? AND filename = ?`, tenantID, filename).Scan(&n)
	return n > 0, err
}

// DeleteMedia removes a media record by id.
func (s *Store) DeleteMedia(id string) error {
	res, err := s.db.Exec(`DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nonNilBlocks(blocks []block.Block) []block.Block {
	if blocks == nil {
		return []block.Block{}
	}
	return blocks
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("pagecraft: parse time %q: %w", s, err)
	}
	return t, nil
}
