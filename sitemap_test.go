package pagecraft

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestWriteSitemap(t *testing.T) {
	updated := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	pages := []Page{
		{Slug: "about", Status: StatusPublished, UpdatedAt: updated},
		{Slug: "draft", Status: StatusDraft, UpdatedAt: updated},
		{Slug: "old", Status: StatusArchived, UpdatedAt: updated},
	}

	var buf bytes.Buffer
	if err := WriteSitemap(&buf, "https://example.com", pages); err != nil {
		t.Fatalf("WriteSitemap failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("missing XML header: %q", out)
	}
	var got sitemapURLSet
	if err := xml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if len(got.URLs) != 2 {
		t.Fatalf("got %d urls, want 2 (root and about)", len(got.URLs))
	}
	if got.URLs[0].Loc != "https://example.com" {
		t.Errorf("root loc = %q", got.URLs[0].Loc)
	}
	if got.URLs[1].Loc != "https://example.com/about/" || got.URLs[1].LastMod != "2024-03-09" {
		t.Errorf("page url = %+v", got.URLs[1])
	}
}
