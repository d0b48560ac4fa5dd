package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eringen/pagecraft"
	"github.com/eringen/pagecraft/block"
)

func renderDocument(t *testing.T, p *pagecraft.Page, site SiteConfig) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Document(p, site).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestDocument(t *testing.T) {
	f := block.NewFactory(block.NewSequence("b"))
	p := pagecraft.NewPage("Tom & Jerry", "a", "t", f)
	p.AppendBlock(f.MustCreate(block.KindHeading, map[string]any{"text": "Welcome"}, nil))
	p.SEO = &pagecraft.SEO{
		Description: `Cats "and" mice`,
		Keywords:    []string{"cartoons", "classics"},
		Image:       "https://example.com/og.png",
	}

	out := renderDocument(t, p, SiteConfig{Name: "Toons", URL: "https://example.com"})

	checks := []string{
		`<!DOCTYPE html><html lang="en">`,
		`<title>Tom &amp; Jerry | Toons</title>`,
		`<meta name="description" content="Cats &#34;and&#34; mice"/>`,
		`<meta name="keywords" content="cartoons, classics"/>`,
		`<link rel="canonical" href="https://example.com/tom-jerry/"/>`,
		`<meta property="og:type" content="website"/>`,
		`<meta property="og:image" content="https://example.com/og.png"/>`,
		`<main class="page page-tom-jerry">`,
		`>Welcome</h2>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "</main></body></html>") {
		t.Errorf("document not closed: %q", out[len(out)-40:])
	}
}

func TestMetaFor(t *testing.T) {
	now := time.Now()
	site := SiteConfig{Name: "S", URL: "https://s.test", Description: "site default"}

	tests := []struct {
		name     string
		page     pagecraft.Page
		wantT    string
		wantD    string
		wantType string
	}{
		{"site fallback", pagecraft.Page{Title: "Plain", Slug: "plain"}, "Plain", "site default", "website"},
		{"page description", pagecraft.Page{Title: "P", Description: "own"}, "P", "own", "website"},
		{"seo wins", pagecraft.Page{Title: "P", Description: "own", SEO: &pagecraft.SEO{Title: "SEO", Description: "seo"}}, "SEO", "seo", "website"},
		{"published", pagecraft.Page{Title: "P", PublishedAt: &now}, "P", "site default", "article"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MetaFor(&tt.page, site)
			if m.Title != tt.wantT || m.Description != tt.wantD || m.OGType != tt.wantType {
				t.Errorf("MetaFor = %+v, want %q/%q/%q", m, tt.wantT, tt.wantD, tt.wantType)
			}
		})
	}
}

func TestDocumentDropsUnsafeImage(t *testing.T) {
	p := pagecraft.NewPage("X", "a", "t", nil)
	p.SEO = &pagecraft.SEO{Image: "javascript:alert"}
	out := renderDocument(t, p, SiteConfig{})
	if strings.Contains(out, "og:image") {
		t.Errorf("unsafe og:image emitted: %s", out)
	}
	if !strings.Contains(out, "<title>X</title>") {
		t.Errorf("title without site name wrong: %s", out)
	}
}

func TestFullTitle(t *testing.T) {
	if got := FullTitle("", "Site"); got != "Site" {
		t.Errorf("FullTitle empty = %q", got)
	}
	if got := FullTitle(" A ", ""); got != "A" {
		t.Errorf("FullTitle no site = %q", got)
	}
}
