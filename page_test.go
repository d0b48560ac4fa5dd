package pagecraft

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pagecraft/block"
)

var reStyleAttr = regexp.MustCompile(` style="[^"]*"`)

func stripStyles(markup string) string {
	return reStyleAttr.ReplaceAllString(markup, "")
}

// freezeTime pins timeNow to a clock that advances one second per call.
func freezeTime(t *testing.T) {
	t.Helper()
	orig := timeNow
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	t.Cleanup(func() { timeNow = orig })
}

func TestNewPage(t *testing.T) {
	f := block.NewFactory(block.NewSequence("p"))
	p := NewPage("Hello, World!", "author-1", "tenant-a", f)

	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Empty(t, p.Content)
	assert.NotNil(t, p.Content)
	assert.NotNil(t, p.Tags)
}

func TestSetTitleFollowsDerivedSlug(t *testing.T) {
	p := NewPage("First", "a", "t", nil)
	p.SetTitle("Second Title")
	assert.Equal(t, "second-title", p.Slug)

	p.SetSlug("Custom Slug")
	assert.Equal(t, "custom-slug", p.Slug)
	p.SetTitle("Third")
	assert.Equal(t, "custom-slug", p.Slug, "explicit slug must survive retitling")
}

func TestPublishLifecycle(t *testing.T) {
	freezeTime(t)
	f := block.NewFactory(block.NewSequence("b"))
	p := NewPage("Lifecycle", "a", "t", f)
	p.AppendBlock(f.MustCreate(block.KindText, nil, nil))

	require.NoError(t, p.Publish())
	assert.Equal(t, StatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	first := *p.PublishedAt

	require.NoError(t, p.Publish())
	assert.Equal(t, first, *p.PublishedAt, "republishing keeps the first publication time")

	p.Archive()
	assert.Equal(t, StatusArchived, p.Status)
	assert.Equal(t, first, *p.PublishedAt)
	assert.ErrorIs(t, p.Publish(), ErrArchived)
	assert.Equal(t, StatusArchived, p.Status)

	p.MarkDraft()
	assert.Equal(t, StatusDraft, p.Status)
	require.NoError(t, p.Publish())
	assert.Equal(t, first, *p.PublishedAt)
}

func TestPublishGate(t *testing.T) {
	f := block.NewFactory(block.NewSequence("b"))
	p := NewPage("Gate", "a", "t", f)
	img := p.AppendBlock(f.MustCreate(block.KindImage, nil, nil))
	before := p.UpdatedAt

	err := p.Publish()
	require.Error(t, err)

	var vf *ValidationFailedError
	require.True(t, errors.As(err, &vf))
	assert.Equal(t, p.ID, vf.PageID)
	assert.False(t, vf.Result.Valid)
	assert.Contains(t, err.Error(), "Image block "+img.ID+" is missing src")

	assert.Equal(t, StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, before, p.UpdatedAt)

	require.NoError(t, p.UpdateBlock(img.ID, map[string]any{"src": "/a.png"}, nil))
	assert.NoError(t, p.Publish())
}

func TestPublishAllowsWarnings(t *testing.T) {
	f := block.NewFactory(nil)
	p := NewPage("Warn", "a", "t", f)
	p.AppendBlock(f.MustCreate(block.KindHeading, map[string]any{"level": 9}, nil))

	result := p.Validate()
	assert.True(t, result.Valid)
	assert.Len(t, result.Warnings(), 1)
	assert.NoError(t, p.Publish())
}

func TestAuthoringOperations(t *testing.T) {
	f := block.NewFactory(block.NewSequence("b"))
	p := NewPage("Ops", "a", "t", f)

	a := p.AppendBlock(f.MustCreate(block.KindText, map[string]any{"text": "A"}, nil))
	c := p.AppendBlock(f.MustCreate(block.KindText, map[string]any{"text": "C"}, nil))
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, c.Order)

	b := f.MustCreate(block.KindText, map[string]any{"text": "B"}, nil)
	require.NoError(t, p.InsertBlock(1, b))
	assert.Equal(t, "<p>A</p>\n<p>B</p>\n<p>C</p>", stripStyles(p.Render()))

	require.NoError(t, p.MoveBlock(c.ID, 0))
	assert.Equal(t, "<p>C</p>\n<p>A</p>\n<p>B</p>", stripStyles(p.Render()))

	require.NoError(t, p.Reorder([]string{a.ID, b.ID, c.ID}))
	assert.Equal(t, "<p>A</p>\n<p>B</p>\n<p>C</p>", stripStyles(p.Render()))

	require.NoError(t, p.RemoveBlock(b.ID))
	assert.Equal(t, "<p>A</p>\n<p>C</p>", stripStyles(p.Render()))
	for i, blk := range p.Content {
		assert.Equal(t, i, blk.Order)
	}

	require.NoError(t, p.UpdateBlock(a.ID, map[string]any{"text": "A2"}, map[string]any{"color": "red"}))
	got, ok := p.Block(a.ID)
	require.True(t, ok)
	assert.Equal(t, "A2", got.Content["text"])
	assert.Equal(t, "red", got.Style["color"])
	assert.Equal(t, "16px", got.Style["font-size"], "untouched default style survives")
	assert.Equal(t, block.KindText, got.Kind)
}

func TestAuthoringErrors(t *testing.T) {
	f := block.NewFactory(block.NewSequence("b"))
	p := NewPage("Errs", "a", "t", f)
	x := p.AppendBlock(f.MustCreate(block.KindDivider, nil, nil))

	assert.ErrorIs(t, p.InsertBlock(5, f.MustCreate(block.KindDivider, nil, nil)), ErrOutOfRange)
	assert.ErrorIs(t, p.MoveBlock(x.ID, 3), ErrOutOfRange)
	assert.ErrorIs(t, p.MoveBlock("nope", 0), ErrBlockNotFound)
	assert.ErrorIs(t, p.RemoveBlock("nope"), ErrBlockNotFound)
	assert.ErrorIs(t, p.UpdateBlock("nope", nil, nil), ErrBlockNotFound)
	assert.ErrorIs(t, p.Reorder([]string{"nope"}), ErrBlockNotFound)
	assert.ErrorIs(t, p.Reorder(nil), ErrOutOfRange)
	assert.Len(t, p.Content, 1)
}

func TestAppendBlockCopies(t *testing.T) {
	f := block.NewFactory(nil)
	p := NewPage("Copy", "a", "t", f)
	b := f.MustCreate(block.KindText, nil, nil)
	p.AppendBlock(b)

	b.Content["text"] = "mutated"
	got, _ := p.Block(b.ID)
	assert.Equal(t, "Enter your text here...", got.Content["text"])
}

func TestTemplateApplicationIsolation(t *testing.T) {
	f := block.NewFactory(block.NewSequence("id"))
	tpl := NewTemplate("Three", "a", "t", []block.Block{
		f.MustCreate(block.KindHeading, nil, nil),
		f.MustCreate(block.KindText, nil, nil),
		f.MustCreate(block.KindGallery, map[string]any{"images": []any{map[string]any{"src": "/1.png"}}}, nil),
	}, f)

	p1 := NewPage("One", "a", "t", f)
	p2 := NewPage("Two", "a", "t", f)
	p1.ApplyTemplate(tpl, f)
	p2.ApplyTemplate(tpl, f)

	ids := map[string]bool{}
	for _, b := range append(append([]block.Block{}, p1.Content...), p2.Content...) {
		ids[b.ID] = true
	}
	for _, b := range tpl.Content {
		assert.False(t, ids[b.ID], "page block reuses template id %s", b.ID)
	}
	assert.Len(t, ids, 6)

	p1.Content[1].Content["text"] = "changed"
	p1.Content[2].Content["images"].([]any)[0].(map[string]any)["src"] = "/evil.png"

	assert.Equal(t, "Enter your text here...", p2.Content[1].Content["text"])
	assert.Equal(t, "Enter your text here...", tpl.Content[1].Content["text"])
	assert.Equal(t, "/1.png", tpl.Content[2].Content["images"].([]any)[0].(map[string]any)["src"])
	assert.Equal(t, "/1.png", p2.Content[2].Content["images"].([]any)[0].(map[string]any)["src"])
}

func TestTemplateApplicationCopiesTypedContainers(t *testing.T) {
	f := block.NewFactory(block.NewSequence("id"))
	tpl := NewTemplate("Typed", "a", "t", []block.Block{
		f.MustCreate(block.KindGallery, map[string]any{
			"widths": []int{100, 200},
			"sizes":  map[string]int{"sm": 1},
		}, nil),
	}, f)

	p1 := NewPage("One", "a", "t", f)
	p2 := NewPage("Two", "a", "t", f)
	p1.ApplyTemplate(tpl, f)
	p2.ApplyTemplate(tpl, f)

	p1.Content[0].Content["widths"].([]int)[0] = 999
	p1.Content[0].Content["sizes"].(map[string]int)["sm"] = 42

	assert.Equal(t, []int{100, 200}, p2.Content[0].Content["widths"])
	assert.Equal(t, map[string]int{"sm": 1}, p2.Content[0].Content["sizes"])
	assert.Equal(t, []int{100, 200}, tpl.Content[0].Content["widths"])
	assert.Equal(t, map[string]int{"sm": 1}, tpl.Content[0].Content["sizes"])
}

func TestApplyNilTemplate(t *testing.T) {
	p := NewPage("Base", "a", "t", nil)
	before := p.UpdatedAt
	p.ApplyTemplate(nil, nil)
	assert.Empty(t, p.Content)
	assert.Equal(t, before, p.UpdatedAt)
}

func TestApplyTemplateAppends(t *testing.T) {
	f := block.NewFactory(block.NewSequence("id"))
	p := NewPage("Base", "a", "t", f)
	p.AppendBlock(f.MustCreate(block.KindDivider, nil, nil))

	tpl := NewTemplate("T", "a", "t", []block.Block{f.MustCreate(block.KindSpacer, nil, nil)}, f)
	p.ApplyTemplate(tpl, f)

	require.Len(t, p.Content, 2)
	assert.Equal(t, block.KindDivider, p.Content[0].Kind)
	assert.Equal(t, block.KindSpacer, p.Content[1].Kind)
	assert.Equal(t, 1, p.Content[1].Order)
}

func TestTemplateFromPage(t *testing.T) {
	f := block.NewFactory(block.NewSequence("id"))
	p := NewPage("Source", "author-1", "tenant-a", f)
	p.Category = "landing"
	p.AppendBlock(f.MustCreate(block.KindQuote, nil, nil))

	tpl := TemplateFromPage(p, "Saved", f)
	assert.Equal(t, "tenant-a", tpl.TenantID)
	assert.Equal(t, "author-1", tpl.AuthorID)
	assert.Equal(t, "landing", tpl.Category)
	require.Len(t, tpl.Content, 1)
	assert.NotEqual(t, p.Content[0].ID, tpl.Content[0].ID)

	p.Content[0].Content["text"] = "edited later"
	assert.Equal(t, "Quote text", tpl.Content[0].Content["text"])
}
