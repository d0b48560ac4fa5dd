package pagecraft

import (
	"sort"

	"github.com/eringen/pagecraft/block"
)

// NewTemplate returns a template holding clones of blocks. The template
// owns its copies; later changes to blocks do not reach it.
func NewTemplate(name, authorID, tenantID string, blocks []block.Block, f *block.Factory) *Template {
	f = factoryOrDefault(f)
	now := timeNow()
	content := f.CloneAll(sortByOrder(blocks))
	return &Template{
		ID:        f.NextID(),
		Name:      name,
		TenantID:  tenantID,
		AuthorID:  authorID,
		Content:   renumber(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TemplateFromPage captures the current content of p as a template owned
// by the page's tenant and author.
func TemplateFromPage(p *Page, name string, f *block.Factory) *Template {
	t := NewTemplate(name, p.AuthorID, p.TenantID, p.Content, f)
	t.Category = p.Category
	t.Description = p.Description
	return t
}

// Instantiate returns independent clones of the template blocks in
// rendering order, each under a fresh id.
func (t *Template) Instantiate(f *block.Factory) []block.Block {
	return factoryOrDefault(f).CloneAll(sortByOrder(t.Content))
}

// SetContent replaces the template blocks with a deep copy of blocks.
func (t *Template) SetContent(blocks []block.Block) {
	t.Content = renumber(block.CopyAll(sortByOrder(blocks)))
	t.UpdatedAt = timeNow()
}

func sortByOrder(blocks []block.Block) []block.Block {
	out := make([]block.Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
