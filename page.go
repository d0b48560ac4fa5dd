package pagecraft

import (
	"fmt"
	"time"

	"github.com/eringen/pagecraft/block"
	"github.com/eringen/pagecraft/render"
)

// timeNow is swapped in tests.
var timeNow = func() time.Time { return time.Now().UTC() }

func factoryOrDefault(f *block.Factory) *block.Factory {
	if f == nil {
		return block.NewFactory(nil)
	}
	return f
}

// NewPage returns a draft page with a slug derived from title. The page id
// is drawn from f (nil uses random UUIDs).
func NewPage(title, authorID, tenantID string, f *block.Factory) *Page {
	f = factoryOrDefault(f)
	now := timeNow()
	return &Page{
		ID:        f.NextID(),
		Title:     title,
		Slug:      Slugify(title),
		Status:    StatusDraft,
		AuthorID:  authorID,
		TenantID:  tenantID,
		Tags:      []string{},
		Content:   []block.Block{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Page) touch() {
	p.UpdatedAt = timeNow()
}

// SetTitle changes the title. The slug follows the title only while it is
// still the one derived from the previous title.
func (p *Page) SetTitle(title string) {
	if p.Slug == Slugify(p.Title) {
		p.Slug = Slugify(title)
	}
	p.Title = title
	p.touch()
}

// SetSlug sets an explicit slug, normalized through Slugify.
func (p *Page) SetSlug(slug string) {
	p.Slug = Slugify(slug)
	p.touch()
}

// SetTags replaces the tag set.
func (p *Page) SetTags(tags ...string) {
	p.Tags = NormalizeTags(tags)
	p.touch()
}

// SetContent replaces the block sequence with a deep copy of blocks. Order
// values are kept as given.
func (p *Page) SetContent(blocks []block.Block) {
	p.Content = block.CopyAll(blocks)
	if p.Content == nil {
		p.Content = []block.Block{}
	}
	p.touch()
}

// Block returns a copy of the block with the given id.
func (p *Page) Block(id string) (block.Block, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return block.Block{}, false
	}
	return p.Content[i].Copy(), true
}

// AppendBlock adds a copy of b after the last block and returns the stored
// copy with its assigned order.
func (p *Page) AppendBlock(b block.Block) block.Block {
	b = b.Copy()
	b.Order = p.nextOrder()
	p.Content = append(p.Content, b)
	p.touch()
	return b.Copy()
}

// InsertBlock places a copy of b at position index (0..len) in rendering
// order and renumbers the sequence.
func (p *Page) InsertBlock(index int, b block.Block) error {
	blocks := p.ordered()
	if index < 0 || index > len(blocks) {
		return fmt.Errorf("%w: insert at %d of %d", ErrOutOfRange, index, len(blocks))
	}
	blocks = append(blocks, block.Block{})
	copy(blocks[index+1:], blocks[index:])
	blocks[index] = b.Copy()
	p.Content = renumber(blocks)
	p.touch()
	return nil
}

// UpdateBlock merges content and style overrides onto the block with id.
// Kind and id never change.
func (p *Page) UpdateBlock(id string, content, style map[string]any) error {
	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if content != nil {
		p.Content[i].Content = block.Merge(p.Content[i].Content, content)
	}
	if style != nil {
		p.Content[i].Style = block.Merge(p.Content[i].Style, style)
	}
	p.touch()
	return nil
}

// RemoveBlock deletes the block with id and renumbers the sequence.
func (p *Page) RemoveBlock(id string) error {
	blocks := p.ordered()
	for i, b := range blocks {
		if b.ID == id {
			p.Content = renumber(append(blocks[:i], blocks[i+1:]...))
			p.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
}

// MoveBlock moves the block with id to position index in rendering order.
func (p *Page) MoveBlock(id string, index int) error {
	blocks := p.ordered()
	from := -1
	for i, b := range blocks {
		if b.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if index < 0 || index >= len(blocks) {
		return fmt.Errorf("%w: move to %d of %d", ErrOutOfRange, index, len(blocks))
	}
	moved := blocks[from]
	blocks = append(blocks[:from], blocks[from+1:]...)
	blocks = append(blocks, block.Block{})
	copy(blocks[index+1:], blocks[index:])
	blocks[index] = moved
	p.Content = renumber(blocks)
	p.touch()
	return nil
}

// Reorder sets the rendering order to ids, which must name every block on
// the page exactly once.
func (p *Page) Reorder(ids []string) error {
	if len(ids) != len(p.Content) {
		return fmt.Errorf("%w: reorder lists %d ids for %d blocks", ErrOutOfRange, len(ids), len(p.Content))
	}
	byID := make(map[string]block.Block, len(p.Content))
	for _, b := range p.Content {
		byID[b.ID] = b
	}
	blocks := make([]block.Block, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
		}
		delete(byID, id)
		blocks = append(blocks, b)
	}
	p.Content = renumber(blocks)
	p.touch()
	return nil
}

// ApplyTemplate appends clones of the template blocks, with fresh ids from
// f, after the existing content. A nil template is a no-op.
func (p *Page) ApplyTemplate(t *Template, f *block.Factory) {
	if t == nil {
		return
	}
	next := p.nextOrder()
	for _, b := range t.Instantiate(factoryOrDefault(f)) {
		b.Order = next
		next++
		p.Content = append(p.Content, b)
	}
	p.touch()
}

// Validate runs the block validator over the page content.
func (p *Page) Validate() block.Result {
	return block.Validate(p.Content)
}

// Render serializes the page content to markup.
func (p *Page) Render() string {
	return render.Render(p.Content)
}

// Publish moves a draft or published page to published once its content
// validates. Archived pages return ErrArchived. PublishedAt keeps the first
// publication time unless the caller cleared it.
func (p *Page) Publish() error {
	if p.Status == StatusArchived {
		return fmt.Errorf("%w: %s", ErrArchived, p.ID)
	}
	result := p.Validate()
	if !result.Valid {
		return &ValidationFailedError{PageID: p.ID, Result: result}
	}
	now := timeNow()
	p.Status = StatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	return nil
}

// Archive moves the page to archived from any state.
func (p *Page) Archive() {
	p.Status = StatusArchived
	p.touch()
}

// MarkDraft explicitly returns the page to draft. PublishedAt is kept.
func (p *Page) MarkDraft() {
	p.Status = StatusDraft
	p.touch()
}

func (p *Page) indexOf(id string) int {
	for i, b := range p.Content {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (p *Page) nextOrder() int {
	if len(p.Content) == 0 {
		return 0
	}
	last := p.Content[0].Order
	for _, b := range p.Content[1:] {
		if b.Order > last {
			last = b.Order
		}
	}
	return last + 1
}

// ordered returns the content in rendering order without copying the
// block payloads.
func (p *Page) ordered() []block.Block {
	return sortByOrder(p.Content)
}

func renumber(blocks []block.Block) []block.Block {
	for i := range blocks {
		blocks[i].Order = i
	}
	return blocks
}
