package block

// Factory builds blocks from the registry defaults.
type Factory struct {
	ids IDGenerator
}

// NewFactory returns a Factory drawing identifiers from gen. A nil gen
// falls back to UUIDGenerator.
func NewFactory(gen IDGenerator) *Factory {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Factory{ids: gen}
}

var defaultFactory = NewFactory(nil)

// New builds a block with the package default factory.
func New(kind Kind, content, style map[string]any) (Block, error) {
	return defaultFactory.Create(kind, content, style)
}

// Create builds a block of kind with content and style merged over the
// kind's defaults. Order is left at zero for the owning page to assign.
func (f *Factory) Create(kind Kind, content, style map[string]any) (Block, error) {
	defaults, err := DefaultsFor(kind)
	if err != nil {
		return Block{}, err
	}
	return Block{
		ID:      f.ids.NextID(),
		Kind:    kind,
		Content: Merge(defaults.Content, content),
		Style:   Merge(defaults.Style, style),
	}, nil
}

// NextID draws an identifier from the factory's generator. Page and
// template aggregates use it so one generator covers every entity.
func (f *Factory) NextID() string {
	return f.ids.NextID()
}

// MustCreate is like Create but panics on an unknown kind. Intended for
// package-level fixtures built from constant kinds.
func (f *Factory) MustCreate(kind Kind, content, style map[string]any) Block {
	b, err := f.Create(kind, content, style)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns a deep copy of b under a fresh identifier.
func (f *Factory) Clone(b Block) Block {
	c := b.Copy()
	c.ID = f.ids.NextID()
	return c
}

// CloneAll clones every block in blocks, keeping their order values.
func (f *Factory) CloneAll(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = f.Clone(b)
	}
	return out
}
