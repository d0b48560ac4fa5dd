package block

// Template is the default content and style payload of a kind.
type Template struct {
	Content map[string]any
	Style   map[string]any
}

// kinds lists the registered kinds in declaration order.
var kinds = []Kind{
	KindText,
	KindHeading,
	KindImage,
	KindVideo,
	KindGallery,
	KindQuote,
	KindCode,
	KindEmbed,
	KindForm,
	KindButton,
	KindSpacer,
	KindDivider,
}

// registry holds the default template per kind. It is never mutated;
// DefaultsFor hands out deep copies.
var registry = map[Kind]Template{
	KindText: {
		Content: map[string]any{"text": "Enter your text here..."},
		Style:   map[string]any{"font-size": "16px", "line-height": "1.6"},
	},
	KindHeading: {
		Content: map[string]any{"text": "Heading", "level": 2},
		Style:   map[string]any{"font-weight": "bold"},
	},
	KindImage: {
		Content: map[string]any{"src": "", "alt": "", "caption": ""},
		Style:   map[string]any{"max-width": "100%", "height": "auto"},
	},
	KindVideo: {
		Content: map[string]any{"src": "", "poster": "", "controls": true, "autoplay": false},
		Style:   map[string]any{"width": "100%"},
	},
	KindGallery: {
		Content: map[string]any{"images": []any{}, "columns": 3},
		Style:   map[string]any{"display": "grid", "gap": "16px"},
	},
	KindQuote: {
		Content: map[string]any{"text": "Quote text", "author": ""},
		Style:   map[string]any{"border-left": "4px solid #ccc", "padding-left": "16px", "font-style": "italic"},
	},
	KindCode: {
		Content: map[string]any{"code": "", "language": "plaintext"},
		Style:   map[string]any{"font-family": "monospace", "background-color": "#f5f5f5", "padding": "16px"},
	},
	KindEmbed: {
		Content: map[string]any{"url": "", "html": ""},
		Style:   map[string]any{"width": "100%"},
	},
	KindForm: {
		Content: map[string]any{"fields": []any{}, "submitText": "Submit", "action": ""},
		Style:   map[string]any{},
	},
	KindButton: {
		Content: map[string]any{"text": "Click me", "url": "#", "variant": "primary"},
		Style:   map[string]any{"padding": "12px 24px", "border-radius": "4px"},
	},
	KindSpacer: {
		Content: map[string]any{"height": 40},
		Style:   map[string]any{"height": "40px"},
	},
	KindDivider: {
		Content: map[string]any{},
		Style:   map[string]any{"border-top": "1px solid #e5e5e5", "margin": "24px 0"},
	},
}

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// DefaultsFor returns a copy of the default template for kind.
func DefaultsFor(kind Kind) (Template, error) {
	t, ok := registry[kind]
	if !ok {
		return Template{}, &UnknownKindError{Kind: kind}
	}
	return Template{
		Content: copyMap(t.Content),
		Style:   copyMap(t.Style),
	}, nil
}
