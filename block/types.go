// Package block provides the content block model: the closed set of block
// kinds with their default templates, a factory that builds blocks from those
// templates, a validator, and decoding of block documents produced by tools.
package block

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a block.
type Kind string

const (
	KindText    Kind = "text"
	KindHeading Kind = "heading"
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindGallery Kind = "gallery"
	KindQuote   Kind = "quote"
	KindCode    Kind = "code"
	KindEmbed   Kind = "embed"
	KindForm    Kind = "form"
	KindButton  Kind = "button"
	KindSpacer  Kind = "spacer"
	KindDivider Kind = "divider"
)

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool {
	_, ok := registry[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// Block is a single typed unit of content.
type Block struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"type"`
	Content  map[string]any `json:"content"`
	Order    int            `json:"order"`
	Style    map[string]any `json:"style,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Copy returns a deep copy of b that shares no maps or slices with it.
func (b Block) Copy() Block {
	return Block{
		ID:       b.ID,
		Kind:     b.Kind,
		Content:  copyMap(b.Content),
		Order:    b.Order,
		Style:    copyMap(b.Style),
		Metadata: copyMap(b.Metadata),
	}
}

// CopyAll deep-copies a block sequence.
func CopyAll(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Copy()
	}
	return out
}

// ErrUnknownKind is matched by every *UnknownKindError.
var ErrUnknownKind = errors.New("unknown block kind")

// UnknownKindError is returned when a block kind is not registered.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown block kind: %q", string(e.Kind))
}

// Is reports whether target is ErrUnknownKind.
func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownKind
}
