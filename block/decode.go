package block

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DocumentSchema is the JSON Schema a block document must satisfy before it
// is decoded. Generators (editors, import tools, AI pipelines) target this
// shape: an array of blocks, each naming a registered kind.
var DocumentSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "array",
	"items": map[string]any{
		"type":     "object",
		"required": []string{"type", "content"},
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": kindNames(),
			},
			"content": map[string]any{
				"type":                 "object",
				"additionalProperties": true,
			},
			"style": map[string]any{
				"type":                 "object",
				"additionalProperties": true,
			},
			"metadata": map[string]any{
				"type":                 "object",
				"additionalProperties": true,
			},
			"order": map[string]any{"type": "integer"},
		},
	},
}

var documentSchema = gojsonschema.NewGoLoader(DocumentSchema)

// SchemaError lists the ways a block document violates DocumentSchema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "block document does not match schema: " + strings.Join(e.Problems, "; ")
}

type rawBlock struct {
	Kind     Kind           `json:"type"`
	Content  map[string]any `json:"content"`
	Style    map[string]any `json:"style"`
	Metadata map[string]any `json:"metadata"`
	Order    *int           `json:"order"`
}

// Decode checks data against DocumentSchema and builds a block for every
// entry through f, so defaults are merged and identifiers are fresh.
// Entries without an order take their array index.
func Decode(data []byte, f *Factory) ([]Block, error) {
	if f == nil {
		f = defaultFactory
	}
	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("block: decode: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			problems[i] = e.String()
		}
		return nil, &SchemaError{Problems: problems}
	}

	var raw []rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("block: decode: %w", err)
	}
	blocks := make([]Block, 0, len(raw))
	for i, r := range raw {
		b, err := f.Create(r.Kind, r.Content, r.Style)
		if err != nil {
			return nil, fmt.Errorf("block: decode entry %d: %w", i, err)
		}
		b.Metadata = copyMap(r.Metadata)
		b.Order = i
		if r.Order != nil {
			b.Order = *r.Order
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func kindNames() []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
