package pagecraft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a page document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// DecodePage parses a page document. YAML and TOML documents use the same
// field names as the JSON form.
func DecodePage(data []byte, format Format) (*Page, error) {
	var raw []byte
	switch format {
	case FormatJSON, "":
		raw = data
	case FormatYAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("pagecraft: decode yaml: %w", err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("pagecraft: decode yaml: %w", err)
		}
		raw = b
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("pagecraft: decode toml: %w", err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("pagecraft: decode toml: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("pagecraft: unsupported format: %s", format)
	}

	var p Page
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("pagecraft: decode page: %w", err)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Tags == nil {
		p.Tags = []string{}
	} else {
		p.Tags = NormalizeTags(p.Tags)
	}
	return &p, nil
}

// EncodePage writes p in the given format.
func EncodePage(p *Page, format Format) ([]byte, error) {
	if format == FormatJSON || format == "" {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("pagecraft: encode json: %w", err)
		}
		return buf.Bytes(), nil
	}

	// YAML and TOML go through the JSON form so field names stay identical.
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("pagecraft: encode page: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("pagecraft: encode page: %w", err)
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("pagecraft: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("pagecraft: encode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("pagecraft: encode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("pagecraft: unsupported format: %s", format)
	}
	return buf.Bytes(), nil
}
