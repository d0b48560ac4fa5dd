// Package render serializes block sequences into HTML markup.
//
// Rendering is total: malformed or unexpected content degrades to a generic
// fragment instead of failing, so partially invalid pages still preview.
// All functions are pure and safe for concurrent use.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pagecraft/block"
	"github.com/eringen/pagecraft/markdown"
)

type renderFunc func(b block.Block, style string) string

// renderers maps each kind to its fragment template. Kinds without an entry
// use renderFallback.
var renderers = map[block.Kind]renderFunc{
	block.KindText:    renderText,
	block.KindHeading: renderHeading,
	block.KindImage:   renderImage,
	block.KindVideo:   renderVideo,
	block.KindQuote:   renderQuote,
	block.KindCode:    renderCode,
	block.KindButton:  renderButton,
	block.KindSpacer:  renderSpacer,
	block.KindDivider: renderDivider,
}

// Render converts blocks to markup. Blocks are ordered by Order (stable on
// ties) and their fragments joined with a newline. The input is not
// modified.
func Render(blocks []block.Block) string {
	if len(blocks) == 0 {
		return ""
	}
	sorted := make([]block.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	frags := make([]string, len(sorted))
	for i, b := range sorted {
		frags[i] = Block(b)
	}
	return strings.Join(frags, "\n")
}

// Block renders a single block fragment.
func Block(b block.Block) string {
	style := styleAttr(b.Style)
	if fn, ok := renderers[b.Kind]; ok {
		return fn(b, style)
	}
	return renderFallback(b, style)
}

// Component returns a templ.Component that writes Render(blocks).
func Component(blocks []block.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(blocks))
		return err
	})
}

// StyleString joins style entries as "key: value" pairs separated by "; ".
// Keys are emitted in sorted order so output is byte-for-byte reproducible.
// Empty keys and nil values are skipped.
func StyleString(style map[string]any) string {
	if len(style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(style))
	for k, v := range style {
		if strings.TrimSpace(k) == "" || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + styleValue(style[k])
	}
	return strings.Join(parts, "; ")
}

func styleValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func styleAttr(style map[string]any) string {
	s := StyleString(style)
	if s == "" {
		return ""
	}
	return ` style="` + html.EscapeString(s) + `"`
}

func text(b block.Block, key string) string {
	return html.EscapeString(block.String(b.Content, key))
}

// richText renders key as inline markdown when the block opts in with
// format "markdown", and as escaped plain text otherwise.
func richText(b block.Block, key string) string {
	raw := block.String(b.Content, key)
	if block.String(b.Content, "format") == "markdown" {
		return markdown.Inline(raw)
	}
	return html.EscapeString(raw)
}

func renderText(b block.Block, style string) string {
	return "<p" + style + ">" + richText(b, "text") + "</p>"
}

func renderHeading(b block.Block, style string) string {
	level, ok := block.Int(b.Content, "level")
	if !ok || level < 1 || level > 6 {
		level = 2
	}
	return fmt.Sprintf("<h%d%s>%s</h%d>", level, style, text(b, "text"), level)
}

func renderImage(b block.Block, style string) string {
	src := markdown.SafeURL(block.String(b.Content, "src"))
	return `<img src="` + src + `" alt="` + text(b, "alt") + `"` + style + `/>`
}

func renderVideo(b block.Block, style string) string {
	var buf strings.Builder
	buf.WriteString(`<video src="`)
	buf.WriteString(markdown.SafeURL(block.String(b.Content, "src")))
	buf.WriteString(`"`)
	if poster := markdown.SafeURL(block.String(b.Content, "poster")); poster != "" {
		buf.WriteString(` poster="` + poster + `"`)
	}
	if block.Bool(b.Content, "controls") {
		buf.WriteString(" controls")
	}
	buf.WriteString(style)
	buf.WriteString("></video>")
	return buf.String()
}

func renderQuote(b block.Block, style string) string {
	var buf strings.Builder
	buf.WriteString("<blockquote" + style + "><p>")
	buf.WriteString(richText(b, "text"))
	buf.WriteString("</p>")
	if author := text(b, "author"); author != "" {
		buf.WriteString("<cite>" + author + "</cite>")
	}
	buf.WriteString("</blockquote>")
	return buf.String()
}

func renderCode(b block.Block, style string) string {
	var buf strings.Builder
	buf.WriteString("<pre" + style + "><code")
	if lang := text(b, "language"); lang != "" {
		buf.WriteString(` class="language-` + lang + `"`)
	}
	buf.WriteString(">")
	buf.WriteString(text(b, "code"))
	buf.WriteString("</code></pre>")
	return buf.String()
}

func renderButton(b block.Block, style string) string {
	href := markdown.SafeURL(block.String(b.Content, "url"))
	if href == "" {
		href = "#"
	}
	class := "button"
	if variant := text(b, "variant"); variant != "" {
		class += " button-" + variant
	}
	return `<a href="` + href + `" class="` + class + `"` + style + `>` + text(b, "text") + `</a>`
}

func renderSpacer(_ block.Block, style string) string {
	return `<div class="spacer"` + style + `></div>`
}

func renderDivider(_ block.Block, style string) string {
	return "<hr" + style + "/>"
}

// renderFallback emits a generic container holding the JSON form of the
// content, so unknown kinds never abort a document.
func renderFallback(b block.Block, style string) string {
	body, err := json.Marshal(b.Content)
	if err != nil {
		body = []byte("{}")
	}
	return `<div class="block block-` + html.EscapeString(string(b.Kind)) + `"` + style + `>` +
		html.EscapeString(string(body)) + `</div>`
}
