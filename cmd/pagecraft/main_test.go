package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pagecraft"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validPage = `
id: page-1
title: Hello
slug: hello
tenantId: acme
content:
  - id: b1
    type: heading
    order: 0
    content:
      text: Hello there
      level: 1
`

const invalidPage = `{
  "id": "page-2",
  "title": "Broken",
  "content": [{"id": "img", "type": "image", "order": 0, "content": {"src": ""}}]
}`

func TestSlugCommand(t *testing.T) {
	out, err := run(t, "slug", "Hello,", "World!")
	require.NoError(t, err)
	assert.Equal(t, "hello-world\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pagecraft dev\n", out)
}

func TestBlockCommand(t *testing.T) {
	out, err := run(t, "block", "button", "--content", `{"text":"Go"}`)
	require.NoError(t, err)

	var b map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "button", b["type"])
	assert.NotEmpty(t, b["id"])
	content := b["content"].(map[string]any)
	assert.Equal(t, "Go", content["text"])
	assert.Equal(t, "primary", content["variant"])

	_, err = run(t, "block", "carousel")
	assert.Error(t, err)

	_, err = run(t, "block", "text", "--style", "{bad")
	assert.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.yaml", validPage)

	out, err := run(t, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello there</h1>\n", out)

	out, err = run(t, "render", "--document", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>Hello there</h1>")

	// Invalid content still renders.
	bad := writeFile(t, dir, "bad.json", invalidPage)
	out, err = run(t, "render", bad)
	require.NoError(t, err)
	assert.Contains(t, out, `<img src=""`)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", validPage)
	bad := writeFile(t, dir, "bad.json", invalidPage)

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.yaml: ok")

	out, err = run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "error: Image block img is missing src")

	out, err = run(t, "validate", "--json", bad)
	require.Error(t, err)
	assert.Contains(t, out, `"valid": false`)
}

func TestTemplateApplyCommand(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.yaml", validPage)
	tpl := writeFile(t, dir, "tpl.json", `[
  {"type": "text", "content": {"text": "From template"}},
  {"type": "divider", "content": {}}
]`)

	_, err := run(t, "template", "apply", "--write", tpl, page)
	require.NoError(t, err)

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	p, err := pagecraft.DecodePage(data, pagecraft.FormatYAML)
	require.NoError(t, err)
	require.Len(t, p.Content, 3)
	assert.Equal(t, "From template", p.Content[1].Content["text"])
	assert.Equal(t, 2, p.Content[2].Order)

	unknown := writeFile(t, dir, "unknown.json", `[{"type": "carousel", "content": {}}]`)
	_, err = run(t, "template", "apply", unknown, page)
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGECRAFT_DB", filepath.Join(dir, "db", "pagecraft.db"))
	t.Setenv("PAGECRAFT_MEDIA_DIR", filepath.Join(dir, "media"))
	t.Setenv("SITE_URL", "https://acme.test")

	page := writeFile(t, dir, "hello.yaml", validPage)
	out, err := run(t, "save", "--publish", page)
	require.NoError(t, err)
	assert.Equal(t, "page-1\tpublished\thello\n", out)

	out, err = run(t, "sitemap", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "<loc>https://acme.test/hello/</loc>")

	out, err = run(t, "feed", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Hello</title>")

	out, err = run(t, "publish", "--archive", "page-1")
	require.NoError(t, err)
	assert.Equal(t, "page-1\tarchived\thello\n", out)

	notes := writeFile(t, dir, "notes.txt", "some notes\n")
	out, err = run(t, "media", "acme", notes)
	require.NoError(t, err)
	assert.Contains(t, out, "/media/acme/notes.txt")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("PAGECRAFT_TEST_VALUE", "  set  ")
	assert.Equal(t, "set", EnvOr("PAGECRAFT_TEST_VALUE", "fallback"))
	t.Setenv("PAGECRAFT_TEST_VALUE", "")
	assert.Equal(t, "fallback", EnvOr("PAGECRAFT_TEST_VALUE", "fallback"))
}
