package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphs() string {
	p := "<p>" + strings.Repeat("Lanterns lined the river path as the festival crowd drifted toward the old shrine gate. ", 6) + "</p>"
	return strings.Repeat(p, 6)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRender_PrintsReaderDocument(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html",
		`<html><head><title>River Lanterns</title></head><body><article><h1>River Lanterns</h1>`+paragraphs()+`</article></body></html>`)

	out, _, err := run(t, "render", page, "--url", "https://example.com/lanterns", "--font-size", "22")

	require.NoError(t, err)
	assert.Contains(t, out, `id="reader-content"`)
	assert.Contains(t, out, "shrine gate")
	assert.Contains(t, out, "font-size: 22px")
}

func TestRender_RequiresURL(t *testing.T) {
	page := writeFile(t, t.TempDir(), "page.html", "<html></html>")

	_, _, err := run(t, "render", page)

	assert.Error(t, err)
}

func TestRender_NotAnArticle(t *testing.T) {
	page := writeFile(t, t.TempDir(), "page.html", `<html><body><nav>Home</nav></body></html>`)

	_, _, err := run(t, "render", page, "--url", "https://example.com/menu")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "readerableFalse")
}

func TestIngestThenOpen(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "records.db")
	feed := writeFile(t, dir, "feed.xml", `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Festival Notes</title>
  <item>
    <title>River Lanterns</title>
    <link>https://example.com/lanterns</link>
    <content:encoded><![CDATA[`+paragraphs()+`]]></content:encoded>
  </item>
</channel>
</rss>`)

	out, _, err := run(t, "ingest", feed, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Festival Notes: 1 created, 0 updated, 0 skipped")
	assert.Contains(t, out, "https://example.com/lanterns (full content)")

	out, _, err = run(t, "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "records: 1")
	assert.Contains(t, out, "without content: 0")

	out, status, err := run(t, "open", "https://example.com/lanterns", "--db", db, "--offline")
	require.NoError(t, err)
	assert.Contains(t, status, "reader mode: true")
	assert.Contains(t, out, `id="reader-content"`)
	assert.Contains(t, out, "River Lanterns")
}

func TestOpen_UnknownRecord(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")

	_, _, err := run(t, "open", "https://example.com/missing", "--db", db, "--offline")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
