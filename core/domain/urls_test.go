package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoaderURL_RoundTrip(t *testing.T) {
	content := "https://example.com/news/article?id=1&lang=ja"
	loader := LoaderURL(content)

	assert.True(t, IsLoaderURL(loader))
	assert.False(t, IsLoaderURL(content))
	assert.Equal(t, content, ReaderURL(loader))
	assert.Equal(t, content, ReaderURL(content))
}

func TestMatchesReaderURL(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "https://example.com/a", "https://example.com/a", true},
		{"trailing slash", "https://example.com/a/", "https://example.com/a", true},
		{"fragment", "https://example.com/a#top", "https://example.com/a", true},
		{"host case", "https://Example.com/a", "https://example.com/a", true},
		{"loader", LoaderURL("https://example.com/a"), "https://example.com/a", true},
		{"different path", "https://example.com/a", "https://example.com/b", false},
		{"empty", "", "https://example.com/a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesReaderURL(tt.a, tt.b))
		})
	}
}

func TestSnippetURL(t *testing.T) {
	u := SnippetURL("ABC123")
	assert.True(t, IsSnippetURL(u))
	assert.True(t, IsInternalURL(u))
	assert.False(t, IsSnippetURL("https://example.com/snippet?key=1"))
	assert.Equal(t, "ABC123", CompoundKey(u))
}

func TestCompoundKey(t *testing.T) {
	hex := regexp.MustCompile(`^[0-9A-F]{16}$`)
	k1 := CompoundKey("https://example.com/a")
	assert.Regexp(t, hex, k1)
	assert.Equal(t, k1, CompoundKey("https://example.com/a"))
	assert.NotEqual(t, k1, CompoundKey("https://example.com/b"))

	blank1 := CompoundKey(BlankURL)
	blank2 := CompoundKey(BlankURL)
	assert.NotEqual(t, blank1, blank2)
}

func TestSchemeHelpers(t *testing.T) {
	assert.True(t, IsEBookURL("ebook://local/book"))
	assert.True(t, IsEBookURL("https://example.com/files/novel.epub"))
	assert.False(t, IsEBookURL("https://example.com/novel"))
	assert.True(t, IsBlobURL("blob:https://example.com/123"))
	assert.True(t, IsNativeViewURL("blob:https://example.com/123"))
	assert.True(t, IsAboutURL(BlankURL))
	assert.True(t, IsHTTPURL("https://example.com"))
	assert.False(t, IsHTTPURL("file:///tmp/a.html"))
	assert.True(t, IsFileURL("file:///tmp/a.html"))
}

func TestExtractionResult_IsEmpty(t *testing.T) {
	var nilResult *ExtractionResult
	assert.True(t, nilResult.IsEmpty())
	assert.True(t, (&ExtractionResult{HTML: " \n\t"}).IsEmpty())
	assert.False(t, (&ExtractionResult{HTML: "<p>x</p>"}).IsEmpty())
}
