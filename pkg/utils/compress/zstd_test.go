package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHTML(t *testing.T) {
	html := "<html><body>" + strings.Repeat("<p>日本語の文章です。</p>", 50) + "</body></html>"

	payload, err := EncodeHTML(html)
	require.NoError(t, err)
	assert.Less(t, len(payload), len(html))

	got, err := DecodeHTML(payload)
	require.NoError(t, err)
	assert.Equal(t, html, got)
}

func TestEmptyPayloads(t *testing.T) {
	payload, err := EncodeHTML("")
	require.NoError(t, err)
	assert.Nil(t, payload)

	got, err := DecodeHTML(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDecodeHTML_Garbage(t *testing.T) {
	_, err := DecodeHTML([]byte("not zstd at all"))
	assert.Error(t, err)
}
