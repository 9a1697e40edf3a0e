package sanitizer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"manabi-reader/core/domain"
)

var eventAttr = regexp.MustCompile(`(?i)\son[a-z]+\s*=`)

func TestSanitize_RemovesDangerousMarkup(t *testing.T) {
	s := New()
	inputs := []string{
		`<p onclick="steal()">hello</p><script>alert(1)</script>`,
		`<a href="javascript:alert(1)">click</a>`,
		`<img src="x" onerror="alert(1)">`,
		`<div><style>body{display:none}</style><iframe src="https://evil.example"></iframe>text</div>`,
		`<svg onload="alert(1)"><a href="JaVaScRiPt:alert(1)">x</a></svg>`,
		`<template><script>alert(1)</script><p>hidden</p></template><p>shown</p>`,
	}
	for _, in := range inputs {
		out := s.Sanitize(in)
		assert.NotContains(t, out, "<script", in)
		assert.NotRegexp(t, eventAttr, out, in)
		assert.NotContains(t, out, "javascript:", in)
		assert.NotContains(t, out, "JaVaScRiPt:", in)
	}
}

func TestSanitize_KeepsReaderMarkup(t *testing.T) {
	s := New()
	in := `<div id="readability-page-1" class="page"><p>今日は<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>です</p><figure><img src="https://example.com/a.jpg" alt="a"><figcaption class="caption">Caption</figcaption></figure></div>`

	out := s.Sanitize(in)

	assert.Contains(t, out, `id="readability-page-1"`)
	assert.Contains(t, out, `class="page"`)
	assert.Contains(t, out, "<rt>かんじ</rt>")
	assert.Contains(t, out, "<figcaption")
	assert.Contains(t, out, `src="https://example.com/a.jpg"`)
}

func TestSanitize_DropsTemplateContents(t *testing.T) {
	out := New().Sanitize(`<template><p>hidden</p></template><p>shown</p>`)
	assert.Equal(t, "<p>shown</p>", out)
}

func TestSanitizeText(t *testing.T) {
	s := New()
	assert.Equal(t, "Tom & Jerry", s.SanitizeText("<b>Tom &amp; Jerry</b>"))
	assert.Equal(t, "By Jane", s.SanitizeText(`By <a href="javascript:x()">Jane</a><script>x()</script>`))
}

func TestSanitizeResult(t *testing.T) {
	r := New().SanitizeResult(domain.ReadabilityResult{
		Status:      domain.ReadabilitySuccess,
		Title:       `<img src=x onerror=alert(1)>Title`,
		Byline:      "<i>Jane</i>",
		ContentHTML: `<p onmouseover="x()">Body</p>`,
	})

	assert.Equal(t, "Title", r.Title)
	assert.Equal(t, "Jane", r.Byline)
	assert.Equal(t, "<p>Body</p>", r.ContentHTML)
	assert.Equal(t, domain.ReadabilitySuccess, r.Status)
}
