package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const headerMarkup = `<body><div id="reader-header"><h1 id="reader-title">T</h1><div id="reader-byline-container">` +
	`<div id="reader-byline-line">%s</div>` +
	`<div id="reader-meta-line"><span id="reader-publication-date"></span><span class="reader-meta-divider"></span>%s</div>` +
	`</div></div></body>`

func header(byline, link string) string {
	return fmt.Sprintf(headerMarkup, byline, link)
}

func TestUpdateBylineSection_FillsDate(t *testing.T) {
	doc := mustParse(t, header("Jane", `<a class="reader-view-original" href="#">View Original</a>`))

	UpdateBylineSection(doc, "March 1, 2024")

	assert.Equal(t, "March 1, 2024", doc.Find("#reader-publication-date").Text())
	assert.Equal(t, 1, doc.Find(".reader-meta-divider").Length())
	assert.Equal(t, 1, doc.Find("#reader-byline-line").Length())
}

func TestUpdateBylineSection_RemovesDateAndDivider(t *testing.T) {
	doc := mustParse(t, header("Jane", `<a class="reader-view-original" href="#">View Original</a>`))

	UpdateBylineSection(doc, "")

	assert.Equal(t, 0, doc.Find("#reader-publication-date").Length())
	assert.Equal(t, 0, doc.Find(".reader-meta-divider").Length())
	assert.Equal(t, 1, doc.Find("#reader-meta-line").Length())
}

func TestUpdateBylineSection_PrunesEmptyContainers(t *testing.T) {
	doc := mustParse(t, header("  ", ""))

	UpdateBylineSection(doc, "")

	assert.Equal(t, 0, doc.Find("#reader-byline-line").Length())
	assert.Equal(t, 0, doc.Find("#reader-meta-line").Length())
	assert.Equal(t, 0, doc.Find("#reader-byline-container").Length())
	assert.Equal(t, 1, doc.Find("#reader-title").Length())
}

func TestUpdateBylineSection_InsertsMissingDateBeforeViewOriginal(t *testing.T) {
	doc := mustParse(t, `<body><div id="reader-header"><h1 id="reader-title">T</h1><div id="reader-byline-container">`+
		`<div id="reader-meta-line"><a class="reader-view-original" href="#">View Original</a></div></div></div></body>`)

	UpdateBylineSection(doc, "March 5, 2024")

	meta := doc.Find("#reader-meta-line")
	assert.Equal(t, "March 5, 2024", meta.Find("#reader-publication-date").Text())
	children := meta.Children()
	assert.Equal(t, 3, children.Length())
	assert.Equal(t, "reader-publication-date", children.Eq(0).AttrOr("id", ""))
	assert.True(t, children.Eq(1).HasClass("reader-meta-divider"))
	assert.True(t, children.Eq(2).HasClass("reader-view-original"))
}

func TestUpdateBylineSection_CreatesBylineContainer(t *testing.T) {
	doc := mustParse(t, `<body><div id="reader-header"><h1 id="reader-title">T</h1></div><div id="reader-content"></div></body>`)

	UpdateBylineSection(doc, "March 5, 2024")

	date := doc.Find("#reader-header #reader-byline-container #reader-meta-line #reader-publication-date")
	assert.Equal(t, "March 5, 2024", date.Text())
	assert.Equal(t, 0, doc.Find(".reader-meta-divider").Length())
}

func TestUpdateBylineSection_NoHeaderIsNoop(t *testing.T) {
	doc := mustParse(t, `<body><p>plain</p></body>`)

	UpdateBylineSection(doc, "March 5, 2024")

	assert.Equal(t, 0, doc.Find("#reader-publication-date").Length())
	assert.Equal(t, 0, doc.Find("#reader-byline-container").Length())
}
