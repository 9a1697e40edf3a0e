// ABOUTME: Byline and publication date maintenance for assembled reader documents
// ABOUTME: Inserts a late-known date into the meta line and prunes empty byline parts

package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UpdateBylineSection fills the publication date and prunes byline
// elements that end up without content. A date span missing from the
// document is created in the meta line, ahead of the View Original link.
func UpdateBylineSection(doc *goquery.Document, publicationDate string) {
	if line := doc.Find("#" + BylineLineID); line.Length() > 0 && strings.TrimSpace(line.Text()) == "" {
		line.Remove()
	}

	date := doc.Find("#" + PublicationDateID)
	if publicationDate = strings.TrimSpace(publicationDate); publicationDate != "" {
		if date.Length() == 0 {
			date = insertPublicationDate(doc)
		}
		date.SetText(publicationDate)
	} else if strings.TrimSpace(date.Text()) == "" {
		date.Remove()
	}

	meta := doc.Find("#" + MetaLineID)
	hasDate := meta.Find("#"+PublicationDateID).Length() > 0
	hasOriginal := meta.Find("."+ViewOriginalClass).Length() > 0
	if !hasDate || !hasOriginal {
		meta.Find("." + MetaDividerClass).Remove()
	}
	if isChildless(meta) {
		meta.Remove()
	}

	if container := doc.Find("#" + BylineContainerID); isChildless(container) {
		container.Remove()
	}
}

// insertPublicationDate adds an empty date span under #reader-header,
// creating the byline container and meta line as needed. It returns an
// empty selection when the document has no reader header.
func insertPublicationDate(doc *goquery.Document) *goquery.Selection {
	header := doc.Find("#" + HeaderID).First()
	if header.Length() == 0 {
		return header
	}

	container := header.Find("#" + BylineContainerID).First()
	if container.Length() == 0 {
		header.AppendHtml(fmt.Sprintf(`<div id="%s"></div>`, BylineContainerID))
		container = header.Find("#" + BylineContainerID).First()
	}
	meta := container.Find("#" + MetaLineID).First()
	if meta.Length() == 0 {
		container.AppendHtml(fmt.Sprintf(`<div id="%s"></div>`, MetaLineID))
		meta = container.Find("#" + MetaLineID).First()
	}

	span := fmt.Sprintf(`<span id="%s"></span>`, PublicationDateID)
	if original := meta.Find("." + ViewOriginalClass).First(); original.Length() > 0 {
		original.BeforeHtml(span + fmt.Sprintf(`<span class="%s"></span>`, MetaDividerClass))
	} else {
		meta.PrependHtml(span)
	}
	return meta.Find("#" + PublicationDateID).First()
}
