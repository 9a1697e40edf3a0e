// ABOUTME: Plain-text to HTML conversion for pasted snippets and feed bodies
// ABOUTME: Blank lines start paragraphs, single newlines become <br>

package html

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var entityPattern = regexp.MustCompile(`^&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// EscapeText escapes &, < and > for use in a text node. Ampersands that
// already start a character reference are left alone, so escaping is idempotent.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if m := entityPattern.FindString(s[i:]); m != "" {
				b.WriteString(m)
				i += len(m) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ConvertPlainTextToHTML turns text into paragraph markup.
//
// With forceRaw, text is always treated as plain text. Otherwise text is
// parsed first and returned unchanged when it already carries markup beyond a
// single top-level <pre> or an empty body.
func ConvertPlainTextToHTML(text string, forceRaw, escape bool) string {
	if !forceRaw {
		plain, isMarkup := plainTextOf(text)
		if isMarkup {
			return text
		}
		text = plain
	}
	return paragraphs(text, escape)
}

// plainTextOf reports whether text is real markup, and if not, the text to
// convert: the body text, or the contents of a lone <pre>. A body without
// text yields "".
func plainTextOf(text string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text, false
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return text, false
	}
	var elements []*html.Node
	hasText := false
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			elements = append(elements, c)
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				hasText = true
			}
		}
	}
	switch {
	case len(elements) == 0:
		return textContent(body), false
	case len(elements) == 1 && elements[0].DataAtom == atom.Pre && !hasText:
		return textContent(elements[0]), false
	}
	return text, true
}

func paragraphs(text string, escape bool) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out strings.Builder
	var lines []string
	flush := func() {
		if len(lines) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(strings.Join(lines, "<br>"))
		out.WriteString("</p>")
		lines = lines[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		line = strings.TrimRight(line, " \t")
		if escape {
			line = EscapeText(line)
		}
		lines = append(lines, line)
	}
	flush()
	return out.String()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
