package normalize

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// TextFromHTML renders upstream comment markup as plain text
// <p> starts a new paragraph, <br> breaks a line, entities are decoded and other tags dropped
func TextFromHTML(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) { insertTextBefore(sel, "\n") })
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) { insertTextBefore(sel, "\n\n") })

	return tidyLines(doc.Find("body").Text())
}

func insertTextBefore(sel *goquery.Selection, text string) {
	for _, n := range sel.Nodes {
		if n.Parent != nil {
			n.Parent.InsertBefore(&xhtml.Node{Type: xhtml.TextNode, Data: text}, n)
		}
	}
}

// tidyLines trims trailing blanks on every line and keeps at most one empty line between paragraphs
func tidyLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t\r")
		if ln == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}
