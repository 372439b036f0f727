package daisy

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/textutil"
)

// NCC is the parsed navigation control center document of a DAISY 2.02
// book. It yields the ordered heading entries and so implements
// nav.NavigationSource.
type NCC struct {
	Title   string
	entries []nav.Entry
}

// Entries returns the document's heading entries in document order.
func (n *NCC) Entries() []nav.Entry { return n.entries }

// ParseNCC reads an NCC document. Heading elements h1 through h6 become
// entries; the SMIL reference is taken from the first anchor inside each
// heading and the entry id from the heading's own id attribute, falling
// back to the anchor's.
func ParseNCC(r io.Reader) (*NCC, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse ncc: %w", err)
	}

	ncc := &NCC{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "title" && ncc.Title == "":
				ncc.Title = cleanText(textContent(n))
				return
			case headingLevel(n.Data) > 0:
				ncc.entries = append(ncc.entries, headingEntry(n, headingLevel(n.Data)))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ncc, nil
}

func headingEntry(n *html.Node, level int) nav.Entry {
	entry := nav.Entry{
		ID:    attrValue(n, "id"),
		Level: level,
	}
	if a := findAnchor(n); a != nil {
		entry.Href = strings.TrimSpace(attrValue(a, "href"))
		entry.Title = cleanText(textContent(a))
		if entry.ID == "" {
			entry.ID = attrValue(a, "id")
		}
	}
	if entry.Title == "" {
		entry.Title = cleanText(textContent(n))
	}
	if entry.ID == "" {
		// Last resort: the SMIL fragment is unique per heading.
		_, frag, _ := strings.Cut(entry.Href, "#")
		entry.ID = frag
	}
	return entry
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func findAnchor(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			return c
		}
		if found := findAnchor(c); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return b.String()
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func cleanText(s string) string {
	return textutil.CollapseWhitespace(norm.NFC.String(s))
}
