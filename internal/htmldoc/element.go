package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element is one node of a parsed HTML document.
type Element struct {
	sel *goquery.Selection
	doc *goquery.Document
}

// Parse reads an HTML page and returns its document element.
func Parse(r io.Reader) (Element, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Element{}, fmt.Errorf("failed to parse html: %w", err)
	}
	return Element{sel: doc.Selection, doc: doc}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (Element, error) {
	return Parse(strings.NewReader(s))
}

// Exists reports whether the element was found.
func (e Element) Exists() bool {
	return e.sel != nil && e.sel.Length() > 0
}

func (e Element) wrap(sel *goquery.Selection) Element {
	if sel == nil || sel.Length() == 0 {
		return Element{}
	}
	return Element{sel: sel.First(), doc: e.doc}
}

// Find returns the first descendant matching selector.
func (e Element) Find(selector string) Element {
	if !e.Exists() {
		return Element{}
	}
	return e.wrap(e.sel.Find(selector))
}

// FindAll returns every descendant matching selector in document order.
func (e Element) FindAll(selector string) []Element {
	if !e.Exists() {
		return nil
	}
	var out []Element
	e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s, doc: e.doc})
	})
	return out
}

// FindNext returns the nearest element matching selector that follows this
// element in document order.
func (e Element) FindNext(selector string) Element {
	if !e.Exists() || e.doc == nil {
		return Element{}
	}
	matches := make(map[*html.Node]bool)
	for _, n := range e.doc.Find(selector).Nodes {
		matches[n] = true
	}
	for n := nextInDocument(e.sel.Get(0)); n != nil; n = nextInDocument(n) {
		if matches[n] {
			return Element{sel: e.doc.FindNodes(n), doc: e.doc}
		}
	}
	return Element{}
}

func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// Attr returns the value of an attribute and whether it was present.
func (e Element) Attr(name string) (string, bool) {
	if !e.Exists() {
		return "", false
	}
	return e.sel.Attr(name)
}

// AttrOr returns the value of an attribute or def when absent.
func (e Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// Text returns the combined text content of the element and its descendants.
func (e Element) Text() string {
	if !e.Exists() {
		return ""
	}
	return e.sel.Text()
}

// HTML returns the outer HTML of the element.
func (e Element) HTML() (string, error) {
	if !e.Exists() {
		return "", nil
	}
	return goquery.OuterHtml(e.sel)
}

// Markdown converts the element to Markdown-flavoured plain text.
func (e Element) Markdown() (string, error) {
	src, err := e.HTML()
	if err != nil || src == "" {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(src)
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// HasContent reports whether the element has any non-whitespace text or
// child elements.
func (e Element) HasContent() bool {
	if !e.Exists() {
		return false
	}
	return strings.TrimSpace(e.sel.Text()) != "" || e.sel.Children().Length() > 0
}

// WithoutLinks returns a detached copy of the element in which every <a>
// is replaced by its text. The original document is not modified.
func (e Element) WithoutLinks() Element {
	if !e.Exists() {
		return Element{}
	}
	clone := e.sel.Clone()
	for _, a := range clone.Find("a").Nodes {
		if a.Parent == nil {
			continue
		}
		text := &html.Node{Type: html.TextNode, Data: nodeText(a)}
		a.Parent.InsertBefore(text, a)
		a.Parent.RemoveChild(a)
	}
	return Element{sel: clone, doc: nil}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

const standaloneTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title></title>
  </head>
  <body>
  </body>
</html>`

// Standalone renders a minimal complete HTML page whose body holds a copy
// of e.
func Standalone(e Element) ([]byte, error) {
	page, err := html.Parse(strings.NewReader(standaloneTemplate))
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(page)
	if e.Exists() {
		doc.Find("body").AppendSelection(e.sel.Clone())
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render standalone page: %w", err)
	}
	return buf.Bytes(), nil
}
