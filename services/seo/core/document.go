package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aureonone/seo-audit/pkg/interfaces"
	"golang.org/x/net/html"
)

// goqueryDocument adapts a parsed x/net/html tree to interfaces.HTMLDocument.
type goqueryDocument struct {
	doc *goquery.Document
}

type goqueryElement struct {
	sel *goquery.Selection
}

// NewDocument parses r as HTML. The tokenizer is lenient, so errors come only from reading r.
func NewDocument(r io.Reader) (interfaces.HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &goqueryDocument{doc: goquery.NewDocumentFromNode(root)}, nil
}

func (d *goqueryDocument) QueryAll(selector string) []interfaces.HTMLElement {
	return wrapSelection(d.doc.Find(selector))
}

func (d *goqueryDocument) Query(selector string) (interfaces.HTMLElement, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &goqueryElement{sel: sel}, true
}

// Body always exists: the HTML5 parser synthesizes one for fragments.
func (d *goqueryDocument) Body() interfaces.HTMLElement {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return &goqueryElement{sel: d.doc.Selection}
	}
	return &goqueryElement{sel: body}
}

func (e *goqueryElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *goqueryElement) TextContent() string {
	return e.sel.Text()
}

func (e *goqueryElement) QueryAll(selector string) []interfaces.HTMLElement {
	return wrapSelection(e.sel.Find(selector))
}

func (e *goqueryElement) CloneWithout(selectors ...string) interfaces.HTMLElement {
	clone := e.sel.Clone()
	if len(selectors) > 0 {
		clone.Find(strings.Join(selectors, ", ")).Remove()
	}
	return &goqueryElement{sel: clone}
}

func wrapSelection(sel *goquery.Selection) []interfaces.HTMLElement {
	elements := make([]interfaces.HTMLElement, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &goqueryElement{sel: s})
	})
	return elements
}

var _ interfaces.HTMLDocument = (*goqueryDocument)(nil)
var _ interfaces.HTMLElement = (*goqueryElement)(nil)
