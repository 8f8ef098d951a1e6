package core

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

// Main content candidates in priority order. The first match wins, else <body>.
var contentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
	".post-content",
}

// Chrome stripped from the content region before its text is read.
var noiseSelectors = []string{
	"script", "style", "nav", "footer", "header", "aside",
	".sidebar", ".menu", ".navigation",
}

// HTMLParser turns a fetched body into a PageContent.
// It only depends on the HTMLDocument capability, never on a parser's own API.
type HTMLParser struct {
	logger interfaces.Logger
}

// NewHTMLParser creates a new HTML parser
func NewHTMLParser(logger interfaces.Logger) *HTMLParser {
	return &HTMLParser{
		logger: logger,
	}
}

// ParseHTML parses content and extracts every document-derived PageContent field.
// Provenance (status, timings, raw HTML) is left for the caller to fill.
func (p *HTMLParser) ParseHTML(content []byte, pageURL string) (*models.PageContent, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := NewDocument(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	page := p.Extract(doc, base)
	page.URL = pageURL
	return page, nil
}

// Extract reads metadata, headings, content, links, images, JSON-LD and social tags from doc.
func (p *HTMLParser) Extract(doc interfaces.HTMLDocument, base *url.URL) *models.PageContent {
	content := extractMainContent(doc)
	internal, external := p.partitionLinks(doc, base)

	return &models.PageContent{
		URL:             base.String(),
		Title:           firstText(doc, "title"),
		MetaDescription: firstAttr(doc, `meta[name="description"]`, "content"),
		MetaKeywords:    firstAttr(doc, `meta[name="keywords"]`, "content"),
		CanonicalURL:    firstAttr(doc, `link[rel="canonical"]`, "href"),
		H1:              headingTexts(doc, "h1"),
		H2:              headingTexts(doc, "h2"),
		H3:              headingTexts(doc, "h3"),
		Content:         content,
		WordCount:       models.CountWords(content),
		InternalLinks:   internal,
		ExternalLinks:   external,
		Images:          extractImages(doc),
		SchemaJSON:      p.extractSchema(doc),
		OpenGraph:       prefixedMeta(doc, `meta[property^="og:"]`, "property", "og:"),
		TwitterCard:     prefixedMeta(doc, `meta[name^="twitter:"]`, "name", "twitter:"),
	}
}

func firstText(doc interfaces.HTMLDocument, selector string) string {
	el, ok := doc.Query(selector)
	if !ok {
		return ""
	}
	return strings.TrimSpace(el.TextContent())
}

func firstAttr(doc interfaces.HTMLDocument, selector, attr string) string {
	el, ok := doc.Query(selector)
	if !ok {
		return ""
	}
	value, _ := el.Attr(attr)
	return value
}

func headingTexts(doc interfaces.HTMLDocument, tag string) []string {
	texts := []string{}
	for _, el := range doc.QueryAll(tag) {
		if text := strings.TrimSpace(el.TextContent()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// extractMainContent returns the collapsed visible text of the main content region.
func extractMainContent(doc interfaces.HTMLDocument) string {
	region := doc.Body()
	for _, selector := range contentSelectors {
		if el, ok := doc.Query(selector); ok {
			region = el
			break
		}
	}

	cleaned := region.CloneWithout(noiseSelectors...)
	return collapseWhitespace(cleaned.TextContent())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// partitionLinks splits anchors into internal and external absolute URLs,
// each de-duplicated in first-seen order.
func (p *HTMLParser) partitionLinks(doc interfaces.HTMLDocument, base *url.URL) ([]string, []string) {
	internal := newOrderedSet()
	external := newOrderedSet()
	baseHost := strings.ToLower(base.Hostname())

	for _, a := range doc.QueryAll("a[href]") {
		href, _ := a.Attr("href")
		link, ok := resolveLink(base, href)
		if !ok {
			p.logger.Debug("Skipping link", "href", href)
			continue
		}

		if link.Hostname() == baseHost {
			internal.add(link.String())
		} else {
			external.add(link.String())
		}
	}

	return internal.items, external.items
}

// resolveLink resolves href against base. Anything that is not an absolute
// http(s) URL with a host afterwards (mailto:, javascript:, garbage) is
// rejected with ok=false.
func resolveLink(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, false
	}

	link := base.ResolveReference(ref)
	if link.Scheme != "http" && link.Scheme != "https" {
		return nil, false
	}
	if link.Hostname() == "" {
		return nil, false
	}

	link.Host = strings.ToLower(link.Host)
	if link.Path == "" && link.Opaque == "" {
		link.Path = "/"
	}
	return link, true
}

func extractImages(doc interfaces.HTMLDocument) []models.Image {
	images := []models.Image{}
	for _, img := range doc.QueryAll("img") {
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		width, _ := img.Attr("width")
		height, _ := img.Attr("height")
		images = append(images, models.Image{
			Src:    src,
			Alt:    alt,
			Width:  width,
			Height: height,
		})
	}
	return images
}

func (p *HTMLParser) extractSchema(doc interfaces.HTMLDocument) []models.SchemaBlock {
	blocks := []models.SchemaBlock{}
	for _, script := range doc.QueryAll(`script[type="application/ld+json"]`) {
		block, ok := parseSchemaBlock(script.TextContent())
		if !ok {
			p.logger.Debug("Skipping invalid JSON-LD block")
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// parseSchemaBlock decodes one JSON-LD script body. Invalid JSON yields ok=false
// and the block is dropped without failing the page.
func parseSchemaBlock(raw string) (models.SchemaBlock, bool) {
	block, err := models.ParseSchemaBlock([]byte(strings.TrimSpace(raw)))
	if err != nil {
		return models.SchemaBlock{}, false
	}
	return block, true
}

// prefixedMeta maps meta tags whose attr starts with prefix to their content,
// keyed by the remainder of attr. Tags with nothing after the prefix are ignored.
func prefixedMeta(doc interfaces.HTMLDocument, selector, attr, prefix string) map[string]string {
	tags := map[string]string{}
	for _, meta := range doc.QueryAll(selector) {
		name, _ := meta.Attr(attr)
		key := strings.TrimPrefix(name, prefix)
		if key == "" {
			continue
		}
		content, _ := meta.Attr("content")
		tags[key] = content
	}
	return tags
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
