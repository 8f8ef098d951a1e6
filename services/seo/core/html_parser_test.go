package core

import (
	"net/url"
	"strings"
	"testing"

	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/aureonone/seo-audit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Acme Widgets | Handmade Industrial Widgets for Makers  </title>
  <meta name="description" content="Durable widgets made by hand.">
  <meta name="keywords" content="widgets, acme">
  <link rel="canonical" href="https://acme.test/widgets">
  <meta property="og:title" content="Acme">
  <meta property="og:image" content="https://acme.test/og.png">
  <meta property="og:" content="ignored">
  <meta name="twitter:card" content="summary">
  <script type="application/ld+json">{"@context":"https://schema.org","@type":["Product","Thing"],"name":"Widget"}</script>
  <script type="application/ld+json">{not json</script>
  <script type="application/ld+json">[{"@type":"Organization"}]</script>
</head>
<body>
  <nav><a href="/about">About</a></nav>
  <main>
    <h1>Widgets</h1>
    <h2>Features</h2>
    <h2>   </h2>
    <p>Strong   durable
       widgets.</p>
    <script>var tracking = 1;</script>
    <aside>Related stuff</aside>
    <div class="sidebar">Sidebar text</div>
    <h3>Details</h3>
    <img src="/a.png" alt="A widget" width="100" height="50">
    <img src="/b.png">
    <a href="/products">Products</a>
    <a href="https://ACME.test/products">Products again</a>
    <a href="https://other.test">Other</a>
    <a href="//cdn.other.test/x">CDN</a>
    <a href="mailto:hi@acme.test">Mail</a>
    <a href="javascript:void(0)">JS</a>
    <a href="http://[::1">bad</a>
    <a href="#top">Top</a>
  </main>
  <footer>Footer text</footer>
</body>
</html>`

func TestHTMLParser_ParseHTML(t *testing.T) {
	parser := NewHTMLParser(logger.Discard())

	page, err := parser.ParseHTML([]byte(fixturePage), "https://acme.test/widgets")
	require.NoError(t, err)

	assert.Equal(t, "https://acme.test/widgets", page.URL)
	assert.Equal(t, "Acme Widgets | Handmade Industrial Widgets for Makers", page.Title)
	assert.Equal(t, "Durable widgets made by hand.", page.MetaDescription)
	assert.Equal(t, "widgets, acme", page.MetaKeywords)
	assert.Equal(t, "https://acme.test/widgets", page.CanonicalURL)

	assert.Equal(t, []string{"Widgets"}, page.H1)
	assert.Equal(t, []string{"Features"}, page.H2)
	assert.Equal(t, []string{"Details"}, page.H3)

	assert.Equal(t, "Widgets Features Strong durable widgets. Details Products Products again Other CDN Mail JS bad Top", page.Content)
	assert.Equal(t, 15, page.WordCount)
	assert.Equal(t, models.CountWords(page.Content), page.WordCount)

	assert.Equal(t, []string{
		"https://acme.test/about",
		"https://acme.test/products",
		"https://acme.test/widgets#top",
	}, page.InternalLinks)
	assert.Equal(t, []string{
		"https://other.test/",
		"https://cdn.other.test/x",
	}, page.ExternalLinks)

	assert.Equal(t, []models.Image{
		{Src: "/a.png", Alt: "A widget", Width: "100", Height: "50"},
		{Src: "/b.png"},
	}, page.Images)

	require.Len(t, page.SchemaJSON, 2)
	assert.Equal(t, []string{"Product", "Thing"}, page.SchemaJSON[0].Types)
	assert.Equal(t, "https://schema.org", page.SchemaJSON[0].Context)
	assert.Empty(t, page.SchemaJSON[1].Types)

	assert.Equal(t, map[string]string{"title": "Acme", "image": "https://acme.test/og.png"}, page.OpenGraph)
	assert.Equal(t, map[string]string{"card": "summary"}, page.TwitterCard)
}

func TestHTMLParser_ParseHTML_InvalidBaseURL(t *testing.T) {
	parser := NewHTMLParser(logger.Discard())

	_, err := parser.ParseHTML([]byte("<html></html>"), "http://[::1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page URL")
}

func TestHTMLParser_EmptyDocument(t *testing.T) {
	parser := NewHTMLParser(logger.Discard())

	page, err := parser.ParseHTML([]byte(""), "https://acme.test/")
	require.NoError(t, err)

	assert.Equal(t, "", page.Title)
	assert.Equal(t, "", page.MetaDescription)
	assert.Equal(t, "", page.CanonicalURL)
	assert.Empty(t, page.H1)
	assert.NotNil(t, page.H1)
	assert.Equal(t, "", page.Content)
	assert.Equal(t, 0, page.WordCount)
	assert.NotNil(t, page.InternalLinks)
	assert.NotNil(t, page.ExternalLinks)
	assert.NotNil(t, page.Images)
	assert.NotNil(t, page.SchemaJSON)
	assert.NotNil(t, page.OpenGraph)
	assert.NotNil(t, page.TwitterCard)
}

func TestExtractMainContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "selector priority beats document order",
			body: `<div class="content">Secondary</div><article>Primary text</article>`,
			want: "Primary text",
		},
		{
			name: "role main",
			body: `<div role="main">Role region</div><div id="content">Id region</div>`,
			want: "Role region",
		},
		{
			name: "post content class",
			body: `<div class="post-content">Post body</div><p>outside</p>`,
			want: "Post body",
		},
		{
			name: "falls back to body without chrome",
			body: `<header>Logo</header><nav>Menu</nav><p>Body   copy</p><ul class="menu"><li>x</li></ul><footer>Legal</footer>`,
			want: "Body copy",
		},
		{
			name: "style and navigation class removed",
			body: `<main><style>p{color:red}</style><div class="navigation">Nav</div><p>Kept</p></main>`,
			want: "Kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(strings.NewReader("<html><body>" + tt.body + "</body></html>"))
			require.NoError(t, err)

			assert.Equal(t, tt.want, extractMainContent(doc))
		})
	}
}

func TestExtractMainContent_LeavesDocumentIntact(t *testing.T) {
	doc, err := NewDocument(strings.NewReader(`<html><body><main><script>x()</script><p>Text</p></main></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Text", extractMainContent(doc))
	assert.Len(t, doc.QueryAll("main script"), 1)
}

func TestResolveLink(t *testing.T) {
	base, err := url.Parse("https://Example.com/blog/post")
	require.NoError(t, err)

	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{"/about", "https://example.com/about", true},
		{"next", "https://example.com/blog/next", true},
		{"https://OTHER.com", "https://other.com/", true},
		{"//cdn.example.net/lib.js", "https://cdn.example.net/lib.js", true},
		{"  /trimmed  ", "https://example.com/trimmed", true},
		{"?page=2", "https://example.com/blog/post?page=2", true},
		{"mailto:team@example.com", "", false},
		{"tel:+15551234", "", false},
		{"javascript:void(0)", "", false},
		{"ftp://files.example.com/a", "", false},
		{"http://[::1", "", false},
		{"http://", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := resolveLink(base, tt.href)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestPartitionLinks_Disjoint(t *testing.T) {
	parser := NewHTMLParser(logger.Discard())

	page, err := parser.ParseHTML([]byte(fixturePage), "https://acme.test/widgets")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, link := range page.InternalLinks {
		seen[link] = true
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Contains(t, []string{"http", "https"}, u.Scheme)
		assert.True(t, u.IsAbs())
	}
	for _, link := range page.ExternalLinks {
		assert.False(t, seen[link], "link %s is both internal and external", link)
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Contains(t, []string{"http", "https"}, u.Scheme)
	}
}

func TestParseSchemaBlock(t *testing.T) {
	block, ok := parseSchemaBlock(`  {"@type": "Article"}  `)
	assert.True(t, ok)
	assert.Equal(t, "Article", block.PrimaryType())

	_, ok = parseSchemaBlock(`{"@type": `)
	assert.False(t, ok)

	_, ok = parseSchemaBlock("")
	assert.False(t, ok)
}

func TestPrefixedMeta(t *testing.T) {
	doc, err := NewDocument(strings.NewReader(`<html><head>
		<meta property="og:type" content="website">
		<meta property="og:locale">
		<meta name="twitter:site" content="@acme">
		<meta name="description" content="not social">
	</head></html>`))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"type": "website", "locale": ""},
		prefixedMeta(doc, `meta[property^="og:"]`, "property", "og:"))
	assert.Equal(t, map[string]string{"site": "@acme"},
		prefixedMeta(doc, `meta[name^="twitter:"]`, "name", "twitter:"))
}
