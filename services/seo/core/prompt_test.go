package core

import (
	"strings"
	"testing"

	"github.com/aureonone/seo-audit/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildSEOPrompt(t *testing.T) {
	page := pageWith(func(p *models.PageContent) {
		p.MetaDescription = ""
		p.H2 = []string{"one", "two", "three"}
		p.Images = []models.Image{{Src: "a", Alt: "x"}, {Src: "b"}}
		p.LoadTimeMs = 1234
	})
	analysis := AnalyzePageSeo(page)

	prompt := BuildSEOPrompt(page, analysis)

	for _, want := range []string{
		"URL: https://acme.test/widgets\n",
		`Title: "Handmade Industrial Widgets for Makers and Studios" (50 chars)`,
		`Meta Description: "" (0 chars)`,
		"H1 Tags: Industrial Widgets\n",
		"H2 Tags: 3 found\n",
		"Word Count: 800\n",
		"Internal Links: 3\n",
		"External Links: 1\n",
		"Images: 2 (1 with alt text)\n",
		"Has Schema Markup: Yes\n",
		"Has Open Graph: Yes\n",
		"Has Canonical: Yes\n",
		"Load Time: 1234ms\n",
		"ALREADY IDENTIFIED ISSUES:\nMissing meta description\n1 images missing alt text\n",
		"ALREADY IDENTIFIED SUGGESTIONS:\n",
		`"passedAudits": ["Has title tag", "Uses HTTPS", "Has H1 heading"]`,
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildSEOPrompt_MissingH1AndLongContent(t *testing.T) {
	page := pageWith(func(p *models.PageContent) {
		p.H1 = nil
		p.SchemaJSON = nil
		p.Content = strings.Repeat("ü", 1500)
	})

	prompt := BuildSEOPrompt(page, AnalyzePageSeo(page))

	assert.Contains(t, prompt, "H1 Tags: MISSING\n")
	assert.Contains(t, prompt, "Has Schema Markup: No\n")
	assert.Contains(t, prompt, "Content Preview:\n"+strings.Repeat("ü", 1000)+"\n\n")
	assert.NotContains(t, prompt, strings.Repeat("ü", 1001))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, "", truncateRunes("", 2))
}
