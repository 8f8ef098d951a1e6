package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aureonone/seo-audit/pkg/models"
)

const (
	// SEOSystemPrompt frames the model as an analyst that answers in JSON only.
	SEOSystemPrompt = "You are an expert SEO analyst. Provide accurate, actionable SEO audits. Always respond with valid JSON only."

	contentPreviewChars = 1000
)

const responseFormatExample = `{
  "overallScore": 75,
  "performanceScore": 70,
  "seoScore": 80,
  "accessibilityScore": 75,
  "bestPracticesScore": 70,
  "coreWebVitals": {
    "lcp": { "value": 2.5, "score": "good" },
    "fid": { "value": 100, "score": "good" },
    "cls": { "value": 0.1, "score": "good" },
    "fcp": { "value": 1.8, "score": "good" },
    "ttfb": { "value": 600, "score": "needs-improvement" }
  },
  "issues": [
    {
      "id": "missing-meta-description",
      "severity": "critical",
      "title": "Missing Meta Description",
      "description": "The page lacks a meta description",
      "recommendation": "Add a compelling meta description of 150-160 characters"
    }
  ],
  "opportunities": [
    {
      "id": "optimize-images",
      "title": "Optimize Images",
      "description": "Several images could be compressed",
      "potentialSavings": "Reduce load time by ~500ms"
    }
  ],
  "passedAudits": ["Has title tag", "Uses HTTPS", "Has H1 heading"]
}`

// BuildSEOPrompt renders the grounding context handed to the model as the user message.
// Everything in it is bounded: headings are counted, content is cut to a fixed preview.
func BuildSEOPrompt(page *models.PageContent, analysis *models.PageAnalysis) string {
	signals := analysis.SeoSignals

	h1 := "MISSING"
	if len(page.H1) > 0 {
		h1 = strings.Join(page.H1, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an expert SEO analyst. Analyze this web page and provide a comprehensive SEO audit.\n\n")

	b.WriteString("PAGE DATA:\n")
	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	fmt.Fprintf(&b, "Title: %q (%d chars)\n", page.Title, utf8.RuneCountInString(page.Title))
	fmt.Fprintf(&b, "Meta Description: %q (%d chars)\n", page.MetaDescription, utf8.RuneCountInString(page.MetaDescription))
	fmt.Fprintf(&b, "H1 Tags: %s\n", h1)
	fmt.Fprintf(&b, "H2 Tags: %d found\n", len(page.H2))
	fmt.Fprintf(&b, "Word Count: %d\n", page.WordCount)
	fmt.Fprintf(&b, "Internal Links: %d\n", signals.InternalLinkCount)
	fmt.Fprintf(&b, "External Links: %d\n", signals.ExternalLinkCount)
	fmt.Fprintf(&b, "Images: %d (%d with alt text)\n", signals.ImageCount, signals.ImagesWithAlt)
	fmt.Fprintf(&b, "Has Schema Markup: %s\n", yesNo(signals.HasSchema))
	fmt.Fprintf(&b, "Has Open Graph: %s\n", yesNo(signals.HasOpenGraph))
	fmt.Fprintf(&b, "Has Canonical: %s\n", yesNo(signals.HasCanonical))
	fmt.Fprintf(&b, "Load Time: %dms\n\n", page.LoadTimeMs)

	b.WriteString("Content Preview:\n")
	b.WriteString(truncateRunes(page.Content, contentPreviewChars))
	b.WriteString("\n\n")

	b.WriteString("ALREADY IDENTIFIED ISSUES:\n")
	b.WriteString(strings.Join(analysis.Issues, "\n"))
	b.WriteString("\n\n")

	b.WriteString("ALREADY IDENTIFIED SUGGESTIONS:\n")
	b.WriteString(strings.Join(analysis.Suggestions, "\n"))
	b.WriteString("\n\n")

	b.WriteString(`Based on this data, provide:
1. Overall SEO score (0-100)
2. Performance score estimate (0-100)
3. Accessibility score estimate (0-100)
4. Best practices score estimate (0-100)
5. Core Web Vitals estimates (LCP, FID, CLS, FCP, TTFB)
6. Critical issues that need immediate attention
7. Optimization opportunities with potential impact
8. What's passing/good about the page

Respond in this exact JSON format:
`)
	b.WriteString(responseFormatExample)

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
