package core

import (
	"fmt"
	"unicode/utf8"

	"github.com/aureonone/seo-audit/pkg/models"
)

// AnalyzePageSeo derives the basic signal summary of a page. It is pure and never fails.
func AnalyzePageSeo(page *models.PageContent) *models.PageAnalysis {
	issues := []string{}
	suggestions := []string{}

	titleLength := utf8.RuneCountInString(page.Title)
	switch {
	case page.Title == "":
		issues = append(issues, "Missing page title")
	case titleLength < 30:
		suggestions = append(suggestions, "Title is too short (< 30 chars). Aim for 50-60 characters.")
	case titleLength > 60:
		suggestions = append(suggestions, "Title is too long (> 60 chars). It may be truncated in search results.")
	}

	descriptionLength := utf8.RuneCountInString(page.MetaDescription)
	switch {
	case page.MetaDescription == "":
		issues = append(issues, "Missing meta description")
	case descriptionLength < 120:
		suggestions = append(suggestions, "Meta description is short. Aim for 150-160 characters.")
	case descriptionLength > 160:
		suggestions = append(suggestions, "Meta description is long and may be truncated.")
	}

	switch h1Count := len(page.H1); {
	case h1Count == 0:
		issues = append(issues, "Missing H1 heading")
	case h1Count > 1:
		suggestions = append(suggestions, fmt.Sprintf("Multiple H1 headings found (%d). Consider using only one.", h1Count))
	}

	switch {
	case page.WordCount < 300:
		issues = append(issues, fmt.Sprintf("Thin content: only %d words. Aim for 500+ words.", page.WordCount))
	case page.WordCount < 500:
		suggestions = append(suggestions, fmt.Sprintf("Content is somewhat thin (%d words). Consider expanding.", page.WordCount))
	}

	if page.CanonicalURL == "" {
		suggestions = append(suggestions, "No canonical URL specified. Add one to prevent duplicate content issues.")
	}

	if len(page.SchemaJSON) == 0 {
		suggestions = append(suggestions, "No structured data (JSON-LD) found. Add schema markup for better visibility.")
	}

	imagesWithAlt := countImagesWithAlt(page.Images)
	if missing := len(page.Images) - imagesWithAlt; missing > 0 {
		issues = append(issues, fmt.Sprintf("%d images missing alt text", missing))
	}

	if len(page.InternalLinks) < 3 {
		suggestions = append(suggestions, "Few internal links. Add more to improve site navigation and SEO.")
	}

	if len(page.OpenGraph) == 0 {
		suggestions = append(suggestions, "No Open Graph meta tags. Add them for better social media sharing.")
	}

	return &models.PageAnalysis{
		URL: page.URL,
		SeoSignals: models.SeoSignals{
			HasTitle:              page.Title != "",
			TitleLength:           titleLength,
			HasMetaDescription:    page.MetaDescription != "",
			MetaDescriptionLength: descriptionLength,
			HasH1:                 len(page.H1) > 0,
			H1Count:               len(page.H1),
			HasCanonical:          page.CanonicalURL != "",
			HasSchema:             len(page.SchemaJSON) > 0,
			SchemaTypes:           schemaTypes(page.SchemaJSON),
			HasOpenGraph:          len(page.OpenGraph) > 0,
			HasTwitterCard:        len(page.TwitterCard) > 0,
			ImageCount:            len(page.Images),
			ImagesWithAlt:         imagesWithAlt,
			InternalLinkCount:     len(page.InternalLinks),
			ExternalLinkCount:     len(page.ExternalLinks),
			WordCount:             page.WordCount,
		},
		Issues:      issues,
		Suggestions: suggestions,
	}
}

// countImagesWithAlt counts images whose alt attribute is non-empty, whitespace included.
func countImagesWithAlt(images []models.Image) int {
	n := 0
	for _, img := range images {
		if img.Alt != "" {
			n++
		}
	}
	return n
}

func schemaTypes(blocks []models.SchemaBlock) []string {
	types := []string{}
	for _, block := range blocks {
		if t := block.PrimaryType(); t != "" {
			types = append(types, t)
		}
	}
	return types
}
