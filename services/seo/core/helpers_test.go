package core

import (
	"strings"
	"time"

	"github.com/aureonone/seo-audit/pkg/models"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func mustSchema(raw string) models.SchemaBlock {
	block, err := models.ParseSchemaBlock([]byte(raw))
	if err != nil {
		panic(err)
	}
	return block
}

// wellOptimizedPage scores 100 on every factor.
func wellOptimizedPage() *models.PageContent {
	content := words(800)
	return &models.PageContent{
		URL:             "https://acme.test/widgets",
		Title:           "Handmade Industrial Widgets for Makers and Studios",
		MetaDescription: strings.Repeat("d", 150),
		CanonicalURL:    "https://acme.test/widgets",
		H1:              []string{"Industrial Widgets"},
		H2:              []string{"Why ours", "Pricing"},
		H3:              []string{"Steel"},
		Content:         content,
		WordCount:       models.CountWords(content),
		InternalLinks:   []string{"https://acme.test/a", "https://acme.test/b", "https://acme.test/c"},
		ExternalLinks:   []string{"https://other.test/"},
		Images: []models.Image{
			{Src: "/a.png", Alt: "A widget"},
			{Src: "/b.png", Alt: "Another widget"},
		},
		SchemaJSON:  []models.SchemaBlock{mustSchema(`{"@context":"https://schema.org","@type":"Product"}`)},
		OpenGraph:   map[string]string{"title": "Widgets"},
		TwitterCard: map[string]string{"card": "summary"},
		FetchedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		StatusCode:  200,
		LoadTimeMs:  400,
	}
}

func pageWith(mutate func(*models.PageContent)) *models.PageContent {
	page := wellOptimizedPage()
	mutate(page)
	return page
}
