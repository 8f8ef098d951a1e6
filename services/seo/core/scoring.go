package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aureonone/seo-audit/pkg/models"
)

// Factor weights. They sum to 1.0.
const (
	WeightTitle           = 0.15
	WeightMetaDescription = 0.10
	WeightHeadings        = 0.15
	WeightContent         = 0.20
	WeightInternalLinks   = 0.10
	WeightImages          = 0.08
	WeightSchema          = 0.08
	WeightSocial          = 0.07
	WeightTechnical       = 0.07
)

const (
	// recommendationThreshold: a factor scoring at or above it gets no advice.
	recommendationThreshold = 80
	maxRecommendations      = 3

	congratulationNote = "Great job! Your page is well-optimized. Consider A/B testing titles and meta descriptions."
	defaultAdvice      = "Review and optimize this element."
)

var genericTitleWords = []string{"home", "welcome", "untitled", "page"}

var categoryAdvice = map[models.Category]string{
	models.CategoryTitle:           "Write a unique, descriptive title between 50-60 characters including your target keyword.",
	models.CategoryMetaDescription: "Write a compelling meta description between 150-160 characters with a call to action.",
	models.CategoryHeadings:        "Use a single H1 tag and organize content with H2 and H3 subheadings.",
	models.CategoryContent:         "Add more valuable content. Aim for comprehensive coverage of your topic.",
	models.CategoryInternalLinks:   "Add relevant internal links to help users and search engines navigate your site.",
	models.CategoryImages:          "Add descriptive alt text to all images for accessibility and SEO.",
	models.CategorySchema:          "Add relevant Schema.org markup (Article, Product, FAQ, etc.) using JSON-LD.",
	models.CategorySocial:          "Add Open Graph and Twitter Card meta tags for better social media sharing.",
	models.CategoryTechnical:       "Implement canonical URLs and optimize server response time.",
}

// ComputeSeoScore applies the weighted factor model to a page. Pure and deterministic.
func ComputeSeoScore(page *models.PageContent) *models.SeoScore {
	factors := models.Factors{
		Title:           scoreTitle(page),
		MetaDescription: scoreMetaDescription(page),
		Headings:        scoreHeadings(page),
		Content:         scoreContent(page),
		InternalLinks:   scoreInternalLinks(page),
		Images:          scoreImages(page),
		Schema:          scoreSchema(page),
		Social:          scoreSocial(page),
		Technical:       scoreTechnical(page),
	}

	entries := factors.Each()

	var weighted float64
	for _, entry := range entries {
		weighted += float64(entry.Factor.Score) * entry.Factor.Weight
	}
	overall := int(math.Round(weighted))

	return &models.SeoScore{
		Overall:         overall,
		Factors:         factors,
		Issues:          collectIssues(entries),
		Recommendations: buildRecommendations(entries, overall),
		Grade:           GradeFor(overall),
	}
}

// GradeFor maps an overall score to its letter grade. Lower bounds are inclusive.
func GradeFor(overall int) models.Grade {
	switch {
	case overall >= 90:
		return models.GradeA
	case overall >= 80:
		return models.GradeB
	case overall >= 70:
		return models.GradeC
	case overall >= 50:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// SeverityFor derives an issue's severity from the score of the factor that raised it.
func SeverityFor(factorScore int) models.Severity {
	switch {
	case factorScore < 30:
		return models.SeverityCritical
	case factorScore < 60:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// AdviceFor returns the fixed recommendation for a category.
func AdviceFor(category models.Category) string {
	if advice, ok := categoryAdvice[category]; ok {
		return advice
	}
	return defaultAdvice
}

func collectIssues(entries []models.CategoryFactor) []models.ScoredIssue {
	issues := []models.ScoredIssue{}
	for _, entry := range entries {
		severity := SeverityFor(entry.Factor.Score)
		for _, message := range entry.Factor.Issues {
			issues = append(issues, models.ScoredIssue{
				Severity:       severity,
				Category:       entry.Category,
				Message:        message,
				Recommendation: AdviceFor(entry.Category),
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
	return issues
}

func buildRecommendations(entries []models.CategoryFactor, overall int) []string {
	ranked := make([]models.CategoryFactor, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Factor.Score < ranked[j].Factor.Score
	})
	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}

	recommendations := []string{}
	if overall >= 90 {
		recommendations = append(recommendations, congratulationNote)
	}
	for _, entry := range ranked {
		if entry.Factor.Score < recommendationThreshold {
			recommendations = append(recommendations, AdviceFor(entry.Category))
		}
	}
	return recommendations
}

func newFactor(score int, weight float64, issues []string) models.Factor {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return models.Factor{Score: score, Weight: weight, Issues: issues}
}

func scoreTitle(page *models.PageContent) models.Factor {
	issues := []string{}
	if strings.TrimSpace(page.Title) == "" {
		return newFactor(0, WeightTitle, append(issues, "Missing title tag"))
	}

	score := 100
	length := utf8.RuneCountInString(page.Title)
	switch {
	case length < 30:
		score -= 30
		issues = append(issues, fmt.Sprintf("Title too short (%d chars). Aim for 50-60 characters.", length))
	case length > 60:
		score -= 20
		issues = append(issues, fmt.Sprintf("Title too long (%d chars). May be truncated in search results.", length))
	}

	lower := strings.ToLower(page.Title)
	for _, word := range genericTitleWords {
		if strings.Contains(lower, word) {
			score -= 20
			issues = append(issues, "Title appears generic. Use descriptive, keyword-rich title.")
			break
		}
	}

	return newFactor(score, WeightTitle, issues)
}

func scoreMetaDescription(page *models.PageContent) models.Factor {
	issues := []string{}
	if strings.TrimSpace(page.MetaDescription) == "" {
		return newFactor(0, WeightMetaDescription, append(issues, "Missing meta description"))
	}

	score := 100
	length := utf8.RuneCountInString(page.MetaDescription)
	switch {
	case length < 120:
		score -= 25
		issues = append(issues, fmt.Sprintf("Meta description too short (%d chars). Aim for 150-160.", length))
	case length > 160:
		score -= 15
		issues = append(issues, fmt.Sprintf("Meta description too long (%d chars). Will be truncated.", length))
	}

	return newFactor(score, WeightMetaDescription, issues)
}

func scoreHeadings(page *models.PageContent) models.Factor {
	issues := []string{}
	score := 100

	switch h1Count := len(page.H1); {
	case h1Count == 0:
		score -= 40
		issues = append(issues, "Missing H1 heading")
	case h1Count > 1:
		score -= 20
		issues = append(issues, fmt.Sprintf("Multiple H1 tags (%d). Use only one H1 per page.", h1Count))
	}

	if len(page.H2) == 0 {
		score -= 20
		issues = append(issues, "No H2 subheadings. Add structure with H2 tags.")

		if len(page.H3) > 0 {
			score -= 15
			issues = append(issues, "H3 without H2. Maintain proper heading hierarchy.")
		}
	}

	return newFactor(score, WeightHeadings, issues)
}

// Content bands assign a score outright; they are not cumulative penalties.
func scoreContent(page *models.PageContent) models.Factor {
	words := page.WordCount
	switch {
	case words < 100:
		return newFactor(20, WeightContent, []string{fmt.Sprintf("Very thin content (%d words). Aim for 500+ words.", words)})
	case words < 300:
		return newFactor(50, WeightContent, []string{fmt.Sprintf("Thin content (%d words). Consider adding more depth.", words)})
	case words < 500:
		return newFactor(70, WeightContent, []string{fmt.Sprintf("Content could be longer (%d words). 800+ is optimal.", words)})
	default:
		return newFactor(100, WeightContent, []string{})
	}
}

func scoreInternalLinks(page *models.PageContent) models.Factor {
	switch n := len(page.InternalLinks); {
	case n == 0:
		return newFactor(30, WeightInternalLinks, []string{"No internal links found. Add links to other pages."})
	case n < 3:
		return newFactor(60, WeightInternalLinks, []string{fmt.Sprintf("Few internal links (%d). Add more for better navigation.", n)})
	default:
		return newFactor(100, WeightInternalLinks, []string{})
	}
}

func scoreImages(page *models.PageContent) models.Factor {
	total := len(page.Images)
	if total == 0 {
		return newFactor(70, WeightImages, []string{"No images found. Consider adding relevant visuals."})
	}

	missing := 0
	for _, img := range page.Images {
		if strings.TrimSpace(img.Alt) == "" {
			missing++
		}
	}
	if missing == 0 {
		return newFactor(100, WeightImages, []string{})
	}

	ratio := float64(missing) / float64(total)
	percentage := int(math.Round(ratio * 100))
	score := 100 - int(math.Round(0.8*ratio*100))

	return newFactor(score, WeightImages, []string{
		fmt.Sprintf("%d images missing alt text (%d%%).", missing, percentage),
	})
}

func scoreSchema(page *models.PageContent) models.Factor {
	if len(page.SchemaJSON) == 0 {
		return newFactor(40, WeightSchema, []string{"No structured data (JSON-LD) found. Add schema markup."})
	}
	return newFactor(100, WeightSchema, []string{})
}

func scoreSocial(page *models.PageContent) models.Factor {
	issues := []string{}
	score := 100

	if len(page.OpenGraph) == 0 {
		score -= 40
		issues = append(issues, "Missing Open Graph tags for social sharing.")
	}
	if len(page.TwitterCard) == 0 {
		score -= 20
		issues = append(issues, "Missing Twitter Card meta tags.")
	}

	return newFactor(score, WeightSocial, issues)
}

func scoreTechnical(page *models.PageContent) models.Factor {
	issues := []string{}
	score := 100

	if page.CanonicalURL == "" {
		score -= 30
		issues = append(issues, "No canonical URL specified.")
	}

	switch {
	case page.LoadTimeMs > 3000:
		score -= 30
		issues = append(issues, fmt.Sprintf("Slow initial response (%dms).", page.LoadTimeMs))
	case page.LoadTimeMs > 1500:
		score -= 15
		issues = append(issues, fmt.Sprintf("Response time could be improved (%dms).", page.LoadTimeMs))
	}

	return newFactor(score, WeightTechnical, issues)
}
