package models

import "time"

// PageAnalysis is the basic signal summary derived 1:1 from a PageContent.
type PageAnalysis struct {
	URL         string     `json:"url"`
	SeoSignals  SeoSignals `json:"seoSignals"`
	Issues      []string   `json:"issues"`
	Suggestions []string   `json:"suggestions"`
}

type SeoSignals struct {
	HasTitle              bool     `json:"hasTitle"`
	TitleLength           int      `json:"titleLength"`
	HasMetaDescription    bool     `json:"hasMetaDescription"`
	MetaDescriptionLength int      `json:"metaDescriptionLength"`
	HasH1                 bool     `json:"hasH1"`
	H1Count               int      `json:"h1Count"`
	HasCanonical          bool     `json:"hasCanonical"`
	HasSchema             bool     `json:"hasSchema"`
	SchemaTypes           []string `json:"schemaTypes"`
	HasOpenGraph          bool     `json:"hasOpenGraph"`
	HasTwitterCard        bool     `json:"hasTwitterCard"`
	ImageCount            int      `json:"imageCount"`
	ImagesWithAlt         int      `json:"imagesWithAlt"`
	InternalLinkCount     int      `json:"internalLinkCount"`
	ExternalLinkCount     int      `json:"externalLinkCount"`
	WordCount             int      `json:"wordCount"`
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities critical first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Category names one of the nine scoring factors.
type Category string

const (
	CategoryTitle           Category = "title"
	CategoryMetaDescription Category = "metaDescription"
	CategoryHeadings        Category = "headings"
	CategoryContent         Category = "content"
	CategoryInternalLinks   Category = "internalLinks"
	CategoryImages          Category = "images"
	CategorySchema          Category = "schema"
	CategorySocial          Category = "social"
	CategoryTechnical       Category = "technical"
)

type Factor struct {
	Score  int      `json:"score"`
	Weight float64  `json:"weight"`
	Issues []string `json:"issues"`
}

type Factors struct {
	Title           Factor `json:"title"`
	MetaDescription Factor `json:"metaDescription"`
	Headings        Factor `json:"headings"`
	Content         Factor `json:"content"`
	InternalLinks   Factor `json:"internalLinks"`
	Images          Factor `json:"images"`
	Schema          Factor `json:"schema"`
	Social          Factor `json:"social"`
	Technical       Factor `json:"technical"`
}

type CategoryFactor struct {
	Category Category
	Factor   Factor
}

// Each returns the factors in their fixed declaration order.
func (f Factors) Each() []CategoryFactor {
	return []CategoryFactor{
		{CategoryTitle, f.Title},
		{CategoryMetaDescription, f.MetaDescription},
		{CategoryHeadings, f.Headings},
		{CategoryContent, f.Content},
		{CategoryInternalLinks, f.InternalLinks},
		{CategoryImages, f.Images},
		{CategorySchema, f.Schema},
		{CategorySocial, f.Social},
		{CategoryTechnical, f.Technical},
	}
}

type ScoredIssue struct {
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

// SeoScore is the deterministic scoring artifact for one page.
type SeoScore struct {
	Overall         int           `json:"overall"`
	Factors         Factors       `json:"factors"`
	Issues          []ScoredIssue `json:"issues"`
	Recommendations []string      `json:"recommendations"`
	Grade           Grade         `json:"grade"`
}

type VitalRating string

const (
	VitalGood             VitalRating = "good"
	VitalNeedsImprovement VitalRating = "needs-improvement"
	VitalPoor             VitalRating = "poor"
)

// Valid reports whether r is one of the three known ratings.
func (r VitalRating) Valid() bool {
	return r == VitalGood || r == VitalNeedsImprovement || r == VitalPoor
}

type WebVital struct {
	Value float64     `json:"value"`
	Score VitalRating `json:"score"`
}

type CoreWebVitals struct {
	LCP  WebVital `json:"lcp"`
	FID  WebVital `json:"fid"`
	CLS  WebVital `json:"cls"`
	FCP  WebVital `json:"fcp"`
	TTFB WebVital `json:"ttfb"`
}

type LLMIssue struct {
	ID             string   `json:"id"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

type Opportunity struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	PotentialSavings string `json:"potentialSavings"`
}

// SourceLLMFallback tags every LLMSeoAnalysis regardless of how it was estimated.
const SourceLLMFallback = "llm_fallback"

type EstimationMethod string

const (
	EstimationLLM       EstimationMethod = "llm"
	EstimationHeuristic EstimationMethod = "heuristic"
)

// LLMSeoAnalysis is a PageSpeed-style report estimated by a language model,
// or by fixed heuristics when the model is unavailable.
type LLMSeoAnalysis struct {
	URL                string           `json:"url"`
	OverallScore       int              `json:"overallScore"`
	PerformanceScore   int              `json:"performanceScore"`
	SeoScore           int              `json:"seoScore"`
	AccessibilityScore int              `json:"accessibilityScore"`
	BestPracticesScore int              `json:"bestPracticesScore"`
	CoreWebVitals      CoreWebVitals    `json:"coreWebVitals"`
	Issues             []LLMIssue       `json:"issues"`
	Opportunities      []Opportunity    `json:"opportunities"`
	PassedAudits       []string         `json:"passedAudits"`
	Source             string           `json:"source"`
	EstimationMethod   EstimationMethod `json:"estimationMethod"`
	AnalyzedAt         time.Time        `json:"analyzedAt"`
}
