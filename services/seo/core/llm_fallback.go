package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

const (
	defaultLLMTimeout = 30 * time.Second
	defaultLLMScore   = 50

	basicBestPracticesScore = 60
)

var errLLMUnavailable = errors.New("no LLM client configured")

// LLMEstimatorOptions tunes the estimator. Zero values take defaults.
type LLMEstimatorOptions struct {
	// Timeout bounds the model call. It is derived from the caller's context,
	// so a shorter caller deadline still wins.
	Timeout time.Duration
}

// LLMEstimator implements interfaces.SEOEstimator. The model is advisory:
// any failure on its side degrades to BasicAnalysis instead of an error.
type LLMEstimator struct {
	fetcher interfaces.PageFetcher
	client  interfaces.LLMClient
	logger  interfaces.Logger
	metrics interfaces.MetricsCollector
	timeout time.Duration
}

// NewLLMEstimator wires the estimator. client may be nil, in which case every
// estimate is heuristic.
func NewLLMEstimator(
	fetcher interfaces.PageFetcher,
	client interfaces.LLMClient,
	logger interfaces.Logger,
	metrics interfaces.MetricsCollector,
	opts LLMEstimatorOptions,
) *LLMEstimator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &LLMEstimator{
		fetcher: fetcher,
		client:  client,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// AnalyzeSeoWithLLM fetches url and estimates a PageSpeed-style report for it.
// It fails only when the page cannot be fetched.
func (e *LLMEstimator) AnalyzeSeoWithLLM(ctx context.Context, url string) (*models.LLMSeoAnalysis, error) {
	start := time.Now()

	page, err := e.fetcher.FetchAndParsePage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	analysis := AnalyzePageSeo(page)

	result, err := e.estimate(ctx, page, analysis)
	if err != nil {
		e.logger.Warn("LLM estimate failed, falling back to heuristic analysis",
			"url", url,
			"error", err,
		)
		result = BasicAnalysis(page, analysis)
	}
	result.URL = url

	e.metrics.RecordEstimate(string(result.EstimationMethod), time.Since(start).Seconds())
	e.logger.Info("SEO estimate completed",
		"url", url,
		"method", result.EstimationMethod,
		"overall_score", result.OverallScore,
		"duration", time.Since(start),
	)

	return result, nil
}

func (e *LLMEstimator) estimate(ctx context.Context, page *models.PageContent, analysis *models.PageAnalysis) (*models.LLMSeoAnalysis, error) {
	if e.client == nil {
		return nil, errLLMUnavailable
	}

	llmCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.client.CompleteJSON(llmCtx, SEOSystemPrompt, BuildSEOPrompt(page, analysis))
	if err != nil {
		return nil, err
	}

	report, err := decodeLLMReport(content)
	if err != nil {
		return nil, err
	}

	return report.toAnalysis(page), nil
}

// llmReport is the JSON shape requested from the model. Pointers distinguish
// a missing field from an explicit zero.
type llmReport struct {
	OverallScore       *float64         `json:"overallScore"`
	PerformanceScore   *float64         `json:"performanceScore"`
	SeoScore           *float64         `json:"seoScore"`
	AccessibilityScore *float64         `json:"accessibilityScore"`
	BestPracticesScore *float64         `json:"bestPracticesScore"`
	CoreWebVitals      *llmVitals       `json:"coreWebVitals"`
	Issues             []llmIssue       `json:"issues"`
	Opportunities      []llmOpportunity `json:"opportunities"`
	PassedAudits       []string         `json:"passedAudits"`
}

type llmVitals struct {
	LCP  *llmVital `json:"lcp"`
	FID  *llmVital `json:"fid"`
	CLS  *llmVital `json:"cls"`
	FCP  *llmVital `json:"fcp"`
	TTFB *llmVital `json:"ttfb"`
}

type llmVital struct {
	Value *float64 `json:"value"`
	Score string   `json:"score"`
}

type llmIssue struct {
	ID             string `json:"id"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

type llmOpportunity struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	PotentialSavings string `json:"potentialSavings"`
}

func decodeLLMReport(content string) (*llmReport, error) {
	var report llmReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("invalid LLM response: %w", err)
	}
	return &report, nil
}

func (r *llmReport) toAnalysis(page *models.PageContent) *models.LLMSeoAnalysis {
	issues := make([]models.LLMIssue, 0, len(r.Issues))
	for i, issue := range r.Issues {
		id := issue.ID
		if id == "" {
			id = fmt.Sprintf("issue-%d", i)
		}
		issues = append(issues, models.LLMIssue{
			ID:             id,
			Severity:       normalizeSeverity(issue.Severity),
			Title:          issue.Title,
			Description:    issue.Description,
			Recommendation: issue.Recommendation,
		})
	}

	opportunities := make([]models.Opportunity, 0, len(r.Opportunities))
	for i, opp := range r.Opportunities {
		id := opp.ID
		if id == "" {
			id = fmt.Sprintf("opportunity-%d", i)
		}
		opportunities = append(opportunities, models.Opportunity{
			ID:               id,
			Title:            opp.Title,
			Description:      opp.Description,
			PotentialSavings: opp.PotentialSavings,
		})
	}

	passed := r.PassedAudits
	if passed == nil {
		passed = []string{}
	}

	return &models.LLMSeoAnalysis{
		URL:                page.URL,
		OverallScore:       scoreOrDefault(r.OverallScore),
		PerformanceScore:   scoreOrDefault(r.PerformanceScore),
		SeoScore:           scoreOrDefault(r.SeoScore),
		AccessibilityScore: scoreOrDefault(r.AccessibilityScore),
		BestPracticesScore: scoreOrDefault(r.BestPracticesScore),
		CoreWebVitals:      r.CoreWebVitals.resolve(page.LoadTimeMs),
		Issues:             issues,
		Opportunities:      opportunities,
		PassedAudits:       passed,
		Source:             models.SourceLLMFallback,
		EstimationMethod:   models.EstimationLLM,
		AnalyzedAt:         time.Now(),
	}
}

// defaultVitals are used for any metric the model leaves out.
func defaultVitals(loadTimeMs int64) models.CoreWebVitals {
	ttfb := models.VitalNeedsImprovement
	if loadTimeMs < 600 {
		ttfb = models.VitalGood
	}
	return models.CoreWebVitals{
		LCP:  models.WebVital{Value: 2.5, Score: models.VitalNeedsImprovement},
		FID:  models.WebVital{Value: 100, Score: models.VitalGood},
		CLS:  models.WebVital{Value: 0.1, Score: models.VitalGood},
		FCP:  models.WebVital{Value: 1.8, Score: models.VitalNeedsImprovement},
		TTFB: models.WebVital{Value: float64(loadTimeMs), Score: ttfb},
	}
}

func (v *llmVitals) resolve(loadTimeMs int64) models.CoreWebVitals {
	vitals := defaultVitals(loadTimeMs)
	if v == nil {
		return vitals
	}
	vitals.LCP = v.LCP.merge(vitals.LCP)
	vitals.FID = v.FID.merge(vitals.FID)
	vitals.CLS = v.CLS.merge(vitals.CLS)
	vitals.FCP = v.FCP.merge(vitals.FCP)
	vitals.TTFB = v.TTFB.merge(vitals.TTFB)
	return vitals
}

func (v *llmVital) merge(fallback models.WebVital) models.WebVital {
	if v == nil {
		return fallback
	}
	merged := fallback
	if v.Value != nil && !math.IsNaN(*v.Value) && !math.IsInf(*v.Value, 0) {
		merged.Value = *v.Value
	}
	if rating := models.VitalRating(strings.ToLower(strings.TrimSpace(v.Score))); rating.Valid() {
		merged.Score = rating
	}
	return merged
}

func scoreOrDefault(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return defaultLLMScore
	}
	return clampScore(int(math.Round(*v)))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalizeSeverity(s string) models.Severity {
	switch severity := models.Severity(strings.ToLower(strings.TrimSpace(s))); severity {
	case models.SeverityCritical, models.SeverityWarning, models.SeverityInfo:
		return severity
	default:
		return models.SeverityWarning
	}
}

// BasicAnalysis estimates the report from page signals alone, with fixed
// bonuses and load-time heuristics. It is deterministic apart from AnalyzedAt.
func BasicAnalysis(page *models.PageContent, analysis *models.PageAnalysis) *models.LLMSeoAnalysis {
	signals := analysis.SeoSignals

	seoScore := 50
	if signals.HasTitle {
		seoScore += 10
	}
	if signals.TitleLength >= 30 && signals.TitleLength <= 60 {
		seoScore += 5
	}
	if signals.HasMetaDescription {
		seoScore += 10
	}
	if signals.HasH1 {
		seoScore += 10
	}
	if signals.H1Count == 1 {
		seoScore += 5
	}
	if signals.HasSchema {
		seoScore += 10
	}
	if signals.HasCanonical {
		seoScore += 5
	}
	if signals.WordCount >= 500 {
		seoScore += 5
	}
	if signals.InternalLinkCount >= 3 {
		seoScore += 5
	}
	if signals.ImageCount > 0 && signals.ImagesWithAlt == signals.ImageCount {
		seoScore += 5
	}
	seoScore = clampScore(seoScore)

	issues := make([]models.LLMIssue, 0, len(analysis.Issues))
	for i, issue := range analysis.Issues {
		issues = append(issues, models.LLMIssue{
			ID:             fmt.Sprintf("issue-%d", i),
			Severity:       models.SeverityWarning,
			Title:          issue,
			Description:    issue,
			Recommendation: "Review and fix this issue",
		})
	}

	opportunities := make([]models.Opportunity, 0, len(analysis.Suggestions))
	for i, suggestion := range analysis.Suggestions {
		title, _, _ := strings.Cut(suggestion, ".")
		opportunities = append(opportunities, models.Opportunity{
			ID:               fmt.Sprintf("opportunity-%d", i),
			Title:            title,
			Description:      suggestion,
			PotentialSavings: "Improved SEO",
		})
	}

	passed := []string{}
	if signals.HasTitle {
		passed = append(passed, "Has title tag")
	}
	if signals.HasMetaDescription {
		passed = append(passed, "Has meta description")
	}
	if signals.HasH1 {
		passed = append(passed, "Has H1 heading")
	}
	if signals.HasSchema {
		passed = append(passed, "Has structured data")
	}
	if signals.HasOpenGraph {
		passed = append(passed, "Has Open Graph tags")
	}

	imageCount := signals.ImageCount
	if imageCount < 1 {
		imageCount = 1
	}

	return &models.LLMSeoAnalysis{
		URL:                page.URL,
		OverallScore:       seoScore,
		PerformanceScore:   performanceEstimate(page.LoadTimeMs),
		SeoScore:           seoScore,
		AccessibilityScore: clampScore(int(math.Round(float64(signals.ImagesWithAlt) / float64(imageCount) * 100))),
		BestPracticesScore: basicBestPracticesScore,
		CoreWebVitals:      heuristicVitals(page.LoadTimeMs),
		Issues:             issues,
		Opportunities:      opportunities,
		PassedAudits:       passed,
		Source:             models.SourceLLMFallback,
		EstimationMethod:   models.EstimationHeuristic,
		AnalyzedAt:         time.Now(),
	}
}

// performanceEstimate loses a point per 50ms of load time, never dropping below 50.
func performanceEstimate(loadTimeMs int64) int {
	score := 100 - int(loadTimeMs/50)
	if score < 50 {
		return 50
	}
	return clampScore(score)
}

func heuristicVitals(loadTimeMs int64) models.CoreWebVitals {
	ms := float64(loadTimeMs)
	ttfb := ms * 0.3
	return models.CoreWebVitals{
		LCP:  models.WebVital{Value: ms / 1000, Score: ratingBelow(ms, 2500)},
		FID:  models.WebVital{Value: 100, Score: models.VitalGood},
		CLS:  models.WebVital{Value: 0.1, Score: models.VitalGood},
		FCP:  models.WebVital{Value: ms / 1500, Score: ratingBelow(ms, 1800)},
		TTFB: models.WebVital{Value: ttfb, Score: ratingBelow(ttfb, 600)},
	}
}

func ratingBelow(value, limit float64) models.VitalRating {
	if value < limit {
		return models.VitalGood
	}
	return models.VitalNeedsImprovement
}

var _ interfaces.SEOEstimator = (*LLMEstimator)(nil)
