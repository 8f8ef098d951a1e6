package core

import (
	"context"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

// Analyzer runs the deterministic audit: fetch, derive signals, score.
type Analyzer struct {
	fetcher interfaces.PageFetcher
	logger  interfaces.Logger
	metrics interfaces.MetricsCollector
}

func NewAnalyzer(
	fetcher interfaces.PageFetcher,
	logger interfaces.Logger,
	metrics interfaces.MetricsCollector,
) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Audit fetches url and scores it. Only a fetch failure aborts the audit.
func (a *Analyzer) Audit(ctx context.Context, url string) (*models.AuditResult, error) {
	start := time.Now()

	a.logger.Info("Starting SEO audit", "url", url)

	page, err := a.fetcher.FetchAndParsePage(ctx, url)
	if err != nil {
		a.logger.Error("Failed to fetch page", "url", url, "error", err)
		a.metrics.RecordAudit(false, time.Since(start).Seconds())
		return nil, err
	}

	analysis := AnalyzePageSeo(page)
	score := ComputeSeoScore(page)

	a.metrics.RecordAudit(true, time.Since(start).Seconds())
	a.metrics.RecordScore(string(score.Grade), score.Overall)

	a.logger.Info("SEO audit completed",
		"url", url,
		"overall", score.Overall,
		"grade", score.Grade,
		"issues", len(score.Issues),
		"duration", time.Since(start),
	)

	return &models.AuditResult{
		URL:        url,
		StatusCode: page.StatusCode,
		LoadTimeMs: page.LoadTimeMs,
		FetchedAt:  page.FetchedAt,
		Analysis:   analysis,
		Score:      score,
		AnalyzedAt: time.Now(),
	}, nil
}

var _ interfaces.Auditor = (*Analyzer)(nil)
