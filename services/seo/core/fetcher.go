package core

import (
	"context"
	"fmt"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

// Fetcher implements interfaces.PageFetcher: one GET, then a full parse.
type Fetcher struct {
	httpClient interfaces.HTTPClient
	parser     *HTMLParser
	logger     interfaces.Logger
	metrics    interfaces.MetricsCollector
}

func NewFetcher(
	httpClient interfaces.HTTPClient,
	logger interfaces.Logger,
	metrics interfaces.MetricsCollector,
) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     NewHTMLParser(logger),
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchAndParsePage retrieves rawURL and returns its parsed snapshot.
// Transport failures and non-2xx final statuses are returned as *FetchError.
func (f *Fetcher) FetchAndParsePage(ctx context.Context, rawURL string) (*models.PageContent, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := f.httpClient.Get(ctx, rawURL)
	if err != nil {
		f.metrics.RecordFetch(false, time.Since(start).Seconds())
		fetchErr := &FetchError{URL: rawURL, Err: err}
		f.logger.Warn("Page fetch failed", "url", rawURL, "reason", fetchErrorLabel(fetchErr), "error", err)
		return nil, fetchErr
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		f.metrics.RecordFetch(false, time.Since(start).Seconds())
		f.logger.Warn("Page returned non-success status", "url", rawURL, "status_code", response.StatusCode)
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: response.StatusCode,
			Status:     response.Status,
		}
	}

	loadTime := response.Duration
	if loadTime <= 0 {
		loadTime = time.Since(start)
	}
	f.metrics.RecordFetch(true, loadTime.Seconds())

	// Relative links resolve against where the redirects ended, not where they began.
	base := rawURL
	if response.FinalURL != "" {
		base = response.FinalURL
	}

	page, err := f.parser.ParseHTML(response.Body, base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", rawURL, err)
	}

	page.URL = rawURL
	page.HTML = string(response.Body)
	page.FetchedAt = time.Now()
	page.StatusCode = response.StatusCode
	page.LoadTimeMs = loadTime.Milliseconds()

	f.logger.Debug("Page parsed",
		"url", rawURL,
		"status_code", page.StatusCode,
		"load_time_ms", page.LoadTimeMs,
		"word_count", page.WordCount,
		"internal_links", len(page.InternalLinks),
		"external_links", len(page.ExternalLinks),
	)

	return page, nil
}

var _ interfaces.PageFetcher = (*Fetcher)(nil)
