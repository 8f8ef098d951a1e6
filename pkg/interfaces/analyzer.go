package interfaces

import (
	"context"

	"github.com/aureonone/seo-audit/pkg/models"
)

// Auditor runs the deterministic fetch → signals → score pipeline for one URL.
type Auditor interface {
	Audit(ctx context.Context, url string) (*models.AuditResult, error)
}

// PageFetcher retrieves a URL and parses it into a PageContent snapshot.
type PageFetcher interface {
	FetchAndParsePage(ctx context.Context, url string) (*models.PageContent, error)
}

// SEOEstimator produces an LLM-estimated report for a URL.
// It fails only when the page itself cannot be fetched.
type SEOEstimator interface {
	AnalyzeSeoWithLLM(ctx context.Context, url string) (*models.LLMSeoAnalysis, error)
}

// LLMClient sends a system+user prompt pair and returns the model's raw JSON answer.
type LLMClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// HTTPClient defines the contract for HTTP operations
type HTTPClient interface {
	Get(ctx context.Context, url string) (*models.HTTPResponse, error)
}

// Logger defines the contract for logging operations
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordRequest(method, path string, statusCode int, duration float64)
	RecordFetch(success bool, duration float64)
	RecordAudit(success bool, duration float64)
	RecordScore(grade string, overall int)
	RecordEstimate(method string, duration float64)
}

// HealthChecker defines the contract for health check operations
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
