package models

import (
	"net/http"
	"strings"
	"time"
)

// AuditRequest is the body of both audit endpoints.
type AuditRequest struct {
	URL string `json:"url"`
}

// PageContent is the parsed snapshot of one fetched URL.
// It is built once by the fetcher and never mutated afterwards.
type PageContent struct {
	URL             string            `json:"url"`
	HTML            string            `json:"html"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"metaDescription"`
	MetaKeywords    string            `json:"metaKeywords"`
	CanonicalURL    string            `json:"canonicalUrl"`
	H1              []string          `json:"h1"`
	H2              []string          `json:"h2"`
	H3              []string          `json:"h3"`
	Content         string            `json:"content"`
	WordCount       int               `json:"wordCount"`
	InternalLinks   []string          `json:"internalLinks"`
	ExternalLinks   []string          `json:"externalLinks"`
	Images          []Image           `json:"images"`
	SchemaJSON      []SchemaBlock     `json:"schemaJson"`
	OpenGraph       map[string]string `json:"openGraph"`
	TwitterCard     map[string]string `json:"twitterCard"`
	FetchedAt       time.Time         `json:"fetchedAt"`
	StatusCode      int               `json:"statusCode"`
	LoadTimeMs      int64             `json:"loadTimeMs"`
}

// Image is one <img> element in document order.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// CountWords returns the number of non-empty whitespace-delimited tokens.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// AuditResult is what the audit endpoint returns for one URL.
type AuditResult struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	LoadTimeMs int64         `json:"load_time_ms"`
	FetchedAt  time.Time     `json:"fetched_at"`
	Analysis   *PageAnalysis `json:"analysis"`
	Score      *SeoScore     `json:"score"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
}

type HTTPResponse struct {
	StatusCode int
	Status     string
	FinalURL   string
	Body       []byte
	Headers    http.Header
	Duration   time.Duration
}

type ErrorResponse struct {
	Error      string    `json:"error"`
	StatusCode int       `json:"status_code"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type BatchAuditRequest struct {
	URLs []string `json:"urls"`
}

// BatchAuditItem reports one URL of a batch: either Result or Error is set.
type BatchAuditItem struct {
	URL        string       `json:"url"`
	StatusCode int          `json:"status_code"`
	Result     *AuditResult `json:"result,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type BatchAuditResult struct {
	Results     []BatchAuditItem `json:"results"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	TotalTimeMs int64            `json:"total_time_ms"`
}
