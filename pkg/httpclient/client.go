package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/models"
)

const (
	// MaxBodySize caps how much of a page body is read (10MB).
	MaxBodySize = 10 * 1024 * 1024

	acceptHeader = "text/html,application/xhtml+xml"
)

// Client implements the HTTPClient interface
type Client struct {
	client    *http.Client
	logger    interfaces.Logger
	timeout   time.Duration
	userAgent string
}

// New creates a client whose requests are bounded by timeout end to end.
func New(timeout time.Duration, userAgent string, logger interfaces.Logger) *Client {
	return NewWithTransport(timeout, userAgent, logger, &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})
}

// NewWithTransport is New with a caller-supplied transport. Tests use it with httpmock.
func NewWithTransport(timeout time.Duration, userAgent string, logger interfaces.Logger, transport http.RoundTripper) *Client {
	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger:    logger,
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Get performs an HTTP GET request. Redirects are followed and any status
// code is returned to the caller; only transport failures are errors.
func (c *Client) Get(ctx context.Context, url string) (*models.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	c.logger.Debug("Making HTTP request",
		"method", req.Method,
		"url", url,
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("HTTP request failed",
			"url", url,
			"error", err,
			"duration", time.Since(start),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		c.logger.Warn("Failed to read response body",
			"url", url,
			"error", err,
		)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	// Duration covers the body read, the same span a browser would wait for.
	duration := time.Since(start)

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	c.logger.Debug("HTTP response received",
		"url", url,
		"final_url", finalURL,
		"status_code", resp.StatusCode,
		"content_length", len(body),
		"duration", duration,
	)

	return &models.HTTPResponse{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		FinalURL:   finalURL,
		Body:       body,
		Headers:    resp.Header,
		Duration:   duration,
	}, nil
}

// statusText returns the reason phrase without the leading code, e.g. "Not Found".
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Ensure Client implements interfaces.HTTPClient
var _ interfaces.HTTPClient = (*Client)(nil)
