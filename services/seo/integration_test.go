package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aureonone/seo-audit/pkg/config"
	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/aureonone/seo-audit/pkg/metrics"
	"github.com/aureonone/seo-audit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Handmade Industrial Widgets for Makers and Studios</title>
  <meta name="description" content="%s">
  <link rel="canonical" href="%s/widgets">
  <meta property="og:title" content="Widgets">
  <meta name="twitter:card" content="summary">
  <script type="application/ld+json">{"@context":"https://schema.org","@type":"Product","name":"Widget"}</script>
</head>
<body>
  <nav><a href="/nav-only">Menu</a></nav>
  <main>
    <h1>Industrial Widgets</h1>
    <h2>Why ours</h2>
    <h2>Pricing</h2>
    <p>%s</p>
    <img src="/a.png" alt="A widget">
    <img src="/b.png" alt="Another widget">
    <a href="/a">A</a> <a href="/b">B</a> <a href="/c">C</a>
    <a href="https://other.test/">Elsewhere</a>
  </main>
</body>
</html>`

// startSite serves a small site with one well optimised page and one bare page.
func startSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var site *httptest.Server
	mux.HandleFunc("/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, widgetsPage, strings.Repeat("d", 150), site.URL, strings.TrimSpace(strings.Repeat("word ", 800)))
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>hello</p></body></html>")
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/widgets", http.StatusMovedPermanently)
	})

	site = httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func startService(t *testing.T) string {
	t.Helper()

	cfg := config.Default()
	cfg.RateLimitRPS = 0

	a := buildApp(cfg, logger.Discard(), metrics.NewPrometheusCollector("seo-audit-test"))
	server := httptest.NewServer(newRouter(a))
	t.Cleanup(server.Close)
	return server.URL
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIntegration_AuditFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	site := startSite(t)
	service := startService(t)

	t.Run("audit well optimised page", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit", models.AuditRequest{URL: site.URL + "/widgets"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		var result models.AuditResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, http.StatusOK, result.StatusCode)
		require.NotNil(t, result.Score)
		assert.Equal(t, models.GradeA, result.Score.Grade)
		assert.GreaterOrEqual(t, result.Score.Overall, 90)
		require.NotNil(t, result.Analysis)
		assert.Equal(t, 1, result.Analysis.SeoSignals.H1Count)
	})

	t.Run("repeat is served from cache", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit", models.AuditRequest{URL: site.URL + "/widgets"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	})

	t.Run("bare page scores poorly", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit", models.AuditRequest{URL: site.URL + "/bare"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.AuditResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Less(t, result.Score.Overall, 50)
		assert.NotEmpty(t, result.Analysis.Issues)
	})

	t.Run("missing page maps to bad gateway", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit", models.AuditRequest{URL: site.URL + "/nope"})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var errResp models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "Could not retrieve page", errResp.Error)
		assert.Contains(t, errResp.Details, "404")
	})

	t.Run("invalid url", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit", models.AuditRequest{URL: "not-a-valid-url"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("heuristic estimate without llm", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit/llm", models.AuditRequest{URL: site.URL + "/old"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var estimate models.LLMSeoAnalysis
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&estimate))
		assert.Equal(t, models.EstimationHeuristic, estimate.EstimationMethod)
		assert.Equal(t, site.URL+"/old", estimate.URL)
		assert.NotNil(t, estimate.PassedAudits)
	})

	t.Run("batch", func(t *testing.T) {
		resp := post(t, service+"/api/v1/audit/batch", models.BatchAuditRequest{
			URLs: []string{site.URL + "/widgets", site.URL + "/nope", site.URL + "/bare"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.BatchAuditResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Results, 3)
		assert.Equal(t, http.StatusOK, result.Results[0].StatusCode)
		assert.Equal(t, http.StatusBadGateway, result.Results[1].StatusCode)
		assert.NotEmpty(t, result.Results[1].Error)
		assert.Equal(t, http.StatusOK, result.Results[2].StatusCode)
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(service + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health models.HealthStatus
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, serviceName, health.Service)
	})
}
