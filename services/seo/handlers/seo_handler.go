package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/aureonone/seo-audit/pkg/models"
	"github.com/aureonone/seo-audit/services/seo/core"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	maxRequestBodyBytes = 1 << 20
	maxBatchURLs        = 20
)

// Options tunes the handler. A non-positive CacheSize disables the audit cache.
type Options struct {
	CacheSize    int
	CacheTTL     time.Duration
	BatchWorkers int
}

// SEOHandler serves the audit and LLM estimate endpoints.
type SEOHandler struct {
	auditor   interfaces.Auditor
	estimator interfaces.SEOEstimator
	batch     *core.BatchAuditor
	cache     *expirable.LRU[string, *models.AuditResult]
	logger    interfaces.Logger
}

func NewSEOHandler(
	auditor interfaces.Auditor,
	estimator interfaces.SEOEstimator,
	logger interfaces.Logger,
	opts Options,
) *SEOHandler {
	h := &SEOHandler{
		auditor:   auditor,
		estimator: estimator,
		logger:    logger,
	}
	if opts.CacheSize > 0 {
		h.cache = expirable.NewLRU[string, *models.AuditResult](opts.CacheSize, nil, opts.CacheTTL)
	}
	h.batch = core.NewBatchAuditor(core.AuditorFunc(h.cachedAudit), opts.BatchWorkers, logger)
	return h
}

// Audit handles POST /api/v1/audit. Successful results are cached per URL.
func (h *SEOHandler) Audit(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context(), h.logger)

	target, ok := h.decodeTarget(w, r, log)
	if !ok {
		return
	}

	if cached, hit := h.lookup(target); hit {
		log.Debug("Serving cached audit", "url", target)
		w.Header().Set("X-Cache", "HIT")
		h.sendJSON(w, http.StatusOK, cached)
		return
	}

	log.Info("Processing audit request", "url", target)

	result, err := h.cachedAudit(r.Context(), target)
	if err != nil {
		h.sendFailure(w, log, target, err)
		return
	}

	log.Info("Audit completed successfully",
		"url", target,
		"overall", result.Score.Overall,
		"grade", result.Score.Grade,
	)

	w.Header().Set("X-Cache", "MISS")
	h.sendJSON(w, http.StatusOK, result)
}

// BatchAudit handles POST /api/v1/audit/batch. Each URL is audited through the
// same cache as single audits; per-URL failures are reported inline.
func (h *SEOHandler) BatchAudit(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context(), h.logger)

	var req models.BatchAuditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Warn("Failed to parse batch request", "error", err)
		h.sendError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		h.sendError(w, "At least one URL is required", "", http.StatusBadRequest)
		return
	}
	if len(req.URLs) > maxBatchURLs {
		h.sendError(w, fmt.Sprintf("Maximum %d URLs allowed per batch", maxBatchURLs), "", http.StatusBadRequest)
		return
	}

	targets := make([]string, len(req.URLs))
	for i, raw := range req.URLs {
		targets[i] = strings.TrimSpace(raw)
	}

	start := time.Now()
	response := models.BatchAuditResult{Results: make([]models.BatchAuditItem, 0, len(targets))}
	for _, outcome := range h.batch.AuditAll(r.Context(), targets) {
		item := models.BatchAuditItem{URL: outcome.URL, StatusCode: http.StatusOK, Result: outcome.Result}
		if outcome.Err != nil {
			item.StatusCode, _ = classifyError(outcome.Err)
			item.Error = outcome.Err.Error()
			response.Failed++
		} else {
			response.Succeeded++
		}
		response.Results = append(response.Results, item)
	}
	response.TotalTimeMs = time.Since(start).Milliseconds()

	log.Info("Batch audit request completed",
		"url_count", len(targets),
		"succeeded", response.Succeeded,
		"failed", response.Failed,
	)

	h.sendJSON(w, http.StatusOK, response)
}

// Estimate handles POST /api/v1/audit/llm. Estimates are never cached.
func (h *SEOHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context(), h.logger)

	target, ok := h.decodeTarget(w, r, log)
	if !ok {
		return
	}

	log.Info("Processing estimate request", "url", target)

	result, err := h.estimator.AnalyzeSeoWithLLM(r.Context(), target)
	if err != nil {
		h.sendFailure(w, log, target, err)
		return
	}

	log.Info("Estimate completed successfully",
		"url", target,
		"method", result.EstimationMethod,
		"overall", result.OverallScore,
	)

	h.sendJSON(w, http.StatusOK, result)
}

func (h *SEOHandler) lookup(target string) (*models.AuditResult, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(target)
}

// cachedAudit serves from the cache when it can and stores successful audits.
func (h *SEOHandler) cachedAudit(ctx context.Context, target string) (*models.AuditResult, error) {
	if cached, hit := h.lookup(target); hit {
		return cached, nil
	}

	result, err := h.auditor.Audit(ctx, target)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Add(target, result)
	}
	return result, nil
}

func (h *SEOHandler) decodeTarget(w http.ResponseWriter, r *http.Request, log interfaces.Logger) (string, bool) {
	var req models.AuditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Warn("Failed to parse request", "error", err)
		h.sendError(w, "Invalid request format", "", http.StatusBadRequest)
		return "", false
	}

	target := strings.TrimSpace(req.URL)
	if target == "" {
		h.sendError(w, "URL is required", "", http.StatusBadRequest)
		return "", false
	}
	if err := core.ValidateURL(target); err != nil {
		h.sendError(w, "Invalid URL", err.Error(), http.StatusBadRequest)
		return "", false
	}

	return target, true
}

func (h *SEOHandler) sendFailure(w http.ResponseWriter, log interfaces.Logger, target string, err error) {
	statusCode, message := classifyError(err)
	log.Error("Request failed",
		"url", target,
		"status_code", statusCode,
		"error", err,
	)
	h.sendError(w, message, err.Error(), statusCode)
}

// classifyError maps a core error onto an HTTP status. A timed out fetch is
// reported as a timeout rather than a bad upstream.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Audit timed out"
	case core.IsFetchError(err):
		return http.StatusBadGateway, "Could not retrieve page"
	case errors.Is(err, core.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL"
	default:
		return http.StatusInternalServerError, "Failed to audit URL"
	}
}

func (h *SEOHandler) sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *SEOHandler) sendError(w http.ResponseWriter, message, details string, statusCode int) {
	h.sendJSON(w, statusCode, models.ErrorResponse{
		Error:      message,
		StatusCode: statusCode,
		Details:    details,
		Timestamp:  time.Now(),
	})
}
