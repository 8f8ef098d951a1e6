package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aureonone/seo-audit/pkg/config"
	"github.com/aureonone/seo-audit/pkg/httpclient"
	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/llm"
	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/aureonone/seo-audit/pkg/metrics"
	"github.com/aureonone/seo-audit/services/seo/core"
	"github.com/aureonone/seo-audit/services/seo/handlers"
	"github.com/aureonone/seo-audit/services/seo/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName = "seo-audit"
	version     = "1.0.0"

	rateLimitIdleTTL = 10 * time.Minute
)

// app holds the wired request handlers and the pieces the router needs.
type app struct {
	seo     *handlers.SEOHandler
	health  *handlers.HealthHandler
	limiter *middleware.ClientLimiter
	log     interfaces.Logger
	metrics interfaces.MetricsCollector
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, logger.ParseLevel(cfg.LogLevel))

	metricsCollector := metrics.NewPrometheusCollector(serviceName)
	prometheus.MustRegister(metricsCollector.GetCollectors()...)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      newRouter(buildApp(cfg, log, metricsCollector)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting SEO audit service",
			"port", cfg.Port,
			"llm_enabled", cfg.LLMEnabled(),
			"cache_size", cfg.CacheSize,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

func buildApp(cfg *config.Config, log interfaces.Logger, collector interfaces.MetricsCollector) *app {
	httpClient := httpclient.New(cfg.FetchTimeout, cfg.UserAgent, log)
	fetcher := core.NewFetcher(httpClient, log, collector)
	analyzer := core.NewAnalyzer(fetcher, log, collector)

	var llmClient interfaces.LLMClient
	checkers := make(map[string]interfaces.HealthChecker)
	if cfg.LLMEnabled() {
		client := llm.New(llm.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, log)
		llmClient = client
		checkers["llm"] = client
	} else {
		log.Info("OPENAI_API_KEY not set, LLM estimates will use heuristics only")
	}

	estimator := core.NewLLMEstimator(fetcher, llmClient, log, collector, core.LLMEstimatorOptions{
		Timeout: cfg.LLMTimeout,
	})

	var limiter *middleware.ClientLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitIdleTTL)
	}

	return &app{
		seo: handlers.NewSEOHandler(analyzer, estimator, log, handlers.Options{
			CacheSize:    cfg.CacheSize,
			CacheTTL:     cfg.CacheTTL,
			BatchWorkers: cfg.BatchWorkers,
		}),
		health:  handlers.NewHealthHandler(serviceName, version, checkers),
		limiter: limiter,
		log:     log,
		metrics: collector,
	}
}

func newRouter(a *app) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(a.log))
	router.Use(middleware.Metrics(a.metrics))
	router.Use(middleware.Recovery(a.log))
	router.Use(middleware.CORS())

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(a.limiter, a.log))
	api.HandleFunc("/audit", a.seo.Audit).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/audit/batch", a.seo.BatchAudit).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/audit/llm", a.seo.Estimate).Methods(http.MethodPost, http.MethodOptions)

	router.HandleFunc("/health", a.health.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	router.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))

	return router
}
