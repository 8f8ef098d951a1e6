package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aureonone/seo-audit/pkg/config"
	"github.com/aureonone/seo-audit/pkg/httpclient"
	"github.com/aureonone/seo-audit/pkg/interfaces"
	"github.com/aureonone/seo-audit/pkg/llm"
	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/aureonone/seo-audit/pkg/metrics"
	"github.com/aureonone/seo-audit/services/seo/core"
	"github.com/spf13/cobra"
)

// pipeline is what the subcommands run against.
type pipeline struct {
	auditor   interfaces.Auditor
	estimator interfaces.SEOEstimator
}

type pipelineBuilder func(cfg *config.Config, log interfaces.Logger) pipeline

type rootOptions struct {
	logLevel     string
	fetchTimeout time.Duration
	llmTimeout   time.Duration
	userAgent    string
	model        string
	compact      bool
}

func newRootCmd(build pipelineBuilder) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "seoaudit",
		Short: "seoaudit scores a web page's on-page SEO",
		Long: `seoaudit fetches a single URL and reports on its on-page SEO.

Usage:
  seoaudit score <url>      deterministic 0-100 score with grade and issues
  seoaudit estimate <url>   PageSpeed-style estimate from an LLM, or heuristics without one

Configuration is read from the environment (and .env files); flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "error", "Log level written to stderr (debug, info, warn, error)")
	flags.DurationVar(&opts.fetchTimeout, "timeout", 0, "Page fetch timeout (default from FETCH_TIMEOUT)")
	flags.DurationVar(&opts.llmTimeout, "llm-timeout", 0, "LLM call timeout (default from LLM_TIMEOUT)")
	flags.StringVar(&opts.userAgent, "user-agent", "", "User-Agent sent when fetching (default from USER_AGENT)")
	flags.StringVar(&opts.model, "model", "", "Chat model used by estimate (default from OPENAI_MODEL)")
	flags.BoolVar(&opts.compact, "compact", false, "Print single-line JSON")

	root.AddCommand(newScoreCmd(opts, build))
	root.AddCommand(newEstimateCmd(opts, build))

	return root
}

// setup loads configuration, applies flag overrides and builds the pipeline.
func (o *rootOptions) setup(build pipelineBuilder) (pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return pipeline{}, fmt.Errorf("loading configuration: %w", err)
	}
	if o.fetchTimeout > 0 {
		cfg.FetchTimeout = o.fetchTimeout
	}
	if o.llmTimeout > 0 {
		cfg.LLMTimeout = o.llmTimeout
	}
	if o.userAgent != "" {
		cfg.UserAgent = o.userAgent
	}
	if o.model != "" {
		cfg.OpenAIModel = o.model
	}

	log := logger.NewWithWriter(os.Stderr, "seoaudit", logger.ParseLevel(o.logLevel))
	return build(cfg, log), nil
}

func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// buildPipeline wires the same components the HTTP service uses.
func buildPipeline(cfg *config.Config, log interfaces.Logger) pipeline {
	collector := metrics.NewPrometheusCollector("seoaudit")
	fetcher := core.NewFetcher(httpclient.New(cfg.FetchTimeout, cfg.UserAgent, log), log, collector)

	var client interfaces.LLMClient
	if cfg.LLMEnabled() {
		client = llm.New(llm.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, log)
	}

	return pipeline{
		auditor: core.NewAnalyzer(fetcher, log, collector),
		estimator: core.NewLLMEstimator(fetcher, client, log, collector, core.LLMEstimatorOptions{
			Timeout: cfg.LLMTimeout,
		}),
	}
}
