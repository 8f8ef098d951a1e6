package main

import (
	"strings"

	"github.com/aureonone/seo-audit/services/seo/core"
	"github.com/spf13/cobra"
)

func newScoreCmd(opts *rootOptions, build pipelineBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "score <url>",
		Short: "Fetch a page and print its SEO analysis and score as JSON",
		Example: `  seoaudit score https://example.com
  seoaudit score https://example.com --timeout 5s --compact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if err := core.ValidateURL(target); err != nil {
				return err
			}

			p, err := opts.setup(build)
			if err != nil {
				return err
			}

			result, err := p.auditor.Audit(cmd.Context(), target)
			if err != nil {
				return err
			}
			return opts.print(cmd, result)
		},
	}
}

func newEstimateCmd(opts *rootOptions, build pipelineBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <url>",
		Short: "Fetch a page and print an LLM-estimated performance report as JSON",
		Long: `Estimate asks an OpenAI-compatible model for a PageSpeed-style report.
Without OPENAI_API_KEY, or when the model fails, it prints a heuristic estimate
instead; check estimationMethod in the output.`,
		Example: `  OPENAI_API_KEY=sk-... seoaudit estimate https://example.com
  OPENAI_BASE_URL=http://localhost:11434/v1 OPENAI_API_KEY=ollama seoaudit estimate https://example.com --model llama3.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if err := core.ValidateURL(target); err != nil {
				return err
			}

			p, err := opts.setup(build)
			if err != nil {
				return err
			}

			result, err := p.estimator.AnalyzeSeoWithLLM(cmd.Context(), target)
			if err != nil {
				return err
			}
			return opts.print(cmd, result)
		},
	}
}
