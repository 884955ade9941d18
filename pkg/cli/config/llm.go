package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/service/llm"
)

// LLM holds CLI flags for the model provider fallback chain. Providers
// are registered in fixed priority order: Gemini first (also the only
// embedding provider), then OpenAI, then Claude as the last resort.
type LLM struct {
	geminiProject  string
	geminiLocation string
	openaiAPIKey   string
	claudeAPIKey   string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API (primary provider)",
			Sources:     cli.EnvVars("AURA_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("AURA_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (fallback provider)",
			Sources:     cli.EnvVars("AURA_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key (last-resort provider)",
			Sources:     cli.EnvVars("AURA_CLAUDE_API_KEY"),
			Destination: &l.claudeAPIKey,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("gemini_project", l.geminiProject),
		slog.String("gemini_location", l.geminiLocation),
		slog.Bool("openai_configured", l.openaiAPIKey != ""),
		slog.Bool("claude_configured", l.claudeAPIKey != ""),
	}
}

// Configure builds the fallback chain from the configured providers.
// Returns nil when no provider is configured (model features disabled).
func (l *LLM) Configure(ctx context.Context) (*llm.Chain, error) {
	chain := llm.New()

	if l.geminiProject != "" {
		client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		chain.Add("gemini", client)
	}

	if l.openaiAPIKey != "" {
		client, err := openai.New(ctx, l.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		chain.Add("openai", client)
	}

	if l.claudeAPIKey != "" {
		client, err := claude.New(ctx, l.claudeAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		chain.Add("claude", client)
	}

	if chain.Len() == 0 {
		return nil, nil
	}
	return chain, nil
}
