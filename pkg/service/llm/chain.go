package llm

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// Chain is an ordered fallback over model providers. Each session walks
// the providers in registration order: when a provider fails, the next
// one is opened and the accumulated user inputs are replayed so the
// conversation survives the switch. Embeddings always use the primary
// provider so stored vectors stay in one vector space.
type Chain struct {
	providers []provider
}

type provider struct {
	name   string
	client gollem.LLMClient
}

// New creates an empty chain
func New() *Chain {
	return &Chain{}
}

// Add appends a provider to the end of the fallback order
func (c *Chain) Add(name string, client gollem.LLMClient) {
	c.providers = append(c.providers, provider{name: name, client: client})
}

// Len returns the number of registered providers
func (c *Chain) Len() int {
	return len(c.providers)
}

// Names lists providers in fallback order
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.name
	}
	return names
}

// NewSession opens a chained conversation. The underlying provider
// session is opened lazily on the first GenerateContent call.
func (c *Chain) NewSession(ctx context.Context, options ...gollem.SessionOption) (interfaces.LLMSession, error) {
	if len(c.providers) == 0 {
		return nil, goerr.Wrap(types.ErrNotConfigured, "no model provider configured")
	}
	return &chainSession{chain: c, options: options}, nil
}

// GenerateEmbedding embeds via the primary provider only; provider
// failures are returned to the caller, never papered over by a
// fallback in a different vector space.
func (c *Chain) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if len(c.providers) == 0 {
		return nil, goerr.Wrap(types.ErrNotConfigured, "no model provider configured")
	}
	p := c.providers[0]
	vectors, err := p.client.GenerateEmbedding(ctx, dimension, input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings", goerr.V("provider", p.name))
	}
	return vectors, nil
}

type chainSession struct {
	chain   *Chain
	options []gollem.SessionOption

	idx     int
	session gollem.Session

	// user-side inputs accumulated over the conversation, replayed when a
	// provider switch opens a fresh session
	history []gollem.Input
}

// GenerateContent sends input through the current provider, advancing
// down the chain on failure. When every provider has failed the call
// returns ErrNoDecision so the caller can take a model-free path.
func (s *chainSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	s.history = append(s.history, input...)
	send := input

	for s.idx < len(s.chain.providers) {
		p := s.chain.providers[s.idx]

		if s.session == nil {
			session, err := p.client.NewSession(ctx, s.options...)
			if err != nil {
				logging.From(ctx).Warn("model provider session failed, falling back",
					slog.String("provider", p.name), slog.Any("error", err))
				s.advance()
				send = s.history
				continue
			}
			s.session = session
			send = s.history
		}

		resp, err := s.session.GenerateContent(ctx, send...)
		if err != nil {
			logging.From(ctx).Warn("model provider generation failed, falling back",
				slog.String("provider", p.name), slog.Any("error", err))
			s.advance()
			send = s.history
			continue
		}
		return resp, nil
	}

	return nil, goerr.Wrap(types.ErrNoDecision, "all model providers failed",
		goerr.V("providers", s.chain.Names()))
}

func (s *chainSession) advance() {
	s.idx++
	s.session = nil
}
