package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/llm"
)

// mockSession is a mock gollem Session for testing
type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"ok"}}, nil
}

func (s *mockSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockProvider is a mock gollem LLMClient for testing
type mockProvider struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	embedFn      func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (c *mockProvider) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockSession{}, nil
}

func (c *mockProvider) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.embedFn != nil {
		return c.embedFn(ctx, dimension, input)
	}
	return nil, nil
}

func TestChain_NoProviders(t *testing.T) {
	chain := llm.New()
	gt.Value(t, chain.Len()).Equal(0)

	_, err := chain.NewSession(context.Background())
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrNotConfigured)).Equal(true)

	_, err = chain.GenerateEmbedding(context.Background(), 4, []string{"hola"})
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrNotConfigured)).Equal(true)
}

func TestChain_PrimaryAnswers(t *testing.T) {
	chain := llm.New()
	chain.Add("primary", &mockProvider{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"respuesta"}}, nil
				},
			}, nil
		},
	})

	session, err := chain.NewSession(context.Background())
	gt.NoError(t, err)

	resp, err := session.GenerateContent(context.Background(), gollem.Text("pregunta"))
	gt.NoError(t, err)
	gt.Array(t, resp.Texts).Length(1)
	gt.Value(t, resp.Texts[0]).Equal("respuesta")
}

func TestChain_FallbackReplaysConversation(t *testing.T) {
	primaryCalls := 0
	primary := &mockProvider{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					primaryCalls++
					if primaryCalls >= 2 {
						return nil, errors.New("provider outage")
					}
					return &gollem.Response{Texts: []string{"primera"}}, nil
				},
			}, nil
		},
	}

	var fallbackInputs []gollem.Input
	fallback := &mockProvider{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					fallbackInputs = input
					return &gollem.Response{Texts: []string{"segunda"}}, nil
				},
			}, nil
		},
	}

	chain := llm.New()
	chain.Add("primary", primary)
	chain.Add("fallback", fallback)

	ctx := context.Background()
	session, err := chain.NewSession(ctx)
	gt.NoError(t, err)

	resp, err := session.GenerateContent(ctx, gollem.Text("primer turno"))
	gt.NoError(t, err)
	gt.Value(t, resp.Texts[0]).Equal("primera")

	// the primary dies mid-conversation; the fallback must see both turns
	resp, err = session.GenerateContent(ctx, gollem.Text("segundo turno"))
	gt.NoError(t, err)
	gt.Value(t, resp.Texts[0]).Equal("segunda")
	gt.Array(t, fallbackInputs).Length(2)
}

func TestChain_SkipsProviderWithoutSession(t *testing.T) {
	chain := llm.New()
	chain.Add("broken", &mockProvider{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return nil, errors.New("bad credentials")
		},
	})
	chain.Add("healthy", &mockProvider{})

	session, err := chain.NewSession(context.Background())
	gt.NoError(t, err)

	resp, err := session.GenerateContent(context.Background(), gollem.Text("hola"))
	gt.NoError(t, err)
	gt.Value(t, resp.Texts[0]).Equal("ok")
}

func TestChain_AllProvidersFail(t *testing.T) {
	failing := func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
		return &mockSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return nil, errors.New("outage")
			},
		}, nil
	}

	chain := llm.New()
	chain.Add("a", &mockProvider{newSessionFn: failing})
	chain.Add("b", &mockProvider{newSessionFn: failing})

	session, err := chain.NewSession(context.Background())
	gt.NoError(t, err)

	_, err = session.GenerateContent(context.Background(), gollem.Text("hola"))
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrNoDecision)).Equal(true)
}

func TestChain_EmbeddingUsesPrimaryOnly(t *testing.T) {
	chain := llm.New()
	chain.Add("primary", &mockProvider{
		embedFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return nil, errors.New("embedding outage")
		},
	})
	chain.Add("fallback", &mockProvider{
		embedFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			t.Fatal("fallback must not serve embeddings")
			return nil, nil
		},
	})

	_, err := chain.GenerateEmbedding(context.Background(), 4, []string{"hola"})
	gt.Error(t, err)

	gt.Value(t, chain.Names()).Equal([]string{"primary", "fallback"})
}
