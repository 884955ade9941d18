package embed

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// Client batches texts into embedding vectors via the model provider
type Client struct {
	llm       interfaces.LLMClient
	dimension int
}

// New creates an embedding client. A non-positive dimension falls back
// to the store's native dimension at the call site, so callers should
// pass model.EmbeddingDimension.
func New(llm interfaces.LLMClient, dimension int) *Client {
	return &Client{llm: llm, dimension: dimension}
}

// Embed converts texts into one vector per input, in input order. An
// empty input returns an empty result without calling the provider. A
// missing provider fails with ErrNotConfigured rather than producing
// empty vectors.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if c == nil || c.llm == nil {
		return nil, goerr.Wrap(types.ErrNotConfigured, "embedding provider is not configured")
	}

	vectors, err := c.llm.GenerateEmbedding(ctx, c.dimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings", goerr.V("count", len(texts)))
	}
	if len(vectors) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("want", len(texts)), goerr.V("got", len(vectors)))
	}

	out := make([][]float32, len(vectors))
	for i, vec := range vectors {
		v := make([]float32, len(vec))
		for j, f := range vec {
			v[j] = float32(f)
		}
		out[i] = v
	}
	return out, nil
}
