package interfaces

import (
	"context"

	"github.com/m-mizutani/gollem"
)

// LLMSession is one model conversation. gollem sessions satisfy it;
// consumers depend on this narrow interface so the fallback chain and
// test doubles can stand in for a provider session.
type LLMSession interface {
	GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

// LLMClient is the model provider surface the engine consumes. The
// fallback chain implements it over the concrete gollem clients.
type LLMClient interface {
	// NewSession opens a conversation with the given session options
	NewSession(ctx context.Context, options ...gollem.SessionOption) (LLMSession, error)

	// GenerateEmbedding converts texts to vectors of the given dimension,
	// one vector per input, in input order.
	GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error)
}
