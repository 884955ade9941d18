package usecase

import (
	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/service/chunker"
	"github.com/CarlosCampa21/aura-api/pkg/service/embed"
	"github.com/CarlosCampa21/aura-api/pkg/service/extract"
	"github.com/CarlosCampa21/aura-api/pkg/service/fetch"
	"github.com/CarlosCampa21/aura-api/pkg/service/ingest"
	"github.com/CarlosCampa21/aura-api/pkg/service/rag"
	"github.com/CarlosCampa21/aura-api/pkg/service/ratelimit"
	"github.com/CarlosCampa21/aura-api/pkg/service/schedule"
)

// UseCases wires the engine's operations: document ingestion, raw
// retrieval and the question answering priority chain.
type UseCases struct {
	repo    interfaces.Repository
	llm     interfaces.LLMClient
	fetcher interfaces.DocumentFetcher
	limiter ratelimit.Limiter

	academicContext string
	maxChars        int
	overlap         int
	topK            int

	embed    *embed.Client
	pipeline *ingest.Pipeline
	answerer *rag.Answerer
	resolver *schedule.Resolver
}

type Option func(*UseCases)

// WithLLM sets the model provider (normally the fallback chain)
func WithLLM(llm interfaces.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

// WithFetcher overrides the document fetcher, for tests
func WithFetcher(f interfaces.DocumentFetcher) Option {
	return func(uc *UseCases) {
		uc.fetcher = f
	}
}

// WithRateLimiter sets the per-caller request limiter
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(uc *UseCases) {
		uc.limiter = l
	}
}

// WithAcademicContext sets the short institutional context string that
// is folded into the orchestrator's system prompt.
func WithAcademicContext(s string) Option {
	return func(uc *UseCases) {
		uc.academicContext = s
	}
}

// WithChunking overrides the segmenter parameters
func WithChunking(maxChars, overlap int) Option {
	return func(uc *UseCases) {
		uc.maxChars = maxChars
		uc.overlap = overlap
	}
}

// WithTopK overrides the retrieval depth
func WithTopK(k int) Option {
	return func(uc *UseCases) {
		uc.topK = k
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		maxChars: chunker.DefaultMaxChars,
		overlap:  chunker.DefaultOverlap,
		topK:     rag.DefaultTopK,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.fetcher == nil {
		uc.fetcher = fetch.New(fetch.DefaultTimeout)
	}

	uc.embed = embed.New(uc.llm, model.EmbeddingDimension)
	uc.pipeline = ingest.New(repo.Document(), repo.Chunk(), uc.fetcher,
		extract.New(), chunker.New(uc.maxChars, uc.overlap), uc.embed)
	uc.resolver = schedule.New(repo.Timetable(), repo.Holiday())
	uc.answerer = rag.New(repo.Chunk(), repo.Document(), uc.embed, uc.llm, rag.WithTopK(uc.topK))

	return uc
}
