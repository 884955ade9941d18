package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/ingest"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// ingestWorkers bounds concurrent document ingestions in IngestAll
const ingestWorkers = 4

// IngestDocument runs the ingestion pipeline for one document
func (uc *UseCases) IngestDocument(ctx context.Context, docID types.DocumentID) (*ingest.Result, error) {
	return uc.pipeline.Ingest(ctx, docID)
}

// IngestAllResult summarizes a bulk ingestion run
type IngestAllResult struct {
	Processed int
	Failed    int
	Results   []*ingest.Result
}

// IngestAll ingests every eligible document up to limit (0 = no limit).
// Individual document failures are logged and counted, not fatal to the
// run.
func (uc *UseCases) IngestAll(ctx context.Context, limit int) (*IngestAllResult, error) {
	docs, err := uc.repo.Document().ListIngestible(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list ingestible documents")
	}

	var (
		mu  sync.Mutex
		out IngestAllResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestWorkers)
	for _, doc := range docs {
		g.Go(func() error {
			res, err := uc.pipeline.Ingest(ctx, doc.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.Failed++
				logging.From(ctx).Error("document ingestion failed",
					slog.String("documentID", string(doc.ID)),
					slog.String("title", doc.Title),
					slog.Any("error", err))
				return nil
			}
			out.Processed++
			out.Results = append(out.Results, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, goerr.Wrap(err, "bulk ingestion aborted")
	}

	return &out, nil
}

// SearchChunks embeds the query and returns raw KNN hits without
// synthesis, for debugging retrieval.
func (uc *UseCases) SearchChunks(ctx context.Context, query string, limit int) ([]*model.ScoredChunk, error) {
	vectors, err := uc.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	hits, err := uc.repo.Chunk().Search(ctx, vectors[0], limit)
	if err != nil {
		return nil, goerr.Wrap(err, "similarity search failed")
	}
	return hits, nil
}
