package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/chunker"
	"github.com/CarlosCampa21/aura-api/pkg/service/embed"
	"github.com/CarlosCampa21/aura-api/pkg/service/extract"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// Result reports the outcome of one document ingestion
type Result struct {
	DocumentID types.DocumentID
	Chunks     int
	Embeddings int
	Status     types.IngestStatus
}

// Pipeline runs fetch, extract, segment, embed and replace for one
// document. Each run fully replaces the document's chunk set; a
// document that yields no text ends with status "empty" and zero chunks
// persisted.
type Pipeline struct {
	catalog   interfaces.DocumentCatalog
	chunks    interfaces.ChunkRepository
	fetcher   interfaces.DocumentFetcher
	extractor *extract.Extractor
	splitter  *chunker.Splitter
	embed     *embed.Client
}

// New creates an ingestion pipeline
func New(catalog interfaces.DocumentCatalog, chunks interfaces.ChunkRepository, fetcher interfaces.DocumentFetcher, extractor *extract.Extractor, splitter *chunker.Splitter, embedClient *embed.Client) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		chunks:    chunks,
		fetcher:   fetcher,
		extractor: extractor,
		splitter:  splitter,
		embed:     embedClient,
	}
}

// Ingest processes one document by ID. A document that is not enabled
// retrievable knowledge is rejected with ErrBadRequest before any side
// effect.
func (p *Pipeline) Ingest(ctx context.Context, docID types.DocumentID) (*Result, error) {
	doc, err := p.catalog.Get(ctx, docID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load document", goerr.V("documentID", docID))
	}
	if doc == nil {
		return nil, goerr.Wrap(types.ErrBadRequest, "document not found", goerr.V("documentID", docID))
	}
	if !doc.Ingestible() {
		return nil, goerr.Wrap(types.ErrBadRequest, "document is not ingestible",
			goerr.V("documentID", docID), goerr.V("kind", doc.Kind), goerr.V("enabled", doc.Enabled))
	}

	if err := p.catalog.UpdateIngestStatus(ctx, docID, types.IngestProcessing, doc.ChunkCount); err != nil {
		return nil, goerr.Wrap(err, "failed to mark document as processing")
	}

	data, err := p.fetcher.Fetch(ctx, doc.URL)
	if err != nil {
		return nil, p.fail(ctx, docID, goerr.Wrap(err, "failed to fetch document"))
	}

	text, err := p.extractor.Extract(data, doc.ContentType, doc.URL)
	if err != nil {
		return nil, p.fail(ctx, docID, goerr.Wrap(err, "failed to extract text"))
	}

	passages := p.splitter.Split(text)
	if len(passages) == 0 {
		if err := p.chunks.Replace(ctx, docID, nil); err != nil {
			return nil, p.fail(ctx, docID, goerr.Wrap(err, "failed to clear chunks"))
		}
		if err := p.catalog.UpdateIngestStatus(ctx, docID, types.IngestEmpty, 0); err != nil {
			return nil, goerr.Wrap(err, "failed to record empty ingestion")
		}
		logging.From(ctx).Info("document yielded no text",
			slog.String("documentID", string(docID)), slog.String("title", doc.Title))
		return &Result{DocumentID: docID, Status: types.IngestEmpty}, nil
	}

	texts := make([]string, len(passages))
	for i, passage := range passages {
		texts[i] = passage.Text
	}

	vectors, err := p.embed.Embed(ctx, texts)
	if err != nil {
		return nil, p.fail(ctx, docID, goerr.Wrap(err, "failed to embed passages"))
	}

	chunks := make([]*model.Chunk, len(passages))
	now := time.Now()
	for i, passage := range passages {
		chunks[i] = &model.Chunk{
			DocumentID: docID,
			Index:      i,
			Text:       passage.Text,
			Embedding:  vectors[i],
			Title:      doc.Title,
			Section:    passage.Section,
			Ref:        citationRef(doc.Title, passage.Section),
			CreatedAt:  now,
		}
	}

	if err := p.chunks.Replace(ctx, docID, chunks); err != nil {
		return nil, p.fail(ctx, docID, goerr.Wrap(err, "failed to replace chunks"))
	}
	if err := p.catalog.UpdateIngestStatus(ctx, docID, types.IngestDone, len(chunks)); err != nil {
		return nil, goerr.Wrap(err, "failed to record ingestion result")
	}

	logging.From(ctx).Info("document ingested",
		slog.String("documentID", string(docID)),
		slog.String("title", doc.Title),
		slog.Int("chunks", len(chunks)))

	return &Result{
		DocumentID: docID,
		Chunks:     len(chunks),
		Embeddings: len(vectors),
		Status:     types.IngestDone,
	}, nil
}

// fail records the error status best-effort and returns the cause
func (p *Pipeline) fail(ctx context.Context, docID types.DocumentID, cause error) error {
	if err := p.catalog.UpdateIngestStatus(ctx, docID, types.IngestError, 0); err != nil {
		logging.From(ctx).Warn("failed to record ingestion error",
			slog.String("documentID", string(docID)), slog.Any("error", err))
	}
	return cause
}

func citationRef(title, section string) string {
	if section == "" {
		return title
	}
	return fmt.Sprintf("%s / %s", title, section)
}
