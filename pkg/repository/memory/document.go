package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

type documentCatalog struct {
	mu        sync.RWMutex
	documents map[types.DocumentID]*model.Document
}

func newDocumentCatalog() *documentCatalog {
	return &documentCatalog{
		documents: make(map[types.DocumentID]*model.Document),
	}
}

// copyDocument creates a deep copy of a document
func copyDocument(d *model.Document) *model.Document {
	copied := *d
	copied.Tags = append([]string(nil), d.Tags...)
	copied.Aliases = append([]string(nil), d.Aliases...)
	return &copied
}

func (r *documentCatalog) Put(ctx context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyDocument(doc)
	if stored.ID == "" {
		stored.ID = types.NewDocumentID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.UpdatedAt = time.Now().UTC()

	r.documents[stored.ID] = stored
	return nil
}

func (r *documentCatalog) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.documents[id]
	if !exists {
		return nil, nil
	}
	return copyDocument(doc), nil
}

func (r *documentCatalog) Search(ctx context.Context, query string, limit int) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var docs []*model.Document
	for _, doc := range r.documents {
		if doc.Enabled {
			docs = append(docs, copyDocument(doc))
		}
	}
	return model.RankDocuments(docs, query, limit), nil
}

func (r *documentCatalog) ListIngestible(ctx context.Context, limit int) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0)
	for _, doc := range r.documents {
		if !doc.Ingestible() {
			continue
		}
		docs = append(docs, copyDocument(doc))
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

func (r *documentCatalog) UpdateIngestStatus(ctx context.Context, id types.DocumentID, st types.IngestStatus, chunkCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, exists := r.documents[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}
	doc.IngestStatus = st
	doc.ChunkCount = chunkCount
	doc.UpdatedAt = time.Now().UTC()
	return nil
}
