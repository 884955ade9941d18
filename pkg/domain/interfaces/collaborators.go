package interfaces

import (
	"context"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// DocumentCatalog is the document metadata store. The catalog itself is
// owned by the administrative surface; the core reads it and mutates
// only the ingestion status fields.
type DocumentCatalog interface {
	// Get retrieves a document by ID, or nil when it does not exist
	Get(ctx context.Context, id types.DocumentID) (*model.Document, error)

	// Search ranks documents by title/alias/tag match for the query
	Search(ctx context.Context, query string, limit int) ([]*model.Document, error)

	// ListIngestible lists enabled knowledge documents up to limit
	ListIngestible(ctx context.Context, limit int) ([]*model.Document, error)

	// UpdateIngestStatus records the ingestion outcome for a document.
	// Only the ingestion pipeline calls this.
	UpdateIngestStatus(ctx context.Context, id types.DocumentID, status types.IngestStatus, chunkCount int) error
}

// ProfileStore resolves a user's academic profile by email
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// DocumentFetcher retrieves the raw bytes of a document from its source
// URL. Synchronous, single timeout, no retries.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
