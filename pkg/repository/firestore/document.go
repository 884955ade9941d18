package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

type documentDoc struct {
	ID           string    `firestore:"ID"`
	Title        string    `firestore:"Title"`
	URL          string    `firestore:"URL"`
	ContentType  string    `firestore:"ContentType,omitempty"`
	Kind         string    `firestore:"Kind"`
	Enabled      bool      `firestore:"Enabled"`
	Tags         []string  `firestore:"Tags,omitempty"`
	Aliases      []string  `firestore:"Aliases,omitempty"`
	Version      int       `firestore:"Version"`
	IngestStatus string    `firestore:"IngestStatus"`
	ChunkCount   int       `firestore:"ChunkCount"`
	CreatedAt    time.Time `firestore:"CreatedAt"`
	UpdatedAt    time.Time `firestore:"UpdatedAt"`
}

func fromDocumentDoc(d *documentDoc) *model.Document {
	return &model.Document{
		ID:           types.DocumentID(d.ID),
		Title:        d.Title,
		URL:          d.URL,
		ContentType:  d.ContentType,
		Kind:         types.DocumentKind(d.Kind),
		Enabled:      d.Enabled,
		Tags:         d.Tags,
		Aliases:      d.Aliases,
		Version:      d.Version,
		IngestStatus: types.IngestStatus(d.IngestStatus),
		ChunkCount:   d.ChunkCount,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// documentRepository reads the externally owned document catalog. The
// engine only ever mutates the ingestion status fields.
type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

func (r *documentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "documents")
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d documentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("id", id))
	}
	return fromDocumentDoc(&d), nil
}

// Search ranks enabled documents by title/alias/tag match. The catalog
// is small; ranking happens in memory.
func (r *documentRepository) Search(ctx context.Context, query string, limit int) ([]*model.Document, error) {
	iter := r.collection().
		Where("Enabled", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var d documentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		docs = append(docs, fromDocumentDoc(&d))
	}

	return model.RankDocuments(docs, query, limit), nil
}

func (r *documentRepository) ListIngestible(ctx context.Context, limit int) ([]*model.Document, error) {
	q := r.collection().
		Where("Kind", "==", string(types.KindKnowledge)).
		Where("Enabled", "==", true)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	docs := make([]*model.Document, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate ingestible documents")
		}

		var d documentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		docs = append(docs, fromDocumentDoc(&d))
	}

	return docs, nil
}

func (r *documentRepository) UpdateIngestStatus(ctx context.Context, id types.DocumentID, st types.IngestStatus, chunkCount int) error {
	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "IngestStatus", Value: string(st)},
		{Path: "ChunkCount", Value: chunkCount},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update ingest status", goerr.V("id", id))
	}
	return nil
}
