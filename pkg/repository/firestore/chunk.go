package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// chunkDoc is the Firestore document representation of model.Chunk.
// Embedding is stored as firestore.Vector32 so that FindNearest vector
// search works; Distance is populated only by vector search results.
type chunkDoc struct {
	DocumentID string             `firestore:"DocumentID"`
	Index      int                `firestore:"Index"`
	Text       string             `firestore:"Text"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	Title      string             `firestore:"Title"`
	Section    string             `firestore:"Section,omitempty"`
	Ref        string             `firestore:"Ref,omitempty"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
	Distance   float64            `firestore:"Distance,omitempty"`
}

func toChunkDoc(c *model.Chunk) *chunkDoc {
	doc := &chunkDoc{
		DocumentID: string(c.DocumentID),
		Index:      c.Index,
		Text:       c.Text,
		Title:      c.Title,
		Section:    c.Section,
		Ref:        c.Ref,
		CreatedAt:  c.CreatedAt,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	c := &model.Chunk{
		DocumentID: types.DocumentID(d.DocumentID),
		Index:      d.Index,
		Text:       d.Text,
		Title:      d.Title,
		Section:    d.Section,
		Ref:        d.Ref,
		CreatedAt:  d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

type chunkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newChunkRepository(client *firestore.Client) *chunkRepository {
	return &chunkRepository{client: client}
}

func (r *chunkRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "chunks")
}

// chunkDocID keys a chunk by owner and index so replacement overwrites
// in place and never accumulates duplicates.
func chunkDocID(docID types.DocumentID, index int) string {
	return fmt.Sprintf("%s_%06d", docID, index)
}

func (r *chunkRepository) Replace(ctx context.Context, docID types.DocumentID, chunks []*model.Chunk) error {
	if err := model.ValidateChunkSet(docID, chunks); err != nil {
		return goerr.Wrap(err, "invalid chunk set", goerr.V("documentID", docID))
	}

	existing, err := r.refsByDocument(ctx, docID)
	if err != nil {
		return err
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range existing {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue chunk delete", goerr.V("documentID", docID))
		}
	}
	for _, c := range chunks {
		ref := r.collection().Doc(chunkDocID(docID, c.Index))
		if _, err := bw.Set(ref, toChunkDoc(c)); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue chunk write", goerr.V("documentID", docID))
		}
	}
	bw.End()

	return nil
}

func (r *chunkRepository) DeleteByDocument(ctx context.Context, docID types.DocumentID) (int, error) {
	refs, err := r.refsByDocument(ctx, docID)
	if err != nil {
		return 0, err
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to enqueue chunk delete", goerr.V("documentID", docID))
		}
	}
	bw.End()

	return len(refs), nil
}

func (r *chunkRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Chunk, error) {
	iter := r.collection().
		Where("DocumentID", "==", string(docID)).
		OrderBy("Index", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.Chunk, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("documentID", docID))
		}

		var d chunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk")
		}
		chunks = append(chunks, fromChunkDoc(&d))
	}

	return chunks, nil
}

func (r *chunkRepository) Search(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	vq := r.collection().FindNearest("Embedding", firestore.Vector32(embedding), limit,
		firestore.DistanceMeasureCosine, &firestore.FindNearestOptions{
			DistanceResultField: "Distance",
		})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	hits := make([]*model.ScoredChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		var d chunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}

		// cosine distance to similarity
		hits = append(hits, &model.ScoredChunk{
			Chunk:      fromChunkDoc(&d),
			Similarity: float32(1 - d.Distance),
		})
	}

	return hits, nil
}

func (r *chunkRepository) refsByDocument(ctx context.Context, docID types.DocumentID) ([]*firestore.DocumentRef, error) {
	iter := r.collection().
		Where("DocumentID", "==", string(docID)).
		Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list chunks", goerr.V("documentID", docID))
		}
		refs = append(refs, doc.Ref)
	}
	return refs, nil
}
