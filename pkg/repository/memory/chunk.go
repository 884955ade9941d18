package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

type chunkRepository struct {
	mu     sync.RWMutex
	chunks map[types.DocumentID][]*model.Chunk
}

func newChunkRepository() *chunkRepository {
	return &chunkRepository{
		chunks: make(map[types.DocumentID][]*model.Chunk),
	}
}

// copyChunk creates a deep copy of a chunk
func copyChunk(c *model.Chunk) *model.Chunk {
	copied := &model.Chunk{
		DocumentID: c.DocumentID,
		Index:      c.Index,
		Text:       c.Text,
		Title:      c.Title,
		Section:    c.Section,
		Ref:        c.Ref,
		CreatedAt:  c.CreatedAt,
	}
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return copied
}

func (r *chunkRepository) Replace(ctx context.Context, docID types.DocumentID, chunks []*model.Chunk) error {
	if err := model.ValidateChunkSet(docID, chunks); err != nil {
		return goerr.Wrap(err, "invalid chunk set", goerr.V("documentID", docID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(chunks) == 0 {
		delete(r.chunks, docID)
		return nil
	}

	stored := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		stored[i] = copyChunk(c)
	}
	r.chunks[docID] = stored
	return nil
}

func (r *chunkRepository) DeleteByDocument(ctx context.Context, docID types.DocumentID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.chunks[docID])
	delete(r.chunks, docID)
	return count, nil
}

func (r *chunkRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.chunks[docID]
	out := make([]*model.Chunk, len(stored))
	for i, c := range stored {
		out[i] = copyChunk(c)
	}
	return out, nil
}

func (r *chunkRepository) Search(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []*model.ScoredChunk
	for _, chunks := range r.chunks {
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				continue
			}
			hits = append(hits, &model.ScoredChunk{
				Chunk:      copyChunk(c),
				Similarity: cosineSimilarity(embedding, c.Embedding),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
