package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// Chunk is the unit of retrieval: a bounded passage of document text
// paired with an embedding vector. A chunk belongs to exactly one
// document and carries a zero-based, order-preserving index.
type Chunk struct {
	DocumentID types.DocumentID
	Index      int
	Text       string
	Embedding  []float32
	Title      string // owning document title, for citation
	Section    string // section label within the document, may be empty
	Ref        string // human-readable citation (title + section), may be empty
	CreatedAt  time.Time
}

// Validate checks the chunk invariants before persistence
func (c *Chunk) Validate() error {
	if c.DocumentID == "" {
		return goerr.New("chunk requires a document ID")
	}
	if c.Index < 0 {
		return goerr.New("chunk index must be non-negative", goerr.V("index", c.Index))
	}
	if c.Text == "" {
		return goerr.New("chunk text cannot be empty", goerr.V("documentID", c.DocumentID), goerr.V("index", c.Index))
	}
	if len(c.Embedding) != EmbeddingDimension {
		return goerr.New("chunk embedding has wrong dimension",
			goerr.V("documentID", c.DocumentID),
			goerr.V("got", len(c.Embedding)),
			goerr.V("want", EmbeddingDimension),
		)
	}
	return nil
}

// ValidateChunkSet checks that a set of chunks forms a valid replacement
// for one document: same owner, indices 0..n-1 with no gaps.
func ValidateChunkSet(docID types.DocumentID, chunks []*Chunk) error {
	for i, c := range chunks {
		if c.DocumentID != docID {
			return goerr.New("chunk belongs to another document",
				goerr.V("expected", docID), goerr.V("got", c.DocumentID))
		}
		if c.Index != i {
			return goerr.New("chunk indices must be contiguous from zero",
				goerr.V("position", i), goerr.V("index", c.Index))
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ScoredChunk is a chunk returned from similarity search together with
// its cosine similarity score (0-1, higher is closer).
type ScoredChunk struct {
	Chunk      *Chunk
	Similarity float32
}
