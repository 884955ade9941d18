package interfaces

import (
	"context"
	"time"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// ChunkRepository defines the interface for the vector-indexed chunk store
type ChunkRepository interface {
	// Replace deletes all existing chunks of the document and bulk-inserts
	// the new set. The new chunks must carry contiguous indices 0..n-1.
	// Passing an empty set leaves zero chunks persisted.
	Replace(ctx context.Context, docID types.DocumentID, chunks []*model.Chunk) error

	// DeleteByDocument removes all chunks of a document and returns how
	// many were deleted.
	DeleteByDocument(ctx context.Context, docID types.DocumentID) (int, error)

	// ListByDocument returns a document's chunks in index order
	ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Chunk, error)

	// Search runs k-nearest-neighbor search over the vector index using
	// cosine similarity. It returns at most limit results in descending
	// similarity order; zero results is not an error.
	Search(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error)
}

// TimetableRepository defines the interface for versioned timetable storage
type TimetableRepository interface {
	// Create stores a new timetable version
	Create(ctx context.Context, tt *model.Timetable) (*model.Timetable, error)

	// Get retrieves a timetable by ID
	Get(ctx context.Context, id model.TimetableID) (*model.Timetable, error)

	// GetCurrent resolves the current timetable version for a
	// (program, semester, group) combination, or nil when none is published.
	GetCurrent(ctx context.Context, program string, semester int, group string) (*model.Timetable, error)

	// Publish marks the given version as current and clears the flag on
	// all sibling versions of the same combination, atomically from the
	// caller's perspective.
	Publish(ctx context.Context, id model.TimetableID) error
}

// HolidayRepository defines the interface for the institutional holiday
// calendar. Lookups are best-effort at call sites: failures must not
// abort schedule resolution.
type HolidayRepository interface {
	// IsHoliday reports whether the given calendar day is a holiday for
	// the campus ("" = any campus).
	IsHoliday(ctx context.Context, date time.Time, campus string) (bool, error)

	// Put registers a holiday
	Put(ctx context.Context, h *model.Holiday) error
}

// Repository aggregates all data access of the engine
type Repository interface {
	Chunk() ChunkRepository
	Timetable() TimetableRepository
	Holiday() HolidayRepository
	Document() DocumentCatalog
	Profile() ProfileStore
	Close() error
}
