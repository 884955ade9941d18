package memory

import (
	"context"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
)

// Memory is the in-process repository twin, used by tests and by local
// runs without a Firestore project. Vector search runs brute-force
// cosine similarity over all stored chunks.
type Memory struct {
	chunk     *chunkRepository
	timetable *timetableRepository
	holiday   *holidayRepository
	document  *documentCatalog
	profile   *profileStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		chunk:     newChunkRepository(),
		timetable: newTimetableRepository(),
		holiday:   newHolidayRepository(),
		document:  newDocumentCatalog(),
		profile:   newProfileStore(),
	}
}

func (m *Memory) Chunk() interfaces.ChunkRepository {
	return m.chunk
}

func (m *Memory) Timetable() interfaces.TimetableRepository {
	return m.timetable
}

func (m *Memory) Holiday() interfaces.HolidayRepository {
	return m.holiday
}

func (m *Memory) Document() interfaces.DocumentCatalog {
	return m.document
}

func (m *Memory) Profile() interfaces.ProfileStore {
	return m.profile
}

func (m *Memory) Close() error {
	return nil
}

// PutDocument seeds the catalog. The catalog is owned by an external
// surface in production; this exists for tests and local runs.
func (m *Memory) PutDocument(ctx context.Context, doc *model.Document) error {
	return m.document.Put(ctx, doc)
}

// PutProfile seeds the profile store, for tests and local runs
func (m *Memory) PutProfile(ctx context.Context, profile *model.Profile) error {
	return m.profile.Put(ctx, profile)
}
