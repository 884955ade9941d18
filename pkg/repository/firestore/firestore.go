package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
)

// Firestore backs the engine's data access with Cloud Firestore,
// including the vector index over chunk embeddings.
type Firestore struct {
	client    *firestore.Client
	chunk     *chunkRepository
	timetable *timetableRepository
	holiday   *holidayRepository
	document  *documentRepository
	profile   *profileRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, for shared projects
// and emulator test runs.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.chunk.collectionPrefix = prefix
		f.timetable.collectionPrefix = prefix
		f.holiday.collectionPrefix = prefix
		f.document.collectionPrefix = prefix
		f.profile.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		chunk:     newChunkRepository(client),
		timetable: newTimetableRepository(client),
		holiday:   newHolidayRepository(client),
		document:  newDocumentRepository(client),
		profile:   newProfileRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Chunk() interfaces.ChunkRepository {
	return f.chunk
}

func (f *Firestore) Timetable() interfaces.TimetableRepository {
	return f.timetable
}

func (f *Firestore) Holiday() interfaces.HolidayRepository {
	return f.holiday
}

func (f *Firestore) Document() interfaces.DocumentCatalog {
	return f.document
}

func (f *Firestore) Profile() interfaces.ProfileStore {
	return f.profile
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
