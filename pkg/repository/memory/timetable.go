package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
)

type timetableRepository struct {
	mu         sync.RWMutex
	timetables map[model.TimetableID]*model.Timetable
}

func newTimetableRepository() *timetableRepository {
	return &timetableRepository{
		timetables: make(map[model.TimetableID]*model.Timetable),
	}
}

// copyTimetable creates a deep copy of a timetable
func copyTimetable(t *model.Timetable) *model.Timetable {
	copied := *t
	copied.Entries = make([]model.TimetableEntry, len(t.Entries))
	copy(copied.Entries, t.Entries)
	return &copied
}

func (r *timetableRepository) Create(ctx context.Context, tt *model.Timetable) (*model.Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyTimetable(tt)
	if created.ID == "" {
		created.ID = model.NewTimetableID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.timetables[created.ID] = created
	return copyTimetable(created), nil
}

func (r *timetableRepository) Get(ctx context.Context, id model.TimetableID) (*model.Timetable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tt, exists := r.timetables[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "timetable not found", goerr.V("id", id))
	}
	return copyTimetable(tt), nil
}

func (r *timetableRepository) GetCurrent(ctx context.Context, program string, semester int, group string) (*model.Timetable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tt := range r.timetables {
		if tt.IsCurrent && tt.Program == program && tt.Semester == semester && tt.Group == group {
			return copyTimetable(tt), nil
		}
	}
	return nil, nil
}

func (r *timetableRepository) Publish(ctx context.Context, id model.TimetableID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.timetables[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "timetable not found", goerr.V("id", id))
	}

	// period is deliberately not part of the sibling match, see the
	// firestore backend
	now := time.Now().UTC()
	for _, tt := range r.timetables {
		if tt.Program == target.Program && tt.Semester == target.Semester && tt.Group == target.Group && tt.IsCurrent {
			tt.IsCurrent = false
			tt.UpdatedAt = now
		}
	}
	target.IsCurrent = true
	target.UpdatedAt = now
	return nil
}
