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

type timetableEntryDoc struct {
	Day        int    `firestore:"Day"`
	Start      int    `firestore:"Start"`
	End        int    `firestore:"End"`
	Course     string `firestore:"Course"`
	Instructor string `firestore:"Instructor,omitempty"`
	Room       string `firestore:"Room,omitempty"`
	Modality   string `firestore:"Modality,omitempty"`
}

type timetableDoc struct {
	ID        string              `firestore:"ID"`
	Program   string              `firestore:"Program"`
	Semester  int                 `firestore:"Semester"`
	Group     string              `firestore:"Group"`
	Period    string              `firestore:"Period"`
	Shift     string              `firestore:"Shift"`
	Version   int                 `firestore:"Version"`
	IsCurrent bool                `firestore:"IsCurrent"`
	Entries   []timetableEntryDoc `firestore:"Entries"`
	CreatedAt time.Time           `firestore:"CreatedAt"`
	UpdatedAt time.Time           `firestore:"UpdatedAt"`
}

func toTimetableDoc(t *model.Timetable) *timetableDoc {
	doc := &timetableDoc{
		ID:        string(t.ID),
		Program:   t.Program,
		Semester:  t.Semester,
		Group:     t.Group,
		Period:    t.Period,
		Shift:     string(t.Shift),
		Version:   t.Version,
		IsCurrent: t.IsCurrent,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, e := range t.Entries {
		doc.Entries = append(doc.Entries, timetableEntryDoc{
			Day:        int(e.Day),
			Start:      int(e.Start),
			End:        int(e.End),
			Course:     e.Course,
			Instructor: e.Instructor,
			Room:       e.Room,
			Modality:   string(e.Modality),
		})
	}
	return doc
}

func fromTimetableDoc(d *timetableDoc) *model.Timetable {
	t := &model.Timetable{
		ID:        model.TimetableID(d.ID),
		Program:   d.Program,
		Semester:  d.Semester,
		Group:     d.Group,
		Period:    d.Period,
		Shift:     types.Shift(d.Shift),
		Version:   d.Version,
		IsCurrent: d.IsCurrent,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, e := range d.Entries {
		t.Entries = append(t.Entries, model.TimetableEntry{
			TimetableID: t.ID,
			Day:         types.Weekday(e.Day),
			Start:       model.ClockTime(e.Start),
			End:         model.ClockTime(e.End),
			Course:      e.Course,
			Instructor:  e.Instructor,
			Room:        e.Room,
			Modality:    types.Modality(e.Modality),
		})
	}
	return t
}

type timetableRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTimetableRepository(client *firestore.Client) *timetableRepository {
	return &timetableRepository{client: client}
}

func (r *timetableRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "timetables")
}

func (r *timetableRepository) Create(ctx context.Context, tt *model.Timetable) (*model.Timetable, error) {
	now := time.Now().UTC()
	if tt.ID == "" {
		tt.ID = model.NewTimetableID()
	}
	tt.CreatedAt = now
	tt.UpdatedAt = now

	if _, err := r.collection().Doc(string(tt.ID)).Set(ctx, toTimetableDoc(tt)); err != nil {
		return nil, goerr.Wrap(err, "failed to create timetable", goerr.V("id", tt.ID))
	}
	return tt, nil
}

func (r *timetableRepository) Get(ctx context.Context, id model.TimetableID) (*model.Timetable, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "timetable not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get timetable", goerr.V("id", id))
	}

	var d timetableDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal timetable", goerr.V("id", id))
	}
	return fromTimetableDoc(&d), nil
}

// GetCurrent returns nil without error when no version is published for
// the combination.
func (r *timetableRepository) GetCurrent(ctx context.Context, program string, semester int, group string) (*model.Timetable, error) {
	iter := r.collection().
		Where("Program", "==", program).
		Where("Semester", "==", semester).
		Where("Group", "==", group).
		Where("IsCurrent", "==", true).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query current timetable",
			goerr.V("program", program), goerr.V("semester", semester), goerr.V("group", group))
	}

	var d timetableDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal timetable")
	}
	return fromTimetableDoc(&d), nil
}

// Publish marks the version as current and clears the flag on all
// sibling versions in one transaction. Siblings match on program,
// semester and group; period is deliberately ignored so GetCurrent
// stays unambiguous across terms.
func (r *timetableRepository) Publish(ctx context.Context, id model.TimetableID) error {
	targetRef := r.collection().Doc(string(id))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		target, err := tx.Get(targetRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "timetable not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get timetable", goerr.V("id", id))
		}

		var d timetableDoc
		if err := target.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal timetable", goerr.V("id", id))
		}

		siblings, err := tx.Documents(r.collection().
			Where("Program", "==", d.Program).
			Where("Semester", "==", d.Semester).
			Where("Group", "==", d.Group).
			Where("IsCurrent", "==", true)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query current siblings", goerr.V("id", id))
		}

		now := time.Now().UTC()
		for _, sibling := range siblings {
			if sibling.Ref.ID == target.Ref.ID {
				continue
			}
			if err := tx.Update(sibling.Ref, []firestore.Update{
				{Path: "IsCurrent", Value: false},
				{Path: "UpdatedAt", Value: now},
			}); err != nil {
				return goerr.Wrap(err, "failed to clear sibling current flag")
			}
		}

		return tx.Update(targetRef, []firestore.Update{
			{Path: "IsCurrent", Value: true},
			{Path: "UpdatedAt", Value: now},
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to publish timetable", goerr.V("id", id))
	}
	return nil
}
