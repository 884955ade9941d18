package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
)

type holidayDoc struct {
	Date   time.Time `firestore:"Date"`
	Reason string    `firestore:"Reason,omitempty"`
	Campus string    `firestore:"Campus,omitempty"`
}

type holidayRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHolidayRepository(client *firestore.Client) *holidayRepository {
	return &holidayRepository{client: client}
}

func (r *holidayRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "holidays")
}

func holidayDocID(date time.Time, campus string) string {
	key := model.HolidayKey(date).Format("2006-01-02")
	if campus == "" {
		return key
	}
	return key + "_" + campus
}

func (r *holidayRepository) Put(ctx context.Context, h *model.Holiday) error {
	doc := &holidayDoc{
		Date:   model.HolidayKey(h.Date),
		Reason: h.Reason,
		Campus: h.Campus,
	}
	if _, err := r.collection().Doc(holidayDocID(h.Date, h.Campus)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put holiday", goerr.V("date", h.Date))
	}
	return nil
}

// IsHoliday matches the calendar day against campus-wide and
// campus-specific entries.
func (r *holidayRepository) IsHoliday(ctx context.Context, date time.Time, campus string) (bool, error) {
	iter := r.collection().
		Where("Date", "==", model.HolidayKey(date)).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return false, goerr.Wrap(err, "failed to query holidays", goerr.V("date", date))
		}

		var d holidayDoc
		if err := doc.DataTo(&d); err != nil {
			return false, goerr.Wrap(err, "failed to unmarshal holiday")
		}
		if d.Campus == "" || campus == "" || d.Campus == campus {
			return true, nil
		}
	}

	return false, nil
}
