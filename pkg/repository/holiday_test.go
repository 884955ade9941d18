package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/repository/memory"
)

func runHolidayRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	// unique per run so reruns against a shared Firestore database do not
	// collide with earlier test data
	base := time.Date(2120, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, int(time.Now().UnixNano()%3000))

	t.Run("IsHoliday matches the calendar day regardless of clock time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Holiday().Put(ctx, &model.Holiday{Date: base, Reason: "Aniversario"}); err != nil {
			t.Fatalf("failed to put holiday: %v", err)
		}

		holiday, err := repo.Holiday().IsHoliday(ctx, base.Add(15*time.Hour+30*time.Minute), "")
		if err != nil {
			t.Fatalf("holiday lookup failed: %v", err)
		}
		if !holiday {
			t.Error("expected the stored date to be a holiday")
		}

		holiday, err = repo.Holiday().IsHoliday(ctx, base.AddDate(0, 0, 1), "")
		if err != nil {
			t.Fatalf("holiday lookup failed: %v", err)
		}
		if holiday {
			t.Error("expected the next day to be a working day")
		}
	})

	t.Run("campus-wide holidays apply to every campus", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		date := base.AddDate(0, 1, 0)

		if err := repo.Holiday().Put(ctx, &model.Holiday{Date: date, Reason: "Día festivo"}); err != nil {
			t.Fatalf("failed to put holiday: %v", err)
		}

		holiday, err := repo.Holiday().IsHoliday(ctx, date, "norte")
		if err != nil {
			t.Fatalf("holiday lookup failed: %v", err)
		}
		if !holiday {
			t.Error("expected a campus-wide holiday to apply to campus norte")
		}
	})

	t.Run("campus-specific holidays do not leak to other campuses", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		date := base.AddDate(0, 2, 0)

		if err := repo.Holiday().Put(ctx, &model.Holiday{Date: date, Reason: "Obras", Campus: "sur"}); err != nil {
			t.Fatalf("failed to put holiday: %v", err)
		}

		holiday, err := repo.Holiday().IsHoliday(ctx, date, "sur")
		if err != nil {
			t.Fatalf("holiday lookup failed: %v", err)
		}
		if !holiday {
			t.Error("expected the holiday to apply to its own campus")
		}

		holiday, err = repo.Holiday().IsHoliday(ctx, date, "norte")
		if err != nil {
			t.Fatalf("holiday lookup failed: %v", err)
		}
		if holiday {
			t.Error("expected the campus-specific holiday not to apply to campus norte")
		}
	})
}

func TestMemoryHolidayRepository(t *testing.T) {
	runHolidayRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreHolidayRepository(t *testing.T) {
	runHolidayRepositoryTest(t, newFirestoreRepository)
}
