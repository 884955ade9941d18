package repository_test

import (
	"context"
	"testing"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/repository/memory"
)

func makeTimetable(t *testing.T, program string) *model.Timetable {
	t.Helper()
	return makeTimetableForPeriod(t, program, "2026-1")
}

func makeTimetableForPeriod(t *testing.T, program, period string) *model.Timetable {
	t.Helper()
	tt, err := model.NewTimetable(program, 4, "A", period, []model.TimetableEntry{
		{Day: types.Monday, Start: model.NewClockTime(8, 0), End: model.NewClockTime(10, 0), Course: "Cálculo", Room: "B-201"},
		{Day: types.Wednesday, Start: model.NewClockTime(10, 0), End: model.NewClockTime(12, 0), Course: "Programación"},
	})
	if err != nil {
		t.Fatalf("failed to build timetable: %v", err)
	}
	return tt
}

func runTimetableRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get roundtrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tt := makeTimetable(t, "ISC-"+uniqueSuffix())
		created, err := repo.Timetable().Create(ctx, tt)
		if err != nil {
			t.Fatalf("failed to create timetable: %v", err)
		}
		if created.ID == "" {
			t.Fatal("created timetable has no ID")
		}

		got, err := repo.Timetable().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get timetable: %v", err)
		}
		if got.Program != tt.Program || got.Semester != 4 || got.Group != "A" {
			t.Errorf("unexpected timetable: %+v", got)
		}
		if len(got.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(got.Entries))
		}
		if got.Entries[0].Course != "Cálculo" || got.Entries[0].Day != types.Monday {
			t.Errorf("unexpected first entry: %+v", got.Entries[0])
		}
		if got.Shift != types.ShiftMorning {
			t.Errorf("expected morning shift, got %q", got.Shift)
		}
	})

	t.Run("GetCurrent is nil until a version is published", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		program := "ISC-" + uniqueSuffix()

		created, err := repo.Timetable().Create(ctx, makeTimetable(t, program))
		if err != nil {
			t.Fatalf("failed to create timetable: %v", err)
		}

		current, err := repo.Timetable().GetCurrent(ctx, program, 4, "A")
		if err != nil {
			t.Fatalf("failed to query current timetable: %v", err)
		}
		if current != nil {
			t.Fatal("expected no current timetable before publish")
		}

		if err := repo.Timetable().Publish(ctx, created.ID); err != nil {
			t.Fatalf("failed to publish timetable: %v", err)
		}

		current, err = repo.Timetable().GetCurrent(ctx, program, 4, "A")
		if err != nil {
			t.Fatalf("failed to query current timetable: %v", err)
		}
		if current == nil {
			t.Fatal("expected a current timetable after publish")
		}
		if current.ID != created.ID {
			t.Errorf("expected current=%s, got %s", created.ID, current.ID)
		}
	})

	t.Run("Publish clears the sibling's current flag", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		program := "ISC-" + uniqueSuffix()

		v1, err := repo.Timetable().Create(ctx, makeTimetable(t, program))
		if err != nil {
			t.Fatalf("failed to create v1: %v", err)
		}
		v2, err := repo.Timetable().Create(ctx, makeTimetable(t, program))
		if err != nil {
			t.Fatalf("failed to create v2: %v", err)
		}

		if err := repo.Timetable().Publish(ctx, v1.ID); err != nil {
			t.Fatalf("failed to publish v1: %v", err)
		}
		if err := repo.Timetable().Publish(ctx, v2.ID); err != nil {
			t.Fatalf("failed to publish v2: %v", err)
		}

		current, err := repo.Timetable().GetCurrent(ctx, program, 4, "A")
		if err != nil {
			t.Fatalf("failed to query current timetable: %v", err)
		}
		if current == nil || current.ID != v2.ID {
			t.Fatalf("expected v2 to be current, got %+v", current)
		}

		old, err := repo.Timetable().Get(ctx, v1.ID)
		if err != nil {
			t.Fatalf("failed to get v1: %v", err)
		}
		if old.IsCurrent {
			t.Error("v1 still carries the current flag after v2 was published")
		}
	})

	t.Run("Publish clears the current flag across periods", func(t *testing.T) {
		// GetCurrent does not filter by period, so publishing the new
		// term's version must retire the old term's too
		repo := newRepo(t)
		ctx := context.Background()
		program := "ISC-" + uniqueSuffix()

		old, err := repo.Timetable().Create(ctx, makeTimetableForPeriod(t, program, "2026-1"))
		if err != nil {
			t.Fatalf("failed to create old-term timetable: %v", err)
		}
		next, err := repo.Timetable().Create(ctx, makeTimetableForPeriod(t, program, "2026-2"))
		if err != nil {
			t.Fatalf("failed to create new-term timetable: %v", err)
		}

		if err := repo.Timetable().Publish(ctx, old.ID); err != nil {
			t.Fatalf("failed to publish old term: %v", err)
		}
		if err := repo.Timetable().Publish(ctx, next.ID); err != nil {
			t.Fatalf("failed to publish new term: %v", err)
		}

		current, err := repo.Timetable().GetCurrent(ctx, program, 4, "A")
		if err != nil {
			t.Fatalf("failed to query current timetable: %v", err)
		}
		if current == nil || current.ID != next.ID {
			t.Fatalf("expected the new term to be current, got %+v", current)
		}

		retired, err := repo.Timetable().Get(ctx, old.ID)
		if err != nil {
			t.Fatalf("failed to get old-term timetable: %v", err)
		}
		if retired.IsCurrent {
			t.Error("old term still carries the current flag")
		}
	})

	t.Run("Publish of an unknown ID fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Timetable().Publish(ctx, model.NewTimetableID()); err == nil {
			t.Error("expected an error publishing an unknown timetable")
		}
	})
}

func TestMemoryTimetableRepository(t *testing.T) {
	runTimetableRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreTimetableRepository(t *testing.T) {
	runTimetableRepositoryTest(t, newFirestoreRepository)
}
