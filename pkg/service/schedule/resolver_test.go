package schedule_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/repository/memory"
	"github.com/CarlosCampa21/aura-api/pkg/service/schedule"
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testProfile() *model.Profile {
	return &model.Profile{
		Email:    "alumno@uni.edu.mx",
		Name:     "Alumno de Prueba",
		Program:  "ISC",
		Semester: 4,
		Group:    "A",
		Shift:    types.ShiftMorning,
		Timezone: "UTC",
	}
}

func seedTimetable(t *testing.T, repo *memory.Memory) *model.Timetable {
	t.Helper()
	ctx := context.Background()

	tt, err := model.NewTimetable("ISC", 4, "A", "2026-1", []model.TimetableEntry{
		{Day: types.Monday, Start: model.NewClockTime(8, 0), End: model.NewClockTime(10, 0), Course: "Cálculo", Room: "B-201"},
		{Day: types.Monday, Start: model.NewClockTime(11, 0), End: model.NewClockTime(13, 0), Course: "Redes", Instructor: "Dra. Juana Pérez"},
		{Day: types.Tuesday, Start: model.NewClockTime(9, 0), End: model.NewClockTime(11, 0), Course: "Física"},
		{Day: types.Wednesday, Start: model.NewClockTime(10, 0), End: model.NewClockTime(12, 0), Course: "Programación"},
	})
	gt.NoError(t, err)

	_, err = repo.Timetable().Create(ctx, tt)
	gt.NoError(t, err)
	gt.NoError(t, repo.Timetable().Publish(ctx, tt.ID))
	return tt
}

func newResolver(repo *memory.Memory, now time.Time) *schedule.Resolver {
	return schedule.New(repo.Timetable(), repo.Holiday(),
		schedule.WithClock(func() time.Time { return now }))
}

func TestResolve_MissingProfileFields(t *testing.T) {
	repo := memory.New()
	r := newResolver(repo, monday)

	profile := &model.Profile{Email: "alumno@uni.edu.mx", Program: "ISC"}
	res, err := r.Resolve(context.Background(), profile, schedule.WhenToday, "")
	gt.NoError(t, err)

	gt.Value(t, res.Missing).Equal([]string{"turno", "semestre"})
	gt.Value(t, strings.Contains(res.Message, "turno")).Equal(true)
	gt.Value(t, strings.Contains(res.Message, "semestre")).Equal(true)
	gt.Array(t, res.Entries).Length(0)
}

func TestResolve_NilProfile(t *testing.T) {
	r := newResolver(memory.New(), monday)

	_, err := r.Resolve(context.Background(), nil, schedule.WhenToday, "")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrBadRequest)).Equal(true)
}

func TestResolve_NoPublishedTimetable(t *testing.T) {
	repo := memory.New()
	r := newResolver(repo, monday)

	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenToday, "")
	gt.NoError(t, err)
	gt.Value(t, res.Message).Equal("No encontré un horario publicado para tu grupo.")
	gt.Array(t, res.Entries).Length(0)
}

func TestResolve_Today(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)
	r := newResolver(repo, monday)

	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenToday, "")
	gt.NoError(t, err)

	gt.Value(t, res.Day).Equal(types.Monday)
	gt.Array(t, res.Entries).Length(2)
	gt.Value(t, res.Entries[0].Course).Equal("Cálculo")
	gt.Value(t, res.Entries[1].Course).Equal("Redes")
	gt.Value(t, strings.Contains(res.Message, "B-201")).Equal(true)
	gt.Value(t, strings.Contains(res.Message, "Dra. Juana Pérez")).Equal(true)
}

func TestResolve_NowReturnsRemainingClass(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	// 10:00 on Monday: Cálculo already ended, Redes still ahead
	r := newResolver(repo, monday)
	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenNow, "")
	gt.NoError(t, err)

	gt.Array(t, res.Entries).Length(1)
	gt.Value(t, res.Entries[0].Course).Equal("Redes")
	gt.Value(t, strings.HasPrefix(res.Message, "Ahora:")).Equal(true)
}

func TestResolve_NowRollsToNextDay(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	// 14:00 on Monday: no classes left today, next is Tuesday's Física
	r := newResolver(repo, monday.Add(4*time.Hour))
	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenNow, "")
	gt.NoError(t, err)

	gt.Array(t, res.Entries).Length(1)
	gt.Value(t, res.Entries[0].Course).Equal("Física")
	gt.Value(t, res.Day).Equal(types.Tuesday)
}

func TestResolve_TomorrowSkipsHoliday(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)
	ctx := context.Background()

	tuesday := monday.AddDate(0, 0, 1)
	gt.NoError(t, repo.Holiday().Put(ctx, &model.Holiday{
		Date:   model.HolidayKey(tuesday),
		Reason: "Suspensión de labores",
	}))

	r := newResolver(repo, monday)
	res, err := r.Resolve(ctx, testProfile(), schedule.WhenTomorrow, "")
	gt.NoError(t, err)

	// Tuesday is a holiday, so tomorrow's classes are Wednesday's
	gt.Value(t, res.Day).Equal(types.Wednesday)
	gt.Array(t, res.Entries).Length(1)
	gt.Value(t, res.Entries[0].Course).Equal("Programación")
}

func TestResolve_Tomorrow(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	r := newResolver(repo, monday)
	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenTomorrow, "")
	gt.NoError(t, err)

	gt.Value(t, res.Day).Equal(types.Tuesday)
	gt.Array(t, res.Entries).Length(1)
	gt.Value(t, res.Entries[0].Course).Equal("Física")
}

func TestResolve_NamedDayWithoutClasses(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	r := newResolver(repo, monday)
	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenDay, "viernes")
	gt.NoError(t, err)

	gt.Value(t, res.Day).Equal(types.Friday)
	gt.Array(t, res.Entries).Length(0)
	gt.Value(t, res.Message).Equal("No tienes clases el viernes.")
}

func TestResolve_NamedDay(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	r := newResolver(repo, monday)
	res, err := r.Resolve(context.Background(), testProfile(), schedule.WhenDay, "Miércoles")
	gt.NoError(t, err)

	gt.Value(t, res.Day).Equal(types.Wednesday)
	gt.Array(t, res.Entries).Length(1)
	gt.Value(t, res.Entries[0].Course).Equal("Programación")
	gt.Value(t, res.Date.Weekday()).Equal(time.Wednesday)
}

func TestResolve_UnknownDayName(t *testing.T) {
	repo := memory.New()
	seedTimetable(t, repo)

	r := newResolver(repo, monday)
	_, err := r.Resolve(context.Background(), testProfile(), schedule.WhenDay, "domingo")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrBadRequest)).Equal(true)
}
