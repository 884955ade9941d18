package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// When selects the resolution mode of a schedule query
type When string

const (
	WhenNow      When = "now"
	WhenToday    When = "today"
	WhenTomorrow When = "tomorrow"
	WhenDay      When = "day"
)

// lookaheadDays caps the forward scan for the next day with classes
const lookaheadDays = 6

// Result is the structured outcome of a schedule query. Entries may be
// empty; Message always carries a user-facing Spanish summary. Missing
// lists the profile fields that must be completed before any lookup can
// run; when it is non-empty no lookup was attempted.
type Result struct {
	Date    time.Time
	Day     types.Weekday
	Entries []model.TimetableEntry
	Message string
	Missing []string
}

// Resolver answers schedule queries deterministically from the user's
// published timetable, without any model call.
type Resolver struct {
	timetables interfaces.TimetableRepository
	holidays   interfaces.HolidayRepository
	now        func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates a schedule resolver. holidays may be nil; holiday lookups
// are best-effort either way.
func New(timetables interfaces.TimetableRepository, holidays interfaces.HolidayRepository, options ...Option) *Resolver {
	r := &Resolver{
		timetables: timetables,
		holidays:   holidays,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Resolve answers a schedule query for the profile. dayName is only
// consulted when when = day. An unknown day name is a user error
// wrapping ErrBadRequest.
func (r *Resolver) Resolve(ctx context.Context, profile *model.Profile, when When, dayName string) (*Result, error) {
	if profile == nil {
		return nil, goerr.Wrap(types.ErrBadRequest, "schedule query requires a profile")
	}

	if missing := profile.MissingScheduleFields(); len(missing) > 0 {
		return &Result{
			Missing: missing,
			Message: fmt.Sprintf("Para consultar tu horario necesito completar tu perfil: %s.",
				strings.Join(missing, ", ")),
		}, nil
	}

	now := r.now().In(r.location(ctx, profile))

	tt, err := r.timetables.GetCurrent(ctx, profile.Program, profile.Semester, profile.Group)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve current timetable")
	}
	if tt == nil {
		return &Result{
			Date:    now,
			Message: "No encontré un horario publicado para tu grupo.",
		}, nil
	}

	switch when {
	case WhenNow:
		return r.resolveNow(tt, now), nil
	case WhenToday:
		return resolveDate(tt, now), nil
	case WhenTomorrow:
		return r.resolveTomorrow(ctx, tt, now), nil
	case WhenDay:
		day, err := types.ParseWeekday(dayName)
		if err != nil {
			return nil, err
		}
		offset := (int(day) - int(now.Weekday()) + 7) % 7
		return resolveDate(tt, now.AddDate(0, 0, offset)), nil
	default:
		return nil, goerr.Wrap(types.ErrBadRequest, "unknown schedule query mode", goerr.V("when", string(when)))
	}
}

// resolveNow finds the first remaining class of today, or the first
// class of the next day with entries within the lookahead window.
func (r *Resolver) resolveNow(tt *model.Timetable, now time.Time) *Result {
	clock := model.NewClockTime(now.Hour(), now.Minute())
	for _, e := range tt.EntriesOn(types.Weekday(now.Weekday())) {
		if e.End > clock {
			return &Result{
				Date:    now,
				Day:     e.Day,
				Entries: []model.TimetableEntry{e},
				Message: fmt.Sprintf("Ahora: %s", formatEntry(e)),
			}
		}
	}

	for i := 1; i <= lookaheadDays; i++ {
		date := now.AddDate(0, 0, i)
		entries := tt.EntriesOn(types.Weekday(date.Weekday()))
		if len(entries) == 0 {
			continue
		}
		e := entries[0]
		return &Result{
			Date:    date,
			Day:     e.Day,
			Entries: []model.TimetableEntry{e},
			Message: fmt.Sprintf("Ya no tienes clases hoy. Tu próxima clase es el %s: %s", e.Day, formatEntry(e)),
		}
	}

	return &Result{
		Date:    now,
		Message: "No encontré clases próximas en tu horario.",
	}
}

// resolveTomorrow scans forward for the next day with classes, skipping
// Sundays and holidays. Holiday lookups are best-effort and never block
// resolution.
func (r *Resolver) resolveTomorrow(ctx context.Context, tt *model.Timetable, now time.Time) *Result {
	for i := 1; i <= lookaheadDays; i++ {
		date := now.AddDate(0, 0, i)
		day := types.Weekday(date.Weekday())
		if !day.IsValid() {
			continue
		}
		if r.isHoliday(ctx, date) {
			continue
		}
		if res := resolveDate(tt, date); len(res.Entries) > 0 {
			return res
		}
	}

	return &Result{
		Date:    now,
		Message: "No encontré clases en los próximos días.",
	}
}

func (r *Resolver) isHoliday(ctx context.Context, date time.Time) bool {
	if r.holidays == nil {
		return false
	}
	holiday, err := r.holidays.IsHoliday(ctx, date, "")
	if err != nil {
		logging.From(ctx).Debug("holiday lookup failed, assuming working day",
			slog.Time("date", date), slog.Any("error", err))
		return false
	}
	return holiday
}

// resolveDate lists all entries of a specific calendar day
func resolveDate(tt *model.Timetable, date time.Time) *Result {
	day := types.Weekday(date.Weekday())
	entries := tt.EntriesOn(day)
	if len(entries) == 0 {
		return &Result{
			Date:    date,
			Day:     day,
			Message: fmt.Sprintf("No tienes clases el %s.", day),
		}
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, fmt.Sprintf("Clases del %s:", day))
	for _, e := range entries {
		lines = append(lines, "- "+formatEntry(e))
	}
	return &Result{
		Date:    date,
		Day:     day,
		Entries: entries,
		Message: strings.Join(lines, "\n"),
	}
}

func formatEntry(e model.TimetableEntry) string {
	parts := []string{fmt.Sprintf("%s de %s a %s", e.Course, e.Start, e.End)}
	if e.Room != "" {
		parts = append(parts, "en "+e.Room)
	}
	if e.Instructor != "" {
		parts = append(parts, "con "+e.Instructor)
	}
	return strings.Join(parts, " ")
}

func (r *Resolver) location(ctx context.Context, profile *model.Profile) *time.Location {
	if profile.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		logging.From(ctx).Warn("invalid profile timezone, using server time",
			slog.String("timezone", profile.Timezone), slog.Any("error", err))
		return time.Local
	}
	return loc
}
