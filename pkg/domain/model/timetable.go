package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// TimetableID is a UUID-based identifier for a Timetable
type TimetableID string

// NewTimetableID generates a new UUID v7 TimetableID
func NewTimetableID() TimetableID {
	return TimetableID(uuid.Must(uuid.NewV7()).String())
}

// ClockTime is a minute-precision time of day (minutes since midnight)
type ClockTime int

// NewClockTime builds a ClockTime from hour and minute
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses a "HH:MM" string
func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, goerr.Wrap(err, "invalid clock time", goerr.V("value", s))
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, goerr.New("clock time out of range", goerr.V("value", s))
	}
	return NewClockTime(h, m), nil
}

// Hour returns the hour component
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component
func (c ClockTime) Minute() int { return int(c) % 60 }

// String formats the clock time as "HH:MM"
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// TimetableEntry is one scheduled class block within a timetable
type TimetableEntry struct {
	TimetableID TimetableID
	Day         types.Weekday
	Start       ClockTime
	End         ClockTime
	Course      string
	Instructor  string
	Room        string
	Modality    types.Modality
}

// Validate checks a single entry
func (e *TimetableEntry) Validate() error {
	if !e.Day.IsValid() {
		return goerr.New("entry has invalid weekday", goerr.V("day", int(e.Day)))
	}
	if e.End <= e.Start {
		return goerr.New("entry must end after it starts",
			goerr.V("course", e.Course), goerr.V("start", e.Start.String()), goerr.V("end", e.End.String()))
	}
	if e.Course == "" {
		return goerr.New("entry requires a course name")
	}
	return nil
}

// Timetable is a versioned weekly schedule for one
// (program, semester, group, period) combination. At most one version
// per combination carries IsCurrent.
type Timetable struct {
	ID        TimetableID
	Program   string
	Semester  int
	Group     string
	Period    string // e.g. "2026-1"
	Shift     types.Shift
	Version   int
	IsCurrent bool
	Entries   []TimetableEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimetable builds a timetable with its invariants enforced: entries
// are totally ordered by (day, start) and no two entries share a
// (day, start) pair. The shift is inferred from the entries once.
func NewTimetable(program string, semester int, group, period string, entries []TimetableEntry) (*Timetable, error) {
	if program == "" || group == "" || period == "" || semester <= 0 {
		return nil, goerr.Wrap(types.ErrBadRequest, "timetable requires program, semester, group and period")
	}

	sorted := make([]TimetableEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start < sorted[j].Start
	})

	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i].Day == sorted[i-1].Day && sorted[i].Start == sorted[i-1].Start {
			return nil, goerr.New("duplicate entry slot",
				goerr.V("day", sorted[i].Day.String()), goerr.V("start", sorted[i].Start.String()))
		}
	}

	tt := &Timetable{
		ID:       NewTimetableID(),
		Program:  program,
		Semester: semester,
		Group:    group,
		Period:   period,
		Version:  1,
		Entries:  sorted,
	}
	tt.Shift = tt.InferShift()
	for i := range tt.Entries {
		tt.Entries[i].TimetableID = tt.ID
	}
	return tt, nil
}

// InferShift derives the shift from the average start time of the
// entries: before 14:00 is morning, otherwise evening. An empty
// timetable has no shift.
func (t *Timetable) InferShift() types.Shift {
	if len(t.Entries) == 0 {
		return types.ShiftUnset
	}
	var total int
	for _, e := range t.Entries {
		total += int(e.Start)
	}
	if total/len(t.Entries) < int(NewClockTime(14, 0)) {
		return types.ShiftMorning
	}
	return types.ShiftEvening
}

// EntriesOn returns the entries scheduled on the given working day, in
// start-time order.
func (t *Timetable) EntriesOn(day types.Weekday) []TimetableEntry {
	var out []TimetableEntry
	for _, e := range t.Entries {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}
