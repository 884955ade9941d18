package types

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Weekday is a working day of the academic week. Values align with
// time.Weekday (Monday=1 .. Saturday=6); Sunday is not a working day.
type Weekday int

const (
	Monday    Weekday = Weekday(time.Monday)
	Tuesday   Weekday = Weekday(time.Tuesday)
	Wednesday Weekday = Weekday(time.Wednesday)
	Thursday  Weekday = Weekday(time.Thursday)
	Friday    Weekday = Weekday(time.Friday)
	Saturday  Weekday = Weekday(time.Saturday)
)

// IsValid checks if the weekday is one of the six working days
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Saturday
}

// String returns the Spanish name of the weekday
func (w Weekday) String() string {
	switch w {
	case Monday:
		return "lunes"
	case Tuesday:
		return "martes"
	case Wednesday:
		return "miércoles"
	case Thursday:
		return "jueves"
	case Friday:
		return "viernes"
	case Saturday:
		return "sábado"
	default:
		return "unknown"
	}
}

var weekdayNames = map[string]Weekday{
	"lunes":     Monday,
	"martes":    Tuesday,
	"miercoles": Wednesday,
	"miércoles": Wednesday,
	"jueves":    Thursday,
	"viernes":   Friday,
	"sabado":    Saturday,
	"sábado":    Saturday,
}

// ParseWeekday resolves a Spanish day name to a working-day code.
// An unknown name (including "domingo") is a user error, not a fatal one.
func ParseWeekday(name string) (Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, goerr.Wrap(ErrBadRequest, "unknown day name", goerr.V("name", name))
	}
	return day, nil
}

// Shift is the morning/evening designation of a timetable, inferred
// once from the average start time of its entries.
type Shift string

const (
	ShiftUnset   Shift = ""
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// IsValid checks if the shift is valid
func (s Shift) IsValid() bool {
	switch s {
	case ShiftUnset, ShiftMorning, ShiftEvening:
		return true
	default:
		return false
	}
}

// String returns the string representation of the shift
func (s Shift) String() string {
	return string(s)
}

// Modality is the delivery mode of a scheduled class block
type Modality string

const (
	ModalityOnSite  Modality = "onsite"
	ModalityRemote  Modality = "remote"
	ModalityHybrid  Modality = "hybrid"
	ModalityUnknown Modality = ""
)
