package model

import "github.com/CarlosCampa21/aura-api/pkg/domain/types"

// Profile is the academic profile of a user, resolved by email from the
// external identity store. The schedule resolver needs program, shift
// and semester to pick the user's current timetable.
type Profile struct {
	Email    string
	Name     string
	Program  string
	Semester int
	Group    string
	Shift    types.Shift
	Timezone string // IANA name, e.g. "America/Mexico_City"; empty = server time
}

// MissingScheduleFields returns the profile fields, by user-facing
// Spanish name, that are required for timetable resolution but unset.
func (p *Profile) MissingScheduleFields() []string {
	var missing []string
	if p.Program == "" {
		missing = append(missing, "carrera")
	}
	if p.Shift == types.ShiftUnset {
		missing = append(missing, "turno")
	}
	if p.Semester <= 0 {
		missing = append(missing, "semestre")
	}
	return missing
}
