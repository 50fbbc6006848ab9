package attendance

// DayStatus is the single classification of a day, assigned once when
// records enter the system.
type DayStatus string

const (
	DayWeekend DayStatus = "weekend"
	DayHoliday DayStatus = "holiday"
	DayLeave   DayStatus = "leave"
	DayGraced  DayStatus = "graced"
	DayLate    DayStatus = "late"
	DayPresent DayStatus = "present"
	DayAbsent  DayStatus = "absent"
)

// Classify applies the priority weekend > holiday > leave > grace > late >
// present > absent. A day is present only when both check-in and check-out
// exist.
func Classify(r DailyRecord) DayStatus {
	switch {
	case r.IsWeekend:
		return DayWeekend
	case r.IsHoliday:
		return DayHoliday
	case r.IsLeaveDay:
		return DayLeave
	case r.IsGraced:
		return DayGraced
	case r.IsLate:
		return DayLate
	case r.CheckIn != nil && r.CheckOut != nil:
		return DayPresent
	default:
		return DayAbsent
	}
}

// HasConflictingFlags reports whether more than one classification flag is set.
func (r DailyRecord) HasConflictingFlags() bool {
	n := 0
	for _, f := range []bool{r.IsWeekend, r.IsHoliday, r.IsLeaveDay, r.IsGraced, r.IsLate} {
		if f {
			n++
		}
	}
	return n > 1
}

// ResolvedStatus returns the assigned status, classifying on the fly for records
// that never went through AssignStatuses.
func (r DailyRecord) ResolvedStatus() DayStatus {
	if r.Status != "" {
		return r.Status
	}
	return Classify(r)
}

// AssignStatuses sets Status on every record in place and returns how many
// records carried conflicting flags.
func AssignStatuses(records []DailyRecord) (conflicts int) {
	for i := range records {
		if records[i].HasConflictingFlags() {
			conflicts++
		}
		records[i].Status = Classify(records[i])
	}
	return conflicts
}

// StatusCode is the short code used in spreadsheet grids.
func (s DayStatus) StatusCode() string {
	switch s {
	case DayPresent:
		return "P"
	case DayGraced:
		return "G"
	case DayLate:
		return "L"
	case DayAbsent:
		return "A"
	case DayLeave:
		return "LV"
	case DayWeekend:
		return "W"
	case DayHoliday:
		return "H"
	}
	return ""
}
