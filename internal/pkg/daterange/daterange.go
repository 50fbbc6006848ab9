// Package daterange resolves named reporting periods into concrete
// yyyy-MM-dd bounds and models the two-click custom range picker.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownPreset        = errors.New("unknown date range preset")
	ErrCustomBoundsRequired = errors.New("custom preset requires start and end dates")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
)

type Preset string

const (
	PresetToday       Preset = "today"
	PresetYesterday   Preset = "yesterday"
	PresetWeek        Preset = "week"
	PresetMonth       Preset = "month"
	PresetLastMonth   Preset = "lastMonth"
	PresetLast3Months Preset = "last3Months"
	PresetLast6Months Preset = "last6Months"
	PresetYear        Preset = "year"
	PresetLastYear    Preset = "lastYear"
	PresetCustom      Preset = "custom"
)

// Presets lists every supported preset in display order.
var Presets = []Preset{
	PresetToday, PresetYesterday, PresetWeek, PresetMonth, PresetLastMonth,
	PresetLast3Months, PresetLast6Months, PresetYear, PresetLastYear, PresetCustom,
}

var presetLabels = map[Preset]string{
	PresetToday:       "Today",
	PresetYesterday:   "Yesterday",
	PresetWeek:        "This Week",
	PresetMonth:       "This Month",
	PresetLastMonth:   "Last Month",
	PresetLast3Months: "Last 3 Months",
	PresetLast6Months: "Last 6 Months",
	PresetYear:        "This Year",
	PresetLastYear:    "Last Year",
	PresetCustom:      "Custom Range",
}

// Label is the display name shown in the picker.
func (p Preset) Label() string {
	if l, ok := presetLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// DateRange is an inclusive pair of ISO dates.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Bounds is an inclusive pair of calendar days.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Resolve turns a preset (or custom bounds) into a DateRange relative to ref.
// Unless allowFuture is set, the end is clamped to ref.
func Resolve(preset Preset, custom *Bounds, ref time.Time, allowFuture bool) (DateRange, error) {
	b, err := resolveBounds(preset, custom, Day(ref))
	if err != nil {
		return DateRange{}, err
	}
	return clamp(b, Day(ref), allowFuture).Range(), nil
}

func resolveBounds(preset Preset, custom *Bounds, ref time.Time) (Bounds, error) {
	y, m, _ := ref.Date()
	loc := ref.Location()
	firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	lastOfPrevMonth := firstOfMonth.AddDate(0, 0, -1)

	switch preset {
	case PresetToday:
		return Bounds{Start: ref, End: ref}, nil
	case PresetYesterday:
		d := ref.AddDate(0, 0, -1)
		return Bounds{Start: d, End: d}, nil
	case PresetWeek:
		sunday := WeekStart(ref)
		return Bounds{Start: sunday, End: sunday.AddDate(0, 0, 6)}, nil
	case PresetMonth:
		return Bounds{Start: firstOfMonth, End: firstOfMonth.AddDate(0, 1, -1)}, nil
	case PresetLastMonth:
		return Bounds{Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc), End: lastOfPrevMonth}, nil
	case PresetLast3Months:
		return Bounds{Start: time.Date(y, m-3, 1, 0, 0, 0, 0, loc), End: lastOfPrevMonth}, nil
	case PresetLast6Months:
		return Bounds{Start: time.Date(y, m-6, 1, 0, 0, 0, 0, loc), End: lastOfPrevMonth}, nil
	case PresetYear:
		return Bounds{Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc), End: time.Date(y, time.December, 31, 0, 0, 0, 0, loc)}, nil
	case PresetLastYear:
		return Bounds{Start: time.Date(y-1, time.January, 1, 0, 0, 0, 0, loc), End: time.Date(y-1, time.December, 31, 0, 0, 0, 0, loc)}, nil
	case PresetCustom:
		if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
			return Bounds{}, ErrCustomBoundsRequired
		}
		return Bounds{Start: Day(custom.Start), End: Day(custom.End)}.Normalize(), nil
	default:
		return Bounds{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}

// clamp keeps start <= end when a custom start also lies past ref.
func clamp(b Bounds, ref time.Time, allowFuture bool) Bounds {
	if allowFuture {
		return b
	}
	if b.End.After(ref) {
		b.End = ref
	}
	if b.Start.After(b.End) {
		b.Start = b.End
	}
	return b
}

// Normalize swaps the bounds when start is after end.
func (b Bounds) Normalize() Bounds {
	if b.Start.After(b.End) {
		b.Start, b.End = b.End, b.Start
	}
	return b
}

func (b Bounds) Range() DateRange {
	return DateRange{StartDate: b.Start.Format(DateLayout), EndDate: b.End.Format(DateLayout)}
}

// Contains reports whether day falls inside the bounds, inclusive.
func (b Bounds) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(b.Start)) && !d.After(Day(b.End))
}

// Days enumerates every calendar day in the bounds, inclusive.
func (b Bounds) Days() []time.Time {
	var days []time.Time
	for d := Day(b.Start); !d.After(Day(b.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayCount is the number of calendar days in the bounds, inclusive, without
// enumerating them.
func (b Bounds) DayCount() int {
	start, end := utcDay(b.Start), utcDay(b.End)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bounds parses the range back into calendar days in loc.
func (r DateRange) Bounds(loc *time.Location) (Bounds, error) {
	start, err := time.ParseInLocation(DateLayout, r.StartDate, loc)
	if err != nil {
		return Bounds{}, fmt.Errorf("start_date: %w", ErrInvalidDate)
	}
	end, err := time.ParseInLocation(DateLayout, r.EndDate, loc)
	if err != nil {
		return Bounds{}, fmt.Errorf("end_date: %w", ErrInvalidDate)
	}
	return Bounds{Start: start, End: end}, nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
