// Package calendar builds Sunday-first month grids padded with the
// trailing and leading days of the adjacent months.
package calendar

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
)

type DayCell struct {
	Date           string       `json:"date"`
	Day            int          `json:"day"`
	Weekday        time.Weekday `json:"weekday"`
	IsCurrentMonth bool         `json:"isCurrentMonth"`
	IsToday        bool         `json:"isToday"`
	IsWeekend      bool         `json:"isWeekend"`
	IsInRange      bool         `json:"isInRange"`
	IsRangeStart   bool         `json:"isRangeStart"`
	IsRangeEnd     bool         `json:"isRangeEnd"`

	date time.Time
}

// Time returns the cell's calendar day.
func (c DayCell) Time() time.Time { return c.date }

type MonthGrid struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []DayCell `json:"days"`
}

// BuildMonth returns the grid for the given month. Out-of-range months roll
// over the way time.Date does, so month 13 is January of the next year.
// IsToday is only set on cells of the month itself.
func BuildMonth(year, month int, today time.Time) MonthGrid {
	loc := today.Location()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	todayDay := daterange.Day(today)

	start := daterange.WeekStart(first)
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	grid := MonthGrid{Year: first.Year(), Month: int(first.Month())}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		inMonth := d.Month() == first.Month()
		grid.Days = append(grid.Days, DayCell{
			Date:           d.Format(daterange.DateLayout),
			Day:            d.Day(),
			Weekday:        wd,
			IsCurrentMonth: inMonth,
			IsToday:        inMonth && d.Equal(todayDay),
			IsWeekend:      wd == time.Saturday || wd == time.Sunday,
			date:           d,
		})
	}
	return grid
}

// Weeks splits the grid into rows of seven days.
func (g MonthGrid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, len(g.Days)/7)
	for i := 0; i+7 <= len(g.Days); i += 7 {
		weeks = append(weeks, g.Days[i:i+7])
	}
	return weeks
}

// WithRange returns a copy of the grid with range highlighting applied.
func (g MonthGrid) WithRange(b daterange.Bounds) MonthGrid {
	b = b.Normalize()
	start, end := daterange.Day(b.Start), daterange.Day(b.End)

	out := MonthGrid{Year: g.Year, Month: g.Month, Days: make([]DayCell, len(g.Days))}
	for i, cell := range g.Days {
		cell.IsInRange = b.Contains(cell.date)
		cell.IsRangeStart = cell.date.Equal(start)
		cell.IsRangeEnd = cell.date.Equal(end)
		out.Days[i] = cell
	}
	return out
}

// MonthDays returns every calendar day of the month, independent of any data.
func MonthDays(year, month int, loc *time.Location) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return daterange.Bounds{Start: first, End: first.AddDate(0, 1, -1)}.Days()
}
