package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/holiday"
)

type CalendarHandler interface {
	Month(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	clock    clock.Clock
	holidays *holiday.Calendar
}

func NewCalendarHandler(clk clock.Clock, holidays *holiday.Calendar) CalendarHandler {
	return &calendarHandlerImpl{
		clock:    clk,
		holidays: holidays,
	}
}

type CalendarResponse struct {
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Weeks    [][]calendar.DayCell `json:"weeks"`
	Holidays []holiday.Holiday    `json:"holidays"`
}

// Month handles GET /calendar
func (h *calendarHandlerImpl) Month(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := h.clock.Now()

	year := now.Year()
	if s := q.Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		year = v
	}

	month := int(now.Month())
	if s := q.Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			response.BadRequest(w, "invalid month parameter", nil)
			return
		}
		month = v
	}

	grid := calendar.BuildMonth(year, month, now)

	start, end := q.Get("start_date"), q.Get("end_date")
	if start != "" || end != "" {
		if end == "" {
			end = start
		}
		b, err := daterange.DateRange{StartDate: start, EndDate: end}.Bounds(now.Location())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		grid = grid.WithRange(b)
	}

	first, last := grid.Days[0].Time(), grid.Days[len(grid.Days)-1].Time()
	holidays := h.holidays.Between(first, last)
	if holidays == nil {
		holidays = []holiday.Holiday{}
	}

	response.Success(w, CalendarResponse{
		Year:     grid.Year,
		Month:    grid.Month,
		Weeks:    grid.Weeks(),
		Holidays: holidays,
	})
}
