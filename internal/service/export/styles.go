package export

import (
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const headerColor = "4472C4"

var statusColors = map[attendance.DayStatus]string{
	attendance.DayPresent: "C6EFCE",
	attendance.DayLate:    "FFEB9C",
	attendance.DayAbsent:  "FFC7CE",
	attendance.DayLeave:   "BDD7EE",
	attendance.DayGraced:  "E2EFDA",
	attendance.DayHoliday: "FCE4D6",
	attendance.DayWeekend: "F2F2F2",
}

type styles struct {
	title  int
	header int
	total  int
	status map[attendance.DayStatus]int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}
}

func newStyles(f *excelize.File) (styles, error) {
	s := styles{status: make(map[attendance.DayStatus]int, len(statusColors))}

	var err error
	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("total style: %w", err)
	}

	for status, color := range statusColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    thinBorder(),
		})
		if err != nil {
			return s, fmt.Errorf("%s style: %w", status, err)
		}
		s.status[status] = id
	}
	return s, nil
}
