package export

import "github.com/xuri/excelize/v2"

// sheetWriter addresses cells by 1-based column and row and keeps the first
// error, so builders can write a whole sheet and check once.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet}
}

func (s *sheetWriter) cell(col, row int) string {
	if s.err != nil {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
	}
	return name
}

func (s *sheetWriter) column(col int) string {
	if s.err != nil {
		return ""
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		s.err = err
	}
	return name
}

func (s *sheetWriter) set(col, row int, v interface{}) {
	cell := s.cell(col, row)
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell, v)
}

func (s *sheetWriter) row(col, row int, values []interface{}) {
	for i, v := range values {
		s.set(col+i, row, v)
	}
}

func (s *sheetWriter) style(c1, r1, c2, r2, id int) {
	from, to := s.cell(c1, r1), s.cell(c2, r2)
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, from, to, id)
}

func (s *sheetWriter) merge(c1, r1, c2, r2 int) {
	from, to := s.cell(c1, r1), s.cell(c2, r2)
	if s.err != nil {
		return
	}
	s.err = s.f.MergeCell(s.sheet, from, to)
}

func (s *sheetWriter) width(c1, c2 int, w float64) {
	from, to := s.column(c1), s.column(c2)
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(s.sheet, from, to, w)
}

// freeze pins everything above row and left of col.
func (s *sheetWriter) freeze(col, row int) {
	topLeft := s.cell(col, row)
	if s.err != nil {
		return
	}
	s.err = s.f.SetPanes(s.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      col - 1,
		YSplit:      row - 1,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	})
}
