package daterange

import "time"

// Picker holds the state of a custom range selection. The first click sets
// the start and clears the end; the second click sets the end, swapping if
// needed, finalizes the range and closes the picker.
//
// A Picker is not safe for concurrent use.
type Picker struct {
	open     bool
	start    time.Time
	end      time.Time
	hover    time.Time
	selected DateRange
	preset   Preset
}

func NewPicker() *Picker {
	return &Picker{}
}

func (p *Picker) Open() { p.open = true }

func (p *Picker) Close() {
	p.open = false
	p.hover = time.Time{}
}

func (p *Picker) IsOpen() bool { return p.open }

// Preset returns the preset behind the last finalized range.
func (p *Picker) Preset() Preset { return p.preset }

// Selected returns the last finalized range, if any.
func (p *Picker) Selected() (DateRange, bool) {
	return p.selected, p.selected.StartDate != ""
}

// Click registers a day click. It returns the finalized range and true on the
// second click.
func (p *Picker) Click(day time.Time) (DateRange, bool) {
	day = Day(day)
	if p.start.IsZero() || !p.end.IsZero() {
		p.start = day
		p.end = time.Time{}
		p.hover = time.Time{}
		p.open = true
		return DateRange{}, false
	}

	b := Bounds{Start: p.start, End: day}.Normalize()
	p.start, p.end = b.Start, b.End
	p.selected = b.Range()
	p.preset = PresetCustom
	p.Close()
	return p.selected, true
}

// Hover records the day under the cursor while only the start is picked.
func (p *Picker) Hover(day time.Time) {
	if p.start.IsZero() || !p.end.IsZero() {
		return
	}
	p.hover = Day(day)
}

// InRange reports whether day should be highlighted, using the hovered day as
// a provisional end between the two clicks.
func (p *Picker) InRange(day time.Time) bool {
	if p.start.IsZero() {
		return false
	}
	end := p.end
	if end.IsZero() {
		end = p.hover
	}
	if end.IsZero() {
		return Day(day).Equal(p.start)
	}
	return Bounds{Start: p.start, End: end}.Normalize().Contains(day)
}

// SelectPreset resolves a named preset and closes the picker. Selecting
// PresetCustom clears the current selection and opens the picker for clicks.
func (p *Picker) SelectPreset(preset Preset, ref time.Time, allowFuture bool) (DateRange, error) {
	if preset == PresetCustom {
		p.start, p.end, p.hover = time.Time{}, time.Time{}, time.Time{}
		p.Open()
		return DateRange{}, nil
	}
	r, err := Resolve(preset, nil, ref, allowFuture)
	if err != nil {
		return DateRange{}, err
	}
	b, _ := r.Bounds(ref.Location())
	p.start, p.end = b.Start, b.End
	p.selected = r
	p.preset = preset
	p.Close()
	return r, nil
}
