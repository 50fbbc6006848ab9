package daterange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPicker_TwoClickSwapsAndCloses(t *testing.T) {
	p := NewPicker()
	p.Open()

	_, done := p.Click(date(t, "2025-01-20"))
	assert.False(t, done)
	assert.True(t, p.IsOpen())

	got, done := p.Click(date(t, "2025-01-10"))
	require.True(t, done)
	assert.Equal(t, DateRange{StartDate: "2025-01-10", EndDate: "2025-01-20"}, got)
	assert.False(t, p.IsOpen())
	assert.Equal(t, PresetCustom, p.Preset())

	selected, ok := p.Selected()
	assert.True(t, ok)
	assert.Equal(t, got, selected)
}

func TestPicker_ThirdClickStartsOver(t *testing.T) {
	p := NewPicker()
	p.Click(date(t, "2025-01-01"))
	p.Click(date(t, "2025-01-05"))

	_, done := p.Click(date(t, "2025-02-01"))
	assert.False(t, done)
	assert.True(t, p.InRange(date(t, "2025-02-01")))
	assert.False(t, p.InRange(date(t, "2025-01-03")))
}

func TestPicker_HoverPreview(t *testing.T) {
	p := NewPicker()
	assert.False(t, p.InRange(date(t, "2025-01-12")))

	p.Click(date(t, "2025-01-10"))
	assert.True(t, p.InRange(date(t, "2025-01-10")))
	assert.False(t, p.InRange(date(t, "2025-01-12")))

	p.Hover(date(t, "2025-01-14"))
	assert.True(t, p.InRange(date(t, "2025-01-12")))
	assert.True(t, p.InRange(date(t, "2025-01-14")))
	assert.False(t, p.InRange(date(t, "2025-01-15")))

	// hovering before the start previews backwards
	p.Hover(date(t, "2025-01-07"))
	assert.True(t, p.InRange(date(t, "2025-01-08")))
	assert.False(t, p.InRange(date(t, "2025-01-12")))
}

func TestPicker_SelectPresetCloses(t *testing.T) {
	p := NewPicker()
	p.Open()

	got, err := p.SelectPreset(PresetLastMonth, date(t, "2025-01-15"), false)
	require.NoError(t, err)
	assert.Equal(t, DateRange{StartDate: "2024-12-01", EndDate: "2024-12-31"}, got)
	assert.False(t, p.IsOpen())
	assert.Equal(t, PresetLastMonth, p.Preset())
	assert.True(t, p.InRange(date(t, "2024-12-15")))
}

func TestPicker_SelectCustomOpens(t *testing.T) {
	p := NewPicker()
	_, err := p.SelectPreset(PresetMonth, date(t, "2025-01-15"), false)
	require.NoError(t, err)

	_, err = p.SelectPreset(PresetCustom, date(t, "2025-01-15"), false)
	require.NoError(t, err)
	assert.True(t, p.IsOpen())
	assert.False(t, p.InRange(date(t, "2025-01-05")))

	_, err = p.SelectPreset(Preset("bogus"), date(t, "2025-01-15"), false)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
