package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== CALENDAR HANDLER TESTS =====

func cell(t *testing.T, data map[string]interface{}, week, day int) map[string]interface{} {
	t.Helper()
	weeks := data["weeks"].([]interface{})
	return weeks[week].([]interface{})[day].(map[string]interface{})
}

func TestCalendarHandler_Month_DefaultsToCurrentMonth(t *testing.T) {
	h := NewCalendarHandler(testClock(), testHolidays(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil)
	w := httptest.NewRecorder()
	h.Month(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2024), data["year"])
	assert.Equal(t, float64(3), data["month"])
	assert.Len(t, data["weeks"], 6)

	first := cell(t, data, 0, 0)
	assert.Equal(t, "2024-02-25", first["date"])
	assert.False(t, first["isCurrentMonth"].(bool))

	today := cell(t, data, 2, 3)
	assert.Equal(t, "2024-03-13", today["date"])
	assert.True(t, today["isToday"].(bool))

	// Nyepi in March plus the recurring holiday in the April padding
	holidays := data["holidays"].([]interface{})
	require.Len(t, holidays, 2)
	assert.Equal(t, "Nyepi", holidays[0].(map[string]interface{})["name"])
	assert.Equal(t, "2024-04-05", holidays[1].(map[string]interface{})["date"])
}

func TestCalendarHandler_Month_WithRange(t *testing.T) {
	h := NewCalendarHandler(testClock(), testHolidays(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar?year=2024&month=3&start_date=2024-03-12&end_date=2024-03-10", nil)
	w := httptest.NewRecorder()
	h.Month(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})

	start := cell(t, data, 2, 0)
	assert.Equal(t, "2024-03-10", start["date"])
	assert.True(t, start["isRangeStart"].(bool))
	assert.True(t, start["isInRange"].(bool))

	end := cell(t, data, 2, 2)
	assert.True(t, end["isRangeEnd"].(bool))

	after := cell(t, data, 2, 3)
	assert.False(t, after["isInRange"].(bool))
}

func TestCalendarHandler_Month_OtherMonth(t *testing.T) {
	h := NewCalendarHandler(testClock(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar?year=2023&month=12", nil)
	w := httptest.NewRecorder()
	h.Month(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2023), data["year"])
	assert.Equal(t, "2023-11-26", cell(t, data, 0, 0)["date"])
	assert.Empty(t, data["holidays"])
}

func TestCalendarHandler_Month_InvalidParams(t *testing.T) {
	h := NewCalendarHandler(testClock(), nil)

	for _, query := range []string{"?month=13", "?month=0", "?year=abc", "?start_date=2024-3-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar"+query, nil)
		w := httptest.NewRecorder()

		h.Month(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
