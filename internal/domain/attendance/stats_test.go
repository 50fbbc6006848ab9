package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsToday = time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)

func on(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func worked(day int, hours float64) DailyRecord {
	in := on(day).Add(8 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return DailyRecord{Date: on(day), CheckIn: &in, CheckOut: &out, WorkedHours: hours, Shift: ShiftDay}
}

// ===== CLASSIFY TESTS =====

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name string
		rec  DailyRecord
		want DayStatus
	}{
		{"weekend beats everything", DailyRecord{IsWeekend: true, IsHoliday: true, IsLate: true}, DayWeekend},
		{"holiday beats leave", DailyRecord{IsHoliday: true, IsLeaveDay: true}, DayHoliday},
		{"leave beats grace", DailyRecord{IsLeaveDay: true, IsGraced: true}, DayLeave},
		{"grace beats late", DailyRecord{IsGraced: true, IsLate: true}, DayGraced},
		{"late", DailyRecord{IsLate: true}, DayLate},
		{"present needs both punches", worked(4, 8), DayPresent},
		{"check-in only is absent", DailyRecord{CheckIn: &statsToday}, DayAbsent},
		{"nothing is absent", DailyRecord{}, DayAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec))
		})
	}
}

func TestAssignStatuses_CountsConflicts(t *testing.T) {
	records := []DailyRecord{
		{IsWeekend: true, IsLate: true},
		{IsLate: true},
		{IsHoliday: true, IsLeaveDay: true, IsGraced: true},
	}

	conflicts := AssignStatuses(records)

	assert.Equal(t, 2, conflicts)
	assert.Equal(t, DayWeekend, records[0].Status)
	assert.Equal(t, DayLate, records[1].Status)
	assert.Equal(t, DayHoliday, records[2].Status)
}

func TestDayStatus_StatusCode(t *testing.T) {
	assert.Equal(t, "P", DayPresent.StatusCode())
	assert.Equal(t, "LV", DayLeave.StatusCode())
	assert.Equal(t, "", DayStatus("unknown").StatusCode())
}

// ===== AGGREGATE TESTS =====

func TestAggregate_CountsAndHours(t *testing.T) {
	late := worked(5, 9)
	late.IsLate = true
	graced := worked(6, 8)
	graced.IsGraced = true
	weekendWork := worked(9, 4)
	weekendWork.IsWeekend = true
	leave := DailyRecord{Date: on(7), IsLeaveDay: true, WorkedHours: 3}
	holiday := DailyRecord{Date: on(11), IsHoliday: true}

	records := []DailyRecord{
		worked(4, 10), late, graced, leave, {Date: on(8)}, weekendWork, holiday,
	}

	s := Aggregate(records, DefaultWorkHours(), statsToday)

	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 1, s.GraceDays)
	assert.Equal(t, 1, s.LateDays)
	assert.Equal(t, 1, s.LeaveDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.Equal(t, 1, s.WeekendDays)
	assert.Equal(t, 1, s.HolidayDays)
	assert.Equal(t, 5, s.TotalWorkDays())
	assert.Equal(t, 40, s.AttendanceRate())

	// 10 + 9 + 8 + 4 worked; leave hours are ignored
	assert.InDelta(t, 31.0, s.TotalHours, 0.001)
	assert.InDelta(t, 28.0, s.RegularHours, 0.001)
	assert.InDelta(t, 3.0, s.OvertimeHours, 0.001)
}

func TestAggregate_SingleDay(t *testing.T) {
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC)
	in := monday.Add(8 * time.Hour)
	out := in.Add(9 * time.Hour)

	tests := []struct {
		name     string
		rec      DailyRecord
		want     Stats
		workDays int
	}{
		{
			name:     "overtime past threshold",
			rec:      DailyRecord{Date: monday, CheckIn: &in, CheckOut: &out, WorkedHours: 9, Shift: ShiftDay},
			want:     Stats{PresentDays: 1, TotalHours: 9, RegularHours: 8, OvertimeHours: 1},
			workDays: 1,
		},
		{
			name:     "idle weekend",
			rec:      DailyRecord{Date: saturday, IsWeekend: true, Shift: ShiftDay},
			want:     Stats{WeekendDays: 1},
			workDays: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Aggregate([]DailyRecord{tt.rec}, WorkHours{Day: 8, Night: 8}, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))

			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.workDays, s.TotalWorkDays())
		})
	}
}

func TestAggregate_SkipsFutureDays(t *testing.T) {
	records := []DailyRecord{worked(13, 8), worked(14, 8), {Date: on(20)}}

	s := Aggregate(records, DefaultWorkHours(), statsToday)

	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 0, s.AbsentDays)
	assert.InDelta(t, 8.0, s.TotalHours, 0.001)
}

func TestAggregate_ShiftThresholds(t *testing.T) {
	night := worked(4, 9)
	night.Shift = ShiftNight

	s := Aggregate([]DailyRecord{night, worked(5, 9)}, WorkHours{Day: 8, Night: 7}, statsToday)

	assert.InDelta(t, 15.0, s.RegularHours, 0.001)
	assert.InDelta(t, 3.0, s.OvertimeHours, 0.001)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, DefaultWorkHours(), statsToday)

	assert.Equal(t, Stats{}, s)
	assert.Equal(t, 0, s.AttendanceRate())
}

func TestWorkHours_For(t *testing.T) {
	assert.Equal(t, 8.0, WorkHours{}.For(ShiftDay))
	assert.Equal(t, 6.0, WorkHours{Day: 7, Night: 6}.For(ShiftNight))
	assert.Equal(t, 7.0, WorkHours{Day: 7, Night: 6}.For(""))
}

func TestStats_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Stats{PresentDays: 3, AbsentDays: 1, TotalHours: 24})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, float64(3), got["presentDays"])
	assert.Equal(t, float64(4), got["totalWorkDays"])
	assert.Equal(t, float64(75), got["attendanceRate"])
}
