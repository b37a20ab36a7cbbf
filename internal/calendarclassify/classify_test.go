package calendarclassify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsa-engine/salsa/internal/model"
)

func TestBuildHorizon_DerivesSundaysAndClosedDays(t *testing.T) {
	calendarRows := []model.CalendarRow{
		{DayOfYear: 1, Data: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), DiaTipo: "fechado", WW: 1},
		{DayOfYear: 2, Data: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), DiaTipo: "normal", WW: 1},
		{DayOfYear: 4, Data: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), DiaTipo: "feriado", WW: 1}, // Sunday holiday
		{DayOfYear: 5, Data: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), DiaTipo: "feriado", WW: 2}, // Monday holiday
	}

	h := BuildHorizon(calendarRows, nil)

	assert.Equal(t, []int{1, 2, 4, 5}, h.Days)
	assert.True(t, h.ClosedHolidays[1])
	assert.True(t, h.Sundays[4])
	assert.False(t, h.Holidays[4], "a holiday that falls on a Sunday isn't double counted as a holiday")
	assert.True(t, h.Holidays[5])
}

func TestClassifyOne_LabelsMapToMasks(t *testing.T) {
	h := BuildHorizon([]model.CalendarRow{
		{DayOfYear: 1, Data: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), WW: 1},
		{DayOfYear: 2, Data: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), WW: 1},
		{DayOfYear: 3, Data: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), WW: 1},
	}, nil)

	e := model.NewEmployee(7)
	rows := map[int]string{1: "V", 2: "A", 3: "L"}
	classifyOne(h, e, rows)

	assert.True(t, e.MissingDays[1])
	assert.True(t, e.AbsenceDays[2])
	assert.True(t, e.FixedDaysOff[3])
}

func TestClassify_EmptyWorkingDaysWarns(t *testing.T) {
	h := BuildHorizon([]model.CalendarRow{
		{DayOfYear: 1, Data: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), WW: 1},
	}, nil)

	e := model.NewEmployee(9)
	e.FirstDay = 2 // starts after the only horizon day: every day is "missing"

	warnings := Classify(h, []*model.Employee{e}, nil)

	require.Len(t, warnings, 1)
	assert.Equal(t, "empty_working_days", warnings[0].Kind)
}

func TestWeeklyFiveAbsenceRule_EncodesQualityWeekend(t *testing.T) {
	// Build a 7-day week ending Sat/Sun, with 5 absences already in the first
	// five days.
	dateOf := map[int]time.Time{}
	weekOf := map[int]int{}
	for i := 1; i <= 7; i++ {
		dateOf[i] = time.Date(2026, 1, 4+i, 0, 0, 0, 0, time.UTC) // day1 = Jan 5 2026, a Monday
		weekOf[i] = 1
	}
	h := model.NewHorizon([]int{1, 2, 3, 4, 5, 6, 7}, 1, weekOf, dateOf, nil, nil, nil)

	e := model.NewEmployee(3)
	for i := 1; i <= 5; i++ {
		e.AbsenceDays[i] = true
	}

	weeklyFiveAbsenceRule(h, e)

	// day 6 (Saturday) and day 7 (Sunday) are the two latest non-closed days.
	assert.True(t, e.FixedLQs[6])
	assert.True(t, e.FixedDaysOff[7])
	assert.False(t, e.AbsenceDays[6])
	assert.False(t, e.AbsenceDays[7])
}

func TestDeriveWorkingDays_ExcludesBlockedAndClosedDays(t *testing.T) {
	h := BuildHorizon([]model.CalendarRow{
		{DayOfYear: 1, Data: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), DiaTipo: "fechado", WW: 1},
		{DayOfYear: 2, Data: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), WW: 1},
		{DayOfYear: 3, Data: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), WW: 1},
	}, nil)

	e := model.NewEmployee(1)
	e.AbsenceDays[2] = true

	deriveWorkingDays(h, e)
	removeClosedFromMasks(h, e)

	assert.False(t, e.WorkingDays[1], "closed day excluded")
	assert.False(t, e.WorkingDays[2], "absence day excluded")
	assert.True(t, e.WorkingDays[3])
}
