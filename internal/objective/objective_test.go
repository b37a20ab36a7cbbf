package objective

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsa-engine/salsa/internal/cpsat"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/variables"
)

func TestSegments_SplitsIntoAtMostFiveRoughlyEqualGroups(t *testing.T) {
	days := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	segs := segments(days, 5)

	require.Len(t, segs, 5)
	total := 0
	for _, s := range segs {
		total += len(s)
		assert.True(t, len(s) == 2 || len(s) == 3)
	}
	assert.Equal(t, 11, total)
}

func TestSegments_FewerDaysThanSegmentsYieldsFewerGroups(t *testing.T) {
	segs := segments([]int{1, 2}, 5)

	require.Len(t, segs, 2)
	assert.Equal(t, []int{1}, segs[0])
	assert.Equal(t, []int{2}, segs[1])
}

func TestIdealForSegments_DistributesRemainderToEarlySegments(t *testing.T) {
	ideals := idealForSegments(7, 5)

	require.Len(t, ideals, 5)
	assert.Equal(t, []int{2, 2, 1, 1, 1}, ideals)
}

func twoWeekHorizon() *model.Horizon {
	days := make([]int, 0, 14)
	dateOf := map[int]time.Time{}
	weekOf := map[int]int{}
	sundays := map[int]bool{}
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		doy := d.YearDay()
		days = append(days, doy)
		dateOf[doy] = d
		weekOf[doy] = i/7 + 1
		if d.Weekday() == time.Sunday {
			sundays[doy] = true
		}
	}
	return model.NewHorizon(days, 1, weekOf, dateOf, sundays, nil, nil)
}

func TestApply_BuildsAModelWithoutError(t *testing.T) {
	h := twoWeekHorizon()

	e1 := model.NewEmployee(1)
	e1.ContractType = 5
	e1.Role = model.RoleManager
	e1.FirstDay, e1.LastDay = h.Days[0], h.Days[len(h.Days)-1]
	e2 := model.NewEmployee(2)
	e2.ContractType = 5
	e2.Role = model.RoleKeyholder
	e2.FirstDay, e2.LastDay = h.Days[0], h.Days[len(h.Days)-1]
	for _, d := range h.Days {
		e1.WorkingDays[d] = true
		e2.WorkingDays[d] = true
	}

	targets := []model.StaffingTarget{
		{Day: h.Days[0], Shift: model.M, PessObj: 1, MinWorkers: 1, MaxWorkers: 2},
		{Day: h.Days[0], Shift: model.T, PessObj: 1, MinWorkers: 1, MaxWorkers: 2},
	}

	m := cpsat.NewModel()
	a := variables.Build(m, h, []*model.Employee{e1, e2})

	Apply(m, h, []*model.Employee{e1, e2}, a, targets)

	_, err := m.Build()
	require.NoError(t, err)
}
