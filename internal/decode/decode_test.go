package decode

import (
	"testing"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsa-engine/salsa/internal/cpsat"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/search"
	"github.com/salsa-engine/salsa/internal/variables"
)

func twoDayHorizon() *model.Horizon {
	dateOf := map[int]time.Time{
		1: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		2: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
	}
	weekOf := map[int]int{1: 1, 2: 1}
	return model.NewHorizon([]int{1, 2}, 1, weekOf, dateOf, nil, nil, nil)
}

func TestDecode_ProducesAMatrixMatchingTheSolvedAssignment(t *testing.T) {
	h := twoDayHorizon()
	e := model.NewEmployee(1)
	e.Cycle = model.CycleComplete
	e.WorkingDays = map[int]bool{1: true, 2: true}

	m := cpsat.NewModel()
	a := variables.Build(m, h, []*model.Employee{e})

	// Pin day 1 to M and day 2 to T, leaving nothing else for the solver
	// to decide.
	m.B.AddEquality(a.MustGet(1, 1, model.M), cpmodel.NewConstant(1))
	m.B.AddEquality(a.MustGet(1, 2, model.T), cpmodel.NewConstant(1))

	result, err := search.Solve(m, model.DefaultSettings(), nil)
	require.NoError(t, err)

	targets := []model.StaffingTarget{
		{Day: 1, Shift: model.M, PessObj: 1},
		{Day: 2, Shift: model.T, PessObj: 1},
	}
	classes := []model.ConstraintClassCount{{Class: "unicity", Count: 2}}
	warnings := []model.Warning{{Matricula: 1, Kind: "only_in_one_table", Message: "test"}}

	schedule, err := Decode(h, []*model.Employee{e}, a, result, targets, classes, warnings)
	require.NoError(t, err)

	assert.Equal(t, model.M, schedule.Cell(1, 1))
	assert.Equal(t, model.T, schedule.Cell(1, 2))
	assert.Equal(t, []int{1}, schedule.Employees)

	require.Len(t, schedule.Report.EmployeeSummaries, 1)
	assert.Zero(t, schedule.Report.EmployeeSummaries[0].Unassigned)

	require.Len(t, schedule.Report.DayShiftActuals, 2)
	assert.Equal(t, 1, schedule.Report.DayShiftActuals[0].Actual)
	assert.Equal(t, classes, schedule.Report.ConstraintClasses)
	assert.Equal(t, warnings, schedule.Report.Warnings)
}

func TestCell_ReturnsNoneWhenAbsent(t *testing.T) {
	s := &model.Schedule{Matrix: map[int]map[int]model.Label{}}
	assert.Equal(t, model.None, s.Cell(99, 1))
}
