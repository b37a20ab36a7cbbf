// End-to-end coverage for the scenarios in spec §8: small horizons run
// through the full Normalizer -> ... -> Decoder pipeline via engine.Run,
// asserting the documented invariants on the decoded schedule rather than
// re-deriving the constraint/objective math in isolation.
package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/salsaerr"
)

func tableOf(columns []string, rows ...map[string]any) model.Table {
	return model.Table{Columns: columns, Rows: rows}
}

var calendarColumns = []string{"colaborador", "data", "wd", "dia_tipo", "tipo_turno", "ww"}
var estimateColumns = []string{"data", "turno", "media_turno", "max_turno", "min_turno", "pess_obj", "sd_turno", "fk_tipo_posto", "wday"}
var employeeColumns = []string{"matricula", "cycle", "contract_type", "l_total", "l_dom_salsa", "c2d", "data_admissao", "data_demissao", "prioridade_folgas"}

// weekOneDates returns the seven 2024-01-0N date strings, a Monday-starting
// week (2024-01-01 is a Monday, so day-of-year N == calendar day N).
func weekOneDates() []string {
	return []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}
}

// unblockedCalendarRows gives one row per day for matricula with a shift
// label ("X") that the classifier leaves unblocked (not empty/absence/
// missing/fixed-off), so every day lands in the employee's working_days.
func unblockedCalendarRows(matricula int, dates []string, week int) []map[string]any {
	var rows []map[string]any
	for _, d := range dates {
		rows = append(rows, map[string]any{
			"colaborador": matricula, "data": d, "wd": 1, "dia_tipo": "Normal", "tipo_turno": "X", "ww": week,
		})
	}
	return rows
}

func estimateRows(dates []string, pessObjWeekday, pessObjWeekend int) []map[string]any {
	var rows []map[string]any
	for i, d := range dates {
		pess := pessObjWeekday
		if i >= 5 { // Saturday, Sunday
			pess = pessObjWeekend
		}
		for _, shift := range []string{"M", "T"} {
			rows = append(rows, map[string]any{
				"data": d, "turno": shift, "media_turno": 0.0, "max_turno": pess + 2,
				"min_turno": pess, "pess_obj": pess, "sd_turno": 0.0,
				"fk_tipo_posto": "P1", "wday": i + 1,
			})
		}
	}
	return rows
}

func employeeRow(matricula, contractType, totalL, c2d, totalLDom int) map[string]any {
	return map[string]any{
		"matricula": matricula, "cycle": "", "contract_type": contractType, "l_total": totalL,
		"l_dom_salsa": totalLDom, "c2d": c2d, "data_admissao": "", "data_demissao": "", "prioridade_folgas": 0,
	}
}

// TestEngine_TwoWorkersOneWeek is spec §8 Scenario 1: two five-day-contract
// workers over a single week, staffed 1/1 on weekdays and 0/0 on the
// weekend. Each should land exactly two free days with zero staffing
// deviation and no three-consecutive-free run.
func TestEngine_TwoWorkersOneWeek(t *testing.T) {
	dates := weekOneDates()
	var calRows []map[string]any
	calRows = append(calRows, unblockedCalendarRows(101, dates, 1)...)
	calRows = append(calRows, unblockedCalendarRows(102, dates, 1)...)

	raw := model.RawInput{
		Calendario:  tableOf(calendarColumns, calRows...),
		Estimativas: tableOf(estimateColumns, estimateRows(dates, 1, 0)...),
		Colaborador: tableOf(employeeColumns, employeeRow(101, 5, 2, 0, 0), employeeRow(102, 5, 2, 0, 0)),
		Settings:    quickSettings(),
	}

	schedule, err := Run(raw)
	require.NoError(t, err)
	assert.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, schedule.Report.Status)

	for _, matricula := range []int{101, 102} {
		free, working := 0, 0
		for d := 1; d <= 7; d++ {
			switch schedule.Cell(matricula, d) {
			case model.L, model.LQ:
				free++
			case model.M, model.T:
				working++
			}
		}
		assert.Equal(t, 2, free, "worker %d should have exactly 2 free days", matricula)
		assert.Equal(t, 5, working, "worker %d should work exactly 5 days", matricula)
		assertNoThreeConsecutiveFree(t, schedule, matricula, 1, 7)
	}

	// Zero staffing deviation: actual == target for every (day, shift), in
	// a comparison that's insensitive to the report's internal ordering.
	var wantActuals []model.DayShiftActual
	for d := 1; d <= 7; d++ {
		target := 1
		if d >= 6 {
			target = 0
		}
		wantActuals = append(wantActuals,
			model.DayShiftActual{Day: d, Shift: model.M, Actual: target, Target: target},
			model.DayShiftActual{Day: d, Shift: model.T, Actual: target, Target: target},
		)
	}
	gotActuals := append([]model.DayShiftActual(nil), schedule.Report.DayShiftActuals...)
	diff := cmp.Diff(wantActuals, gotActuals, cmpopts.SortSlices(func(a, b model.DayShiftActual) bool {
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Shift < b.Shift
	}))
	assert.Empty(t, diff, "actual staffing should match target on every (day, shift)")
}

// TestEngine_ClosedHoliday is spec §8 Scenario 3: every employee gets F on
// a closed day, regardless of their own schedule.
func TestEngine_ClosedHoliday(t *testing.T) {
	dates := weekOneDates()
	calRows := unblockedCalendarRows(201, dates, 1)
	calRows[4]["dia_tipo"] = "Feriado Fechado" // day 5 (index 4) is closed

	raw := model.RawInput{
		Calendario:  tableOf(calendarColumns, calRows...),
		Estimativas: tableOf(estimateColumns, estimateRows(dates, 1, 0)...),
		Colaborador: tableOf(employeeColumns, employeeRow(201, 5, 2, 0, 0)),
		Settings:    quickSettings(),
	}

	schedule, err := Run(raw)
	require.NoError(t, err)
	assert.Equal(t, model.F, schedule.Cell(201, 5))
}

// TestEngine_Infeasible is spec §8 Scenario 6: a contract_type of 3 cannot
// support a c2d quota of 5 over two weeks; the engine must surface
// NoFeasibleSchedule rather than returning a partial schedule.
func TestEngine_Infeasible(t *testing.T) {
	dates := append(weekOneDates(), "2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13", "2024-01-14")
	calRows := append(unblockedCalendarRows(301, dates[:7], 1), unblockedCalendarRows(301, dates[7:], 2)...)

	raw := model.RawInput{
		Calendario:  tableOf(calendarColumns, calRows...),
		Estimativas: tableOf(estimateColumns, estimateRows(dates, 1, 0)...),
		Colaborador: tableOf(employeeColumns, employeeRow(301, 3, 10, 5, 0)),
		Settings:    quickSettings(),
	}

	_, err := Run(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, salsaerr.Of(salsaerr.KindNoFeasibleSchedule)))
}

func assertNoThreeConsecutiveFree(t *testing.T, s *model.Schedule, matricula, first, last int) {
	t.Helper()
	for d := first; d+2 <= last; d++ {
		a, b, c := s.Cell(matricula, d), s.Cell(matricula, d+1), s.Cell(matricula, d+2)
		allFree := a.In(model.Free) && b.In(model.Free) && c.In(model.Free)
		assert.False(t, allFree, "days %d-%d should not all be free for worker %d", d, d+2, matricula)
	}
}

func quickSettings() model.Settings {
	s := model.DefaultSettings()
	s.SolverTimeLimitSeconds = 10
	s.SolverWorkers = 1
	return s
}
