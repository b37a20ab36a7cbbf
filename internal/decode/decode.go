// Package decode implements the Result Decoder (spec §4.8): it reads the
// boolean assignment out of the terminal solver response and turns it into
// a schedule matrix plus per-employee and per-(day,shift) counters.
package decode

import (
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/salsaerr"
	"github.com/salsa-engine/salsa/internal/search"
	"github.com/salsa-engine/salsa/internal/variables"
)

// Decode builds the Schedule from the solver result, the arena used to
// build the model, and the diagnostics accumulated by earlier phases.
func Decode(h *model.Horizon, employees []*model.Employee, a *variables.Arena, result *search.Result, targets []model.StaffingTarget, constraintClasses []model.ConstraintClassCount, warnings []model.Warning) (*model.Schedule, error) {
	matrix := make(map[int]map[int]model.Label, len(employees))
	summaries := make([]model.EmployeeSummary, 0, len(employees))
	matriculas := make([]int, 0, len(employees))

	for _, e := range employees {
		matriculas = append(matriculas, e.Matricula)
		row := make(map[int]model.Label, len(h.Days))
		summary := model.EmployeeSummary{Matricula: e.Matricula}

		for _, d := range h.Days {
			labels := a.Labels(e.Matricula, d)
			if len(labels) == 0 {
				continue
			}
			label, ok := decodeCell(a, result.Response, e.Matricula, d, labels)
			if !ok {
				return nil, salsaerr.InternalFault("decoder found no assigned label at employee=%d day=%d", e.Matricula, d)
			}
			row[d] = label

			switch label {
			case model.L:
				summary.LCount++
			case model.LQ:
				summary.LQCount++
			}
			if label.IsWorking() && h.SpecialDays[d] {
				summary.SpecialDaysWorked++
			}
		}

		for _, d := range h.Days {
			if _, ok := row[d]; !ok {
				summary.Unassigned++
			}
		}

		matrix[e.Matricula] = row
		summaries = append(summaries, summary)
	}

	report := model.Report{
		ObjectiveValue:    result.ObjectiveValue,
		BestBound:         result.BestBound,
		Status:            result.Status,
		WallTime:          result.WallTime,
		Branches:          result.Branches,
		Conflicts:         result.Conflicts,
		EmployeeSummaries: summaries,
		DayShiftActuals:   actualStaffing(employees, a, result.Response, targets),
		ConstraintClasses: constraintClasses,
		Warnings:          warnings,
	}

	return &model.Schedule{
		Horizon:   h,
		Employees: matriculas,
		Matrix:    matrix,
		Report:    report,
	}, nil
}

func decodeCell(a *variables.Arena, resp *cpmodel.CpSolverResponse, e, d int, labels []model.Label) (model.Label, bool) {
	for _, l := range labels {
		v, ok := a.Get(e, d, l)
		if !ok {
			continue
		}
		if cpmodel.SolutionBooleanValue(resp, v) {
			return l, true
		}
	}
	return model.None, false
}

func actualStaffing(employees []*model.Employee, a *variables.Arena, resp *cpmodel.CpSolverResponse, targets []model.StaffingTarget) []model.DayShiftActual {
	var out []model.DayShiftActual
	for _, t := range targets {
		if t.Shift != model.M && t.Shift != model.T {
			continue
		}
		count := 0
		for _, e := range employees {
			if v, ok := a.Get(e.Matricula, t.Day, t.Shift); ok && cpmodel.SolutionBooleanValue(resp, v) {
				count++
			}
		}
		out = append(out, model.DayShiftActual{Day: t.Day, Shift: t.Shift, Actual: count, Target: t.PessObj})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Shift < out[j].Shift
	})
	return out
}
