// Package engine orchestrates the full pipeline end to end: normalize,
// classify/derive contracts, build the CP-SAT model, solve, and decode the
// result into a Schedule. It is the single entry point the HTTP handlers and
// the CLI both call.
package engine

import (
	"github.com/salsa-engine/salsa/internal/calendarclassify"
	"github.com/salsa-engine/salsa/internal/constraints"
	"github.com/salsa-engine/salsa/internal/contract"
	"github.com/salsa-engine/salsa/internal/cpsat"
	"github.com/salsa-engine/salsa/internal/decode"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/normalize"
	"github.com/salsa-engine/salsa/internal/objective"
	"github.com/salsa-engine/salsa/internal/salsaerr"
	"github.com/salsa-engine/salsa/internal/search"
	"github.com/salsa-engine/salsa/internal/variables"
)

// Run executes one full solve over the given raw tables and returns the
// decoded schedule, or one of the typed salsaerr failures.
func Run(raw model.RawInput) (*model.Schedule, error) {
	normalized, warnings, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}
	settings := normalized.Settings
	if settings.SolverTimeLimitSeconds == 0 && settings.SolverWorkers == 0 && settings.MaxContinuousWorkingDays == 0 {
		settings = model.DefaultSettings()
	}

	h := calendarclassify.BuildHorizon(normalized.Calendar, normalized.Estimates)
	if len(h.Days) == 0 {
		return nil, salsaerr.EmptyHorizon()
	}

	all, deriveWarnings := contract.Derive(h, normalized.Employees, normalized.Calendar, settings)
	warnings = append(warnings, deriveWarnings...)

	classifyWarnings := calendarclassify.Classify(h, all, normalized.Calendar)
	warnings = append(warnings, classifyWarnings...)

	var active []*model.Employee
	for _, e := range all {
		if !e.ContractInvalid {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return nil, salsaerr.EmptyWorkforce()
	}

	targets := staffingTargets(normalized.Estimates)

	m := cpsat.NewModel()
	arena := variables.Build(m, h, all)

	constraintClasses := constraints.Apply(m, h, all, active, arena, settings)
	objective.Apply(m, h, active, arena, targets)

	rec := &search.Recorder{}
	result, err := search.Solve(m, settings, rec)
	if err != nil {
		return nil, err
	}

	return decode.Decode(h, all, arena, result, targets, constraintClasses, warnings)
}

// staffingTargets collapses the estimates table into the per-(day, shift)
// targets the objective and decoder need (§3 Entities > StaffingTarget).
func staffingTargets(rows []model.EstimateRow) []model.StaffingTarget {
	out := make([]model.StaffingTarget, 0, len(rows))
	for _, r := range rows {
		shift := model.Label(r.Turno)
		if shift != model.M && shift != model.T {
			continue
		}
		out = append(out, model.StaffingTarget{
			Day:        r.DayOfYear,
			Shift:      shift,
			PessObj:    r.PessObj,
			MinWorkers: r.MinTurno,
			MaxWorkers: r.MaxTurno,
		})
	}
	return out
}
