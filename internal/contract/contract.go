// Package contract implements the Contract Deriver (spec §4.2): for each
// employee present in both colaborador and calendario, it fills the
// contract tuple, recomputes the free-quality quota l_q, and prorates
// quotas for employees whose admission or dismissal falls inside the
// horizon.
package contract

import (
	"math"

	"github.com/salsa-engine/salsa/internal/model"
)

// Derive builds one model.Employee per colaborador row whose matricula also
// appears in calendario, and returns that complete set together with the
// warnings raised along the way; it does not filter out the active
// (optimizable) set. Employees with invalid contract data are returned (their
// ContractInvalid flag is set) so they remain in the "complete" set used
// downstream for F/V/A/L bookkeeping, but are excluded from constraints
// that only apply to the active working set.
func Derive(h *model.Horizon, employeeRows []model.EmployeeRow, calendarRows []model.CalendarRow, settings model.Settings) ([]*model.Employee, []model.Warning) {
	calendarDaysByEmp := map[int][]int{}
	for _, r := range calendarRows {
		calendarDaysByEmp[r.Colaborador] = append(calendarDaysByEmp[r.Colaborador], r.DayOfYear)
	}

	var warnings []model.Warning
	var out []*model.Employee

	calSeen := map[int]bool{}
	for m := range calendarDaysByEmp {
		calSeen[m] = true
	}
	empSeen := map[int]bool{}

	for _, row := range employeeRows {
		empSeen[row.Matricula] = true
		days, inCalendar := calendarDaysByEmp[row.Matricula]
		if !inCalendar {
			warnings = append(warnings, model.Warning{
				Matricula: row.Matricula,
				Kind:      "only_in_one_table",
				Message:   "employee appears in colaborador but not in calendario",
			})
			continue
		}

		e := model.NewEmployee(row.Matricula)
		e.ContractType = row.ContractType
		e.Cycle = row.Cycle
		e.Role = roleFromPriority(row.PrioridadeFolgas)

		firstCal, lastCal := minMax(days)
		admissionDay := 0
		if row.DataAdmissao != nil {
			d := row.DataAdmissao.YearDay()
			if h.Contains(d) {
				admissionDay = d
			}
		}
		dismissalDay := 0
		if row.DataDemissao != nil {
			d := row.DataDemissao.YearDay()
			if h.Contains(d) {
				dismissalDay = d
			}
		}

		e.AdmissionDay = admissionDay
		e.DismissalDay = dismissalDay
		e.FirstDay = firstCal
		if admissionDay > e.FirstDay {
			e.FirstDay = admissionDay
		}
		e.LastDay = lastCal
		if dismissalDay > 0 && dismissalDay < e.LastDay {
			e.LastDay = dismissalDay
		}

		e.TotalL = row.LTotal
		e.TotalLDom = row.LDomSalsa
		if e.TotalLDom == 0 {
			e.TotalLDom = row.LDom
		}
		e.C2D = row.C2D
		e.C3D = row.C3D
		e.LD = row.LD
		e.CXX = row.CXX
		e.TLQ = row.TLQ
		e.VZ = row.VZ
		e.LRes = row.LRes
		e.LRes2 = row.LRes2

		recomputeLQ(e)

		if e.LastDay < 364 {
			prorate(e, h, settings)
		}

		if e.TotalL <= 0 {
			e.ContractInvalid = true
			warnings = append(warnings, model.Warning{
				Matricula: row.Matricula,
				Kind:      "contract_invalid",
				Message:   "total_l <= 0 after derivation/proration",
			})
		}
		if e.LQ < 0 {
			warnings = append(warnings, model.Warning{
				Matricula: row.Matricula,
				Kind:      "negative_l_q",
				Message:   "derived l_q is negative",
			})
		}

		out = append(out, e)
	}

	for m := range calSeen {
		if !empSeen[m] {
			warnings = append(warnings, model.Warning{
				Matricula: m,
				Kind:      "only_in_one_table",
				Message:   "employee appears in calendario but not in colaborador",
			})
		}
	}

	return out, warnings
}

func recomputeLQ(e *model.Employee) {
	e.LQ = e.TotalL - e.TotalLDom - e.C2D - e.C3D - e.LD - e.CXX - e.VZ - e.LRes - e.LRes2
}

// prorate scales the employee's aggregate quotas by the fraction of the
// horizon they actually span, per §4.2: round() for most quotas, floor()
// for c2d/c3d, matching the component contract verbatim. (This is distinct
// from the admissao_proporcional floor/ceil setting used for a week's
// required free-day count in constraint #10 — see DESIGN.md.)
func prorate(e *model.Employee, h *model.Horizon, _ model.Settings) {
	full := float64(len(h.Days))
	if full == 0 {
		return
	}
	span := float64(e.LastDay - e.FirstDay + 1)
	p := span / full
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	e.TotalL = roundInt(p * float64(e.TotalL))
	e.TotalLDom = roundInt(p * float64(e.TotalLDom))
	e.LD = roundInt(p * float64(e.LD))
	e.LQ = roundInt(p * float64(e.LQ))
	e.CXX = roundInt(p * float64(e.CXX))
	e.TLQ = roundInt(p * float64(e.TLQ))
	e.C2D = int(math.Floor(p * float64(e.C2D)))
	e.C3D = int(math.Floor(p * float64(e.C3D)))
}

func roundInt(x float64) int {
	return int(math.Round(x))
}

func minMax(xs []int) (int, int) {
	min, max := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}

// roleFromPriority derives manager/keyholder/normal from a priority column,
// mirroring the source's priority-based role inference: the two highest
// priority bands are manager and keyholder, everything else normal.
func roleFromPriority(priority int) model.Role {
	switch {
	case priority >= 90:
		return model.RoleManager
	case priority >= 70:
		return model.RoleKeyholder
	default:
		return model.RoleNormal
	}
}
