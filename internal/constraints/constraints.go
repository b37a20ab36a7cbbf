// Package constraints implements the Constraint Applier (spec §4.5): all
// twelve hard-constraint classes, posted directly against the arena of
// decision variables built by internal/variables. Every posting helper is
// grounded on the two constraint shapes the pack's CP-SAT sample
// exercises (AddExactlyOne/AddAtMostOne for unicity-style clauses,
// NewLinearExpr + AddLessOrEqual/AddGreaterOrEqual for capacity sums); the
// quality-weekend coupling builds on the cpsat.ReifyAnd helper documented
// there, while LQ eligibility is posted as a plain LQ(sat) <= L(sun)
// inequality.
package constraints

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/salsa-engine/salsa/internal/cpsat"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/variables"
)

type counter struct {
	counts map[string]int
}

func (c *counter) add(class string, n int) { c.counts[class] += n }

func (c *counter) report() []model.ConstraintClassCount {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.ConstraintClassCount, len(keys))
	for i, k := range keys {
		out[i] = model.ConstraintClassCount{Class: k, Count: c.counts[k]}
	}
	return out
}

// Apply posts every hard constraint (§4.5, items 1-12) and returns the
// per-class posting counts for the report's diagnostic counters.
//
// allEmployees is the complete set (including contract-invalid employees,
// who still need a determinate F/V/A/L row through the model per §4.2);
// unicity and the working-day label set, which are not contract-dependent,
// are posted for all of them. Every contract-dependent constraint (2-5,
// 7-12) is only posted for the active/optimizable set.
func Apply(m *cpsat.Model, h *model.Horizon, allEmployees, employees []*model.Employee, a *variables.Arena, settings model.Settings) []model.ConstraintClassCount {
	c := &counter{counts: map[string]int{}}

	unicity(m, h, allEmployees, a, c)
	weeklyCap(m, h, employees, a, c)
	consecutiveCap(m, h, employees, a, settings, c)
	lqQuota(m, employees, a, c)
	weekShiftConsistency(m, h, employees, a, c)
	workingDayLabelSet(m, allEmployees, a, c)
	noThreeConsecutiveFree(m, h, employees, a, c)
	qualityWeekendCoupling(m, h, employees, a, c)
	saturdayLExclusion(m, h, employees, a, c)
	weeklyFreeDays(m, h, employees, a, settings, c)
	firstDayNotFree(m, employees, a, c)
	sundayQuota(m, h, employees, a, c)

	return c.report()
}

func workingVars(a *variables.Arena, e, d int) []cpmodel.BoolVar {
	var out []cpmodel.BoolVar
	if v, ok := a.Get(e, d, model.M); ok {
		out = append(out, v)
	}
	if v, ok := a.Get(e, d, model.T); ok {
		out = append(out, v)
	}
	return out
}

// 1. Unicity: for every (e, d) with any created variable, exactly one is 1.
func unicity(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		for _, d := range h.Days {
			vars := a.Vars(e.Matricula, d)
			if len(vars) == 0 {
				continue
			}
			m.B.AddExactlyOne(vars...)
			c.add("unicity", 1)
		}
	}
}

// 2. Weekly cap: working days per week bounded by contract_type.
func weeklyCap(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		for _, days := range h.WeekToDays {
			var terms []cpmodel.BoolVar
			for _, d := range days {
				terms = append(terms, workingVars(a, e.Matricula, d)...)
			}
			if len(terms) == 0 {
				continue
			}
			expr := cpsat.Sum(cpsat.VarArgs(terms)...)
			m.B.AddLessOrEqual(expr, cpmodel.NewConstant(int64(e.ContractType)))
			c.add("weekly_cap", 1)
		}
	}
}

// 3. Consecutive-working cap: sliding 7-day windows bounded by the
// configured max continuous working days (default 6).
func consecutiveCap(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, settings model.Settings, c *counter) {
	if len(h.Days) == 0 {
		return
	}
	maxWorking := int64(settings.MaxContinuousWorkingDays)
	start, end := h.Days[0], h.Days[len(h.Days)-1]

	for _, e := range employees {
		for d := start; d+6 <= end; d++ {
			var terms []cpmodel.BoolVar
			complete := true
			for off := 0; off < 7; off++ {
				day := d + off
				if !h.Contains(day) {
					complete = false
					break
				}
				terms = append(terms, workingVars(a, e.Matricula, day)...)
			}
			if !complete || len(terms) == 0 {
				continue
			}
			expr := cpsat.Sum(cpsat.VarArgs(terms)...)
			m.B.AddLessOrEqual(expr, cpmodel.NewConstant(maxWorking))
			c.add("consecutive_cap", 1)
		}
	}
}

// 4. LQ quota: quality-weekend days off over working_days at least c2d.
func lqQuota(m *cpsat.Model, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		var terms []cpmodel.BoolVar
		for d := range e.WorkingDays {
			if v, ok := a.Get(e.Matricula, d, model.LQ); ok {
				terms = append(terms, v)
			}
		}
		expr := cpsat.Sum(cpsat.VarArgs(terms)...)
		m.B.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(e.C2D)))
		c.add("lq_quota", 1)
	}
}

// 5. Week-shift consistency: a week observed as M-only or T-only in the raw
// calendar forbids the other shift for that employee that week.
func weekShiftConsistency(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		for w, days := range h.WeekToDaysAll {
			mElig := e.WeekEligibleM[w]
			tElig := e.WeekEligibleT[w]
			if mElig == tElig {
				continue // both or neither observed: no restriction
			}
			forbidden := model.T
			if tElig {
				forbidden = model.M
			}
			for _, d := range days {
				if v, ok := a.Get(e.Matricula, d, forbidden); ok {
					m.B.AddEquality(v, cpmodel.NewConstant(0))
					c.add("week_shift_consistency", 1)
				}
			}
		}
	}
}

// 6. Working-day label set: re-asserts exactly-one over the working-day
// label set. The arena only ever creates {M,T,L,LQ} (or {M,T} for
// complete-cycle) on a working day, so this coincides with unicity by
// construction; it is still posted as its own constraint class to keep the
// diagnostic counters meaningful per component.
func workingDayLabelSet(m *cpsat.Model, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		for d := range e.WorkingDays {
			vars := a.Vars(e.Matricula, d)
			if len(vars) == 0 {
				continue
			}
			m.B.AddExactlyOne(vars...)
			c.add("working_day_label_set", 1)
		}
	}
}

// 7. No three consecutive free days among {L, F, LQ} within working_days.
func noThreeConsecutiveFree(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	freeLabels := []model.Label{model.L, model.F, model.LQ}
	for _, e := range employees {
		for _, d := range h.Days {
			if !(e.WorkingDays[d] && e.WorkingDays[d+1] && e.WorkingDays[d+2]) {
				continue
			}
			var terms []cpmodel.BoolVar
			for _, dd := range [3]int{d, d + 1, d + 2} {
				for _, l := range freeLabels {
					if v, ok := a.Get(e.Matricula, dd, l); ok {
						terms = append(terms, v)
					}
				}
			}
			if len(terms) == 0 {
				continue
			}
			expr := cpsat.Sum(cpsat.VarArgs(terms)...)
			m.B.AddLessOrEqual(expr, cpmodel.NewConstant(2))
			c.add("no_three_consecutive_free", 1)
		}
	}
}

func contractTypeEligibleForC2D(ct int) bool { return ct == 4 || ct == 5 || ct == 6 }

// 8. Two-day quality weekend coupling: qw[e,d] <=> LQ(sat) AND L(sun);
// Σqw >= c2d, and LQ on a Saturday is only legal when its Sunday is a
// working L (the F_special_day == false branch from §9 Open Questions —
// Sunday ∈ {F} is not accepted here, matching the documented asymmetry).
func qualityWeekendCoupling(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		if contractTypeEligibleForC2D(e.ContractType) {
			var qwTerms []cpmodel.BoolVar
			for d := range e.WorkingDays {
				if !h.IsSunday(d) || !e.WorkingDays[d-1] {
					continue
				}
				lqSat, okLQ := a.Get(e.Matricula, d-1, model.LQ)
				lSun, okL := a.Get(e.Matricula, d, model.L)
				if !okLQ || !okL {
					continue
				}
				qw := m.ReifyAnd(fmt.Sprintf("qw_e%d_d%d", e.Matricula, d), lqSat, lSun)
				qwTerms = append(qwTerms, qw)
				c.add("quality_weekend_coupling", 1)
			}
			expr := cpsat.Sum(cpsat.VarArgs(qwTerms)...)
			m.B.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(e.C2D)))
			c.add("quality_weekend_quota", 1)
		}

		for _, s := range h.Days {
			if !h.IsSaturday(s) {
				continue
			}
			lq, ok := a.Get(e.Matricula, s, model.LQ)
			if !ok {
				continue
			}
			sunday := s + 1
			var eligible cpmodel.BoolVar
			haveEligible := false
			if h.Contains(sunday) && h.IsSunday(sunday) && e.WorkingDays[sunday] {
				if lSun, ok := a.Get(e.Matricula, sunday, model.L); ok {
					eligible = lSun
					haveEligible = true
				}
			}
			if haveEligible {
				m.B.AddLessOrEqual(lq, eligible)
			} else {
				m.B.AddEquality(lq, cpmodel.NewConstant(0))
			}
			c.add("lq_eligibility", 1)
		}
	}
}

// 9. Saturday-L exclusion: a Saturday/Sunday pair cannot both be plain L;
// it must use the LQ encoding instead.
func saturdayLExclusion(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		for _, d := range h.Days {
			if !h.IsSaturday(d) {
				continue
			}
			sunday := d + 1
			if !h.Contains(sunday) || !e.WorkingDays[sunday] {
				continue
			}
			lSat, okSat := a.Get(e.Matricula, d, model.L)
			lSun, okSun := a.Get(e.Matricula, sunday, model.L)
			if !okSat || !okSun {
				continue
			}
			expr := cpsat.Sum(cpsat.VarArgs([]cpmodel.BoolVar{lSat, lSun})...)
			m.B.AddLessOrEqual(expr, cpmodel.NewConstant(1))
			c.add("saturday_l_exclusion", 1)
		}
	}
}

// 10. Weekly free-days: each week's L+LQ count must equal a required value
// derived from the week's working-day count (or the proportional formula
// for admission/dismissal weeks), raised to cover any pinned fixed-off/
// fixed-LQ days that week.
func weeklyFreeDays(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, settings model.Settings, c *counter) {
	for _, e := range employees {
		for w, allDays := range h.WeekToDaysAll {
			n := 0
			var terms []cpmodel.BoolVar
			for _, d := range allDays {
				if !e.WorkingDays[d] {
					continue
				}
				n++
				if v, ok := a.Get(e.Matricula, d, model.L); ok {
					terms = append(terms, v)
				}
				if v, ok := a.Get(e.Matricula, d, model.LQ); ok {
					terms = append(terms, v)
				}
			}
			if n == 0 {
				continue
			}

			proportional := (e.AdmissionDay > 0 && h.WeekOf[e.AdmissionDay] == w) ||
				(e.DismissalDay > 0 && h.WeekOf[e.DismissalDay] == w)

			var required int
			switch {
			case proportional:
				frac := float64(n) / 7 * 2
				if settings.AdmissaoProporcional == model.RoundCeil {
					required = int(math.Ceil(frac))
				} else {
					required = int(math.Floor(frac))
				}
			case n >= 2:
				required = 2
			case n == 1:
				required = 1
			}

			pinned := 0
			for _, d := range allDays {
				if e.FixedDaysOff[d] {
					pinned++
				}
				if e.FixedLQs[d] {
					pinned++
				}
			}
			if pinned > required {
				required = pinned
			}

			expr := cpsat.Sum(cpsat.VarArgs(terms)...)
			m.B.AddEquality(expr, cpmodel.NewConstant(int64(required)))
			c.add("weekly_free_days", 1)
		}
	}
}

// 11. First-day-not-free: every employee whose first day is later than the
// earliest first day across the workforce must work (M or T) on it.
func firstDayNotFree(m *cpsat.Model, employees []*model.Employee, a *variables.Arena, c *counter) {
	earliest := 0
	for _, e := range employees {
		if e.FirstDay > 0 && (earliest == 0 || e.FirstDay < earliest) {
			earliest = e.FirstDay
		}
	}
	if earliest == 0 {
		return
	}

	for _, e := range employees {
		if e.FirstDay <= earliest || !e.WorkingDays[e.FirstDay] {
			continue
		}
		terms := workingVars(a, e.Matricula, e.FirstDay)
		if len(terms) == 0 {
			continue
		}
		expr := cpsat.Sum(cpsat.VarArgs(terms)...)
		m.B.AddEquality(expr, cpmodel.NewConstant(1))
		c.add("first_day_not_free", 1)
	}
}

// 12. Sunday quota: Sundays off over working_days at least total_l_dom.
func sundayQuota(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, c *counter) {
	for _, e := range employees {
		var terms []cpmodel.BoolVar
		for d := range h.Sundays {
			if !e.WorkingDays[d] {
				continue
			}
			if v, ok := a.Get(e.Matricula, d, model.L); ok {
				terms = append(terms, v)
			}
		}
		expr := cpsat.Sum(cpsat.VarArgs(terms)...)
		m.B.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(e.TotalLDom)))
		c.add("sunday_quota", 1)
	}
}
