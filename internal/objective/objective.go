// Package objective implements the Objective Builder (spec §4.6): the
// weighted sum of staffing-deviation, coverage, fairness, and well-being
// penalty/bonus terms, minimized by the Search Driver. Every auxiliary term
// is built from the cpsat.ReifyAnd / cpsat.ReifyLinearGE /
// cpsat.ReifyLinearEqZero / cpsat.PosNegDeviation / cpsat.Shortfall
// primitives grounded in internal/cpsat.
package objective

import (
	"fmt"
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/salsa-engine/salsa/internal/cpsat"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/variables"
)

// Weights, named after the table in §4.6.
const (
	weightManagerOverlap       = 50000
	weightBothOff              = 30000
	weightStaffingDeviation    = 1000
	weightZeroWorker           = 300
	weightSubMinimum           = 60
	weightPairwiseFairness     = 25 // 50, split across diff_pos and diff_neg
	weightQWSegment            = 8
	weightWeekMix              = 3
	weightSundaySegment        = 1
	weightConsecutiveFreeBonus = -1
)

type dayShift struct {
	Day   int
	Shift model.Label
}

// Apply posts every penalty/bonus term and sets the model's objective.
func Apply(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, targets []model.StaffingTarget) {
	obj := cpmodel.NewLinearExpr()

	byDayShift := make(map[dayShift]model.StaffingTarget, len(targets))
	for _, t := range targets {
		byDayShift[dayShift{t.Day, t.Shift}] = t
	}

	staffingDeviation(m, h, employees, a, byDayShift, obj)
	zeroAndSubMinimum(m, h, employees, a, byDayShift, obj)
	managerKeyholderCoverage(m, h, employees, a, obj)
	consecutiveFreeBonus(m, h, employees, a, obj)
	segmentSmoothing(m, h, employees, a, obj)
	pairwiseFairness(m, h, employees, a, obj)
	withinWeekShiftMix(m, h, employees, a, obj)

	m.Minimize(obj)
}

func shiftVars(employees []*model.Employee, a *variables.Arena, d int, shift model.Label) []cpmodel.BoolVar {
	var out []cpmodel.BoolVar
	for _, e := range employees {
		if v, ok := a.Get(e.Matricula, d, shift); ok {
			out = append(out, v)
		}
	}
	return out
}

func staffingDeviation(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, targets map[dayShift]model.StaffingTarget, obj *cpmodel.LinearExpr) {
	for _, d := range h.Days {
		if h.ClosedHolidays[d] {
			continue
		}
		for _, s := range []model.Label{model.M, model.T} {
			t, ok := targets[dayShift{d, s}]
			if !ok {
				continue
			}
			terms := shiftVars(employees, a, d, s)
			sumExpr := cpsat.Sum(cpsat.VarArgs(terms)...)
			pos, neg := m.PosNegDeviation(fmt.Sprintf("dev_d%d_%s", d, s), sumExpr, int64(t.PessObj), int64(len(employees)+1))
			obj.AddTerm(pos, weightStaffingDeviation)
			obj.AddTerm(neg, weightStaffingDeviation)
		}
	}
}

func zeroAndSubMinimum(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, targets map[dayShift]model.StaffingTarget, obj *cpmodel.LinearExpr) {
	for _, d := range h.Days {
		if h.ClosedHolidays[d] {
			continue
		}
		for _, s := range []model.Label{model.M, model.T} {
			t, ok := targets[dayShift{d, s}]
			if !ok {
				continue
			}
			terms := shiftVars(employees, a, d, s)
			sumExpr := cpsat.Sum(cpsat.VarArgs(terms)...)

			if t.PessObj > 0 {
				noworkers := m.ReifyLinearEqZero(fmt.Sprintf("zero_d%d_%s", d, s), sumExpr)
				obj.AddTerm(noworkers, weightZeroWorker)
			}
			if t.MinWorkers > 0 {
				shortfall := m.Shortfall(fmt.Sprintf("shortfall_d%d_%s", d, s), sumExpr, int64(t.MinWorkers), int64(t.MinWorkers))
				obj.AddTerm(shortfall, weightSubMinimum)
			}
		}
	}
}

func offVars(emps []*model.Employee, a *variables.Arena, d int) []cpmodel.BoolVar {
	var out []cpmodel.BoolVar
	for _, e := range emps {
		if v, ok := a.Get(e.Matricula, d, model.L); ok {
			out = append(out, v)
		}
		if v, ok := a.Get(e.Matricula, d, model.LQ); ok {
			out = append(out, v)
		}
	}
	return out
}

func filterRole(emps []*model.Employee, role model.Role) []*model.Employee {
	var out []*model.Employee
	for _, e := range emps {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

func managerKeyholderCoverage(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, obj *cpmodel.LinearExpr) {
	managers := filterRole(employees, model.RoleManager)
	keyholders := filterRole(employees, model.RoleKeyholder)

	for _, d := range h.Days {
		if h.ClosedHolidays[d] {
			continue
		}
		mgrOff := offVars(managers, a, d)
		khOff := offVars(keyholders, a, d)
		if len(mgrOff) == 0 && len(khOff) == 0 {
			continue
		}

		var mgrAny, khAny cpmodel.BoolVar
		haveMgr, haveKh := false, false
		if len(mgrOff) > 0 {
			mgrAny = m.ReifyLinearGE(fmt.Sprintf("mgr_any_d%d", d), cpsat.Sum(cpsat.VarArgs(mgrOff)...), 1)
			mgrOverlap := m.ReifyLinearGE(fmt.Sprintf("mgr_overlap_d%d", d), cpsat.Sum(cpsat.VarArgs(mgrOff)...), 2)
			obj.AddTerm(mgrOverlap, weightManagerOverlap)
			haveMgr = true
		}
		if len(khOff) > 0 {
			khAny = m.ReifyLinearGE(fmt.Sprintf("kh_any_d%d", d), cpsat.Sum(cpsat.VarArgs(khOff)...), 1)
			khOverlap := m.ReifyLinearGE(fmt.Sprintf("kh_overlap_d%d", d), cpsat.Sum(cpsat.VarArgs(khOff)...), 2)
			obj.AddTerm(khOverlap, weightManagerOverlap)
			haveKh = true
		}
		if haveMgr && haveKh {
			bothOff := m.ReifyAnd(fmt.Sprintf("both_off_d%d", d), mgrAny, khAny)
			obj.AddTerm(bothOff, weightBothOff)
		}
	}
}

func freeIndicator(m *cpsat.Model, a *variables.Arena, e, d int, labels []model.Label, tag string) (cpmodel.BoolVar, bool) {
	var terms []cpmodel.BoolVar
	for _, l := range labels {
		if v, ok := a.Get(e, d, l); ok {
			terms = append(terms, v)
		}
	}
	if len(terms) == 0 {
		var zero cpmodel.BoolVar
		return zero, false
	}
	ind := m.ReifyLinearGE(fmt.Sprintf("%s_e%d_d%d", tag, e, d), cpsat.Sum(cpsat.VarArgs(terms)...), 1)
	return ind, true
}

func consecutiveFreeBonus(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, obj *cpmodel.LinearExpr) {
	freeExtLabels := model.FreeExt
	for _, e := range employees {
		for _, d := range h.Days {
			if !(e.WorkingDays[d] && e.WorkingDays[d+1]) {
				continue
			}
			freeD, okD := freeIndicator(m, a, e.Matricula, d, freeExtLabels, "free")
			freeD1, okD1 := freeIndicator(m, a, e.Matricula, d+1, freeExtLabels, "free")
			if !okD || !okD1 {
				continue
			}
			pair := m.ReifyAnd(fmt.Sprintf("freepair_e%d_d%d", e.Matricula, d), freeD, freeD1)
			obj.AddTerm(pair, weightConsecutiveFreeBonus)
		}
	}
}

// segments partitions an ordered day list into at most k consecutive,
// roughly-equal groups; the first len(days)%k groups carry one extra day.
func segments(days []int, k int) [][]int {
	n := len(days)
	if n == 0 {
		return nil
	}
	base := n / k
	rem := n % k
	var out [][]int
	idx := 0
	for i := 0; i < k && idx < n; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		out = append(out, days[idx:idx+size])
		idx += size
	}
	return out
}

func idealForSegments(total, numSegs int) []int {
	if numSegs == 0 {
		return nil
	}
	out := make([]int, numSegs)
	base := total / numSegs
	rem := total % numSegs
	for i := 0; i < numSegs; i++ {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

func sortedDaysInRange(set map[int]bool, first, last int) []int {
	var out []int
	for d := range set {
		if first > 0 && d < first {
			continue
		}
		if last > 0 && d > last {
			continue
		}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func eligibleQWSaturdays(h *model.Horizon, e *model.Employee) []int {
	var out []int
	for _, d := range h.Days {
		if h.IsSaturday(d) && e.WorkingDays[d] && h.Contains(d+1) && e.WorkingDays[d+1] {
			out = append(out, d)
		}
	}
	return out
}

func applySegments(m *cpsat.Model, a *variables.Arena, matricula int, days []int, label model.Label, total int, weight int64, tag string, obj *cpmodel.LinearExpr) {
	segs := segments(days, 5)
	ideals := idealForSegments(total, len(segs))
	for i, seg := range segs {
		var terms []cpmodel.BoolVar
		for _, d := range seg {
			if v, ok := a.Get(matricula, d, label); ok {
				terms = append(terms, v)
			}
		}
		if len(terms) == 0 {
			continue
		}
		expr := cpsat.Sum(cpsat.VarArgs(terms)...)
		pos, neg := m.PosNegDeviation(fmt.Sprintf("%s_seg_e%d_%d", tag, matricula, i), expr, int64(ideals[i]), int64(len(seg)))
		obj.AddTerm(pos, weight)
		obj.AddTerm(neg, weight)
	}
}

// segmentSmoothing is the intra-employee Sunday-off / quality-weekend
// five-segment smoothing (§4.6).
func segmentSmoothing(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, obj *cpmodel.LinearExpr) {
	for _, e := range employees {
		sundays := sortedDaysInRange(h.Sundays, e.FirstDay, e.LastDay)
		applySegments(m, a, e.Matricula, sundays, model.L, e.TotalLDom, weightSundaySegment, "sun", obj)

		saturdays := eligibleQWSaturdays(h, e)
		applySegments(m, a, e.Matricula, saturdays, model.LQ, e.C2D, weightQWSegment, "qw", obj)
	}
}

func offIndicators(m *cpsat.Model, a *variables.Arena, matricula int, days []int, labels []model.Label, tag string) []cpmodel.BoolVar {
	var out []cpmodel.BoolVar
	for _, d := range days {
		if ind, ok := freeIndicator(m, a, matricula, d, labels, tag); ok {
			out = append(out, ind)
		}
	}
	return out
}

func negateCoeffs(c []int64) []int64 {
	out := make([]int64, len(c))
	for i, v := range c {
		out[i] = -v
	}
	return out
}

func pairwiseTerm(m *cpsat.Model, s1, s2 []cpmodel.BoolVar, p1, p2 int64, e1, e2 int, tag string, obj *cpmodel.LinearExpr) {
	if len(s1) == 0 && len(s2) == 0 {
		return
	}
	terms := make([]cpmodel.LinearArgument, 0, len(s1)+len(s2))
	coeffs := make([]int64, 0, len(s1)+len(s2))
	for _, v := range s1 {
		terms = append(terms, v)
		coeffs = append(coeffs, p2)
	}
	for _, v := range s2 {
		terms = append(terms, v)
		coeffs = append(coeffs, -p1)
	}
	diff := cpsat.WeightedSum(terms, coeffs)
	negDiff := cpsat.WeightedSum(terms, negateCoeffs(coeffs))

	ub := int64(100*(len(s1)+len(s2)) + 1)
	pos := m.NewIntVar(0, ub, fmt.Sprintf("fair_%s_pos_e%d_e%d", tag, e1, e2))
	neg := m.NewIntVar(0, ub, fmt.Sprintf("fair_%s_neg_e%d_e%d", tag, e1, e2))
	m.B.AddGreaterOrEqual(pos, diff)
	m.B.AddGreaterOrEqual(neg, negDiff)

	obj.AddTerm(pos, weightPairwiseFairness)
	obj.AddTerm(neg, weightPairwiseFairness)
}

// pairwiseFairness is the inter-employee proportional-balance term (§4.6),
// kept integer-linear by scaling each employee's admitted-span percentage
// and cross-multiplying instead of dividing (§9 Design Notes).
func pairwiseFairness(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, obj *cpmodel.LinearExpr) {
	horizonLen := len(h.Days)
	if horizonLen == 0 || len(h.Sundays) == 0 {
		return
	}

	sundayOff := map[int][]cpmodel.BoolVar{}
	qwOff := map[int][]cpmodel.BoolVar{}
	pct := map[int]int64{}

	for _, e := range employees {
		sundays := sortedDaysInRange(h.Sundays, e.FirstDay, e.LastDay)
		if len(sundays) == 0 {
			continue
		}
		sundayOff[e.Matricula] = offIndicators(m, a, e.Matricula, sundays, []model.Label{model.L, model.F}, "fair_sun")
		qwOff[e.Matricula] = offIndicators(m, a, e.Matricula, eligibleQWSaturdays(h, e), []model.Label{model.LQ}, "fair_qw")

		span := e.LastDay - e.FirstDay + 1
		if span < 0 {
			span = 0
		}
		p := int64(span) * 100 / int64(horizonLen)
		if p > 100 {
			p = 100
		}
		if p < 0 {
			p = 0
		}
		pct[e.Matricula] = p
	}

	var ids []int
	for id := range sundayOff {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			e1, e2 := ids[i], ids[j]
			pairwiseTerm(m, sundayOff[e1], sundayOff[e2], pct[e1], pct[e2], e1, e2, "sun", obj)
			if len(qwOff[e1]) > 0 && len(qwOff[e2]) > 0 {
				pairwiseTerm(m, qwOff[e1], qwOff[e2], pct[e1], pct[e2], e1, e2, "qw", obj)
			}
		}
	}
}

func withinWeekShiftMix(m *cpsat.Model, h *model.Horizon, employees []*model.Employee, a *variables.Arena, obj *cpmodel.LinearExpr) {
	for _, e := range employees {
		for w, days := range h.WeekToDaysAll {
			workingCount := 0
			for _, d := range days {
				if e.WorkingDays[d] {
					workingCount++
				}
			}
			if workingCount < 2 {
				continue
			}

			var mVars, tVars []cpmodel.BoolVar
			for _, d := range days {
				if v, ok := a.Get(e.Matricula, d, model.M); ok {
					mVars = append(mVars, v)
				}
				if v, ok := a.Get(e.Matricula, d, model.T); ok {
					tVars = append(tVars, v)
				}
			}
			if len(mVars) == 0 || len(tVars) == 0 {
				continue
			}

			hasM := m.ReifyLinearGE(fmt.Sprintf("hasM_e%d_w%d", e.Matricula, w), cpsat.Sum(cpsat.VarArgs(mVars)...), 1)
			hasT := m.ReifyLinearGE(fmt.Sprintf("hasT_e%d_w%d", e.Matricula, w), cpsat.Sum(cpsat.VarArgs(tVars)...), 1)
			mix := m.ReifyAnd(fmt.Sprintf("mix_e%d_w%d", e.Matricula, w), hasM, hasT)
			obj.AddTerm(mix, weightWeekMix)
		}
	}
}
