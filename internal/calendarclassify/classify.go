// Package calendarclassify implements the Calendar Classifier (spec §4.3):
// it derives the horizon-level day sets (Sundays, holidays, closed
// holidays, week maps) and, per employee, the six availability masks,
// applying the weekly-5-absence rule before closed holidays are removed
// from every mask.
package calendarclassify

import (
	"sort"
	"strings"
	"time"

	"github.com/salsa-engine/salsa/internal/model"
)

// BuildHorizon derives the Horizon from the distinct days observed across
// the calendar and estimate tables.
func BuildHorizon(calendarRows []model.CalendarRow, estimateRows []model.EstimateRow) *model.Horizon {
	days := map[int]bool{}
	weekOf := map[int]int{}
	dateOf := map[int]time.Time{}
	diaTipoOf := map[int]string{}

	for _, r := range calendarRows {
		days[r.DayOfYear] = true
		if _, ok := weekOf[r.DayOfYear]; !ok {
			weekOf[r.DayOfYear] = r.WW
		}
		if _, ok := dateOf[r.DayOfYear]; !ok {
			dateOf[r.DayOfYear] = r.Data
		}
		if dt, ok := diaTipoOf[r.DayOfYear]; !ok || dt == "" {
			diaTipoOf[r.DayOfYear] = r.DiaTipo
		}
	}
	for _, r := range estimateRows {
		days[r.DayOfYear] = true
		if _, ok := dateOf[r.DayOfYear]; !ok {
			dateOf[r.DayOfYear] = r.Data
		}
	}

	var dayList []int
	for d := range days {
		dayList = append(dayList, d)
	}
	sort.Ints(dayList)

	sundays := map[int]bool{}
	holidays := map[int]bool{}
	closed := map[int]bool{}
	for _, d := range dayList {
		date := dateOf[d]
		isSunday := date.Weekday() == time.Sunday
		if isSunday {
			sundays[d] = true
		}
		dt := strings.ToLower(diaTipoOf[d])
		switch {
		case strings.Contains(dt, "fech"):
			closed[d] = true
		case strings.Contains(dt, "fer") || strings.Contains(dt, "holiday"):
			if !isSunday {
				holidays[d] = true
			}
		}
	}

	startWeekday := 1
	if len(dayList) > 0 {
		if date, ok := dateOf[dayList[0]]; ok {
			wd := int(date.Weekday())
			if wd == 0 {
				wd = 7
			}
			startWeekday = wd
		}
	}

	return model.NewHorizon(dayList, startWeekday, weekOf, dateOf, sundays, holidays, closed)
}

// Classify populates the per-employee availability masks and applies the
// weekly-5-absence rule, mutating each employee in place. It assumes
// FirstDay/LastDay/Cycle have already been set by the Contract Deriver.
func Classify(h *model.Horizon, employees []*model.Employee, calendarRows []model.CalendarRow) []model.Warning {
	byEmployee := map[int]map[int]string{}
	for _, r := range calendarRows {
		m, ok := byEmployee[r.Colaborador]
		if !ok {
			m = map[int]string{}
			byEmployee[r.Colaborador] = m
		}
		m[r.DayOfYear] = r.TipoTurno
	}

	var warnings []model.Warning

	for _, e := range employees {
		rowsByDay := byEmployee[e.Matricula]
		classifyOne(h, e, rowsByDay)
		weeklyFiveAbsenceRule(h, e)
		deriveWorkingDays(h, e)
		removeClosedFromMasks(h, e)

		if len(e.WorkingDays) == 0 {
			warnings = append(warnings, model.Warning{
				Matricula: e.Matricula,
				Kind:      "empty_working_days",
				Message:   "employee has no working days in the horizon",
			})
		}
	}

	return warnings
}

func classifyOne(h *model.Horizon, e *model.Employee, rowsByDay map[int]string) {
	for _, d := range h.Days {
		if e.FirstDay > 0 && d < e.FirstDay {
			e.MissingDays[d] = true
			continue
		}
		if e.LastDay > 0 && d > e.LastDay {
			e.MissingDays[d] = true
			continue
		}

		label, present := rowsByDay[d]
		if !present {
			e.EmptyDays[d] = true
			continue
		}

		week := h.WeekOf[d]
		switch label {
		case string(model.None), "":
			e.EmptyDays[d] = true
		case "V":
			e.MissingDays[d] = true
		case "A", "AP":
			e.AbsenceDays[d] = true
		case "L":
			if e.IsComplete() {
				e.FreeDayCompleteCycle[d] = true
			} else {
				e.FixedDaysOff[d] = true
			}
		case "L_DOM":
			if e.IsComplete() {
				e.FreeDayCompleteCycle[d] = true
			} else {
				e.FixedDaysOff[d] = true
			}
		case "M":
			e.WeekEligibleM[week] = true
		case "T":
			e.WeekEligibleT[week] = true
		case "F":
			// Closed-holiday labels observed directly in the raw calendar are
			// handled uniformly by the horizon-level closed_holidays set.
		default:
			// Unrecognized label: leave the day unblocked for the solver to
			// assign; this matches days with no informative prior entry.
		}
	}
}

// weeklyFiveAbsenceRule implements the data_treatment rule from §4.3: weeks
// with >=6 horizon days and >=5 absences are read as a week-off, encoded
// with the quality-weekend pattern when the two latest non-closed days of
// the week land exactly on Saturday/Sunday.
func weeklyFiveAbsenceRule(h *model.Horizon, e *model.Employee) {
	for w, allDays := range h.WeekToDaysAll {
		if len(allDays) < 6 {
			continue
		}
		absenceCount := 0
		for _, d := range allDays {
			if e.AbsenceDays[d] {
				absenceCount++
			}
		}
		if absenceCount < 5 {
			continue
		}

		nonClosed := make([]int, 0, len(allDays))
		for _, d := range allDays {
			if !h.ClosedHolidays[d] {
				nonClosed = append(nonClosed, d)
			}
		}
		sort.Ints(nonClosed)
		if len(nonClosed) < 2 {
			continue
		}
		l1 := nonClosed[len(nonClosed)-1]
		l2 := nonClosed[len(nonClosed)-2]

		if h.Weekday(l2) == 6 && h.Weekday(l1) == 7 {
			delete(e.AbsenceDays, l2)
			e.FixedLQs[l2] = true
			delete(e.AbsenceDays, l1)
			e.FixedDaysOff[l1] = true
		} else {
			delete(e.AbsenceDays, l2)
			e.FixedDaysOff[l2] = true
			delete(e.AbsenceDays, l1)
			e.FixedDaysOff[l1] = true
		}
	}
}

// deriveWorkingDays computes working_days = Horizon - empty - absence -
// missing - closed_holidays (§3 Entities > Availability mask). Fixed-off
// and fixed-LQ days remain in working_days since their single pinned
// variable still participates in the per-week/per-employee constraint
// sums (LQ quota, Sunday quota, weekly free-days).
func deriveWorkingDays(h *model.Horizon, e *model.Employee) {
	for _, d := range h.Days {
		if e.EmptyDays[d] || e.AbsenceDays[d] || e.MissingDays[d] || h.ClosedHolidays[d] {
			continue
		}
		e.WorkingDays[d] = true
	}
}

func removeClosedFromMasks(h *model.Horizon, e *model.Employee) {
	for d := range h.ClosedHolidays {
		delete(e.EmptyDays, d)
		delete(e.MissingDays, d)
		delete(e.AbsenceDays, d)
		delete(e.FixedDaysOff, d)
		delete(e.FixedLQs, d)
		delete(e.FreeDayCompleteCycle, d)
		delete(e.WorkingDays, d)
	}
}
