package model

import "time"

// Warning is a non-fatal diagnostic emitted during normalization/derivation
// (§7: negative l_q, empty working_days, employees appearing in only one
// of the two tables).
type Warning struct {
	Matricula int
	Kind      string
	Message   string
}

// ConstraintClassCount records how many instances of a hard-constraint
// class were posted, for the report's diagnostic counters.
type ConstraintClassCount struct {
	Class string
	Count int
}

// EmployeeSummary holds the per-employee counters the Result Decoder emits.
type EmployeeSummary struct {
	Matricula          int
	LCount             int
	LQCount            int
	SpecialDaysWorked  int
	Unassigned         int
}

// DayShiftActual is the actual staffing count decoded for one (day, shift).
type DayShiftActual struct {
	Day    int
	Shift  Label
	Actual int
	Target int
}

// Report is the solver diagnostic and summary bundle (§6 Output > report).
type Report struct {
	ObjectiveValue    float64
	BestBound         float64
	Status            string
	WallTime          time.Duration
	Branches          int64
	Conflicts         int64
	EmployeeSummaries []EmployeeSummary
	DayShiftActuals   []DayShiftActual
	ConstraintClasses []ConstraintClassCount
	Warnings          []Warning
}

// Schedule is the decoded assignment: one row of labels per employee, over
// every day in the horizon.
type Schedule struct {
	Horizon   *Horizon
	Employees []int                    // matriculas, in stable input order
	Matrix    map[int]map[int]Label    // employee -> day -> label
	Report    Report
}

// Cell returns the decoded label at (matricula, day), or None if absent.
func (s *Schedule) Cell(matricula, day int) Label {
	if row, ok := s.Matrix[matricula]; ok {
		if l, ok := row[day]; ok {
			return l
		}
	}
	return None
}
