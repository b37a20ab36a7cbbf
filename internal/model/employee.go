package model

// Role classifies an employee for the manager/keyholder coverage penalties.
type Role string

const (
	RoleManager   Role = "manager"
	RoleKeyholder Role = "keyholder"
	RoleNormal    Role = "normal"
)

// CycleComplete marks an employee whose days off are pre-determined; the
// engine only chooses M/T for them on their working days.
const CycleComplete = "Complete"

// Employee holds the normalized contract, lifecycle, and availability data
// for one matricula over the horizon.
type Employee struct {
	Matricula int

	// Contract fields (§3 Entities > Employee).
	ContractType int // max working days per week (4/5/6 typically)
	TotalL       int // total days off to allocate
	TotalLDom    int // minimum Sundays off
	C2D          int // minimum quality weekends
	C3D          int
	LD           int
	CXX          int
	TLQ          int
	VZ           int
	LRes         int
	LRes2        int
	LQ           int // derived: total_l - l_dom - c2d - c3d - l_d - cxx - vz - l_res - l_res2

	// Lifecycle.
	AdmissionDay int // 0 if outside horizon
	DismissalDay int // 0 if outside horizon
	FirstDay     int
	LastDay      int

	Cycle string
	Role  Role

	// Availability masks (day -> present), populated by the classifier.
	EmptyDays            map[int]bool
	MissingDays          map[int]bool
	AbsenceDays          map[int]bool
	FixedDaysOff         map[int]bool
	FixedLQs             map[int]bool
	FreeDayCompleteCycle map[int]bool
	WorkingDays          map[int]bool // derived: Horizon - empty - absence - missing - closed

	// Worker-week-shift preference: week -> eligible for that shift.
	WeekEligibleM map[int]bool
	WeekEligibleT map[int]bool

	// ContractInvalid marks an employee dropped from the optimizable set
	// (kept in the complete set so they still receive F/V/A/L assignments).
	ContractInvalid bool
}

// IsComplete reports whether the employee is of complete-cycle.
func (e *Employee) IsComplete() bool { return e.Cycle == CycleComplete }

func newMasks() (empty, missing, absence, fixedOff, fixedLQ, freeComplete, working map[int]bool) {
	return map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}, map[int]bool{}
}

// NewEmployee returns an Employee with all masks initialized to empty sets.
func NewEmployee(matricula int) *Employee {
	empty, missing, absence, fixedOff, fixedLQ, freeComplete, working := newMasks()
	return &Employee{
		Matricula:            matricula,
		EmptyDays:            empty,
		MissingDays:          missing,
		AbsenceDays:          absence,
		FixedDaysOff:         fixedOff,
		FixedLQs:             fixedLQ,
		FreeDayCompleteCycle: freeComplete,
		WorkingDays:          working,
		WeekEligibleM:        map[int]bool{},
		WeekEligibleT:        map[int]bool{},
	}
}

// Blocked reports whether day d is covered by one of the employee's own
// blocking masks (empty ∪ missing ∪ absence ∪ fixed_off ∪ fixed_LQ). Closed
// holidays and free_day_complete_cycle days are not checked here.
func (e *Employee) Blocked(d int) bool {
	return e.EmptyDays[d] || e.MissingDays[d] || e.AbsenceDays[d] || e.FixedDaysOff[d] || e.FixedLQs[d]
}
