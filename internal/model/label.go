package model

// Label is one symbol of the shift-assignment alphabet S = {M, T, L, LQ, F, A, V, -}.
type Label string

const (
	M    Label = "M"  // morning shift
	T    Label = "T"  // afternoon shift
	L    Label = "L"  // regular day off
	LQ   Label = "LQ" // quality-weekend day off (Saturday half of a C2D pair)
	F    Label = "F"  // closed holiday
	A    Label = "A"  // absence
	V    Label = "V"  // missing from calendar
	None Label = "-"  // empty / no slot
)

// Working is the subset of labels that count as a worked shift.
var Working = []Label{M, T}

// Check is the label set legal on a day the engine is free to choose for.
var Check = []Label{M, T, L, LQ}

// CompleteCycleCheck is the label set for complete-cycle employees on a working day.
var CompleteCycleCheck = []Label{M, T}

// Free is the label set used by most free-day computations.
var Free = []Label{L, LQ, F}

// FreeExt is the wider free-day set used by the consecutive-free bonus.
var FreeExt = []Label{L, LQ, F, A, V}

// In reports whether ℓ is a member of set.
func (l Label) In(set []Label) bool {
	for _, s := range set {
		if s == l {
			return true
		}
	}
	return false
}

// IsWorking reports whether the label counts against weekly/consecutive working caps.
func (l Label) IsWorking() bool {
	return l == M || l == T
}
