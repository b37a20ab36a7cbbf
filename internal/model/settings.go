package model

import "time"

// Rounding modes for the admissao_proporcional setting, applied to the
// required free-day count of an admission/dismissal week. Contract quota
// proration does not read them.
const (
	RoundFloor = "floor"
	RoundCeil  = "ceil"
)

// Settings carries the top-level knobs described in §6 External Interfaces.
type Settings struct {
	AdmissaoProporcional    string // "floor" or "ceil", default "floor"
	FSpecialDay             bool   // stored with profiles but read by no constraint: LQ eligibility always behaves as false
	MaxContinuousWorkingDays int   // default 6
	SolverTimeLimitSeconds  int    // default 600
	SolverWorkers           int    // default 8
	Reproducible            bool   // if true, Seed is honored
	Seed                    int64
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		AdmissaoProporcional:     RoundFloor,
		FSpecialDay:              false,
		MaxContinuousWorkingDays: 6,
		SolverTimeLimitSeconds:   600,
		SolverWorkers:            8,
	}
}

func (s Settings) TimeLimit() time.Duration {
	if s.SolverTimeLimitSeconds <= 0 {
		return 600 * time.Second
	}
	return time.Duration(s.SolverTimeLimitSeconds) * time.Second
}
