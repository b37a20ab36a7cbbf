// Package salsaerr defines the engine's typed error surface (§7 Error
// Handling Design). Callers use errors.Is/As against sentinels built with Of
// from the Kind constants below rather than matching on message text.
package salsaerr

import "fmt"

// Kind identifies which class of failure occurred.
type Kind string

const (
	KindMissingTable          Kind = "missing_table"
	KindMissingColumn         Kind = "missing_column"
	KindEmptyWorkforce        Kind = "empty_workforce"
	KindEmptyHorizon          Kind = "empty_horizon"
	KindContractInvalid       Kind = "contract_invalid"
	KindNoFeasibleSchedule    Kind = "no_feasible_schedule"
	KindNoSolutionWithinBudget Kind = "no_solution_within_budget"
	KindInternalFault         Kind = "internal_fault"
)

// Error wraps a Kind with a human-readable message and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, salsaerr.Of(salsaerr.KindX)) style checks work: any
// *Error target with the same Kind matches, whatever its Message and Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func new_(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func MissingTable(name string) *Error {
	return new_(KindMissingTable, "required table %q is absent", name)
}

func MissingColumn(table, column string) *Error {
	return new_(KindMissingColumn, "table %q is missing required column %q", table, column)
}

func EmptyWorkforce() *Error {
	return new_(KindEmptyWorkforce, "no employees remain after classification")
}

func EmptyHorizon() *Error {
	return new_(KindEmptyHorizon, "no days remain in the horizon")
}

func ContractInvalid(matricula int, reason string) *Error {
	return new_(KindContractInvalid, "employee %d: %s", matricula, reason)
}

func NoFeasibleSchedule(detail string) *Error {
	return new_(KindNoFeasibleSchedule, "no assignment satisfies the hard constraints: %s", detail)
}

func NoSolutionWithinBudget(elapsed string) *Error {
	return new_(KindNoSolutionWithinBudget, "time budget expired before a feasible solution was found (elapsed %s)", elapsed)
}

func InternalFault(format string, args ...any) *Error {
	return new_(KindInternalFault, fmt.Sprintf(format, args...))
}

// Of returns a sentinel *Error of the given kind, suitable as an errors.Is
// target: errors.Is(err, salsaerr.Of(salsaerr.KindNoFeasibleSchedule)).
func Of(kind Kind) *Error { return &Error{Kind: kind} }
