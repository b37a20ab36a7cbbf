// Package cpsat is a thin helper layer over the CP-SAT Go binding
// (github.com/google/or-tools/ortools/sat/go/cpmodel), grounded on the
// pack's one CP-SAT sample (ortools/sat/samples/nurses_sat.go): boolean
// variables built through a CpModelBuilder, AddExactlyOne/AddAtMostOne for
// unicity-style constraints, NewLinearExpr + AddLessOrEqual for capacity
// constraints, and cpmodel.SolveCpModel for the terminal response. It adds
// the reification helpers the constraint/objective builders need (§9
// Design Notes: "use the optimizer's reified-AND construct") that the
// sample itself doesn't exercise.
package cpsat

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Model wraps a CpModelBuilder plus a per-invocation name counter so every
// created variable gets a stable, debuggable name without the caller
// having to thread one through.
type Model struct {
	B        *cpmodel.CpModelBuilder
	autoName int
}

// NewModel creates an empty CP-SAT model.
func NewModel() *Model {
	return &Model{B: cpmodel.NewCpModelBuilder()}
}

// NewBoolVar creates a named boolean decision variable.
func (m *Model) NewBoolVar(name string) cpmodel.BoolVar {
	return m.B.NewBoolVar().WithName(name)
}

// NewAuxBoolVar creates an unnamed-but-labeled auxiliary boolean variable
// (reification indicators, penalty booleans) with an automatically
// generated, collision-free name.
func (m *Model) NewAuxBoolVar(prefix string) cpmodel.BoolVar {
	m.autoName++
	return m.NewBoolVar(fmt.Sprintf("%s_%d", prefix, m.autoName))
}

// NewIntVar creates a named bounded integer variable.
func (m *Model) NewIntVar(lb, ub int64, name string) cpmodel.IntVar {
	return m.B.NewIntVar(lb, ub).WithName(name)
}

// VarArgs widens a slice of concrete BoolVars into the LinearArgument
// slice Sum/WeightedSum expect, since Go does not implicitly widen a
// []BoolVar into a []LinearArgument across a spread call.
func VarArgs(vars []cpmodel.BoolVar) []cpmodel.LinearArgument {
	out := make([]cpmodel.LinearArgument, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

// LitArgs widens a slice of concrete BoolVars into a Literal slice, for
// AddBoolOr/AddBoolAnd calls that need negated terms mixed in.
func LitArgs(vars []cpmodel.BoolVar) []cpmodel.Literal {
	out := make([]cpmodel.Literal, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

// Sum returns a linear expression summing the given terms with
// coefficient 1 each.
func Sum(terms ...cpmodel.LinearArgument) *cpmodel.LinearExpr {
	e := cpmodel.NewLinearExpr()
	for _, t := range terms {
		e.Add(t)
	}
	return e
}

// WeightedSum returns a linear expression summing terms[i]*coeffs[i].
func WeightedSum(terms []cpmodel.LinearArgument, coeffs []int64) *cpmodel.LinearExpr {
	e := cpmodel.NewLinearExpr()
	for i, t := range terms {
		e.AddTerm(t, coeffs[i])
	}
	return e
}

// ReifyAnd introduces a boolean variable equivalent to the conjunction of
// lits (ind <=> AND(lits)): ind implies every lit, and the conjunction of
// all lits implies ind. This is the two-implication encoding from §9
// Design Notes, used instead of an auxiliary integer variable.
func (m *Model) ReifyAnd(name string, lits ...cpmodel.Literal) cpmodel.BoolVar {
	ind := m.NewBoolVar(name)
	for _, l := range lits {
		m.B.AddImplication(ind, l)
	}
	clause := make([]cpmodel.Literal, 0, len(lits)+1)
	for _, l := range lits {
		clause = append(clause, l.Not())
	}
	clause = append(clause, ind)
	m.B.AddBoolOr(clause...)
	return ind
}

// ReifyLinearGE introduces ind <=> (expr >= bound).
func (m *Model) ReifyLinearGE(name string, expr cpmodel.LinearArgument, bound int64) cpmodel.BoolVar {
	ind := m.NewBoolVar(name)
	m.B.AddGreaterOrEqual(expr, cpmodel.NewConstant(bound)).OnlyEnforceIf(ind)
	m.B.AddLessOrEqual(expr, cpmodel.NewConstant(bound-1)).OnlyEnforceIf(ind.Not())
	return ind
}

// ReifyLinearEqZero introduces ind <=> (expr == 0), used for the
// zero-worker-day penalty indicator.
func (m *Model) ReifyLinearEqZero(name string, expr cpmodel.LinearArgument) cpmodel.BoolVar {
	ind := m.NewBoolVar(name)
	m.B.AddEquality(expr, cpmodel.NewConstant(0)).OnlyEnforceIf(ind)
	m.B.AddGreaterOrEqual(expr, cpmodel.NewConstant(1)).OnlyEnforceIf(ind.Not())
	return ind
}

// PosNegDeviation introduces pos, neg >= 0 with pos >= expr-target and
// neg >= target-expr, the staffing-deviation encoding used throughout the
// objective builder.
func (m *Model) PosNegDeviation(name string, expr cpmodel.LinearArgument, target int64, ub int64) (pos, neg cpmodel.IntVar) {
	pos = m.NewIntVar(0, ub, name+"_pos")
	neg = m.NewIntVar(0, ub, name+"_neg")
	diff := cpmodel.NewLinearExpr().Add(expr).AddConstant(-target)
	m.B.AddGreaterOrEqual(cpmodel.NewLinearExpr().Add(pos), diff)
	negDiff := cpmodel.NewLinearExpr().AddTerm(expr, -1).AddConstant(target)
	m.B.AddGreaterOrEqual(cpmodel.NewLinearExpr().Add(neg), negDiff)
	return pos, neg
}

// Shortfall introduces s >= 0 with s >= target-expr (capped at ub), the
// sub-minimum-staffing encoding from the objective builder.
func (m *Model) Shortfall(name string, expr cpmodel.LinearArgument, target int64, ub int64) cpmodel.IntVar {
	s := m.NewIntVar(0, ub, name)
	diff := cpmodel.NewLinearExpr().AddTerm(expr, -1).AddConstant(target)
	m.B.AddGreaterOrEqual(cpmodel.NewLinearExpr().Add(s), diff)
	return s
}

// Minimize sets the model's objective.
func (m *Model) Minimize(expr cpmodel.LinearArgument) {
	m.B.Minimize(expr)
}

// Build finalizes the proto-level CP-SAT model.
func (m *Model) Build() (*cpmodel.CpModelProto, error) {
	return m.B.Model()
}
