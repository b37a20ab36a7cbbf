package cpsat

import (
	"testing"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReifyAnd_IndicatorMatchesConjunction(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	ind := m.ReifyAnd("ind", a, b)

	m.B.AddEquality(a, cpmodel.NewConstant(1))
	m.B.AddEquality(b, cpmodel.NewConstant(0))

	built, err := m.Build()
	require.NoError(t, err)

	resp, err := cpmodel.SolveCpModel(built)
	require.NoError(t, err)
	require.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, resp.GetStatus().String())

	assert.False(t, cpmodel.SolutionBooleanValue(resp, ind), "a AND b is false when b is forced to 0")
}

func TestReifyLinearGE_IndicatorTracksThreshold(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar(0, 5, "x")
	ind := m.ReifyLinearGE("ind", x, 3)

	m.B.AddEquality(x, cpmodel.NewConstant(4))

	built, err := m.Build()
	require.NoError(t, err)
	resp, err := cpmodel.SolveCpModel(built)
	require.NoError(t, err)

	assert.True(t, cpmodel.SolutionBooleanValue(resp, ind))
}

func TestPosNegDeviation_RejectsDeviationBelowTheTrueGap(t *testing.T) {
	// x=6 against target=4 forces pos>=2 (the PosNegDeviation encoding is a
	// lower bound, not an equality), so asking the solver to also accept
	// pos<=1 must be infeasible.
	m := NewModel()
	x := m.NewIntVar(0, 10, "x")
	pos, _ := m.PosNegDeviation("dev", x, 4, 10)

	m.B.AddEquality(x, cpmodel.NewConstant(6))
	m.B.AddLessOrEqual(pos, cpmodel.NewConstant(1))

	built, err := m.Build()
	require.NoError(t, err)
	resp, err := cpmodel.SolveCpModel(built)
	require.NoError(t, err)

	assert.Equal(t, "INFEASIBLE", resp.GetStatus().String())
}

func TestPosNegDeviation_AcceptsDeviationAtTheTrueGap(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar(0, 10, "x")
	pos, _ := m.PosNegDeviation("dev", x, 4, 10)

	m.B.AddEquality(x, cpmodel.NewConstant(6))
	m.B.AddEquality(pos, cpmodel.NewConstant(2))

	built, err := m.Build()
	require.NoError(t, err)
	resp, err := cpmodel.SolveCpModel(built)
	require.NoError(t, err)

	assert.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, resp.GetStatus().String())
}

func TestVarArgsAndLitArgs_PreserveOrder(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	vars := []cpmodel.BoolVar{a, b}

	linArgs := VarArgs(vars)
	lits := LitArgs(vars)

	require.Len(t, linArgs, 2)
	require.Len(t, lits, 2)
	assert.Equal(t, a, linArgs[0])
	assert.Equal(t, b, linArgs[1])
	assert.Equal(t, a, lits[0])
	assert.Equal(t, b, lits[1])
}
