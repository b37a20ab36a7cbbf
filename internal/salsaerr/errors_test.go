package salsaerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NoFeasibleSchedule("no assignment covers every quota")

	assert.True(t, errors.Is(err, Of(KindNoFeasibleSchedule)))
	assert.False(t, errors.Is(err, Of(KindInternalFault)))
}

func TestError_UnwrapReturnsNilWithoutCause(t *testing.T) {
	err := EmptyHorizon()
	assert.Nil(t, err.Unwrap())
}

func TestError_MessageIncludesKindAndDetail(t *testing.T) {
	err := MissingColumn("colaborador", "c2d")
	assert.Contains(t, err.Error(), "missing_column")
	assert.Contains(t, err.Error(), "colaborador")
	assert.Contains(t, err.Error(), "c2d")
}

func TestContractInvalid_IncludesMatricula(t *testing.T) {
	err := ContractInvalid(42, "total_l <= 0")
	assert.Contains(t, err.Error(), "42")
	assert.Equal(t, KindContractInvalid, err.Kind)
}
