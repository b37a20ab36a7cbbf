package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salsa-engine/salsa/internal/model"
)

func TestNew_EmptyAPIKeyYieldsAClientlessAssistant(t *testing.T) {
	a := New("", "")
	assert.Nil(t, a.client)
}

func TestExplainReport_FallsBackWithoutAnAPIKey(t *testing.T) {
	a := New("", "")
	report := model.Report{Status: "OPTIMAL", ObjectiveValue: 10, WallTime: time.Second}

	got := a.ExplainReport(report)

	assert.Equal(t, deterministicSummary(report), got)
}

func TestDeterministicSummary_MentionsOptimalStatus(t *testing.T) {
	got := deterministicSummary(model.Report{Status: "OPTIMAL", ObjectiveValue: 5, WallTime: time.Second})
	assert.Contains(t, got, "provably optimal")
}

func TestDeterministicSummary_MentionsFeasibleStatus(t *testing.T) {
	got := deterministicSummary(model.Report{Status: "FEASIBLE", ObjectiveValue: 5, WallTime: time.Second})
	assert.Contains(t, got, "before its time budget expired")
}

func TestDeterministicSummary_FallsBackToRawStatusForOtherValues(t *testing.T) {
	got := deterministicSummary(model.Report{Status: "UNKNOWN", ObjectiveValue: 0, WallTime: time.Second})
	assert.Contains(t, got, "returned status UNKNOWN")
}

func TestDeterministicSummary_MentionsWarningCountWhenPresent(t *testing.T) {
	report := model.Report{
		Status:   "OPTIMAL",
		WallTime: time.Second,
		Warnings: []model.Warning{{Kind: "only_in_one_table"}, {Kind: "empty_working_days"}},
	}

	got := deterministicSummary(report)

	assert.Contains(t, got, "2 input warnings")
}

func TestExplainPrompt_IncludesStatusAndObjective(t *testing.T) {
	report := model.Report{Status: "OPTIMAL", ObjectiveValue: 42, WallTime: 3 * time.Second}

	prompt := explainPrompt(report)

	assert.Contains(t, prompt, "Status: OPTIMAL")
	assert.Contains(t, prompt, "42.0")
}
