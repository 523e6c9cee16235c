package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/roster/pkg/model"
)

func TestFairnessAnalyzer_Analyze(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	assignments := []model.Assignment{
		{Date: 1, StaffID: "p1", Shift: model.ShiftDA},
		{Date: 2, StaffID: "p1", Shift: model.ShiftDA},
		{Date: 1, StaffID: "p2", Shift: model.ShiftDA},
	}

	metrics := analyzer.Analyze(assignments, []string{"p1", "p2"}, 1)

	require.NotNil(t, metrics)
	assert.GreaterOrEqual(t, metrics.WorkloadGini, 0.0)
	assert.LessOrEqual(t, metrics.WorkloadGini, 1.0)
	assert.Len(t, metrics.PersonStats, 2)
}

func TestFairnessAnalyzer_EmptyInput(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	metrics := analyzer.Analyze(nil, nil, 1)

	require.NotNil(t, metrics)
	assert.Equal(t, 100.0, metrics.OverallFairnessScore)
}

func TestFairnessAnalyzer_PerfectFairness(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	assignments := []model.Assignment{
		{Date: 1, StaffID: "p1", Shift: model.ShiftDA},
		{Date: 1, StaffID: "p2", Shift: model.ShiftDA},
	}

	metrics := analyzer.Analyze(assignments, []string{"p1", "p2"}, 1)

	assert.Less(t, metrics.WorkloadGini, 0.01)
}

func TestFairnessAnalyzer_OverallScoreInRange(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	assignments := []model.Assignment{
		{Date: 1, StaffID: "p1", Shift: model.ShiftNA},
	}

	metrics := analyzer.Analyze(assignments, []string{"p1"}, 1)

	assert.GreaterOrEqual(t, metrics.OverallFairnessScore, 0.0)
	assert.LessOrEqual(t, metrics.OverallFairnessScore, 100.0)
}

func TestFairnessAnalyzer_FlagsWeekendAndNightShifts(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	// weekdayOfDay1 = 1 (Monday); date 6 falls on Saturday.
	assignments := []model.Assignment{
		{Date: 6, StaffID: "p1", Shift: model.ShiftNC},
	}

	metrics := analyzer.Analyze(assignments, []string{"p1"}, 1)

	require.Len(t, metrics.PersonStats, 1)
	assert.Equal(t, 1, metrics.PersonStats[0].NightShifts)
	assert.Equal(t, 1, metrics.PersonStats[0].WeekendShifts)
}
