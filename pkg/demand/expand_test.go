package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/roster/pkg/model"
)

func baseInput() *model.Input {
	return &model.Input{
		Days:          2,
		DayTypeByDate: []string{"normalDay", "normalDay"},
		NeedTemplate: map[string]model.NeedTemplateRow{
			"normalDay": {model.Slot0709: 1, model.Slot0007: 2},
		},
	}
}

func TestExpand_FailsClosedOnMissingDayType(t *testing.T) {
	in := baseInput()
	in.DayTypeByDate = []string{"bathDay", "normalDay"}
	_, err := Expand(in)
	require.Error(t, err)
}

func TestExpand_ComputesTotals(t *testing.T) {
	ex, err := Expand(baseInput())
	require.NoError(t, err)
	assert.Equal(t, 6, ex.TotalNeed)
	assert.Len(t, ex.PerDayTotals, 2)
	assert.Equal(t, 3, ex.PerDayTotals[0].Total)
}

func TestExpand_ZeroDemandWarns(t *testing.T) {
	in := &model.Input{
		Days:          1,
		DayTypeByDate: []string{"empty"},
		NeedTemplate:  map[string]model.NeedTemplateRow{"empty": {}},
	}
	ex, err := Expand(in)
	require.NoError(t, err)
	assert.Equal(t, 0, ex.TotalNeed)
	assert.NotEmpty(t, ex.Warnings)
}

func TestExpand_PreviousMonthNightCarryReducesMidnightNeed(t *testing.T) {
	in := baseInput()
	in.PreviousMonthNightCarry = map[model.ShiftCode][]string{model.ShiftNA: {"p1", "p2"}}
	ex, err := Expand(in)
	require.NoError(t, err)
	assert.Equal(t, 0, ex.Need[1][model.Slot0007])
	assert.True(t, ex.PerDayTotals[0].CarryApplied)
	assert.Equal(t, 2, ex.Need[2][model.Slot0007])
}

func TestExpand_StrictNightOverrideChangingASlotSetsCarryApplied(t *testing.T) {
	in := baseInput()
	in.StrictNight = &model.StrictNight{Slot2123: 3, Slot0007: 2, Min1821: 0, Max1821: 0}
	ex, err := Expand(in)
	require.NoError(t, err)
	assert.True(t, ex.PerDayTotals[0].CarryApplied)
	assert.Equal(t, 3, ex.Need[1][model.Slot2123])
}

func TestExpand_StrictNightOverrideThatChangesNothingLeavesCarryApplied(t *testing.T) {
	in := baseInput()
	// baseInput's normalDay template has Slot0007=2 and Slot2123/Slot1821 unset
	// (zero); a strictNight block reproducing those same values is a no-op.
	in.StrictNight = &model.StrictNight{Slot2123: 0, Slot0007: 2, Min1821: 0, Max1821: 0}
	ex, err := Expand(in)
	require.NoError(t, err)
	assert.False(t, ex.PerDayTotals[0].CarryApplied)
}

func TestSplitWeeks_StartingSunday(t *testing.T) {
	weeks := SplitWeeks(10, 0)
	require.Len(t, weeks, 2)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, weeks[0])
	assert.Equal(t, []int{8, 9, 10}, weeks[1])
}

func TestSplitWeeks_StartingMidweek(t *testing.T) {
	weeks := SplitWeeks(9, 3) // Wednesday
	require.Len(t, weeks, 2)
	assert.Equal(t, []int{1, 2, 3, 4}, weeks[0]) // Wed..Sat closes the first week
	assert.Equal(t, []int{5, 6, 7, 8, 9}, weeks[1])
}
