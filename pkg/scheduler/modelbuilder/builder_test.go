package modelbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/backend"
)

func flatNeed(days int, slot model.Slot, n int) map[int]map[model.Slot]int {
	need := make(map[int]map[model.Slot]int, days)
	for d := 1; d <= days; d++ {
		row := make(map[model.Slot]int, len(model.Slots))
		for _, s := range model.Slots {
			row[s] = 0
		}
		row[slot] = n
		need[d] = row
	}
	return need
}

func TestBuild_CoversDemandWithoutShortageWhenStaffSufficient(t *testing.T) {
	input := &model.Input{
		Days:          2,
		WeekdayOfDay1: 1,
		Rules:         model.DefaultRules(),
		Weights:       model.DefaultWeights(),
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}},
			{ID: "p2", CanWork: []model.ShiftCode{model.ShiftDA}},
		},
	}
	need := flatNeed(2, model.Slot0915, 1)

	be := backend.NewBruteForceBackend()
	// The exhaustive search over this model visits about 34M leaves.
	be.SearchCap = 40_000_000
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.Equal(t, backend.StatusOptimal, status)

	for d := 1; d <= 2; d++ {
		assert.Equal(t, int64(0), be.Value(m.Shortage[dsKey{d, model.Slot0915}]))
	}
}

func TestBuild_AtMostOneShiftPerPersonPerDay(t *testing.T) {
	input := &model.Input{
		Days:          1,
		WeekdayOfDay1: 1,
		Rules:         model.DefaultRules(),
		Weights:       model.DefaultWeights(),
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftEA, model.ShiftDA}},
		},
	}
	need := flatNeed(1, model.Slot0709, 0)

	be := backend.NewBruteForceBackend()
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.Equal(t, backend.StatusOptimal, status)

	ea := m.X[xKey{0, 1, model.ShiftEA}]
	da := m.X[xKey{0, 1, model.ShiftDA}]
	assert.LessOrEqual(t, be.Value(ea)+be.Value(da), int64(1))
}

func TestBuild_MonthlyMaxCapsAssignments(t *testing.T) {
	input := &model.Input{
		Days:          3,
		WeekdayOfDay1: 1,
		Rules:         model.DefaultRules(),
		Weights:       model.Weights{Shortage: 1000},
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}, MonthlyMax: 1},
		},
	}
	need := flatNeed(3, model.Slot0915, 1)

	be := backend.NewBruteForceBackend()
	// The exhaustive search over this model visits about 16.7M leaves.
	be.SearchCap = 20_000_000
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.Equal(t, backend.StatusOptimal, status)

	assigned := 0
	for d := 1; d <= 3; d++ {
		if v, ok := m.X[xKey{0, d, model.ShiftDA}]; ok && be.Value(v) == 1 {
			assigned++
		}
	}
	assert.LessOrEqual(t, assigned, 1)
}

func TestBuild_PostNightRestBlocksNextDayShift(t *testing.T) {
	input := &model.Input{
		Days:          2,
		WeekdayOfDay1: 1,
		Rules:         model.Rules{NightRest: map[model.ShiftCode]int{model.ShiftNC: 1}},
		Weights:       model.Weights{Shortage: 1000},
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftNC, model.ShiftDA}},
		},
	}
	need := map[int]map[model.Slot]int{
		1: {model.Slot2123: 1, model.Slot0007: 0, model.Slot0709: 0, model.Slot0915: 0, model.Slot1618: 0, model.Slot1821: 0},
		2: {model.Slot0915: 1, model.Slot0709: 0, model.Slot1618: 0, model.Slot1821: 0, model.Slot2123: 0, model.Slot0007: 0},
	}

	be := backend.NewBruteForceBackend()
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.NotEqual(t, backend.StatusInfeasible, status)

	if v, ok := m.X[xKey{0, 1, model.ShiftNC}]; ok && be.Value(v) == 1 {
		if v2, ok := m.X[xKey{0, 2, model.ShiftDA}]; ok {
			assert.Equal(t, int64(0), be.Value(v2))
		}
	}
}

func TestBuild_RequestedOffLinksViolationVariable(t *testing.T) {
	input := &model.Input{
		Days:          1,
		WeekdayOfDay1: 1,
		Rules:         model.DefaultRules(),
		Weights:       model.DefaultWeights(),
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}, RequestedOffDates: []int{1}},
		},
	}
	need := flatNeed(1, model.Slot0915, 1)

	be := backend.NewBruteForceBackend()
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.NotEqual(t, backend.StatusInfeasible, status)

	x := m.X[xKey{0, 1, model.ShiftDA}]
	violate := m.ViolateOff[pdKey{0, 1}]
	assert.Equal(t, be.Value(x), be.Value(violate))
}

func TestBuild_NoEarlyAfterDayABForbidsBackToBack(t *testing.T) {
	input := &model.Input{
		Days:          2,
		WeekdayOfDay1: 1,
		Rules:         model.Rules{NoEarlyAfterDayAB: true},
		Weights:       model.Weights{Shortage: 1000},
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA, model.ShiftEA}},
		},
	}
	need := map[int]map[model.Slot]int{
		1: {model.Slot0915: 1, model.Slot0709: 0, model.Slot1618: 0, model.Slot1821: 0, model.Slot2123: 0, model.Slot0007: 0},
		2: {model.Slot0709: 1, model.Slot0915: 0, model.Slot1618: 0, model.Slot1821: 0, model.Slot2123: 0, model.Slot0007: 0},
	}

	be := backend.NewBruteForceBackend()
	m := Build(be, input, need)

	status, err := be.Solve(1, 1, 0)
	require.NoError(t, err)
	require.NotEqual(t, backend.StatusInfeasible, status)

	da := m.X[xKey{0, 1, model.ShiftDA}]
	ea := m.X[xKey{0, 2, model.ShiftEA}]
	assert.False(t, be.Value(da) == 1 && be.Value(ea) == 1)
}
