package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/roster/pkg/availability"
	"github.com/paiban/roster/pkg/demand"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/backend"
	"github.com/paiban/roster/pkg/scheduler/solver"
)

func smallInput() *model.Input {
	return &model.Input{
		Days:          1,
		WeekdayOfDay1: 1,
		Rules:         model.DefaultRules(),
		Weights:       model.DefaultWeights(),
		NeedTemplate: map[string]model.NeedTemplateRow{
			"weekday": {model.Slot0915: 1, model.Slot0709: 0, model.Slot1618: 0, model.Slot1821: 0, model.Slot2123: 0, model.Slot0007: 0},
		},
		DayTypeByDate: []string{"weekday"},
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}},
		},
	}
}

func TestBuild_OptimalProducesAssignmentsAndMatrix(t *testing.T) {
	input := smallInput()
	ex, err := demand.Expand(input)
	require.NoError(t, err)
	avail := availability.Analyse(input, ex.Need)

	be := backend.NewBruteForceBackend()
	log := logger.NewRosterLogger("test", false)
	res, err := solver.Solve(be, input, ex.Need, 5, 1, 0, log)
	require.NoError(t, err)

	out := Build(be, res, input, ex, avail)

	require.Len(t, out.Assignments, 1)
	assert.Equal(t, "p1", out.Assignments[0].StaffID)
	assert.Equal(t, model.ShiftDA, out.Assignments[0].Shift)
	require.Len(t, out.Matrix, 1)
	assert.Equal(t, "DA", out.Matrix[0].Shifts["p1"])
	assert.Equal(t, []string{"p1"}, out.PeopleOrder)
	assert.False(t, out.Infeasible)
	assert.NotEmpty(t, out.Summary.Fairness)
}

func TestBuildDiagnostics_ShortageFullyExplainsGapDoesNotFlag(t *testing.T) {
	input := smallInput()
	ex := &demand.Expanded{TotalNeed: 10}
	avail := &availability.Result{Available: map[int]map[model.Slot]int{}}
	out := &model.Output{Summary: model.Summary{Totals: model.Totals{Assigned: 5, Shortage: 5}}}

	buildDiagnostics(out, avail, &solver.Result{}, input, ex, false)

	assert.False(t, out.Diagnostics.Flags.InconsistentSummary)
}

func TestBuildDiagnostics_UnexplainedGapFlags(t *testing.T) {
	input := smallInput()
	ex := &demand.Expanded{TotalNeed: 10}
	avail := &availability.Result{Available: map[int]map[model.Slot]int{}}
	out := &model.Output{Summary: model.Summary{Totals: model.Totals{Assigned: 5, Shortage: 0}}}

	buildDiagnostics(out, avail, &solver.Result{}, input, ex, false)

	assert.True(t, out.Diagnostics.Flags.InconsistentSummary)
}

func TestBuild_InfeasibleSetsReasonAndSkipsAssignments(t *testing.T) {
	input := smallInput()
	input.People[0].RequestedOffDates = []int{1}

	ex, err := demand.Expand(input)
	require.NoError(t, err)
	avail := availability.Analyse(input, ex.Need)

	be := backend.NewBruteForceBackend()
	// Force infeasibility directly, independent of the actual model's
	// satisfiability, to exercise the infeasible rendering branch.
	x := be.NewBool("forced")
	be.AddLinearEQ([]backend.Term{{Var: x, Coeff: 1}}, 1)
	be.AddLinearEQ([]backend.Term{{Var: x, Coeff: 1}}, 0)

	log := logger.NewRosterLogger("test", false)
	res, err := solver.Solve(be, input, ex.Need, 5, 1, 0, log)
	require.Error(t, err)
	require.NotNil(t, res)

	out := Build(be, res, input, ex, avail)

	assert.True(t, out.Infeasible)
	assert.Equal(t, "INFEASIBLE", out.Reason)
	assert.Empty(t, out.Assignments)
	assert.NotNil(t, out.Diagnostics.SlotAvailability)
}
