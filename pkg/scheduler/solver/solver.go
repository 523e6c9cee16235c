// Package solver drives one CP-SAT solve attempt: Constructing, Solving,
// then a terminal Optimal/Feasible/Infeasible/Timeout/Error state.
package solver

import (
	"time"

	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/backend"
	"github.com/paiban/roster/pkg/scheduler/modelbuilder"
)

// Result is the outcome of one solve attempt.
type Result struct {
	Status         backend.Status
	Model          *modelbuilder.Model
	ObjectiveValue float64
	Elapsed        time.Duration
	Log            string
}

// Solve builds the model against be and runs it under the given wall-clock
// limit, seed, and worker count, logging phase transitions through log.
func Solve(be backend.Backend, input *model.Input, need map[int]map[model.Slot]int, timeLimitSeconds float64, seed int64, workers int, log *logger.RosterLogger) (*Result, error) {
	log.Phase("build")
	m := modelbuilder.Build(be, input, need)

	if m.VarCounts.X == 0 && input.Days > 0 && len(input.People) > 0 {
		log.ConstraintNote("no assignment variables were created; staff availability is zero")
		return &Result{Status: backend.StatusInfeasible, Model: m, Log: log.LogOutput()},
			apperrors.SolverInfeasible("no assignment variables were created; staff availability is zero")
	}

	log.StartSolve(len(input.People), input.Days, timeLimitSeconds)
	log.Phase("solve")

	start := time.Now()
	status, err := be.Solve(timeLimitSeconds, seed, workers)
	elapsed := time.Since(start)

	if err != nil {
		log.Error(err)
		return nil, apperrors.New(apperrors.CodeInternal, "solver backend failed").WithCause(err)
	}

	objective := be.ObjectiveValue()
	log.SolveComplete(string(status), elapsed, objective)

	res := &Result{
		Status:         status,
		Model:          m,
		ObjectiveValue: objective,
		Elapsed:        elapsed,
		Log:            log.LogOutput() + be.Log(),
	}

	switch status {
	case backend.StatusOptimal, backend.StatusFeasible:
		return res, nil
	case backend.StatusInfeasible:
		return res, apperrors.SolverInfeasible("no assignment satisfies every hard constraint")
	case backend.StatusTimeout:
		return res, apperrors.SolverTimeout(elapsed.Seconds())
	default:
		return res, apperrors.New(apperrors.CodeInternal, "solver returned an unrecognised status").
			WithField("status", string(status))
	}
}
