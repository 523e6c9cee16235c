// Package pipeline wires together validation, demand expansion, coverage
// analysis, model construction, solving, and rendering into one top-level
// Run call.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/paiban/roster/pkg/availability"
	"github.com/paiban/roster/pkg/demand"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/render"
	"github.com/paiban/roster/pkg/scheduler/backend"
	"github.com/paiban/roster/pkg/scheduler/solver"
	"github.com/paiban/roster/pkg/validate"
)

// Options configures one Run.
type Options struct {
	TimeLimitSeconds float64
	RandomSeed       int64
	Workers          int
	NewBackend       func() backend.Backend
	CaptureLogs      bool
}

// NewCPSATOptions returns Options wired to the real CP-SAT backend.
func NewCPSATOptions(timeLimitSeconds float64, seed int64, workers int) Options {
	return Options{
		TimeLimitSeconds: timeLimitSeconds,
		RandomSeed:       seed,
		Workers:          workers,
		NewBackend:       func() backend.Backend { return backend.NewCPSATBackend() },
		CaptureLogs:      true,
	}
}

// Run executes the full pipeline against raw JSON input, always returning a
// well-formed model.Output: pipeline-recoverable failures (bad input,
// infeasibility, timeout) are folded into Output.Error/Infeasible rather
// than returned as a Go error. Only a non-recoverable internal error is
// returned, since main() has no output document to write in that case.
func Run(raw []byte, opts Options) (*model.Output, error) {
	runID := uuid.NewString()
	log := logger.NewRosterLogger(runID, opts.CaptureLogs)
	log.Phase("validate")

	vr := validate.Validate(raw)
	if vr.Err != nil {
		return errorOutput(vr.Err, log), nil
	}
	input := vr.Input

	log.Phase("expand")
	ex, err := demand.Expand(input)
	if err != nil {
		return errorOutput(err, log), nil
	}
	ex.Warnings = append(vr.Warnings, ex.Warnings...)

	log.Phase("analyse")
	avail := availability.Analyse(input, ex.Need)
	if avail.AllZero(ex.Need) {
		out := &model.Output{
			PeopleOrder: peopleIDs(input),
			Infeasible:  true,
			Reason:      "no_availability",
		}
		out.Diagnostics.Warnings = append(ex.Warnings, "no staff are available to cover any demand slot")
		out.Diagnostics.LogOutput = log.LogOutput()
		return out, nil
	}

	be := opts.NewBackend()
	res, solveErr := solver.Solve(be, input, ex.Need, opts.TimeLimitSeconds, opts.RandomSeed, opts.Workers, log)
	if solveErr != nil && !apperrors.Recoverable(solveErr) {
		return nil, solveErr
	}

	log.Phase("render")
	out := render.Build(be, res, input, ex, avail)
	if solveErr != nil {
		out.Error = &model.ErrorInfo{
			Code:    string(apperrors.GetCode(solveErr)),
			Message: solveErr.Error(),
		}
	}
	return out, nil
}

func peopleIDs(input *model.Input) []string {
	ids := make([]string, len(input.People))
	for i, p := range input.People {
		ids[i] = p.ID
	}
	return ids
}

func errorOutput(err error, log *logger.RosterLogger) *model.Output {
	log.Error(err)
	return &model.Output{
		Error: &model.ErrorInfo{
			Code:    string(apperrors.GetCode(err)),
			Message: err.Error(),
		},
		Diagnostics: model.Diagnostics{LogOutput: log.LogOutput()},
	}
}
