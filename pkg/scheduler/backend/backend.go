// Package backend defines the CP-SAT capability interface the model
// builder programs against, plus a real adapter (cpsat.go) and a canned
// adapter (canned.go) for unit tests.
package backend

// Var is an opaque handle to a decision variable created by a Backend.
// Concrete backends may use different underlying representations; callers
// never inspect a Var directly, only pass it back into the interface.
type Var interface{}

// Status is the terminal state of one Solve call.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusTimeout    Status = "TIMEOUT"
	StatusError      Status = "ERROR"
)

// Term is one coefficient-weighted variable in a linear expression.
type Term struct {
	Var   Var
	Coeff int64
}

// Backend is the abstract CP-SAT capability the model builder depends on.
// Any engine exposing this surface — a real CP-SAT solver, an integer
// programming wrapper, or a canned testing double — can drive the pipeline.
type Backend interface {
	NewBool(name string) Var
	NewIntVar(lo, hi int64, name string) Var

	AddLinearLEQ(terms []Term, rhs int64)
	AddLinearEQ(terms []Term, rhs int64)
	AddLinearGEQ(terms []Term, rhs int64)
	AddMaxEquality(target Var, vars []Var)

	Minimize(terms []Term)

	// Solve runs the search under a wall-clock limit, a fixed random seed
	// for reproducibility, and an optional worker count (0 = backend
	// default), returning the terminal Status.
	Solve(timeLimitSeconds float64, seed int64, workers int) (Status, error)

	// Value returns the solved value of v after a successful Solve
	// (Optimal, Feasible, or a Timeout with a usable incumbent).
	Value(v Var) int64

	ObjectiveValue() float64

	// Log returns the backend's own solve log, joined the way
	// diagnostics.logOutput expects.
	Log() string
}
