package backend

import (
	"strings"
)

// cannedVar is BruteForceBackend's variable handle.
type cannedVar struct {
	name   string
	lo, hi int64
}

type linearConstraint struct {
	terms []Term
	kind  string // "leq", "eq", "geq"
	rhs   int64
}

type maxConstraint struct {
	target Var
	vars   []Var
}

// BruteForceBackend is a canned/testing implementation of Backend: an
// exhaustive search over small variable domains, small enough for unit and
// end-to-end tests to run without a native OR-Tools install.
type BruteForceBackend struct {
	vars        []*cannedVar
	constraints []linearConstraint
	maxConstrs  []maxConstraint
	objective   []Term

	values map[*cannedVar]int64
	objVal float64
	log    strings.Builder

	// SearchCap bounds the exhaustive search space; exceeding it yields
	// StatusTimeout with the best incumbent found so far, mirroring a real
	// backend's own wall-clock behaviour. Defaults to 2,000,000 if zero.
	SearchCap int
}

// NewBruteForceBackend creates an empty canned backend.
func NewBruteForceBackend() *BruteForceBackend {
	return &BruteForceBackend{values: make(map[*cannedVar]int64)}
}

func (b *BruteForceBackend) NewBool(name string) Var {
	v := &cannedVar{name: name, lo: 0, hi: 1}
	b.vars = append(b.vars, v)
	return v
}

func (b *BruteForceBackend) NewIntVar(lo, hi int64, name string) Var {
	v := &cannedVar{name: name, lo: lo, hi: hi}
	b.vars = append(b.vars, v)
	return v
}

func (b *BruteForceBackend) AddLinearLEQ(terms []Term, rhs int64) {
	b.constraints = append(b.constraints, linearConstraint{terms, "leq", rhs})
}

func (b *BruteForceBackend) AddLinearEQ(terms []Term, rhs int64) {
	b.constraints = append(b.constraints, linearConstraint{terms, "eq", rhs})
}

func (b *BruteForceBackend) AddLinearGEQ(terms []Term, rhs int64) {
	b.constraints = append(b.constraints, linearConstraint{terms, "geq", rhs})
}

func (b *BruteForceBackend) AddMaxEquality(target Var, vars []Var) {
	b.maxConstrs = append(b.maxConstrs, maxConstraint{target, vars})
}

func (b *BruteForceBackend) Minimize(terms []Term) {
	b.objective = terms
}

func evalTerms(terms []Term, assignment map[*cannedVar]int64) int64 {
	var sum int64
	for _, t := range terms {
		sum += t.Coeff * assignment[t.Var.(*cannedVar)]
	}
	return sum
}

func (b *BruteForceBackend) satisfied(assignment map[*cannedVar]int64) bool {
	for _, c := range b.constraints {
		lhs := evalTerms(c.terms, assignment)
		switch c.kind {
		case "leq":
			if lhs > c.rhs {
				return false
			}
		case "eq":
			if lhs != c.rhs {
				return false
			}
		case "geq":
			if lhs < c.rhs {
				return false
			}
		}
	}
	for _, m := range b.maxConstrs {
		max := assignment[m.vars[0].(*cannedVar)]
		for _, v := range m.vars[1:] {
			if x := assignment[v.(*cannedVar)]; x > max {
				max = x
			}
		}
		if assignment[m.target.(*cannedVar)] != max {
			return false
		}
	}
	return true
}

// Solve exhaustively searches the variable domains in declaration order,
// tracking the minimum-objective feasible assignment.
func (b *BruteForceBackend) Solve(_ float64, _ int64, _ int) (Status, error) {
	cap := b.SearchCap
	if cap == 0 {
		cap = 2_000_000
	}

	assignment := make(map[*cannedVar]int64, len(b.vars))
	var best map[*cannedVar]int64
	bestObj := int64(0)
	explored := 0
	capped := false

	var rec func(i int) bool // returns false to stop early (cap exceeded)
	rec = func(i int) bool {
		if capped {
			return false
		}
		if i == len(b.vars) {
			explored++
			if explored > cap {
				capped = true
				return false
			}
			if !b.satisfied(assignment) {
				return true
			}
			obj := evalTerms(b.objective, assignment)
			if best == nil || obj < bestObj {
				best = make(map[*cannedVar]int64, len(assignment))
				for k, v := range assignment {
					best[k] = v
				}
				bestObj = obj
			}
			return true
		}
		v := b.vars[i]
		for x := v.lo; x <= v.hi; x++ {
			assignment[v] = x
			if !rec(i + 1) {
				return false
			}
		}
		return true
	}
	rec(0)

	b.log.WriteString("brute-force search complete\n")

	if best == nil {
		if capped {
			return StatusTimeout, nil
		}
		return StatusInfeasible, nil
	}
	b.values = best
	b.objVal = float64(bestObj)
	if capped {
		return StatusTimeout, nil
	}
	return StatusOptimal, nil
}

func (b *BruteForceBackend) Value(v Var) int64 {
	return b.values[v.(*cannedVar)]
}

func (b *BruteForceBackend) ObjectiveValue() float64 {
	return b.objVal
}

func (b *BruteForceBackend) Log() string {
	return b.log.String()
}
