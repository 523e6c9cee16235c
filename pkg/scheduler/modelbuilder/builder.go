// Package modelbuilder creates the CP-SAT decision variables, the hard
// scheduling constraints, and the weighted objective, against the
// abstract backend.Backend capability interface. Constraints are emitted
// as a fixed ordered list of install functions, once per build, rather
// than a runtime-registered catalogue.
package modelbuilder

import (
	"strconv"

	"github.com/paiban/roster/pkg/demand"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/backend"
)

type xKey struct {
	p int
	d int
	s model.ShiftCode
}

type dsKey struct {
	d    int
	slot model.Slot
}

type pdKey struct {
	p int
	d int
}

// Model holds every decision variable created for one solve, indexed the
// way the renderer needs to read them back out.
type Model struct {
	Input *model.Input
	Need  map[int]map[model.Slot]int

	X          map[xKey]backend.Var
	Shortage   map[dsKey]backend.Var
	Over       map[dsKey]backend.Var
	ViolateOff map[pdKey]backend.Var

	VarCounts model.VarCounts
}

// AssignmentVar returns the x[p,d,s] variable, if one was created for that
// person index, date, and shift code (eligibility rules may have excluded
// it entirely).
func (m *Model) AssignmentVar(personIndex, date int, code model.ShiftCode) (backend.Var, bool) {
	v, ok := m.X[xKey{personIndex, date, code}]
	return v, ok
}

// Build constructs every hard constraint and the objective on be, and
// returns a Model the solver driver can Solve and the renderer can read
// back from.
func Build(be backend.Backend, input *model.Input, need map[int]map[model.Slot]int) *Model {
	m := &Model{
		Input:      input,
		Need:       need,
		X:          make(map[xKey]backend.Var),
		Shortage:   make(map[dsKey]backend.Var),
		Over:       make(map[dsKey]backend.Var),
		ViolateOff: make(map[pdKey]backend.Var),
	}

	m.createAssignmentVars(be, input)
	m.constrainAtMostOnePerDay(be, input)
	m.constrainCoverage(be, input, need)
	m.constrainStrictNight(be, input)
	m.constrainWeeklyCaps(be, input)
	m.constrainMonthlyCaps(be, input)
	m.constrainConsecutiveDays(be, input)
	m.constrainPostNightRest(be, input)
	m.constrainNoEarlyAfterDayAB(be, input)
	m.constrainRequestedOff(be, input)
	m.setObjective(be, input)

	return m
}

// createAssignmentVars implements constraints 1 and 2: x[p,d,s] is created
// only for s in canWork[p], and only on dates the person is not fixed off
// or unavailable, so eligibility is enforced by construction rather than by
// an explicit zeroing constraint.
func (m *Model) createAssignmentVars(be backend.Backend, input *model.Input) {
	for pi, p := range input.People {
		unavailable := toSet(p.UnavailableDates)
		fixedOff := toWeekdaySet(p.FixedOffWeekdays)
		for d := 1; d <= input.Days; d++ {
			if unavailable[d] {
				continue
			}
			weekday := model.Weekday((int(input.WeekdayOfDay1) + d - 1) % 7)
			if fixedOff[weekday] {
				continue
			}
			for _, s := range p.CanWork {
				v := be.NewBool(varName("x", pi, d, string(s)))
				m.X[xKey{pi, d, s}] = v
				m.VarCounts.X++
			}
		}
	}
}

// constrainAtMostOnePerDay implements constraint 1's Σ_s x[p,d,s] ≤ 1.
func (m *Model) constrainAtMostOnePerDay(be backend.Backend, input *model.Input) {
	for pi, p := range input.People {
		for d := 1; d <= input.Days; d++ {
			var terms []backend.Term
			for _, s := range p.CanWork {
				if v, ok := m.X[xKey{pi, d, s}]; ok {
					terms = append(terms, backend.Term{Var: v, Coeff: 1})
				}
			}
			if len(terms) > 1 {
				be.AddLinearLEQ(terms, 1)
			}
		}
	}
}

// constrainCoverage implements constraints 3 and 4: the soft demand
// coverage and overstaffing cap, via shortage/over slack variables.
func (m *Model) constrainCoverage(be backend.Backend, input *model.Input, need map[int]map[model.Slot]int) {
	for d := 1; d <= input.Days; d++ {
		for _, slot := range model.Slots {
			n := int64(need[d][slot])

			var terms []backend.Term
			for pi, p := range input.People {
				for _, s := range p.CanWork {
					if !model.ShiftContributesToSlot(s, slot) {
						continue
					}
					if v, ok := m.X[xKey{pi, d, s}]; ok {
						terms = append(terms, backend.Term{Var: v, Coeff: 1})
					}
				}
			}

			shortage := be.NewIntVar(0, n, varName("shortage", 0, d, string(slot)))
			m.Shortage[dsKey{d, slot}] = shortage
			m.VarCounts.Shortage++

			coverageTerms := append(append([]backend.Term{}, terms...), backend.Term{Var: shortage, Coeff: 1})
			be.AddLinearGEQ(coverageTerms, n)

			over := be.NewIntVar(0, int64(len(input.People)), varName("over", 0, d, string(slot)))
			m.Over[dsKey{d, slot}] = over
			m.VarCounts.Over++

			overTerms := append(append([]backend.Term{}, terms...), backend.Term{Var: over, Coeff: -1})
			be.AddLinearLEQ(overTerms, n+1)
		}
	}
}

// constrainStrictNight implements constraint 5.
func (m *Model) constrainStrictNight(be backend.Backend, input *model.Input) {
	if input.StrictNight == nil {
		return
	}
	sn := input.StrictNight
	for d := 1; d <= input.Days; d++ {
		be.AddLinearEQ(m.coverageTerms(input, d, model.Slot2123), int64(sn.Slot2123))
		be.AddLinearEQ(m.coverageTerms(input, d, model.Slot0007), int64(sn.Slot0007))
		terms := m.coverageTerms(input, d, model.Slot1821)
		if sn.Min1821 > 0 {
			be.AddLinearGEQ(terms, int64(sn.Min1821))
		}
		if sn.Max1821 > 0 {
			be.AddLinearLEQ(terms, int64(sn.Max1821))
		}
	}
}

func (m *Model) coverageTerms(input *model.Input, d int, slot model.Slot) []backend.Term {
	var terms []backend.Term
	for pi, p := range input.People {
		for _, s := range p.CanWork {
			if !model.ShiftContributesToSlot(s, slot) {
				continue
			}
			if v, ok := m.X[xKey{pi, d, s}]; ok {
				terms = append(terms, backend.Term{Var: v, Coeff: 1})
			}
		}
	}
	return terms
}

// constrainWeeklyCaps implements constraint 6.
func (m *Model) constrainWeeklyCaps(be backend.Backend, input *model.Input) {
	weeks := demand.SplitWeeks(input.Days, input.WeekdayOfDay1)
	for pi, p := range input.People {
		for _, week := range weeks {
			var terms []backend.Term
			for _, d := range week {
				for _, s := range p.CanWork {
					if v, ok := m.X[xKey{pi, d, s}]; ok {
						terms = append(terms, backend.Term{Var: v, Coeff: 1})
					}
				}
			}
			if len(terms) == 0 {
				continue
			}
			if p.WeeklyMax > 0 {
				be.AddLinearLEQ(terms, int64(p.WeeklyMax))
			}
			if p.WeeklyMin > 0 {
				be.AddLinearGEQ(terms, int64(p.WeeklyMin))
			}
		}
	}
}

// constrainMonthlyCaps implements constraint 7.
func (m *Model) constrainMonthlyCaps(be backend.Backend, input *model.Input) {
	for pi, p := range input.People {
		var terms []backend.Term
		for d := 1; d <= input.Days; d++ {
			for _, s := range p.CanWork {
				if v, ok := m.X[xKey{pi, d, s}]; ok {
					terms = append(terms, backend.Term{Var: v, Coeff: 1})
				}
			}
		}
		if len(terms) == 0 {
			continue
		}
		if p.MonthlyMax > 0 {
			be.AddLinearLEQ(terms, int64(p.MonthlyMax))
		}
		if p.MonthlyMin > 0 {
			be.AddLinearGEQ(terms, int64(p.MonthlyMin))
		}
	}
}

// constrainConsecutiveDays implements constraint 8. A non-positive
// ConsecMax adds no cap, like the weekly and monthly limits.
func (m *Model) constrainConsecutiveDays(be backend.Backend, input *model.Input) {
	for pi, p := range input.People {
		if p.ConsecMax <= 0 {
			continue
		}
		windowLen := p.ConsecMax + 1
		for start := 1; start+windowLen-1 <= input.Days; start++ {
			var terms []backend.Term
			for d := start; d < start+windowLen; d++ {
				for _, s := range p.CanWork {
					if v, ok := m.X[xKey{pi, d, s}]; ok {
						terms = append(terms, backend.Term{Var: v, Coeff: 1})
					}
				}
			}
			if len(terms) > 0 {
				be.AddLinearLEQ(terms, int64(p.ConsecMax))
			}
		}
	}
}

// constrainPostNightRest implements constraint 9, including the previous
// month's night carry acting as phantom assignments before date 1.
func (m *Model) constrainPostNightRest(be backend.Backend, input *model.Input) {
	nightCodes := []model.ShiftCode{model.ShiftNA, model.ShiftNB, model.ShiftNC}

	for pi, p := range input.People {
		for _, n := range nightCodes {
			rest := input.Rules.NightRest[n]
			if rest <= 0 {
				continue
			}
			for d := 1; d <= input.Days; d++ {
				nv, ok := m.X[xKey{pi, d, n}]
				if !ok {
					continue
				}
				for k := 1; k <= rest; k++ {
					dk := d + k
					if dk > input.Days {
						break
					}
					var terms []backend.Term
					for _, s := range p.CanWork {
						if v, ok := m.X[xKey{pi, dk, s}]; ok {
							terms = append(terms, backend.Term{Var: v, Coeff: 1})
						}
					}
					if len(terms) == 0 {
						continue
					}
					be.AddLinearLEQ(append([]backend.Term{{Var: nv, Coeff: 1}}, terms...), 1)
				}
			}
		}
	}

	for code, staffIDs := range input.PreviousMonthNightCarry {
		rest := input.Rules.NightRest[code]
		if rest <= 0 {
			continue
		}
		for _, staffID := range staffIDs {
			pi := personIndex(input, staffID)
			if pi < 0 {
				continue
			}
			p := input.People[pi]
			for k := 1; k <= rest && k <= input.Days; k++ {
				var terms []backend.Term
				for _, s := range p.CanWork {
					if v, ok := m.X[xKey{pi, k, s}]; ok {
						terms = append(terms, backend.Term{Var: v, Coeff: 1})
					}
				}
				if len(terms) > 0 {
					be.AddLinearLEQ(terms, 0)
				}
			}
		}
	}
}

// constrainNoEarlyAfterDayAB implements constraint 10.
func (m *Model) constrainNoEarlyAfterDayAB(be backend.Backend, input *model.Input) {
	if !input.Rules.NoEarlyAfterDayAB {
		return
	}
	for pi := range input.People {
		for d := 1; d < input.Days; d++ {
			var terms []backend.Term
			if v, ok := m.X[xKey{pi, d, model.ShiftDA}]; ok {
				terms = append(terms, backend.Term{Var: v, Coeff: 1})
			}
			if v, ok := m.X[xKey{pi, d, model.ShiftDB}]; ok {
				terms = append(terms, backend.Term{Var: v, Coeff: 1})
			}
			if v, ok := m.X[xKey{pi, d + 1, model.ShiftEA}]; ok {
				terms = append(terms, backend.Term{Var: v, Coeff: 1})
			}
			if len(terms) > 1 {
				be.AddLinearLEQ(terms, 1)
			}
		}
	}
}

// constrainRequestedOff implements constraint 11.
func (m *Model) constrainRequestedOff(be backend.Backend, input *model.Input) {
	for pi, p := range input.People {
		for _, d := range p.RequestedOffDates {
			var terms []backend.Term
			for _, s := range p.CanWork {
				if v, ok := m.X[xKey{pi, d, s}]; ok {
					terms = append(terms, backend.Term{Var: v, Coeff: 1})
				}
			}
			if len(terms) == 0 {
				continue
			}
			violate := be.NewBool(varName("violateOff", pi, d, ""))
			m.ViolateOff[pdKey{pi, d}] = violate
			m.VarCounts.ViolateOff++
			eqTerms := append(append([]backend.Term{}, terms...), backend.Term{Var: violate, Coeff: -1})
			be.AddLinearEQ(eqTerms, 0)
		}
	}
}

// setObjective builds the weighted objective: shortage, overstaffing, and
// requested-off violations, plus the reserved workload-balance term when
// a positive weight is configured for it.
func (m *Model) setObjective(be backend.Backend, input *model.Input) {
	var terms []backend.Term
	for _, v := range m.Shortage {
		terms = append(terms, backend.Term{Var: v, Coeff: int64(input.Weights.Shortage)})
	}
	for _, v := range m.Over {
		terms = append(terms, backend.Term{Var: v, Coeff: int64(input.Weights.OverstaffGtNeedPlus1)})
	}
	for pi, p := range input.People {
		w := input.Weights.RequestedOffViolation
		if p.RequestedOffWeight > 0 {
			w = p.RequestedOffWeight
		}
		for _, d := range p.RequestedOffDates {
			if v, ok := m.ViolateOff[pdKey{pi, d}]; ok {
				terms = append(terms, backend.Term{Var: v, Coeff: int64(w)})
			}
		}
	}

	if input.Weights.BalanceWorkload > 0 {
		terms = append(terms, m.balanceWorkloadTerms(be, input)...)
	}

	be.Minimize(terms)
}

// balanceWorkloadTerms adds workload[p] (total assigned shifts) per person,
// a max-equality variable over them, and returns a linear term penalising
// that max as a cheap proxy for balancing workload across staff; a true
// Gini-based term is nonlinear and out of CP-SAT's native linear-objective
// form, so pkg/stats.FairnessAnalyzer is used for reporting only.
func (m *Model) balanceWorkloadTerms(be backend.Backend, input *model.Input) []backend.Term {
	if len(input.People) == 0 {
		return nil
	}
	workloads := make([]backend.Var, 0, len(input.People))
	for pi, p := range input.People {
		var terms []backend.Term
		for d := 1; d <= input.Days; d++ {
			for _, s := range p.CanWork {
				if v, ok := m.X[xKey{pi, d, s}]; ok {
					terms = append(terms, backend.Term{Var: v, Coeff: 1})
				}
			}
		}
		wl := be.NewIntVar(0, int64(input.Days), varName("workload", pi, 0, ""))
		if len(terms) > 0 {
			eqTerms := append(append([]backend.Term{}, terms...), backend.Term{Var: wl, Coeff: -1})
			be.AddLinearEQ(eqTerms, 0)
		}
		workloads = append(workloads, wl)
	}
	maxWorkload := be.NewIntVar(0, int64(input.Days), "workload_max")
	be.AddMaxEquality(maxWorkload, workloads)
	return []backend.Term{{Var: maxWorkload, Coeff: int64(input.Weights.BalanceWorkload)}}
}

func toSet(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func toWeekdaySet(weekdays []model.Weekday) map[model.Weekday]bool {
	set := make(map[model.Weekday]bool, len(weekdays))
	for _, w := range weekdays {
		set[w] = true
	}
	return set
}

func personIndex(input *model.Input, staffID string) int {
	for i, p := range input.People {
		if p.ID == staffID {
			return i
		}
	}
	return -1
}

func varName(prefix string, p int, d int, s string) string {
	return prefix + "_" + strconv.Itoa(p) + "_" + strconv.Itoa(d) + "_" + s
}
