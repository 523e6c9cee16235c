// Package availability computes, per (date, slot), how many people could
// possibly cover that slot — a diagnostic step that never constrains the
// model itself. Grounded on
// _examples/original_source/solver/solver.py's compute_slot_availability
// and estimate_slot_max_possible.
package availability

import (
	"github.com/paiban/roster/pkg/model"
)

// Result is the availability analysis for one horizon.
type Result struct {
	Available map[int]map[model.Slot]int
	Warnings  []model.AvailabilityWarning
	Flag      bool
}

// Analyse computes availability and flags (date, slot) pairs where
// available headcount is below need.
func Analyse(input *model.Input, need map[int]map[model.Slot]int) *Result {
	res := &Result{Available: make(map[int]map[model.Slot]int, input.Days)}

	for d := 1; d <= input.Days; d++ {
		perSlot := make(map[model.Slot]int, len(model.Slots))
		weekday := model.Weekday((int(input.WeekdayOfDay1) + d - 1) % 7)

		for _, slot := range model.Slots {
			count := 0
			for _, p := range input.People {
				if isFixedOff(p, weekday) || isUnavailable(p, d) {
					continue
				}
				if personCoversSlot(p, slot) {
					count++
				}
			}
			perSlot[slot] = count

			n := need[d][slot]
			if n > 0 && count < n {
				res.Warnings = append(res.Warnings, model.AvailabilityWarning{
					Date: d, Slot: slot, Need: n, Available: count,
				})
				res.Flag = true
			}
		}
		res.Available[d] = perSlot
	}
	return res
}

func personCoversSlot(p model.Person, slot model.Slot) bool {
	for _, code := range p.CanWork {
		if model.ShiftContributesToSlot(code, slot) {
			return true
		}
	}
	return false
}

func isFixedOff(p model.Person, weekday model.Weekday) bool {
	for _, w := range p.FixedOffWeekdays {
		if w == weekday {
			return true
		}
	}
	return false
}

func isUnavailable(p model.Person, day int) bool {
	for _, d := range p.UnavailableDates {
		if d == day {
			return true
		}
	}
	return false
}

// AllZero reports whether availability is zero on every (date, slot) pair
// that has positive demand, the condition that short-circuits a solve
// attempt before it ever reaches the backend. A horizon with no positive
// demand at all (e.g. days=0) is not a no-availability situation, so it
// reports false rather than vacuously true.
func (r *Result) AllZero(need map[int]map[model.Slot]int) bool {
	sawDemand := false
	for d, slots := range need {
		for slot, n := range slots {
			if n <= 0 {
				continue
			}
			sawDemand = true
			if r.Available[d][slot] > 0 {
				return false
			}
		}
	}
	return sawDemand
}

// EstimateMaxPossible re-runs the same availability computation restricted
// to a single (date, slot) pair, used by the renderer's infeasibility
// diagnostics without re-running the full analysis.
func EstimateMaxPossible(input *model.Input, day int, slot model.Slot) int {
	weekday := model.Weekday((int(input.WeekdayOfDay1) + day - 1) % 7)
	count := 0
	for _, p := range input.People {
		if isFixedOff(p, weekday) || isUnavailable(p, day) {
			continue
		}
		if personCoversSlot(p, slot) {
			count++
		}
	}
	return count
}
