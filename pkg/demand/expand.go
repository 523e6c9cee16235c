// Package demand expands the day-type template into a concrete per-date,
// per-slot demand table, grounded on
// _examples/original_source/solver/solver.py's prepare_demand and
// split_weeks.
package demand

import (
	"fmt"

	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// Expanded is the materialised demand for one horizon.
type Expanded struct {
	Need          map[int]map[model.Slot]int
	PerDayTotals  []model.PerDayTotal
	TotalNeed     int
	DayTypeSample []string
	Warnings      []string
}

// Expand computes per-date slot demand from input.DayTypeByDate and
// input.NeedTemplate, applying strictNight overrides and the previous
// month's night carry.
func Expand(input *model.Input) (*Expanded, error) {
	ex := &Expanded{
		Need:         make(map[int]map[model.Slot]int, input.Days),
		PerDayTotals: make([]model.PerDayTotal, 0, input.Days),
	}

	for d := 1; d <= input.Days; d++ {
		dayType := ""
		if d-1 < len(input.DayTypeByDate) {
			dayType = input.DayTypeByDate[d-1]
		}
		row, ok := input.NeedTemplate[dayType]
		if !ok {
			return nil, apperrors.InconsistentDays(
				fmt.Sprintf("date %d has day type %q with no needTemplate entry", d, dayType))
		}

		slots := make(map[model.Slot]int, len(model.Slots))
		for _, s := range model.Slots {
			slots[s] = row[s]
		}

		carryApplied := false
		if input.StrictNight != nil {
			before2123, before0007, before1821 := slots[model.Slot2123], slots[model.Slot0007], slots[model.Slot1821]

			slots[model.Slot2123] = input.StrictNight.Slot2123
			slots[model.Slot0007] = input.StrictNight.Slot0007
			if v := slots[model.Slot1821]; v < input.StrictNight.Min1821 {
				slots[model.Slot1821] = input.StrictNight.Min1821
			} else if v > input.StrictNight.Max1821 && input.StrictNight.Max1821 > 0 {
				slots[model.Slot1821] = input.StrictNight.Max1821
			}

			carryApplied = slots[model.Slot2123] != before2123 ||
				slots[model.Slot0007] != before0007 ||
				slots[model.Slot1821] != before1821
		}

		if d == 1 && slots[model.Slot0007] > 0 {
			covering := 0
			for _, staff := range input.PreviousMonthNightCarry {
				covering += len(staff)
			}
			if covering > 0 {
				reduced := slots[model.Slot0007] - covering
				if reduced < 0 {
					reduced = 0
				}
				slots[model.Slot0007] = reduced
				carryApplied = true
			}
		}

		total := 0
		for _, v := range slots {
			total += v
		}

		ex.Need[d] = slots
		ex.PerDayTotals = append(ex.PerDayTotals, model.PerDayTotal{
			Date: d, Total: total, Slots: slots, CarryApplied: carryApplied,
		})
		ex.TotalNeed += total
		if len(ex.DayTypeSample) < 5 {
			ex.DayTypeSample = append(ex.DayTypeSample, dayType)
		}
	}

	if ex.TotalNeed == 0 {
		ex.Warnings = append(ex.Warnings, "total demand across the horizon is zero (total_need_zero)")
	}

	weeks := SplitWeeks(input.Days, input.WeekdayOfDay1)
	for _, i := range PartialWeeks(weeks, input.WeekdayOfDay1) {
		w := weeks[i]
		ex.Warnings = append(ex.Warnings, fmt.Sprintf(
			"week %d (dates %d-%d) is partial; weekly caps apply unprorated to its %d dates", i+1, w[0], w[len(w)-1], len(w)))
	}

	return ex, nil
}

// SplitWeeks partitions [1..days] into contiguous week chunks whose
// boundaries fall on Saturday-to-Sunday transitions, given the weekday of
// date 1 (0 = Sunday). Grounded on the original's split_weeks.
func SplitWeeks(days int, weekdayOfDay1 model.Weekday) [][]int {
	var weeks [][]int
	if days <= 0 {
		return weeks
	}
	var cur []int
	wd := int(weekdayOfDay1) % 7
	for d := 1; d <= days; d++ {
		cur = append(cur, d)
		if wd == 6 || d == days {
			weeks = append(weeks, cur)
			cur = nil
		}
		wd = (wd + 1) % 7
	}
	return weeks
}

// PartialWeeks reports which of the returned weeks (by index) are clipped at
// either edge of the horizon, i.e. do not span all 7 weekdays.
func PartialWeeks(weeks [][]int, weekdayOfDay1 model.Weekday) []int {
	var partial []int
	for i, w := range weeks {
		if len(w) < 7 {
			partial = append(partial, i)
		}
	}
	return partial
}
