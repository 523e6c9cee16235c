// Package render assembles the JSON-facing model.Output document from a
// completed solve: assignments, the peopleOrder-keyed shift matrix,
// per-run totals, and diagnostics. Grounded on
// _examples/original_source/solver/solver.py's matrix/summary/diagnostics
// assembly at the tail of solve().
package render

import (
	"encoding/json"
	"fmt"

	"github.com/paiban/roster/pkg/availability"
	"github.com/paiban/roster/pkg/demand"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/backend"
	"github.com/paiban/roster/pkg/scheduler/solver"
	"github.com/paiban/roster/pkg/stats"
)

// Build assembles the full output document from a completed solve attempt.
func Build(be backend.Backend, res *solver.Result, input *model.Input, ex *demand.Expanded, avail *availability.Result) *model.Output {
	out := &model.Output{PeopleOrder: peopleOrder(input)}

	switch res.Status {
	case backend.StatusOptimal, backend.StatusFeasible:
		buildAssignmentsAndMatrix(out, be, res, input)
		buildSummary(out, be, res, input, ex)
		buildDiagnostics(out, avail, res, input, ex, false)
	case backend.StatusInfeasible, backend.StatusTimeout:
		out.Infeasible = true
		out.Reason = string(res.Status)
		buildDiagnostics(out, avail, res, input, ex, true)
	}

	out.Diagnostics.LogOutput = res.Log
	return out
}

func peopleOrder(input *model.Input) []string {
	ids := make([]string, len(input.People))
	for i, p := range input.People {
		ids[i] = p.ID
	}
	return ids
}

func buildAssignmentsAndMatrix(out *model.Output, be backend.Backend, res *solver.Result, input *model.Input) {
	rows := make([]model.MatrixRow, input.Days)
	for d := 0; d < input.Days; d++ {
		shifts := make(map[string]string, len(input.People))
		for _, p := range input.People {
			shifts[p.ID] = ""
		}
		rows[d] = model.MatrixRow{Date: d + 1, Shifts: shifts}
	}

	m := res.Model
	for pi, p := range input.People {
		for d := 1; d <= input.Days; d++ {
			for _, s := range p.CanWork {
				v, ok := m.AssignmentVar(pi, d, s)
				if !ok || be.Value(v) != 1 {
					continue
				}
				out.Assignments = append(out.Assignments, model.Assignment{Date: d, StaffID: p.ID, Shift: s})
				rows[d-1].Shifts[p.ID] = string(s)
			}
		}
	}
	out.Matrix = rows
}

func buildSummary(out *model.Output, be backend.Backend, res *solver.Result, input *model.Input, ex *demand.Expanded) {
	m := res.Model
	var assigned, shortage, excess, wishOff int
	assigned = len(out.Assignments)
	for _, v := range m.Shortage {
		shortage += int(be.Value(v))
	}
	for _, v := range m.Over {
		excess += int(be.Value(v))
	}
	for _, v := range m.ViolateOff {
		wishOff += int(be.Value(v))
	}

	out.Summary = model.Summary{
		Totals: model.Totals{
			Assigned:            assigned,
			Shortage:            shortage,
			Excess:              excess,
			WishOffViolations:   wishOff,
			ViolatedPreferences: wishOff,
		},
		Diagnostics: model.DemandDiagnostics{
			Days:          input.Days,
			WeekdayOfDay1: input.WeekdayOfDay1,
			DayTypeSample: ex.DayTypeSample,
			PerDayTotals:  ex.PerDayTotals,
			TotalNeed:     ex.TotalNeed,
			Warnings:      ex.Warnings,
		},
		Fairness: fairnessJSON(out.Assignments, out.PeopleOrder, input.WeekdayOfDay1),
	}
}

// fairnessJSON computes workload-fairness metrics over the solved
// assignments and marshals them for embedding in the summary; a marshal
// failure here would mean stats.FairnessMetrics itself is unmarshalable,
// which never happens for a struct of plain numeric/string fields.
func fairnessJSON(assignments []model.Assignment, peopleOrder []string, weekdayOfDay1 model.Weekday) json.RawMessage {
	metrics := stats.NewFairnessAnalyzer().Analyze(assignments, peopleOrder, weekdayOfDay1)
	raw, err := json.Marshal(metrics)
	if err != nil {
		return nil
	}
	return raw
}

func buildDiagnostics(out *model.Output, avail *availability.Result, res *solver.Result, input *model.Input, ex *demand.Expanded, infeasible bool) {
	d := model.Diagnostics{
		Availability:         avail.Available,
		AvailabilityWarnings: avail.Warnings,
		Warnings:             ex.Warnings,
		Flags: model.Flags{
			AvailabilityWarning: avail.Flag,
		},
	}
	if res.Model != nil {
		d.VarCounts = res.Model.VarCounts
	}
	d.Flags.InconsistentSummary = out.Summary.Totals.Assigned < ex.TotalNeed &&
		out.Summary.Totals.Shortage == 0 && ex.TotalNeed > 0

	if infeasible {
		d.SlotAvailability = avail.Available
		d.WeeklyConflicts = weeklyConflicts(input)
		d.MonthlyConflicts = monthlyConflicts(input)
		d.WishOffConflicts = wishOffConflicts(input, ex)
		d.WishOffConflictCount = len(d.WishOffConflicts)
	}

	out.Diagnostics = d
}

// weeklyConflicts flags any person whose weeklyMin cannot possibly be met
// in a clipped (partial) week, since at most one shift can be worked a day.
func weeklyConflicts(input *model.Input) []string {
	var conflicts []string
	weeks := demand.SplitWeeks(input.Days, input.WeekdayOfDay1)
	for _, p := range input.People {
		if p.WeeklyMin <= 0 {
			continue
		}
		for i, week := range weeks {
			if p.WeeklyMin > len(week) {
				conflicts = append(conflicts, fmt.Sprintf(
					"staff %s: weeklyMin %d exceeds the %d days available in week %d", p.ID, p.WeeklyMin, len(week), i))
			}
		}
	}
	return conflicts
}

// monthlyConflicts flags any person whose monthlyMin exceeds the number of
// days in the horizon.
func monthlyConflicts(input *model.Input) []string {
	var conflicts []string
	for _, p := range input.People {
		if p.MonthlyMin > 0 && p.MonthlyMin > input.Days {
			conflicts = append(conflicts, fmt.Sprintf(
				"staff %s: monthlyMin %d exceeds the %d-day horizon", p.ID, p.MonthlyMin, input.Days))
		}
	}
	return conflicts
}

// wishOffConflicts flags a person's requested-off date as a likely conflict
// when the slots they cover are already fully needed elsewhere, i.e.
// removing them would leave demand unmet regardless of anyone's wishes.
func wishOffConflicts(input *model.Input, ex *demand.Expanded) []model.WishOffConflict {
	var conflicts []model.WishOffConflict
	for _, p := range input.People {
		for _, date := range p.RequestedOffDates {
			for _, s := range p.CanWork {
				for _, slot := range model.Slots {
					if !model.ShiftContributesToSlot(s, slot) {
						continue
					}
					need := ex.Need[date][slot]
					if need <= 0 {
						continue
					}
					if availability.EstimateMaxPossible(input, date, slot) <= need {
						conflicts = append(conflicts, model.WishOffConflict{
							StaffID: p.ID,
							Date:    date,
							Reason:  fmt.Sprintf("slot %s on date %d has no available headcount margin", slot, date),
						})
					}
				}
			}
		}
	}
	return conflicts
}
