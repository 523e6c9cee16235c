package model

import "encoding/json"

// ShiftDef is one entry of the optional `shifts` array in the input
// document: a caller-supplied cross-check of the fixed catalogue's hours.
type ShiftDef struct {
	Code  ShiftCode `json:"code"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

// Person is one staff member eligible for assignment.
type Person struct {
	ID                string      `json:"id"`
	CanWork           []ShiftCode `json:"canWork"`
	FixedOffWeekdays  []Weekday   `json:"fixedOffWeekdays,omitempty"`
	WeeklyMin         int         `json:"weeklyMin,omitempty"`
	WeeklyMax         int         `json:"weeklyMax,omitempty"`
	MonthlyMin        int         `json:"monthlyMin,omitempty"`
	MonthlyMax        int         `json:"monthlyMax,omitempty"`
	ConsecMax         int         `json:"consecMax,omitempty"`
	UnavailableDates  []int       `json:"unavailableDates,omitempty"`
	RequestedOffDates []int       `json:"requestedOffDates,omitempty"`
	RequestedOffWeight int        `json:"requestedOffWeight,omitempty"`
}

// Weekday is a normalised 0-6 weekday index, 0 = Sunday, following the
// original's Japanese/English alias resolution.
type Weekday int

// StrictNight is an optional override replacing the day-type template's
// values for the evening/night slots on a given date.
type StrictNight struct {
	Slot2123 int `json:"21-23"`
	Slot0007 int `json:"0-7"`
	Min1821  int `json:"18-21_min"`
	Max1821  int `json:"18-21_max"`
}

// Rules holds the boolean/integer scheduling rules.
type Rules struct {
	NoEarlyAfterDayAB bool             `json:"noEarlyAfterDayAB"`
	NightRest         map[ShiftCode]int `json:"nightRest,omitempty"`
}

// DefaultRules returns the documented rule defaults.
func DefaultRules() Rules {
	return Rules{
		NoEarlyAfterDayAB: false,
		NightRest:         map[ShiftCode]int{ShiftNA: 2, ShiftNB: 1, ShiftNC: 1},
	}
}

// Weights holds the non-negative objective-term weights.
type Weights struct {
	Shortage              int `json:"W_shortage"`
	OverstaffGtNeedPlus1  int `json:"W_overstaff_gt_need_plus1"`
	RequestedOffViolation int `json:"W_requested_off_violation"`
	BalanceWorkload       int `json:"W_balance_workload,omitempty"`
}

// DefaultWeights returns the documented weight defaults.
func DefaultWeights() Weights {
	return Weights{Shortage: 1000, OverstaffGtNeedPlus1: 5, RequestedOffViolation: 20}
}

// NeedTemplateRow is one day-type's per-slot demand row.
type NeedTemplateRow map[Slot]int

// Input is the normalised, validated input record the rest of the pipeline
// operates on, after pkg/validate has resolved aliases and defaults.
type Input struct {
	Year                     int
	Month                    int
	Days                     int
	WeekdayOfDay1            Weekday
	PreviousMonthNightCarry  map[ShiftCode][]string
	Shifts                   []ShiftDef
	NeedTemplate             map[string]NeedTemplateRow
	DayTypeByDate            []string
	StrictNight              *StrictNight
	People                   []Person
	Rules                    Rules
	Weights                  Weights
}

// Assignment is one (date, person, shift) decision the solver made.
type Assignment struct {
	Date    int       `json:"date"`
	StaffID string    `json:"staffId"`
	Shift   ShiftCode `json:"shift"`
}

// MatrixRow is one date's row of the peopleOrder-keyed shift matrix.
type MatrixRow struct {
	Date   int               `json:"date"`
	Shifts map[string]string `json:"shifts"`
}

// PerDayTotal is one date's demand breakdown for diagnostics.demand.
type PerDayTotal struct {
	Date         int            `json:"date"`
	Total        int            `json:"total"`
	Slots        map[Slot]int   `json:"slots"`
	CarryApplied bool           `json:"carryApplied"`
}

// DemandDiagnostics is summary.diagnostics.demand.
type DemandDiagnostics struct {
	Days          int           `json:"days"`
	WeekdayOfDay1 Weekday       `json:"weekdayOfDay1"`
	DayTypeSample []string      `json:"dayTypeSample"`
	PerDayTotals  []PerDayTotal `json:"perDayTotals"`
	TotalNeed     int           `json:"totalNeed"`
	Warnings      []string      `json:"warnings"`
}

// Totals is summary.totals.
type Totals struct {
	Assigned            int `json:"assigned"`
	Shortage            int `json:"shortage"`
	Excess              int `json:"excess"`
	WishOffViolations   int `json:"wishOffViolations"`
	ViolatedPreferences int `json:"violatedPreferences"`
}

// Summary is the output document's summary field. Fairness is opaque JSON
// here to keep this package free of a dependency on pkg/stats, which itself
// depends on the Assignment/ShiftCode types defined in this package.
type Summary struct {
	Totals      Totals            `json:"totals"`
	Diagnostics DemandDiagnostics `json:"diagnostics"`
	Fairness    json.RawMessage   `json:"fairness,omitempty"`
}

// AvailabilityWarning is one diagnostics.availabilityWarnings entry.
type AvailabilityWarning struct {
	Date      int  `json:"date"`
	Slot      Slot `json:"slot"`
	Need      int  `json:"need"`
	Available int  `json:"available"`
}

// Flags is diagnostics.flags.
type Flags struct {
	InconsistentSummary  bool `json:"inconsistent_summary"`
	AvailabilityWarning  bool `json:"availability_warning"`
}

// VarCounts is diagnostics.var_counts.
type VarCounts struct {
	X          int `json:"x"`
	Shortage   int `json:"shortage"`
	Over       int `json:"over"`
	ViolateOff int `json:"violateOff"`
}

// Diagnostics is the output document's top-level diagnostics field.
type Diagnostics struct {
	Availability         map[int]map[Slot]int `json:"availability"`
	AvailabilityWarnings []AvailabilityWarning `json:"availabilityWarnings"`
	Warnings             []string              `json:"warnings"`
	Flags                Flags                 `json:"flags"`
	VarCounts            VarCounts             `json:"var_counts"`
	LogOutput            string                `json:"logOutput"`

	// Populated only on Infeasible/Timeout.
	SlotAvailability   map[int]map[Slot]int `json:"slotAvailability,omitempty"`
	WeeklyConflicts    []string             `json:"weeklyConflicts,omitempty"`
	MonthlyConflicts   []string             `json:"monthlyConflicts,omitempty"`
	WishOffConflicts   []WishOffConflict    `json:"wishOffConflicts,omitempty"`
	WishOffConflictCount int                `json:"wishOffConflictCount,omitempty"`
}

// WishOffConflict names a person whose requested-off dates cannot all be
// honoured given the other hard constraints.
type WishOffConflict struct {
	StaffID string `json:"staffId"`
	Date    int    `json:"date"`
	Reason  string `json:"reason"`
}

// ErrorInfo is the output document's optional error field.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Output is the full JSON output document.
type Output struct {
	PeopleOrder []string     `json:"peopleOrder"`
	Assignments []Assignment `json:"assignments"`
	Matrix      []MatrixRow  `json:"matrix"`
	Summary     Summary      `json:"summary"`
	Diagnostics Diagnostics  `json:"diagnostics"`

	Infeasible bool       `json:"infeasible,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
}
