// Package validate parses and normalises the roster engine's input JSON
// document into the model.Input the rest of the pipeline consumes.
//
// Grounded on _examples/original_source/solver/solver.py's
// sanitize_day_set/normalize_limit/get_weight/ensure_shift_definitions, with
// its error-collection style reworked from post-hoc conflict detection into
// pre-solve validation.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// weekdayAliases maps Japanese single-character weekday labels to the
// normalised 0-6 domain (0 = Sunday), matching the original's alias table.
var weekdayAliases = map[string]int{
	"日": 0, "月": 1, "火": 2, "水": 3, "木": 4, "金": 5, "土": 6,
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// Result is the outcome of validating one input document: either a
// normalised Input or a non-nil Err (an *apperrors.AppError). Warnings are
// populated on success and when field-level checks fail; the other error
// returns (parse, day-count, catalogue, people) carry none. On success they
// are folded into diagnostics.warnings downstream.
type Result struct {
	Input    *model.Input
	Warnings []string
	Err      error
}

type rawPerson struct {
	ID                 string        `json:"id"`
	CanWork            []string      `json:"canWork"`
	FixedOffWeekdays   []interface{} `json:"fixedOffWeekdays"`
	WeeklyMin          int           `json:"weeklyMin"`
	WeeklyMax          int           `json:"weeklyMax"`
	MonthlyMin         int           `json:"monthlyMin"`
	MonthlyMax         int           `json:"monthlyMax"`
	ConsecMax          int           `json:"consecMax"`
	UnavailableDates   []int         `json:"unavailableDates"`
	RequestedOffDates  []int         `json:"requestedOffDates"`
	RequestedOffWeight int           `json:"requestedOffWeight"`
}

type rawStrictNight struct {
	Slot2123 int `json:"21-23"`
	Slot0007 int `json:"0-7"`
	Min1821  int `json:"18-21_min"`
	Max1821  int `json:"18-21_max"`
}

type rawInput struct {
	Year                    int                        `json:"year"`
	Month                   int                        `json:"month"`
	Days                    int                         `json:"days"`
	WeekdayOfDay1           interface{}                 `json:"weekdayOfDay1"`
	PreviousMonthNightCarry map[string][]string         `json:"previousMonthNightCarry"`
	Shifts                  []model.ShiftDef            `json:"shifts"`
	NeedTemplate            map[string]map[string]int   `json:"needTemplate"`
	DayTypeByDate           []string                    `json:"dayTypeByDate"`
	StrictNight             *rawStrictNight             `json:"strictNight"`
	People                  []rawPerson                 `json:"people"`
	Rules                   map[string]interface{}      `json:"rules"`
	Weights                 map[string]interface{}      `json:"weights"`
	WishOffs                map[string][]int            `json:"wishOffs"`
}

// Validate parses raw JSON bytes and returns a normalised Input, or an
// AppError describing why the document was rejected.
func Validate(raw []byte) Result {
	var ri rawInput
	if err := json.Unmarshal(raw, &ri); err != nil {
		return Result{Err: apperrors.New(apperrors.CodeInputParse, "input is not valid JSON").WithCause(err)}
	}

	var warnings []string
	ve := &apperrors.ValidationErrors{}

	if ri.Year < 1970 || ri.Year > 2100 {
		ve.Add("year", "must be in [1970,2100]")
	}
	if ri.Month < 1 || ri.Month > 12 {
		ve.Add("month", "must be in [1,12]")
	}
	if ri.Days < 0 || ri.Days > 31 {
		ve.Add("days", "must be in [0,31]")
	}
	if len(ri.DayTypeByDate) > 0 && len(ri.DayTypeByDate) != ri.Days {
		return Result{Err: apperrors.InconsistentDays(
			fmt.Sprintf("days=%d but dayTypeByDate has %d entries", ri.Days, len(ri.DayTypeByDate)))}
	}

	weekday, ok := normalizeWeekday(ri.WeekdayOfDay1)
	if !ok {
		ve.Add("weekdayOfDay1", "must be 0-6 or a recognised weekday label")
	}

	if err := checkShiftDefs(ri.Shifts); err != nil {
		return Result{Err: err}
	}

	people, personWarnings, err := normalizePeople(ri.People, ri.Days)
	if err != nil {
		return Result{Err: err}
	}
	warnings = append(warnings, personWarnings...)

	needTemplate, ntWarnings := normalizeNeedTemplate(ri.NeedTemplate)
	warnings = append(warnings, ntWarnings...)

	rules, ruleWarnings := normalizeRules(ri.Rules)
	warnings = append(warnings, ruleWarnings...)

	weights, weightWarnings := normalizeWeights(ri.Weights)
	warnings = append(warnings, weightWarnings...)

	people = mergeWishOffs(people, ri.WishOffs)

	carry := make(map[model.ShiftCode][]string, len(ri.PreviousMonthNightCarry))
	for k, v := range ri.PreviousMonthNightCarry {
		carry[model.ShiftCode(k)] = v
	}

	var strictNight *model.StrictNight
	if ri.StrictNight != nil {
		strictNight = &model.StrictNight{
			Slot2123: ri.StrictNight.Slot2123,
			Slot0007: ri.StrictNight.Slot0007,
			Min1821:  ri.StrictNight.Min1821,
			Max1821:  ri.StrictNight.Max1821,
		}
	}

	if ve.HasErrors() {
		return Result{Err: ve.ToAppError(), Warnings: warnings}
	}

	input := &model.Input{
		Year:                    ri.Year,
		Month:                   ri.Month,
		Days:                    ri.Days,
		WeekdayOfDay1:           model.Weekday(weekday),
		PreviousMonthNightCarry: carry,
		Shifts:                  ri.Shifts,
		NeedTemplate:            needTemplate,
		DayTypeByDate:           ri.DayTypeByDate,
		StrictNight:             strictNight,
		People:                  people,
		Rules:                   rules,
		Weights:                 weights,
	}
	return Result{Input: input, Warnings: warnings}
}

func normalizeWeekday(v interface{}) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, true // default Sunday, matches the original's lenient handling
	case float64:
		d := int(t) % 7
		if d < 0 {
			d += 7
		}
		return d, true
	case string:
		if d, ok := weekdayAliases[t]; ok {
			return d, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// checkShiftDefs cross-checks any caller-supplied `shifts` array against the
// fixed catalogue, mirroring ensure_shift_definitions: an empty or absent
// array is fine (the fixed catalogue applies), but a non-empty one must
// name only known codes, with hours matching model.ShiftHours exactly, and
// must cover every catalogue code. Unknown codes, hour mismatches, and
// missing codes are all collected before a single error is raised.
func checkShiftDefs(shifts []model.ShiftDef) error {
	if len(shifts) == 0 {
		return nil
	}

	var unknown, mismatched []string
	seen := map[model.ShiftCode]bool{}
	provided := map[model.ShiftCode]bool{}
	for _, s := range shifts {
		if seen[s.Code] {
			return apperrors.DuplicateID("shift", string(s.Code))
		}
		seen[s.Code] = true
		provided[s.Code] = true

		hours, ok := model.ShiftHours[s.Code]
		if !ok {
			unknown = append(unknown, string(s.Code))
			continue
		}
		if s.Start != hours[0] || s.End != hours[1] {
			mismatched = append(mismatched, string(s.Code))
		}
	}

	var missing []string
	for _, c := range model.Catalogue {
		if !provided[c] {
			missing = append(missing, string(c))
		}
	}

	if len(unknown) == 0 && len(mismatched) == 0 && len(missing) == 0 {
		return nil
	}
	err := apperrors.CatalogueMismatch("shift definitions do not match the fixed catalogue")
	if len(unknown) > 0 {
		err = err.WithField("unknown", unknown)
	}
	if len(mismatched) > 0 {
		err = err.WithField("mismatched", mismatched)
	}
	if len(missing) > 0 {
		err = err.WithField("missing", missing)
	}
	return err
}

func normalizePeople(raw []rawPerson, days int) ([]model.Person, []string, error) {
	var warnings []string
	seen := map[string]bool{}
	badCodes := map[string][]string{}
	out := make([]model.Person, 0, len(raw))
	for i, rp := range raw {
		if rp.ID == "" {
			return nil, nil, apperrors.InvalidField(fmt.Sprintf("people[%d].id", i), "must be non-empty")
		}
		if seen[rp.ID] {
			return nil, nil, apperrors.DuplicateID("person", rp.ID)
		}
		seen[rp.ID] = true

		canWork := make([]model.ShiftCode, 0, len(rp.CanWork))
		for _, c := range rp.CanWork {
			code := model.ShiftCode(c)
			if !model.ValidCode(code) {
				badCodes[rp.ID] = append(badCodes[rp.ID], c)
				continue
			}
			canWork = append(canWork, code)
		}
		if len(canWork) == 0 {
			warnings = append(warnings, fmt.Sprintf("person %q has an empty canWork list; no shifts will be created", rp.ID))
		}

		weekdays := make([]model.Weekday, 0, len(rp.FixedOffWeekdays))
		for _, w := range rp.FixedOffWeekdays {
			d, ok := normalizeWeekday(w)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("person %q has an unrecognised fixedOffWeekdays entry, ignored", rp.ID))
				continue
			}
			weekdays = append(weekdays, model.Weekday(d))
		}

		consecMax := rp.ConsecMax
		if consecMax <= 0 {
			consecMax = 5
		}

		unavailable := sanitizeDaySet(rp.UnavailableDates, days, &warnings, rp.ID, "unavailableDates")
		requestedOff := sanitizeDaySet(rp.RequestedOffDates, days, &warnings, rp.ID, "requestedOffDates")

		out = append(out, model.Person{
			ID:                 rp.ID,
			CanWork:            canWork,
			FixedOffWeekdays:   weekdays,
			WeeklyMin:          normalizeLimit(rp.WeeklyMin),
			WeeklyMax:          normalizeLimit(rp.WeeklyMax),
			MonthlyMin:         normalizeLimit(rp.MonthlyMin),
			MonthlyMax:         normalizeLimit(rp.MonthlyMax),
			ConsecMax:          consecMax,
			UnavailableDates:   unavailable,
			RequestedOffDates:  requestedOff,
			RequestedOffWeight: rp.RequestedOffWeight,
		})
	}
	if len(badCodes) > 0 {
		ids := make([]string, 0, len(badCodes))
		for id := range badCodes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		err := apperrors.CatalogueMismatch("one or more people can work an unknown shift code")
		for _, id := range ids {
			err = err.WithField(id, badCodes[id])
		}
		return nil, nil, err
	}
	return out, warnings, nil
}

// sanitizeDaySet drops any entry outside [1,horizonDays] with a warning and
// dedupes what remains, mirroring the original's sanitize_day_set.
func sanitizeDaySet(rawDays []int, horizonDays int, warnings *[]string, personID, field string) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(rawDays))
	for _, d := range rawDays {
		if d < 1 || d > horizonDays {
			*warnings = append(*warnings, fmt.Sprintf("person %q has an out-of-range %s entry %d, dropped", personID, field, d))
			continue
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// normalizeLimit treats non-positive values as "unbounded" (0), matching
// the original's normalize_limit.
func normalizeLimit(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func mergeWishOffs(people []model.Person, wishOffs map[string][]int) []model.Person {
	if len(wishOffs) == 0 {
		return people
	}
	byID := make(map[string]int, len(people))
	for i, p := range people {
		byID[p.ID] = i
	}
	for staffID, days := range wishOffs {
		idx, ok := byID[staffID]
		if !ok {
			continue
		}
		merged := map[int]bool{}
		for _, d := range people[idx].RequestedOffDates {
			merged[d] = true
		}
		for _, d := range days {
			merged[d] = true
		}
		out := make([]int, 0, len(merged))
		for d := range merged {
			out = append(out, d)
		}
		sort.Ints(out)
		people[idx].RequestedOffDates = out
	}
	return people
}

// normalizeNeedTemplate derives "18-21" and "21-23" from a combined "18-24"
// key when present, matching the original's prepare_demand, which always
// keys off "18-24" and never consults the split keys once it's present.
// Only when "18-24" is absent do the explicit "18-21"/"21-23" keys apply.
func normalizeNeedTemplate(raw map[string]map[string]int) (map[string]model.NeedTemplateRow, []string) {
	var warnings []string
	out := make(map[string]model.NeedTemplateRow, len(raw))
	for dayType, row := range raw {
		norm := model.NeedTemplateRow{}
		for _, slot := range model.Slots {
			if v, ok := row[string(slot)]; ok {
				norm[slot] = v
			}
		}
		if v, ok := row["18-24"]; ok {
			norm[model.Slot1821] = v
			norm[model.Slot2123] = v
		}
		for k := range row {
			known := false
			for _, s := range model.Slots {
				if string(s) == k {
					known = true
				}
			}
			if k == "18-24" {
				known = true
			}
			if !known {
				warnings = append(warnings, fmt.Sprintf("needTemplate[%q] has unrecognised slot key %q, ignored", dayType, k))
			}
		}
		out[dayType] = norm
	}
	return out, warnings
}

func normalizeRules(raw map[string]interface{}) (model.Rules, []string) {
	rules := model.DefaultRules()
	var warnings []string
	if v, ok := raw["noEarlyAfterDayAB"]; ok {
		if b, ok := v.(bool); ok {
			rules.NoEarlyAfterDayAB = b
		} else {
			warnings = append(warnings, "rules.noEarlyAfterDayAB must be a boolean, ignored")
		}
	}
	if v, ok := raw["nightRest"]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			for code, val := range m {
				n, ok := val.(float64)
				if !ok {
					continue
				}
				iv := int(n)
				if iv < 0 {
					iv = 0
				}
				rules.NightRest[model.ShiftCode(code)] = iv
			}
		}
	}
	return rules, warnings
}

// weightAliases lists case-insensitive alternate spellings, matching the
// original's get_weight tolerance for w_wish_off_violation etc.
var weightAliases = map[string]string{
	"w_shortage":                    "W_shortage",
	"w_overstaff_gt_need_plus1":     "W_overstaff_gt_need_plus1",
	"w_requested_off_violation":     "W_requested_off_violation",
	"w_wish_off_violation":          "W_requested_off_violation",
	"w_balance_workload":            "W_balance_workload",
}

func normalizeWeights(raw map[string]interface{}) (model.Weights, []string) {
	weights := model.DefaultWeights()
	var warnings []string
	for k, v := range raw {
		canon, ok := weightAliases[strings.ToLower(k)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("weights key %q is not recognised, ignored", k))
			continue
		}
		n, ok := v.(float64)
		if !ok || n < 0 {
			warnings = append(warnings, fmt.Sprintf("weights key %q must be a non-negative number, ignored", k))
			continue
		}
		iv := int(n)
		switch canon {
		case "W_shortage":
			weights.Shortage = iv
		case "W_overstaff_gt_need_plus1":
			weights.OverstaffGtNeedPlus1 = iv
		case "W_requested_off_violation":
			weights.RequestedOffViolation = iv
		case "W_balance_workload":
			weights.BalanceWorkload = iv
		}
	}
	return weights, warnings
}
