// Package model defines the roster engine's data model: the fixed shift
// catalogue, the demand-slot vocabulary, and the JSON input/output
// documents exchanged with the CLI.
package model

// ShiftCode identifies one of the facility's seven fixed duty shifts.
type ShiftCode string

const (
	ShiftEA ShiftCode = "EA" // early A
	ShiftDA ShiftCode = "DA" // day A
	ShiftDB ShiftCode = "DB" // day B
	ShiftLA ShiftCode = "LA" // late A
	ShiftNA ShiftCode = "NA" // night A
	ShiftNB ShiftCode = "NB" // night B
	ShiftNC ShiftCode = "NC" // night C
)

// Catalogue lists every recognised shift code in a stable order, used
// wherever iteration order must be deterministic.
var Catalogue = []ShiftCode{ShiftEA, ShiftDA, ShiftDB, ShiftLA, ShiftNA, ShiftNB, ShiftNC}

// ShiftHours is the fixed wall-clock window each shift code covers,
// expressed as [startHour, endHour) on a 0-24 clock; a night shift's
// endHour may exceed 24 to denote it runs past midnight.
var ShiftHours = map[ShiftCode][2]int{
	ShiftEA: {7, 16},
	ShiftDA: {9, 18},
	ShiftDB: {9, 18},
	ShiftLA: {13, 21},
	ShiftNA: {21, 31}, // 21:00 - 07:00 next day
	ShiftNB: {21, 31},
	ShiftNC: {21, 31},
}

// IsNight reports whether the shift code is one of the night shifts; the
// "strict night" override and "previous month night carry" concepts apply
// only to these.
func IsNight(code ShiftCode) bool {
	return code == ShiftNA || code == ShiftNB || code == ShiftNC
}

// IsDayAOrB reports whether the shift code is DA or DB, the two shifts the
// "no early shift after a day shift" hard constraint keys off.
func IsDayAOrB(code ShiftCode) bool {
	return code == ShiftDA || code == ShiftDB
}

// ValidCode reports whether code is a recognised catalogue entry.
func ValidCode(code ShiftCode) bool {
	for _, c := range Catalogue {
		if c == code {
			return true
		}
	}
	return false
}

// Slot identifies one of the six coverage windows demand is expressed in.
type Slot string

const (
	Slot0007 Slot = "0-7"
	Slot0709 Slot = "7-9"
	Slot0915 Slot = "9-15"
	Slot1618 Slot = "16-18"
	Slot1821 Slot = "18-21"
	Slot2123 Slot = "21-23"
)

// Slots lists every demand slot in the canonical order used by the
// original solver's SLOTS constant, kept stable for deterministic output.
var Slots = []Slot{Slot0007, Slot0709, Slot0915, Slot1618, Slot1821, Slot2123}

// SummarySlots is the slot order used when rendering per-day summaries,
// which differs from Slots (the original reorders for readability).
var SummarySlots = []Slot{Slot0709, Slot0915, Slot1618, Slot1821, Slot2123, Slot0007}

// slotBounds is the [start,end) hour range for each slot, with 0-7 expressed
// as [24,31) so midnight-wraparound overlap arithmetic never needs a special
// case (mirrors the original's parse_slot behaviour of adding 24).
var slotBounds = map[Slot][2]int{
	Slot0709: {7, 9},
	Slot0915: {9, 15},
	Slot1618: {16, 18},
	Slot1821: {18, 21},
	Slot2123: {21, 23},
	Slot0007: {24, 31},
}

// Overlap reports whether the half-open ranges [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// SlotBounds returns the [start,end) hour range for slot, with 0-7 mapped to
// [24,31) to line up with ShiftHours' wraparound convention for night shifts.
func SlotBounds(slot Slot) (int, int) {
	b := slotBounds[slot]
	return b[0], b[1]
}

// ShiftContributesToSlot reports whether a person working shift code covers
// any part of slot, following the original's slot_contributes: a shift
// contributes if its wall-clock window overlaps the slot's window, treating
// codes' end hours past 24 (night shifts) as already wraparound-adjusted in
// ShiftHours and slot windows.
func ShiftContributesToSlot(code ShiftCode, slot Slot) bool {
	hours, ok := ShiftHours[code]
	if !ok {
		return false
	}
	start, end := hours[0], hours[1]
	slotStart, slotEnd := SlotBounds(slot)
	if Overlap(start, end, slotStart, slotEnd) {
		return true
	}
	// Night shifts also cover the following day's early hours; compare
	// against the slot shifted back by 24 in case the slot itself was
	// expressed in the "next day" frame (0-7 slot already is via SlotBounds).
	if end > 24 {
		if Overlap(start-24, end-24, slotStart-24, slotEnd-24) {
			return true
		}
	}
	return false
}
