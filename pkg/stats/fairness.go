// Package stats computes fairness metrics over a solved roster: how evenly
// shifts, night shifts, and weekend shifts are distributed across staff.
package stats

import (
	"math"
	"sort"

	"github.com/paiban/roster/pkg/model"
)

// PersonStat is one staff member's shift-count breakdown for one horizon.
type PersonStat struct {
	StaffID       string  `json:"staffId"`
	ShiftCount    int     `json:"shiftCount"`
	NightShifts   int     `json:"nightShifts"`
	WeekendShifts int     `json:"weekendShifts"`
	Deviation     float64 `json:"deviation"` // percent deviation from the mean shift count
}

// FairnessMetrics summarises how evenly a solved roster distributed work.
type FairnessMetrics struct {
	WorkloadGini         float64            `json:"workloadGini"` // 0 = perfectly even, 1 = maximally uneven
	WorkloadVariance     float64            `json:"workloadVariance"`
	WorkloadStdDev       float64            `json:"workloadStdDev"`
	AvgShiftsPerPerson   float64            `json:"avgShiftsPerPerson"`
	MaxShifts            int                `json:"maxShifts"`
	MinShifts            int                `json:"minShifts"`
	ShiftsRange          int                `json:"shiftsRange"`
	ShiftTypeDistribution map[string]float64 `json:"shiftTypeDistribution"`
	NightShiftGini       float64            `json:"nightShiftGini"`
	WeekendShiftGini     float64            `json:"weekendShiftGini"`
	PersonStats          []PersonStat       `json:"personStats"`
	OverallFairnessScore float64            `json:"overallFairnessScore"` // 0-100
}

// FairnessAnalyzer computes FairnessMetrics from a solved set of
// assignments. It holds no per-run state and can be reused across horizons.
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer creates a FairnessAnalyzer.
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze computes fairness metrics for assignments made across peopleOrder,
// treating date 1's weekday as weekdayOfDay1.
func (f *FairnessAnalyzer) Analyze(assignments []model.Assignment, peopleOrder []string, weekdayOfDay1 model.Weekday) *FairnessMetrics {
	if len(assignments) == 0 || len(peopleOrder) == 0 {
		return &FairnessMetrics{
			ShiftTypeDistribution: make(map[string]float64),
			OverallFairnessScore:  100,
		}
	}

	personStats := f.calculatePersonStats(assignments, peopleOrder, weekdayOfDay1)

	counts := make([]float64, len(personStats))
	nightCounts := make([]float64, len(personStats))
	weekendCounts := make([]float64, len(personStats))
	for i, s := range personStats {
		counts[i] = float64(s.ShiftCount)
		nightCounts[i] = float64(s.NightShifts)
		weekendCounts[i] = float64(s.WeekendShifts)
	}

	avg := calculateMean(counts)
	variance := calculateVariance(counts, avg)
	stdDev := math.Sqrt(variance)
	maxCount, minCount := calculateRange(counts)

	for i := range personStats {
		if avg > 0 {
			personStats[i].Deviation = (float64(personStats[i].ShiftCount) - avg) / avg * 100
		}
	}

	workloadGini := calculateGini(counts)
	nightGini := calculateGini(nightCounts)
	weekendGini := calculateGini(weekendCounts)
	shiftTypeDist := calculateShiftTypeDistribution(assignments)
	overallScore := calculateOverallScore(workloadGini, nightGini, weekendGini, stdDev, avg)

	return &FairnessMetrics{
		WorkloadGini:          workloadGini,
		WorkloadVariance:      variance,
		WorkloadStdDev:        stdDev,
		AvgShiftsPerPerson:    avg,
		MaxShifts:             int(maxCount),
		MinShifts:             int(minCount),
		ShiftsRange:           int(maxCount - minCount),
		ShiftTypeDistribution: shiftTypeDist,
		NightShiftGini:        nightGini,
		WeekendShiftGini:      weekendGini,
		PersonStats:           personStats,
		OverallFairnessScore:  overallScore,
	}
}

func (f *FairnessAnalyzer) calculatePersonStats(assignments []model.Assignment, peopleOrder []string, weekdayOfDay1 model.Weekday) []PersonStat {
	statMap := make(map[string]*PersonStat, len(peopleOrder))
	for _, id := range peopleOrder {
		statMap[id] = &PersonStat{StaffID: id}
	}

	for _, a := range assignments {
		stat, ok := statMap[a.StaffID]
		if !ok {
			stat = &PersonStat{StaffID: a.StaffID}
			statMap[a.StaffID] = stat
		}
		stat.ShiftCount++
		if model.IsNight(a.Shift) {
			stat.NightShifts++
		}
		if isWeekend(a.Date, weekdayOfDay1) {
			stat.WeekendShifts++
		}
	}

	result := make([]PersonStat, 0, len(statMap))
	for _, stat := range statMap {
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ShiftCount > result[j].ShiftCount
	})
	return result
}

func isWeekend(date int, weekdayOfDay1 model.Weekday) bool {
	weekday := model.Weekday((int(weekdayOfDay1) + date - 1) % 7)
	return weekday == 0 || weekday == 6 // Sunday or Saturday
}

func classifyShiftType(code model.ShiftCode) string {
	switch {
	case model.IsNight(code):
		return "night"
	case code == model.ShiftLA:
		return "late"
	default:
		return "day"
	}
}

func calculateShiftTypeDistribution(assignments []model.Assignment) map[string]float64 {
	typeCounts := make(map[string]int)
	for _, a := range assignments {
		typeCounts[classifyShiftType(a.Shift)]++
	}
	distribution := make(map[string]float64, len(typeCounts))
	total := len(assignments)
	if total > 0 {
		for shiftType, count := range typeCounts {
			distribution[shiftType] = float64(count) / float64(total) * 100
		}
	}
	return distribution
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

func calculateRange(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// calculateGini computes the Gini coefficient of values, 0 (perfectly even)
// to 1 (maximally uneven).
func calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}
	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

func calculateOverallScore(workloadGini, nightGini, weekendGini, stdDev, avg float64) float64 {
	const (
		workloadWeight = 0.4
		nightWeight    = 0.25
		weekendWeight  = 0.25
		stdDevWeight   = 0.1
	)

	workloadScore := (1 - workloadGini) * 100
	nightScore := (1 - nightGini) * 100
	weekendScore := (1 - weekendGini) * 100

	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore +
		nightWeight*nightScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore

	return math.Max(0, math.Min(100, score))
}
