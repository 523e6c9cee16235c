package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paiban/roster/pkg/model"
)

func TestAnalyse_FlagsShortfall(t *testing.T) {
	input := &model.Input{
		Days: 1,
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}},
		},
	}
	need := map[int]map[model.Slot]int{1: {model.Slot0915: 2}}
	res := Analyse(input, need)
	assert.True(t, res.Flag)
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, res.Warnings[0].Available)
	assert.Equal(t, 2, res.Warnings[0].Need)
}

func TestAnalyse_RespectsFixedOffAndUnavailable(t *testing.T) {
	input := &model.Input{
		Days:          2,
		WeekdayOfDay1: model.Weekday(0),
		People: []model.Person{
			{ID: "p1", CanWork: []model.ShiftCode{model.ShiftDA}, FixedOffWeekdays: []model.Weekday{0}},
			{ID: "p2", CanWork: []model.ShiftCode{model.ShiftDA}, UnavailableDates: []int{1}},
		},
	}
	need := map[int]map[model.Slot]int{1: {model.Slot0915: 1}, 2: {model.Slot0915: 1}}
	res := Analyse(input, need)
	assert.Equal(t, 0, res.Available[1][model.Slot0915])
	assert.Equal(t, 1, res.Available[2][model.Slot0915])
}

func TestResult_AllZero(t *testing.T) {
	r := &Result{Available: map[int]map[model.Slot]int{1: {model.Slot0915: 0}}}
	need := map[int]map[model.Slot]int{1: {model.Slot0915: 3}}
	assert.True(t, r.AllZero(need))
	r.Available[1][model.Slot0915] = 1
	assert.False(t, r.AllZero(need))
}
