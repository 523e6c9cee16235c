package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestValidate_RejectsBadJSON(t *testing.T) {
	res := Validate([]byte("{not json"))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeInputParse, errors.GetCode(res.Err))
}

func TestValidate_RejectsInconsistentDays(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 3,
		"dayTypeByDate": []string{"normalDay", "normalDay"},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeInconsistentDays, errors.GetCode(res.Err))
}

func TestValidate_RejectsDuplicatePersonID(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"people": []map[string]interface{}{
			{"id": "p1", "canWork": []string{"DA"}},
			{"id": "p1", "canWork": []string{"EA"}},
		},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeDuplicateID, errors.GetCode(res.Err))
}

func TestValidate_RejectsUnknownShiftCode(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"people": []map[string]interface{}{
			{"id": "p1", "canWork": []string{"ZZ"}},
		},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeCatalogueMismatch, errors.GetCode(res.Err))
}

func TestValidate_RejectsShiftDefWithMismatchedHours(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"shifts": []map[string]interface{}{
			{"code": "DA", "start": 10, "end": 18},
		},
		"people": []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeCatalogueMismatch, errors.GetCode(res.Err))
}

func TestValidate_RejectsShiftDefsMissingCatalogueEntries(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"shifts": []map[string]interface{}{
			{"code": "DA", "start": 9, "end": 18},
		},
		"people": []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeCatalogueMismatch, errors.GetCode(res.Err))
}

func TestValidate_CollectsAllPeopleWithUnknownCanWorkCodes(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"people": []map[string]interface{}{
			{"id": "p1", "canWork": []string{"ZZ"}},
			{"id": "p2", "canWork": []string{"YY"}},
		},
	}
	res := Validate(mustJSON(t, raw))
	require.Error(t, res.Err)
	assert.Equal(t, errors.CodeCatalogueMismatch, errors.GetCode(res.Err))
	appErr, ok := res.Err.(*errors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "p1")
	assert.Contains(t, appErr.Fields, "p2")
}

func TestValidate_NormalizesJapaneseWeekday(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"weekdayOfDay1": "木",
		"people":        []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Input)
	assert.Equal(t, model.Weekday(4), res.Input.WeekdayOfDay1)
}

func TestValidate_MergesWishOffsIntoRequestedOffDates(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 5,
		"people":   []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}, "requestedOffDates": []int{2}}},
		"wishOffs": map[string][]int{"p1": {3, 2}},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	assert.Equal(t, []int{2, 3}, res.Input.People[0].RequestedOffDates)
}

func TestValidate_SplitsCombinedNeedTemplateKey(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"needTemplate": map[string]map[string]int{
			"normalDay": {"7-9": 1, "18-24": 2},
		},
		"people": []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	row := res.Input.NeedTemplate["normalDay"]
	assert.Equal(t, 2, row[model.Slot1821])
	assert.Equal(t, 2, row[model.Slot2123])
}

func TestValidate_CombinedNeedTemplateKeyOverridesExplicitSplitKeys(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"needTemplate": map[string]map[string]int{
			"normalDay": {"18-21": 1, "21-23": 1, "18-24": 3},
		},
		"people": []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	row := res.Input.NeedTemplate["normalDay"]
	assert.Equal(t, 3, row[model.Slot1821])
	assert.Equal(t, 3, row[model.Slot2123])
}

func TestValidate_DropsOutOfRangeHighDateWithWarning(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 3,
		"people": []map[string]interface{}{
			{"id": "p1", "canWork": []string{"DA"}, "unavailableDates": []int{2, 5}},
		},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Input)
	assert.Equal(t, []int{2}, res.Input.People[0].UnavailableDates)
	assert.NotEmpty(t, res.Warnings)
}

func TestValidate_UnrecognisedWeightKeyWarns(t *testing.T) {
	raw := map[string]interface{}{
		"year": 2026, "month": 1, "days": 1,
		"weights": map[string]interface{}{"w_typo": 5},
		"people":  []map[string]interface{}{{"id": "p1", "canWork": []string{"DA"}}},
	}
	res := Validate(mustJSON(t, raw))
	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.Warnings)
}
