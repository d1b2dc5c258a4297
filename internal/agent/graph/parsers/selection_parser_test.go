package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutripal/server/internal/agent/model"
)

func TestParseSelectionResponseSelected(t *testing.T) {
	content := "```json\n" + `{"status": "SELECTED", "food_id": 12, "reason": "exact match"}` + "\n```"

	res, err := ParseSelectionResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.SelectionSelected, res.Status)
	require.NotNil(t, res.FoodID)
	assert.Equal(t, int64(12), *res.FoodID)
	assert.Equal(t, "exact match", res.Reason)
}

func TestParseSelectionResponseEstimated(t *testing.T) {
	content := `{
		"status": "ESTIMATED",
		"estimated_macros": {"calories": 52, "protein": 0.3, "carbs": 14, "fat": 0.2},
		"reason": "no catalog match, typical apple"
	}`

	res, err := ParseSelectionResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.SelectionEstimated, res.Status)
	require.NotNil(t, res.Estimated)
	assert.Equal(t, 52.0, res.Estimated.Calories)
	assert.Nil(t, res.FoodID)
}

func TestParseSelectionResponseNoMatchAndAmbiguous(t *testing.T) {
	for _, status := range []model.SelectionStatus{model.SelectionNoMatch, model.SelectionAmbiguous} {
		res, err := ParseSelectionResponse(`{"status": "` + string(status) + `"}`)
		require.NoError(t, err)
		assert.Equal(t, status, res.Status)
	}
}

func TestParseSelectionResponseSelectedWithoutIDDowngrades(t *testing.T) {
	res, err := ParseSelectionResponse(`{"status": "SELECTED", "reason": "pick"}`)
	require.NoError(t, err)
	assert.Equal(t, model.SelectionNoMatch, res.Status)
	assert.Nil(t, res.FoodID)
}

func TestParseSelectionResponseEstimatedWithoutMacrosDowngrades(t *testing.T) {
	res, err := ParseSelectionResponse(`{"status": "ESTIMATED"}`)
	require.NoError(t, err)
	assert.Equal(t, model.SelectionNoMatch, res.Status)
	assert.Nil(t, res.Estimated)
}

func TestParseSelectionResponseUnknownStatus(t *testing.T) {
	_, err := ParseSelectionResponse(`{"status": "MAYBE"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown selection status")
}

func TestParseSelectionResponseNoJSON(t *testing.T) {
	_, err := ParseSelectionResponse("no verdict here")
	assert.Error(t, err)
}
