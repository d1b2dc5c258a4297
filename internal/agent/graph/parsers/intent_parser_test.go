package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutripal/server/internal/agent/model"
)

func TestParseIntentResponseLogFood(t *testing.T) {
	content := `{
		"action": "LOG_FOOD",
		"items": [
			{"name": "chicken breast", "amount": 200, "unit": "g", "source_text": "200g of grilled chicken"},
			{"name": "rice", "amount": 150, "unit": "g", "source_text": "a bowl of rice"}
		],
		"meal_type": "lunch",
		"target_date": "2026-08-25",
		"start_date": null,
		"end_date": null
	}`

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionLogFood, res.Action)
	assert.Equal(t, "lunch", res.MealType)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "chicken breast", res.Items[0].Name)
	assert.Equal(t, 200.0, res.Items[0].Amount)
	require.NotNil(t, res.TargetDate)
	assert.Equal(t, "2026-08-25", res.TargetDate.String())
	assert.Nil(t, res.RangeStart)
}

func TestParseIntentResponseStripsFencesAndProse(t *testing.T) {
	content := "Sure! Here is the analysis:\n```json\n" +
		`{"action": "CHITCHAT", "items": [], "target_date": null}` +
		"\n```\nLet me know if you need anything else."

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionChitchat, res.Action)
}

func TestParseIntentResponseUnknownAction(t *testing.T) {
	_, err := ParseIntentResponse(`{"action": "ORDER_PIZZA"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown intent action")
}

func TestParseIntentResponseNoJSON(t *testing.T) {
	_, err := ParseIntentResponse("I could not understand that.")
	assert.Error(t, err)
}

func TestParseIntentResponseItemsDroppedForNonFoodIntents(t *testing.T) {
	content := `{
		"action": "QUERY_DAILY_STATS",
		"items": [{"name": "apple", "amount": 100, "unit": "g"}],
		"target_date": "2026-08-25"
	}`

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionQueryDailyStats, res.Action)
	assert.Empty(t, res.Items)
}

func TestParseIntentResponseSkipsMalformedItems(t *testing.T) {
	content := `{
		"action": "LOG_FOOD",
		"items": [
			{"name": "", "amount": 100, "unit": "g"},
			{"name": "apple", "amount": 0, "unit": "g"},
			{"name": "banana", "amount": 120}
		]
	}`

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "banana", res.Items[0].Name)
	assert.Equal(t, "g", res.Items[0].Unit)          // unit defaulted
	assert.Equal(t, "banana", res.Items[0].SourceText) // source defaulted to name
}

func TestParseIntentResponseHalfRangeDropped(t *testing.T) {
	content := `{"action": "QUERY_DAILY_STATS", "start_date": "2026-08-20"}`

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	assert.Nil(t, res.RangeStart)
	assert.Nil(t, res.RangeEnd)
}

func TestParseIntentResponseInvertedRangeSwapped(t *testing.T) {
	content := `{"action": "QUERY_DAILY_STATS", "start_date": "2026-08-25", "end_date": "2026-08-20"}`

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	require.NotNil(t, res.RangeStart)
	require.NotNil(t, res.RangeEnd)
	assert.Equal(t, model.NewDate(2026, time.August, 20), *res.RangeStart)
	assert.Equal(t, model.NewDate(2026, time.August, 25), *res.RangeEnd)
}

func TestParseIntentResponseBadDate(t *testing.T) {
	_, err := ParseIntentResponse(`{"action": "QUERY_DAILY_STATS", "target_date": "yesterday"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_date")
}

func TestParseIntentResponseOversizedContent(t *testing.T) {
	// Valid JSON up front survives truncation of the trailing garbage.
	content := `{"action": "CHITCHAT"}` + strings.Repeat(" ", maxContentLen)

	res, err := ParseIntentResponse(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionChitchat, res.Action)
}

func TestParseIntentResponseItemListCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"action": "LOG_FOOD", "items": [`)
	for i := 0; i < maxItems+10; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"name": "apple", "amount": 100, "unit": "g"}`)
	}
	sb.WriteString(`]}`)

	res, err := ParseIntentResponse(sb.String())
	require.NoError(t, err)
	assert.Len(t, res.Items, maxItems)
}
