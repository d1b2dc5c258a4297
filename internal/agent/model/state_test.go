package model

import (
	"encoding/json"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMessagesAppendOnly(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Apply(Update{AppendMessages: []*schema.Message{schema.UserMessage("hi")}}))
	require.NoError(t, s.Apply(Update{AppendMessages: []*schema.Message{schema.AssistantMessage("hello", nil)}}))

	require.Len(t, s.Messages, 2)
	assert.Equal(t, "hi", s.Messages[0].Content)
	assert.Equal(t, "hello", s.Messages[1].Content)
}

func TestApplySearchResultsOverwrite(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Apply(Update{
		SearchResults:    []Candidate{{ID: 1, Name: "Apple"}, {ID: 2, Name: "Apple Pie"}},
		SetSearchResults: true,
	}))
	require.NoError(t, s.Apply(Update{
		SearchResults:    []Candidate{{ID: 3, Name: "Banana"}},
		SetSearchResults: true,
	}))

	require.Len(t, s.SearchResults, 1)
	assert.Equal(t, int64(3), s.SearchResults[0].ID)

	// An empty overwrite is a real overwrite, not a no-op.
	require.NoError(t, s.Apply(Update{SetSearchResults: true}))
	assert.Empty(t, s.SearchResults)

	// Without the flag the previous value survives.
	require.NoError(t, s.Apply(Update{SearchResults: []Candidate{{ID: 9, Name: "Ignored"}}}))
	assert.Empty(t, s.SearchResults)
}

func TestApplyProcessingResultsAccumulate(t *testing.T) {
	s := NewState()
	item := FoodItem{Name: "rice", Amount: 150, Unit: "g"}

	require.NoError(t, s.Apply(Update{AppendResults: []ItemResult{{Item: item, Status: ResultResolved}}}))
	require.NoError(t, s.Apply(Update{AppendResults: []ItemResult{{Item: item, Status: ResultFailed}}}))
	require.Len(t, s.ProcessingResults, 2)

	// ClearResults wipes before the same update's appends land.
	require.NoError(t, s.Apply(Update{
		ClearResults:  true,
		AppendResults: []ItemResult{{Item: item, Status: ResultResolved, Message: "fresh"}},
	}))
	require.Len(t, s.ProcessingResults, 1)
	assert.Equal(t, "fresh", s.ProcessingResults[0].Message)
}

func TestApplyDateModesExclusive(t *testing.T) {
	s := NewState()
	d1 := NewDate(2026, 8, 25)
	d2 := NewDate(2026, 8, 26)

	require.NoError(t, s.Apply(Update{TargetDate: &d1}))
	require.NotNil(t, s.TargetDate)

	// Switching to range mode must clear the single date in the same update.
	require.NoError(t, s.Apply(Update{ClearDates: true, RangeStart: &d1, RangeEnd: &d2}))
	assert.Nil(t, s.TargetDate)
	assert.True(t, s.HasRange())

	// Setting both modes at once is rejected and the state is untouched.
	err := s.Apply(Update{TargetDate: &d1})
	require.ErrorIs(t, err, ErrInvariant)
	assert.Nil(t, s.TargetDate)
	assert.True(t, s.HasRange())
}

func TestApplyRejectsHalfOpenRange(t *testing.T) {
	s := NewState()
	d := NewDate(2026, 8, 25)

	err := s.Apply(Update{RangeStart: &d})
	require.ErrorIs(t, err, ErrInvariant)
	assert.Nil(t, s.RangeStart)
}

func TestApplyRejectsSelectionAndEstimationTogether(t *testing.T) {
	s := NewState()
	id := int64(7)
	est := Macros{Calories: 52}

	require.NoError(t, s.Apply(Update{SelectedID: &id}))
	err := s.Apply(Update{Estimation: &est})
	require.ErrorIs(t, err, ErrInvariant)
	assert.Nil(t, s.CurrentEstimation)
	require.NotNil(t, s.SelectedID)

	// Clearing the selection in the same update makes the estimation legal.
	require.NoError(t, s.Apply(Update{ClearSelectedID: true, Estimation: &est}))
	assert.Nil(t, s.SelectedID)
	require.NotNil(t, s.CurrentEstimation)
	assert.Equal(t, 52.0, s.CurrentEstimation.Calories)
}

func TestApplyRejectionLeavesStateUnchanged(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Apply(Update{
		PendingItems:    []FoodItem{{Name: "apple"}},
		SetPendingItems: true,
		LastAction:      ActionLogFood,
	}))

	d := NewDate(2026, 1, 1)
	err := s.Apply(Update{
		AppendMessages:  []*schema.Message{schema.UserMessage("bad")},
		SetPendingItems: true,
		RangeStart:      &d, // half-open: must fail
	})
	require.ErrorIs(t, err, ErrInvariant)

	// None of the update's other fields leaked through.
	assert.Empty(t, s.Messages)
	require.Len(t, s.PendingItems, 1)
	assert.Equal(t, ActionLogFood, s.LastAction)
}

func TestApplyIdempotentOnReplay(t *testing.T) {
	// Re-applying the same update to the pre-update snapshot yields the same
	// state, which is what makes resuming from a checkpoint safe.
	base := NewState()
	require.NoError(t, base.Apply(Update{
		PendingItems:    []FoodItem{{Name: "apple"}, {Name: "rice"}},
		SetPendingItems: true,
	}))

	u := Update{
		PendingItems:     []FoodItem{{Name: "rice"}},
		SetPendingItems:  true,
		SearchResults:    []Candidate{{ID: 1, Name: "Apple"}},
		SetSearchResults: true,
		AppendResults:    []ItemResult{{Item: FoodItem{Name: "apple"}, Status: ResultResolved}},
	}

	a := base.Clone()
	b := base.Clone()
	require.NoError(t, a.Apply(u))
	require.NoError(t, b.Apply(u))
	assert.Equal(t, a, b)
}

func TestCloneIsIndependent(t *testing.T) {
	id := int64(3)
	d := NewDate(2026, 8, 25)
	s := NewState()
	require.NoError(t, s.Apply(Update{
		AppendMessages:  []*schema.Message{schema.UserMessage("hi")},
		PendingItems:    []FoodItem{{Name: "apple"}},
		SetPendingItems: true,
		SelectedID:      &id,
		TargetDate:      &d,
	}))

	c := s.Clone()
	require.NoError(t, c.Apply(Update{
		SetPendingItems: true,
		ClearSelectedID: true,
		ClearDates:      true,
		AppendResults:   []ItemResult{{Item: FoodItem{Name: "apple"}, Status: ResultResolved}},
	}))

	require.Len(t, s.PendingItems, 1)
	require.NotNil(t, s.SelectedID)
	require.NotNil(t, s.TargetDate)
	assert.Empty(t, s.ProcessingResults)
}

func TestScaleToLinear(t *testing.T) {
	per100 := Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}

	double := per100.ScaleTo(200)
	assert.InDelta(t, 330, double.Calories, 1e-9)
	assert.InDelta(t, 62, double.Protein, 1e-9)
	assert.InDelta(t, 7.2, double.Fat, 1e-9)

	zero := per100.ScaleTo(0)
	assert.Zero(t, zero.Calories)
}

func TestHeadItem(t *testing.T) {
	s := NewState()
	_, ok := s.HeadItem()
	assert.False(t, ok)

	require.NoError(t, s.Apply(Update{
		PendingItems:    []FoodItem{{Name: "apple"}, {Name: "rice"}},
		SetPendingItems: true,
	}))
	head, ok := s.HeadItem()
	require.True(t, ok)
	assert.Equal(t, "apple", head.Name)
}

func TestStateJSONRoundTrip(t *testing.T) {
	id := int64(42)
	d := NewDate(2026, 8, 25)
	s := NewState()
	require.NoError(t, s.Apply(Update{
		AppendMessages:  []*schema.Message{schema.UserMessage("200g chicken")},
		PendingItems:    []FoodItem{{Name: "chicken breast", Amount: 200, Unit: "g", MealType: "lunch"}},
		SetPendingItems: true,
		LastAction:      ActionLogFood,
		SelectedID:      &id,
		TargetDate:      &d,
	}))

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, s.LastAction, back.LastAction)
	assert.Equal(t, s.PendingItems, back.PendingItems)
	require.NotNil(t, back.SelectedID)
	assert.Equal(t, int64(42), *back.SelectedID)
	require.NotNil(t, back.TargetDate)
	assert.Equal(t, "2026-08-25", back.TargetDate.String())
}
