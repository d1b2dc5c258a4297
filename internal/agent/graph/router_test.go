package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nutripal/server/internal/agent/graph/steps"
	"github.com/nutripal/server/internal/agent/model"
)

func TestRouteAfterIntent(t *testing.T) {
	tests := []struct {
		action model.Action
		want   string
	}{
		{model.ActionLogFood, steps.FoodSearch},
		{model.ActionQueryFoodInfo, steps.FoodSearch},
		{model.ActionQueryDailyStats, steps.StatsLookup},
		{model.ActionChitchat, steps.Summary},
		{model.ActionNone, steps.Summary},
	}
	for _, tt := range tests {
		got := routeAfterIntent(&model.State{LastAction: tt.action})
		assert.Equal(t, tt.want, got, "action %q", tt.action)
	}
}

func TestRouteAfterSelectionAlwaysComputes(t *testing.T) {
	// Resolved or not, the head item leaves the queue in the compute step.
	for _, action := range []model.Action{model.ActionSelected, model.ActionEstimated, model.ActionNoMatch} {
		got := routeAfterSelection(&model.State{LastAction: action})
		assert.Equal(t, steps.CalculateLog, got)
	}
}

func TestRouteAfterCalculateLoopsWhilePending(t *testing.T) {
	pending := &model.State{PendingItems: []model.FoodItem{{Name: "rice"}}}
	assert.Equal(t, steps.FoodSearch, routeAfterCalculate(pending))

	drained := &model.State{}
	assert.Equal(t, steps.Summary, routeAfterCalculate(drained))
}

func TestRouteTerminalEdges(t *testing.T) {
	s := &model.State{}
	assert.Equal(t, steps.Selection, routeAfterSearch(s))
	assert.Equal(t, steps.Summary, routeAfterStats(s))
	assert.Equal(t, steps.End, routeAfterSummary(s))
}
