package graph

import (
	"github.com/nutripal/server/internal/agent/graph/steps"
	"github.com/nutripal/server/internal/agent/model"
)

// RouterFunc picks the next step name after a step completes. Routers are
// total and inspect only the last action tag and pending-queue emptiness,
// never message content, so routing stays deterministic regardless of what
// the oracles produce.
type RouterFunc func(s *model.State) string

func routeAfterIntent(s *model.State) string {
	switch s.LastAction {
	case model.ActionLogFood, model.ActionQueryFoodInfo:
		return steps.FoodSearch
	case model.ActionQueryDailyStats:
		return steps.StatsLookup
	default:
		return steps.Summary
	}
}

func routeAfterSearch(s *model.State) string {
	return steps.Selection
}

// routeAfterSelection always proceeds to the compute step: resolved items are
// computed and persisted there, and unresolved ones are drained there so the
// head item leaves the queue exactly once per loop iteration.
func routeAfterSelection(s *model.State) string {
	return steps.CalculateLog
}

func routeAfterCalculate(s *model.State) string {
	if len(s.PendingItems) > 0 {
		return steps.FoodSearch
	}
	return steps.Summary
}

func routeAfterStats(s *model.State) string {
	return steps.Summary
}

func routeAfterSummary(s *model.State) string {
	return steps.End
}
