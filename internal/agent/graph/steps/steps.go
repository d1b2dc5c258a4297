// Package steps holds the step functions of the conversation graph. Each step
// is a total function from state to a partial update; steps never mutate
// state directly and own exactly one concern.
package steps

import (
	"context"

	"github.com/nutripal/server/internal/agent/model"
)

// Func is one named unit of work in the graph.
type Func func(ctx context.Context, s *model.State) (model.Update, error)

// Step names. End is the terminal marker a router returns to finish the turn;
// it is not a step.
const (
	IntentParser = "intent_parser"
	FoodSearch   = "food_search"
	Selection    = "selection"
	CalculateLog = "calculate_log"
	StatsLookup  = "stats_lookup"
	Summary      = "summary"

	End = "end"
)
