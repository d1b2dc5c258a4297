// Package graph wires the conversation step graph and executes turns against
// it. The step and router registries are immutable once built; there is no
// dynamic graph definition at runtime.
package graph

import (
	"fmt"
	"time"

	"github.com/nutripal/server/internal/agent/graph/steps"
	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

const (
	DefaultStepTimeout = 30 * time.Second
	DefaultMaxSteps    = 50
)

// Config holds everything needed to compose the conversation graph
// end-to-end: the three oracles, the two persistence collaborators, the
// checkpoint store, and the executor tunables.
type Config struct {
	IntentOracle    model.IntentOracle
	SelectionOracle model.SelectionOracle
	TextOracle      model.TextOracle

	Catalog     model.Catalog
	FoodLog     model.FoodLog
	Checkpoints model.CheckpointStore

	// StepTimeout bounds each step's collaborator calls; zero means default.
	StepTimeout time.Duration
	// MaxSteps caps one turn; zero means default.
	MaxSteps int
	// DefaultDateToToday switches the missing-date fallback (off = unset).
	DefaultDateToToday bool
	// Now allows tests to pin the clock; nil means time.Now.
	Now func() time.Time
}

// Build validates the configuration, constructs the step and router
// registries, and returns an Executor. Every router target is checked against
// the registry so an unroutable graph fails at startup, not mid-turn.
func Build(cfg Config) (*Executor, error) {
	switch {
	case cfg.IntentOracle == nil:
		return nil, fmt.Errorf("intent oracle is nil")
	case cfg.SelectionOracle == nil:
		return nil, fmt.Errorf("selection oracle is nil")
	case cfg.TextOracle == nil:
		return nil, fmt.Errorf("text oracle is nil")
	case cfg.Catalog == nil:
		return nil, fmt.Errorf("catalog is nil")
	case cfg.FoodLog == nil:
		return nil, fmt.Errorf("food log is nil")
	case cfg.Checkpoints == nil:
		return nil, fmt.Errorf("checkpoint store is nil")
	}

	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	stepFns := map[string]steps.Func{
		steps.IntentParser: steps.NewIntentParserStep(cfg.IntentOracle, cfg.DefaultDateToToday, now),
		steps.FoodSearch:   steps.NewFoodSearchStep(cfg.Catalog),
		steps.Selection:    steps.NewSelectionStep(cfg.SelectionOracle),
		steps.CalculateLog: steps.NewCalculateLogStep(cfg.Catalog, cfg.FoodLog, now),
		steps.StatsLookup:  steps.NewStatsLookupStep(cfg.FoodLog, cfg.DefaultDateToToday, now),
		steps.Summary:      steps.NewSummaryStep(cfg.TextOracle, cfg.FoodLog),
	}

	routers := map[string]RouterFunc{
		steps.IntentParser: routeAfterIntent,
		steps.FoodSearch:   routeAfterSearch,
		steps.Selection:    routeAfterSelection,
		steps.CalculateLog: routeAfterCalculate,
		steps.StatsLookup:  routeAfterStats,
		steps.Summary:      routeAfterSummary,
	}

	if err := validateWiring(stepFns, routers); err != nil {
		return nil, err
	}

	logx.Debug().Int("steps", len(stepFns)).Msg("conversation graph built")
	return &Executor{
		steps:       stepFns,
		routers:     routers,
		entry:       steps.IntentParser,
		store:       cfg.Checkpoints,
		stepTimeout: cfg.StepTimeout,
		maxSteps:    cfg.MaxSteps,
		now:         now,
		inFlight:    make(map[string]struct{}),
	}, nil
}

// validateWiring checks that every step has a router and that every name a
// router can return is either a registered step or the terminal marker.
func validateWiring(stepFns map[string]steps.Func, routers map[string]RouterFunc) error {
	for name := range stepFns {
		if _, ok := routers[name]; !ok {
			return fmt.Errorf("step %q has no router", name)
		}
	}
	for name := range routers {
		if _, ok := stepFns[name]; !ok {
			return fmt.Errorf("router registered for unknown step %q", name)
		}
	}

	// probe each router with the states that drive its branches
	probes := []*model.State{
		{LastAction: model.ActionLogFood, PendingItems: []model.FoodItem{{Name: "x"}}},
		{LastAction: model.ActionQueryDailyStats},
		{LastAction: model.ActionChitchat},
		{LastAction: model.ActionNoMatch},
		{},
	}
	for name, router := range routers {
		for _, s := range probes {
			next := router(s)
			if next == steps.End {
				continue
			}
			if _, ok := stepFns[next]; !ok {
				return fmt.Errorf("router for %q targets unknown step %q", name, next)
			}
		}
	}
	return nil
}
