package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// SelectionStatus is the verdict of the selection oracle.
type SelectionStatus string

const (
	SelectionSelected  SelectionStatus = "SELECTED"
	SelectionNoMatch   SelectionStatus = "NO_MATCH"
	SelectionAmbiguous SelectionStatus = "AMBIGUOUS"
	SelectionEstimated SelectionStatus = "ESTIMATED"
)

// IntentResult is the structured reading of the latest user message.
// Items must be empty unless Action implies food items (LOG_FOOD or
// QUERY_FOOD_INFO); the parser enforces this contract.
type IntentResult struct {
	Action     Action
	Items      []FoodItem
	MealType   string
	TargetDate *Date
	RangeStart *Date
	RangeEnd   *Date
}

// SelectionResult is the selection oracle's verdict for one pending item.
// FoodID accompanies SELECTED; Estimated accompanies ESTIMATED and carries
// per-100g fallback macros.
type SelectionResult struct {
	Status    SelectionStatus
	FoodID    *int64
	Estimated *Macros
	Reason    string
}

// IntentOracle turns conversation history into a structured intent.
// Implementations must be deterministic given identical history so that a
// replayed turn reproduces its original state.
type IntentOracle interface {
	Parse(ctx context.Context, history []*schema.Message) (*IntentResult, error)
}

// SelectionOracle picks the best catalog candidate for a user item, or
// estimates macros when the catalog has nothing usable.
type SelectionOracle interface {
	Select(ctx context.Context, item FoodItem, candidates []Candidate) (*SelectionResult, error)
}

// TextOracle produces the user-facing reply from an action-scoped context
// and the conversation history.
type TextOracle interface {
	Generate(ctx context.Context, systemContext string, history []*schema.Message) (string, error)
}

// Catalog is the food catalog boundary: name search plus macro computation.
// Search returns at most a store-configured number of candidates and never
// leaks nutritional fields.
type Catalog interface {
	Search(ctx context.Context, name string) ([]Candidate, error)
	Macros(ctx context.Context, id int64, amount float64) (*Macros, error)
}

// NewLogEntry is the input for persisting one food-log row. FoodID is nil for
// estimation-backed entries.
type NewLogEntry struct {
	FoodID     *int64
	Amount     float64
	Macros     Macros
	Timestamp  time.Time
	MealType   string
	SourceText string
}

// FoodLog is the persistence boundary for confirmed log entries.
type FoodLog interface {
	CreateEntry(ctx context.Context, entry NewLogEntry) (string, error)
	ByDate(ctx context.Context, d Date) ([]LogRow, error)
	ByRange(ctx context.Context, start, end Date) ([]LogRow, error)
	TotalsByDate(ctx context.Context, d Date) (Macros, error)
}
