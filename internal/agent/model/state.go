package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
)

// ErrInvariant marks a state invariant violation. The executor treats it as a
// fatal internal-logic error and refuses to persist the offending update.
var ErrInvariant = errors.New("state invariant violated")

// Action tags the most recently completed step outcome. Routing and response
// framing read this tag and nothing else from the conversation content.
type Action string

const (
	ActionNone Action = ""

	// Intent tags produced by the intent oracle.
	ActionLogFood        Action = "LOG_FOOD"
	ActionQueryFoodInfo  Action = "QUERY_FOOD_INFO"
	ActionQueryDailyStats Action = "QUERY_DAILY_STATS"
	ActionChitchat       Action = "CHITCHAT"

	// Per-item outcomes produced by the selection and compute steps.
	ActionSelected  Action = "SELECTED"
	ActionNoMatch   Action = "NO_MATCH"
	ActionEstimated Action = "ESTIMATED"
	ActionLogged    Action = "LOGGED"
	ActionFailed    Action = "FAILED"
)

// ResultStatus classifies a per-item processing outcome.
type ResultStatus string

const (
	ResultResolved ResultStatus = "RESOLVED"
	ResultFailed   ResultStatus = "FAILED"
)

// FoodItem is one food mention extracted from user input, pending processing.
type FoodItem struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	MealType   string  `json:"meal_type,omitempty"`
	SourceText string  `json:"source_text"`
}

// Candidate is a catalog search hit. It deliberately carries no nutritional
// fields; macros are only reachable through the macro lookup.
type Candidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Macros holds nutritional values, either per 100 g (catalog rows, estimations)
// or already scaled to a consumed amount (log rows).
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ScaleTo returns the macros for the given amount, treating the receiver as
// per-100g values. Scaling is strictly linear.
func (m Macros) ScaleTo(amount float64) Macros {
	f := amount / 100.0
	return Macros{
		Calories: m.Calories * f,
		Protein:  m.Protein * f,
		Carbs:    m.Carbs * f,
		Fat:      m.Fat * f,
	}
}

// ItemResult records the outcome of processing one pending item.
type ItemResult struct {
	Item    FoodItem     `json:"item"`
	Status  ResultStatus `json:"status"`
	Message string       `json:"message"`
}

// LogRow is one persisted food-log entry as returned by a date or range lookup.
type LogRow struct {
	ID         string    `json:"id"`
	FoodID     *int64    `json:"food_id,omitempty"`
	Amount     float64   `json:"amount"`
	Macros     Macros    `json:"macros"`
	Timestamp  time.Time `json:"timestamp"`
	MealType   string    `json:"meal_type,omitempty"`
	SourceText string    `json:"source_text,omitempty"`
}

// State is the conversation state threading through every step of a turn.
// It is mutated only by Apply; steps return partial Updates and never write
// to it directly.
type State struct {
	Messages          []*schema.Message `json:"messages"`
	PendingItems      []FoodItem        `json:"pending_items"`
	LastAction        Action            `json:"last_action"`
	SearchResults     []Candidate       `json:"search_results"`
	SelectedID        *int64            `json:"selected_id,omitempty"`
	CurrentEstimation *Macros           `json:"current_estimation,omitempty"`
	ProcessingResults []ItemResult      `json:"processing_results"`
	ReportRows        []LogRow          `json:"report_rows"`
	TargetDate        *Date             `json:"target_date,omitempty"`
	RangeStart        *Date             `json:"range_start,omitempty"`
	RangeEnd          *Date             `json:"range_end,omitempty"`
}

// NewState returns the empty state for a thread seen for the first time.
func NewState() *State {
	return &State{}
}

// Update is a partial state change produced by one step. Slice fields that
// overwrite carry an explicit Set flag so an empty overwrite is
// distinguishable from "no change"; optional scalars use a pointer plus an
// explicit Clear flag for the same reason.
type Update struct {
	// Messages are append-only, never replaced.
	AppendMessages []*schema.Message

	// PendingItems replace the queue wholesale when SetPendingItems is true.
	PendingItems    []FoodItem
	SetPendingItems bool

	// LastAction updates the tag unless ActionNone.
	LastAction Action

	// SearchResults overwrite the previous search when SetSearchResults is true.
	SearchResults    []Candidate
	SetSearchResults bool

	SelectedID      *int64
	ClearSelectedID bool

	Estimation      *Macros
	ClearEstimation bool

	// ProcessingResults accumulate across a turn; ClearResults empties them
	// first (used by the intent step at turn start).
	AppendResults []ItemResult
	ClearResults  bool

	ReportRows    []LogRow
	SetReportRows bool

	// Date fields. ClearDates wipes all three before the pointers are applied,
	// so a step can atomically switch between single-date and range mode.
	TargetDate *Date
	RangeStart *Date
	RangeEnd   *Date
	ClearDates bool
}

// Apply merges a partial update into the state, one rule per field, then
// checks the state invariants. A violating update is rejected as a whole:
// the error is fatal to the turn and the state is left unchanged.
func (s *State) Apply(u Update) error {
	next := s.Clone()

	next.Messages = append(next.Messages, u.AppendMessages...)

	if u.SetPendingItems {
		next.PendingItems = u.PendingItems
	}
	if u.LastAction != ActionNone {
		next.LastAction = u.LastAction
	}
	if u.SetSearchResults {
		next.SearchResults = u.SearchResults
	}
	if u.ClearSelectedID {
		next.SelectedID = nil
	}
	if u.SelectedID != nil {
		next.SelectedID = u.SelectedID
	}
	if u.ClearEstimation {
		next.CurrentEstimation = nil
	}
	if u.Estimation != nil {
		next.CurrentEstimation = u.Estimation
	}
	if u.ClearResults {
		next.ProcessingResults = nil
	}
	next.ProcessingResults = append(next.ProcessingResults, u.AppendResults...)
	if u.SetReportRows {
		next.ReportRows = u.ReportRows
	}
	if u.ClearDates {
		next.TargetDate, next.RangeStart, next.RangeEnd = nil, nil, nil
	}
	if u.TargetDate != nil {
		next.TargetDate = u.TargetDate
	}
	if u.RangeStart != nil {
		next.RangeStart = u.RangeStart
	}
	if u.RangeEnd != nil {
		next.RangeEnd = u.RangeEnd
	}

	if err := next.checkInvariants(); err != nil {
		return err
	}
	*s = *next
	return nil
}

// checkInvariants verifies the structural rules that no reachable state may
// break. Violations indicate a step-logic bug, not bad user input.
func (s *State) checkInvariants() error {
	if s.TargetDate != nil && (s.RangeStart != nil || s.RangeEnd != nil) {
		return fmt.Errorf("%w: target date and range set simultaneously", ErrInvariant)
	}
	if (s.RangeStart == nil) != (s.RangeEnd == nil) {
		return fmt.Errorf("%w: half-open date range", ErrInvariant)
	}
	if s.SelectedID != nil && s.CurrentEstimation != nil {
		return fmt.Errorf("%w: selected id and estimation set simultaneously", ErrInvariant)
	}
	return nil
}

// HeadItem returns the head of the pending queue, or false when empty.
func (s *State) HeadItem() (FoodItem, bool) {
	if len(s.PendingItems) == 0 {
		return FoodItem{}, false
	}
	return s.PendingItems[0], true
}

// HasRange reports whether the state is in range mode.
func (s *State) HasRange() bool {
	return s.RangeStart != nil && s.RangeEnd != nil
}

// Clone returns a deep copy; checkpoints snapshot the clone so later steps
// cannot mutate persisted history.
func (s *State) Clone() *State {
	c := &State{LastAction: s.LastAction}
	if s.Messages != nil {
		c.Messages = make([]*schema.Message, len(s.Messages))
		copy(c.Messages, s.Messages)
	}
	if s.PendingItems != nil {
		c.PendingItems = append([]FoodItem(nil), s.PendingItems...)
	}
	if s.SearchResults != nil {
		c.SearchResults = append([]Candidate(nil), s.SearchResults...)
	}
	if s.SelectedID != nil {
		id := *s.SelectedID
		c.SelectedID = &id
	}
	if s.CurrentEstimation != nil {
		est := *s.CurrentEstimation
		c.CurrentEstimation = &est
	}
	if s.ProcessingResults != nil {
		c.ProcessingResults = append([]ItemResult(nil), s.ProcessingResults...)
	}
	if s.ReportRows != nil {
		c.ReportRows = append([]LogRow(nil), s.ReportRows...)
	}
	if s.TargetDate != nil {
		d := *s.TargetDate
		c.TargetDate = &d
	}
	if s.RangeStart != nil {
		d := *s.RangeStart
		c.RangeStart = &d
	}
	if s.RangeEnd != nil {
		d := *s.RangeEnd
		c.RangeEnd = &d
	}
	return c
}
