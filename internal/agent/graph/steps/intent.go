package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// NewIntentParserStep creates the entry step. It reads the conversation
// through the intent oracle and opens the turn: pending items replace the
// queue, processing results reset, and exactly one date mode survives.
//
// When the oracle supplies no date at all, the canonical behavior clears all
// three date fields; defaultToToday restores the legacy "assume today"
// reading for deployments that relied on it.
func NewIntentParserStep(oracle model.IntentOracle, defaultToToday bool, now func() time.Time) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		res, err := oracle.Parse(ctx, s.Messages)
		if err != nil {
			return model.Update{}, fmt.Errorf("intent parse: %w", err)
		}

		items := res.Items
		if res.MealType != "" {
			for i := range items {
				if items[i].MealType == "" {
					items[i].MealType = res.MealType
				}
			}
		}

		upd := model.Update{
			SetPendingItems: true,
			PendingItems:    items,
			LastAction:      res.Action,
			ClearResults:    true,
			ClearSelectedID: true,
			ClearEstimation: true,
			ClearDates:      true,
		}

		switch {
		case res.RangeStart != nil && res.RangeEnd != nil:
			// range wins over a single date when the oracle supplies both
			upd.RangeStart = res.RangeStart
			upd.RangeEnd = res.RangeEnd
		case res.TargetDate != nil:
			upd.TargetDate = res.TargetDate
		case defaultToToday:
			today := model.DateOf(now())
			upd.TargetDate = &today
		}

		logx.Debug().
			Str("action", string(res.Action)).
			Int("items", len(items)).
			Msg("intent parsed")

		return upd, nil
	}
}
