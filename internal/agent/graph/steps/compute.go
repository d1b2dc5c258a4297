package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nutripal/server/internal/agent/model"
	"github.com/nutripal/server/internal/catalog"
	logx "github.com/nutripal/server/pkg/logger"
)

// NewCalculateLogStep creates the compute+persist step. It resolves the head
// pending item — catalog macros when an id was selected, scaled estimation
// otherwise — persists one log row and appends a RESOLVED outcome.
//
// The head item is removed unconditionally, selection or not; that removal is
// what guarantees the multi-item loop terminates. A catalog miss writes no
// row and appends no outcome, but the item still leaves the queue.
func NewCalculateLogStep(cat model.Catalog, log model.FoodLog, now func() time.Time) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		head, ok := s.HeadItem()
		if !ok {
			return model.Update{}, nil
		}

		upd := model.Update{
			SetPendingItems: true,
			PendingItems:    s.PendingItems[1:],
			ClearSelectedID: true,
			ClearEstimation: true,
		}

		var macros *model.Macros
		var foodID *int64

		switch {
		case s.SelectedID != nil:
			m, err := cat.Macros(ctx, *s.SelectedID, head.Amount)
			if err != nil {
				if errors.Is(err, catalog.ErrFoodNotFound) {
					// lookup miss: drop the item without a log row
					logx.Warn().Int64("food_id", *s.SelectedID).Msg("selected food vanished from catalog")
					return upd, nil
				}
				return model.Update{}, fmt.Errorf("macro lookup: %w", err)
			}
			macros, foodID = m, s.SelectedID

		case s.CurrentEstimation != nil:
			m := s.CurrentEstimation.ScaleTo(head.Amount)
			macros = &m

		default:
			// prior step produced neither a selection nor an estimation;
			// remove the head anyway so the loop cannot spin
			return upd, nil
		}

		ts := now().UTC()
		if s.TargetDate != nil {
			ts = s.TargetDate.Noon()
		}

		if _, err := log.CreateEntry(ctx, model.NewLogEntry{
			FoodID:     foodID,
			Amount:     head.Amount,
			Macros:     *macros,
			Timestamp:  ts,
			MealType:   head.MealType,
			SourceText: head.SourceText,
		}); err != nil {
			return model.Update{}, fmt.Errorf("persist log entry: %w", err)
		}

		upd.LastAction = model.ActionLogged
		upd.AppendResults = []model.ItemResult{{
			Item:    head,
			Status:  model.ResultResolved,
			Message: fmt.Sprintf("Logged %s (%.0f kcal)", head.Name, macros.Calories),
		}}

		logx.Debug().
			Str("item", head.Name).
			Float64("amount", head.Amount).
			Float64("calories", macros.Calories).
			Msg("log entry persisted")

		return upd, nil
	}
}
