package steps

import (
	"context"
	"fmt"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// NewSelectionStep creates the disambiguation step for the head pending item.
// Edge policy, in order:
//   - zero candidates: ask the oracle anyway — it may estimate macros; any
//     other verdict becomes a FAILED outcome with NO_MATCH.
//   - exactly one candidate: auto-select, oracle bypassed.
//   - multiple candidates: the oracle decides; an inconsistent verdict
//     (SELECTED without an id) degrades to NO_MATCH with a FAILED outcome.
func NewSelectionStep(oracle model.SelectionOracle) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		head, ok := s.HeadItem()
		if !ok {
			// nothing to disambiguate; reachable only through a wiring bug
			logx.Warn().Msg("selection step with empty pending queue")
			return model.Update{LastAction: model.ActionNoMatch}, nil
		}

		if len(s.SearchResults) == 1 {
			id := s.SearchResults[0].ID
			logx.Debug().Int64("food_id", id).Msg("single candidate auto-selected")
			return model.Update{SelectedID: &id, LastAction: model.ActionSelected}, nil
		}

		verdict, err := oracle.Select(ctx, head, s.SearchResults)
		if err != nil {
			return model.Update{}, fmt.Errorf("selection for %q: %w", head.Name, err)
		}

		switch {
		case verdict.Status == model.SelectionSelected && verdict.FoodID != nil:
			return model.Update{SelectedID: verdict.FoodID, LastAction: model.ActionSelected}, nil

		case verdict.Status == model.SelectionEstimated && verdict.Estimated != nil:
			logx.Debug().Str("item", head.Name).Msg("no catalog match, using estimated macros")
			return model.Update{Estimation: verdict.Estimated, LastAction: model.ActionEstimated}, nil

		default:
			// NO_MATCH, AMBIGUOUS, or an inconsistent verdict
			if verdict.Status == model.SelectionSelected {
				logx.Warn().Str("item", head.Name).Msg("selection verdict SELECTED without id, treating as NO_MATCH")
			}
			failed := model.ItemResult{
				Item:    head,
				Status:  model.ResultFailed,
				Message: fmt.Sprintf("No match found for %q", head.Name),
			}
			if verdict.Reason != "" {
				failed.Message = fmt.Sprintf("No match found for %q: %s", head.Name, verdict.Reason)
			}
			return model.Update{
				AppendResults: []model.ItemResult{failed},
				LastAction:    model.ActionNoMatch,
			}, nil
		}
	}
}
