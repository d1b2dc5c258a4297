package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// summaryContext is the action-scoped slice of state handed to the text
// oracle. Only the fields relevant to the last action are populated to keep
// the oracle's context lean.
type summaryContext struct {
	LastAction model.Action       `json:"last_action"`
	Results    []model.ItemResult `json:"processing_results,omitempty"`
	Report     []model.LogRow     `json:"log_report,omitempty"`
	Totals     *model.Macros      `json:"daily_totals,omitempty"`
	TargetDate string             `json:"target_date,omitempty"`
	RangeStart string             `json:"range_start,omitempty"`
	RangeEnd   string             `json:"range_end,omitempty"`
}

// NewSummaryStep creates the terminal step: it frames the turn outcome for
// the text oracle and appends the generated reply to the conversation.
func NewSummaryStep(oracle model.TextOracle, log model.FoodLog) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		sc := summaryContext{LastAction: s.LastAction}

		switch s.LastAction {
		case model.ActionLogged, model.ActionSelected, model.ActionNoMatch,
			model.ActionEstimated, model.ActionFailed:
			sc.Results = s.ProcessingResults

		case model.ActionQueryDailyStats:
			sc.Report = s.ReportRows
			if s.HasRange() {
				sc.RangeStart = s.RangeStart.String()
				sc.RangeEnd = s.RangeEnd.String()
			} else if s.TargetDate != nil {
				sc.TargetDate = s.TargetDate.String()
				totals, err := log.TotalsByDate(ctx, *s.TargetDate)
				if err != nil {
					return model.Update{}, fmt.Errorf("daily totals: %w", err)
				}
				sc.Totals = &totals
			}
		}
		// chitchat and unknown actions keep the context minimal

		b, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return model.Update{}, fmt.Errorf("marshal summary context: %w", err)
		}

		reply, err := oracle.Generate(ctx, string(b), s.Messages)
		if err != nil {
			return model.Update{}, fmt.Errorf("generate summary: %w", err)
		}

		logx.Debug().Int("context_bytes", len(b)).Msg("summary generated")
		return model.Update{
			AppendMessages: []*schema.Message{schema.AssistantMessage(reply, nil)},
		}, nil
	}
}
