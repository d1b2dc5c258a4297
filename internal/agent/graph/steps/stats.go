package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// NewStatsLookupStep creates the range/point lookup step. An explicit range
// wins over the single target date. With no date at all the report stays
// empty unless defaultToToday is on, in which case today is queried.
func NewStatsLookupStep(log model.FoodLog, defaultToToday bool, now func() time.Time) Func {
	return func(ctx context.Context, s *model.State) (model.Update, error) {
		var (
			rows []model.LogRow
			err  error
		)

		switch {
		case s.HasRange():
			rows, err = log.ByRange(ctx, *s.RangeStart, *s.RangeEnd)
		case s.TargetDate != nil:
			rows, err = log.ByDate(ctx, *s.TargetDate)
		case defaultToToday:
			rows, err = log.ByDate(ctx, model.DateOf(now()))
		default:
			// no date supplied and no default configured
		}
		if err != nil {
			return model.Update{}, fmt.Errorf("stats lookup: %w", err)
		}

		logx.Debug().Int("rows", len(rows)).Msg("log report fetched")
		return model.Update{SetReportRows: true, ReportRows: rows}, nil
	}
}
