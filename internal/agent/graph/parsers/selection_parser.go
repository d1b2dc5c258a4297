package parsers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nutripal/server/internal/agent/model"
	errx "github.com/nutripal/server/internal/core/error"
	logx "github.com/nutripal/server/pkg/logger"
)

type selectionWire struct {
	Status          string        `json:"status"`
	FoodID          *int64        `json:"food_id"`
	EstimatedMacros *model.Macros `json:"estimated_macros"`
	Reason          string        `json:"reason"`
}

// ParseSelectionResponse parses the selection oracle's JSON verdict. Payload
// inconsistencies are normalized here, not failed: a SELECTED without an id
// and an ESTIMATED without macros both degrade to NO_MATCH so the selection
// step sees only coherent verdicts.
func ParseSelectionResponse(content string) (res *model.SelectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "selection_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("selection parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			res = nil
		}
	}()

	body, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("selection response: %w", err)
	}

	var wire selectionWire
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, fmt.Errorf("selection response json: %w", err)
	}

	status := model.SelectionStatus(strings.TrimSpace(wire.Status))
	switch status {
	case model.SelectionSelected, model.SelectionNoMatch, model.SelectionAmbiguous, model.SelectionEstimated:
	default:
		return nil, fmt.Errorf("unknown selection status %q", wire.Status)
	}

	res = &model.SelectionResult{Status: status, Reason: strings.TrimSpace(wire.Reason)}

	switch status {
	case model.SelectionSelected:
		if wire.FoodID == nil {
			logx.Warn().Msg("selection verdict SELECTED without food_id, downgrading to NO_MATCH")
			res.Status = model.SelectionNoMatch
			return res, nil
		}
		res.FoodID = wire.FoodID
	case model.SelectionEstimated:
		if wire.EstimatedMacros == nil {
			logx.Warn().Msg("selection verdict ESTIMATED without macros, downgrading to NO_MATCH")
			res.Status = model.SelectionNoMatch
			return res, nil
		}
		res.Estimated = wire.EstimatedMacros
	}

	return res, nil
}
