// Package parsers turns raw oracle model output into typed results. Model
// output is untrusted: everything here is size-capped, panic-guarded and
// validated before it reaches the graph.
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

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxItems      = 50
)

type intentWire struct {
	Action     string `json:"action"`
	Items      []struct {
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		Unit       string  `json:"unit"`
		SourceText string  `json:"source_text"`
	} `json:"items"`
	MealType   string  `json:"meal_type"`
	TargetDate *string `json:"target_date"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

// ParseIntentResponse parses the intent oracle's JSON reply. Items are
// dropped unless the action implies food items; malformed items are skipped
// rather than failing the whole parse.
func ParseIntentResponse(content string) (res *model.IntentResult, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "intent_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("intent parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			res = nil
		}
	}()

	body, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("intent response: %w", err)
	}

	var wire intentWire
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, fmt.Errorf("intent response json: %w", err)
	}

	action, err := parseAction(wire.Action)
	if err != nil {
		return nil, err
	}

	res = &model.IntentResult{Action: action, MealType: strings.TrimSpace(wire.MealType)}

	// contract: items only accompany food-bearing intents
	if action == model.ActionLogFood || action == model.ActionQueryFoodInfo {
		if len(wire.Items) > maxItems {
			logx.Warn().Int("items", len(wire.Items)).Msg("intent item list capped")
			wire.Items = wire.Items[:maxItems]
		}
		for _, it := range wire.Items {
			name := strings.TrimSpace(it.Name)
			if name == "" || it.Amount <= 0 {
				logx.Warn().Str("name", it.Name).Float64("amount", it.Amount).Msg("skipping malformed intent item")
				continue
			}
			unit := strings.TrimSpace(it.Unit)
			if unit == "" {
				unit = "g"
			}
			source := strings.TrimSpace(it.SourceText)
			if source == "" {
				source = name
			}
			res.Items = append(res.Items, model.FoodItem{
				Name:       name,
				Amount:     it.Amount,
				Unit:       unit,
				SourceText: source,
			})
		}
	}

	if res.TargetDate, err = parseOptionalDate(wire.TargetDate, "target_date"); err != nil {
		return nil, err
	}
	if res.RangeStart, err = parseOptionalDate(wire.StartDate, "start_date"); err != nil {
		return nil, err
	}
	if res.RangeEnd, err = parseOptionalDate(wire.EndDate, "end_date"); err != nil {
		return nil, err
	}
	// a half range is as good as no range
	if (res.RangeStart == nil) != (res.RangeEnd == nil) {
		logx.Warn().Msg("half-open date range from intent oracle, dropping")
		res.RangeStart, res.RangeEnd = nil, nil
	}
	if res.RangeStart != nil && res.RangeEnd != nil && res.RangeEnd.Before(*res.RangeStart) {
		res.RangeStart, res.RangeEnd = res.RangeEnd, res.RangeStart
	}

	return res, nil
}

func parseAction(s string) (model.Action, error) {
	switch a := model.Action(strings.TrimSpace(s)); a {
	case model.ActionLogFood, model.ActionQueryFoodInfo, model.ActionQueryDailyStats, model.ActionChitchat:
		return a, nil
	default:
		return model.ActionNone, fmt.Errorf("unknown intent action %q", s)
	}
}

func parseOptionalDate(s *string, name string) (*model.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" || strings.EqualFold(strings.TrimSpace(*s), "null") {
		return nil, nil
	}
	d, err := model.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &d, nil
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object in the content.
func extractJSON(content string) (string, error) {
	if len(content) > maxContentLen {
		logx.Warn().
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("oracle content truncated due to size limit")
		content = content[:maxContentLen]
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no json object found")
	}
	return content[start : end+1], nil
}
