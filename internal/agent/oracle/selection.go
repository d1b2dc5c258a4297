package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/graph/parsers"
	"github.com/nutripal/server/internal/agent/graph/prompts"
	"github.com/nutripal/server/internal/agent/model"
)

// GeminiSelectionOracle judges catalog candidates against the user's item.
type GeminiSelectionOracle struct {
	cm        *gemini.ChatModel
	modelName string
}

func NewGeminiSelectionOracle(cm *gemini.ChatModel, modelName string) *GeminiSelectionOracle {
	return &GeminiSelectionOracle{cm: cm, modelName: modelName}
}

func (o *GeminiSelectionOracle) Select(ctx context.Context, item model.FoodItem, candidates []model.Candidate) (*model.SelectionResult, error) {
	systemPrompt, err := prompts.RenderSelectionSystem(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User input: %s\n\n", item.SourceText)
	if len(candidates) == 0 {
		b.WriteString("Search results: (none)\n")
	} else {
		b.WriteString("Search results:\n")
		for _, c := range candidates {
			fmt.Fprintf(&b, "- ID %d: %s\n", c.ID, c.Name)
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(b.String()),
	}

	out, err := o.cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("selection model: %w", err)
	}
	logUsage(o.modelName, "selection", out)

	return parsers.ParseSelectionResponse(out.Content)
}

var _ model.SelectionOracle = (*GeminiSelectionOracle)(nil)
