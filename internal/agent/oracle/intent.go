package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/graph/parsers"
	"github.com/nutripal/server/internal/agent/graph/prompts"
	"github.com/nutripal/server/internal/agent/model"
)

// GeminiIntentOracle reads conversation history into a structured intent.
type GeminiIntentOracle struct {
	cm        *gemini.ChatModel
	modelName string
	maxTurns  int
	now       func() time.Time
}

func NewGeminiIntentOracle(cm *gemini.ChatModel, modelName string, maxTurns int) *GeminiIntentOracle {
	return &GeminiIntentOracle{cm: cm, modelName: modelName, maxTurns: maxTurns, now: time.Now}
}

func (o *GeminiIntentOracle) Parse(ctx context.Context, history []*schema.Message) (*model.IntentResult, error) {
	systemPrompt, err := prompts.RenderIntentSystem(ctx, model.DateOf(o.now()))
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(buildConversationContext(history, o.maxTurns)),
	}

	out, err := o.cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("intent model: %w", err)
	}
	logUsage(o.modelName, "intent", out)

	return parsers.ParseIntentResponse(out.Content)
}

var _ model.IntentOracle = (*GeminiIntentOracle)(nil)
