package oracle

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/graph/prompts"
	"github.com/nutripal/server/internal/agent/model"
)

// GeminiTextOracle produces the user-facing reply from the summary context
// and the conversation history.
type GeminiTextOracle struct {
	cm        *gemini.ChatModel
	modelName string
	promptCfg model.ResponsePromptConfig
}

func NewGeminiTextOracle(cm *gemini.ChatModel, modelName string, promptCfg model.ResponsePromptConfig) *GeminiTextOracle {
	return &GeminiTextOracle{cm: cm, modelName: modelName, promptCfg: promptCfg}
}

func (o *GeminiTextOracle) Generate(ctx context.Context, systemContext string, history []*schema.Message) (string, error) {
	systemPrompt, err := prompts.RenderResponseSystem(ctx, o.promptCfg, systemContext)
	if err != nil {
		return "", err
	}

	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history...)

	out, err := o.cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("response model: %w", err)
	}
	logUsage(o.modelName, "text", out)

	return out.Content, nil
}

var _ model.TextOracle = (*GeminiTextOracle)(nil)
