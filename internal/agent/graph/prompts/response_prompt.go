package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/model"
)

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// RenderResponseSystem renders the dynamic response system prompt with the
// coach persona and the action-scoped context JSON built by the summary step.
func RenderResponseSystem(ctx context.Context, cfg model.ResponsePromptConfig, contextJSON string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(responseSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"CoachName":   cfg.CoachName,
		"Persona":     cfg.Persona,
		"ContextJSON": contextJSON,
	})
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}
