package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nutripal/server/internal/agent/model"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

// RenderIntentSystem renders the intent-parser system prompt via the Eino
// prompt component. Today's date anchors relative-date resolution.
func RenderIntentSystem(ctx context.Context, today model.Date) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(intentSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Today": today.String(),
	})
	if err != nil {
		return "", fmt.Errorf("intent prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("intent prompt render: empty result")
	}
	return msgs[0].Content, nil
}
