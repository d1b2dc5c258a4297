package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/selection_prompt.txt
var selectionSystemPrompt string

// RenderSelectionSystem renders the selection system prompt. The template is
// static; rendering through the Eino prompt component keeps prompt callbacks
// uniform across oracles.
func RenderSelectionSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(selectionSystemPrompt)},
	})
	if err != nil {
		return "", fmt.Errorf("selection prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("selection prompt render: empty result")
	}
	return msgs[0].Content, nil
}
