package oracle

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// buildConversationContext flattens recent history into the tagged textual
// form the intent prompt expects, with the latest user message singled out
// for analysis.
func buildConversationContext(messages []*schema.Message, maxTurns int) string {
	var current string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i] != nil && messages[i].Role == schema.User {
			current = messages[i].Content
			break
		}
	}

	recent := trimTail(messages, maxTurns)

	var b strings.Builder
	b.WriteString("<conversation_context>\n")
	for _, msg := range recent {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			b.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			b.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}
	b.WriteString("</conversation_context>\n")
	b.WriteString("<current_message_to_analyze>\n")
	b.WriteString("UserMessage(" + current + ")\n")
	b.WriteString("</current_message_to_analyze>")
	return b.String()
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
