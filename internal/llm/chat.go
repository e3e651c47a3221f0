package llm

import "context"

// ChatModel produces a completion for a system instruction plus user message.
type ChatModel interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
