package ai

import "context"

// LLMProvider sends a prompt to a language model and returns the raw text
// completion.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
