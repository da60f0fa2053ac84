package narrator

import "context"

// Provider abstracts the AI API (Claude, Gemini, etc.).
type Provider interface {
	// Generate returns a single text completion for prompt.
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}
