// README: Provider contract for generative itinerary calls.
package ai

import "context"

// Generator sends a prompt to a generative model and returns its raw text.
// Implementations should honour ctx, but callers never rely on it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
