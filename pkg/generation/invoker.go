// Package generation drives the model's token generation for a prompt with
// bounded output length and deterministic decoding.
package generation

import (
	"context"

	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/types"
)

// DefaultMaxTokens caps generation. The expected answer is a short JSON
// object like {"x":512,"y":384}.
const DefaultMaxTokens = 32

// Invoker calls the generation capability with fixed decoding options.
type Invoker struct {
	gen  client.Generator
	opts client.Options
}

// NewInvoker creates an invoker with deterministic decoding and the default
// token cap. maxTokens <= 0 selects the default.
func NewInvoker(gen client.Generator, maxTokens int) *Invoker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Invoker{
		gen:  gen,
		opts: client.Options{MaxTokens: maxTokens, Deterministic: true},
	}
}

// Invoke runs generation for the prompt and returns the raw token sequence.
// Backend failures surface as GenerationError.
func (i *Invoker) Invoke(ctx context.Context, p *prompt.Prompt) (types.TokenSequence, error) {
	tokens, err := i.gen.Generate(ctx, p, i.opts)
	if err != nil {
		return nil, &types.GenerationError{Err: err}
	}
	return tokens, nil
}
