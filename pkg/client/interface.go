package client

import (
	"context"

	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/types"
)

// Options controls a single generation call.
type Options struct {
	// MaxTokens caps the output length. The answer is a short JSON object,
	// not prose.
	MaxTokens int
	// Deterministic disables sampling so identical inputs produce identical
	// coordinates.
	Deterministic bool
}

// Generator is the generation capability: a black box turning a prompt plus
// image into a token sequence. Implementations own no pipeline state and
// perform no interpretation of the tokens they return.
type Generator interface {
	Generate(ctx context.Context, p *prompt.Prompt, opts Options) (types.TokenSequence, error)
}
