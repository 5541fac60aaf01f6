// Package ollama implements the generation capability against an Ollama
// server. The model's answer is constrained to the coordinate schema via the
// chat Format field.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/types"
	"github.com/menta2k/gui-locator/pkg/vocab"
)

// Client wraps the Ollama API client as a client.Generator.
type Client struct {
	client *api.Client
	model  string
	codec  vocab.Codec
}

// NewClient creates a new Ollama-backed generator for the given model.
func NewClient(ollamaURL, model string, codec vocab.Codec) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Base URL only; paths like /api/chat are added by the SDK.
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	if codec == nil {
		codec = vocab.Default()
	}

	return &Client{
		client: api.NewClient(baseURL, http.DefaultClient),
		model:  model,
		codec:  codec,
	}, nil
}

// Generate sends the prompt and image to the model and returns the response
// as a token sequence. Ollama reports reasoning separately from the answer;
// it is re-wrapped in the vocabulary's sentinel tokens so the stream carries
// the same structure a local runner would emit.
func (c *Client) Generate(ctx context.Context, p *prompt.Prompt, opts client.Options) (types.TokenSequence, error) {
	// Add timeout if context doesn't have one (CPU inference can be slow).
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	options := map[string]any{}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if opts.Deterministic {
		options["temperature"] = 0.0
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: p.Text,
				Images:  []api.ImageData{api.ImageData(p.ImageData)},
			},
		},
		Stream:  &streamFalse,
		Options: options,
		Format:  json.RawMessage(prompt.SchemaJSON),
	}

	var content, thinking string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content = resp.Message.Content
		thinking = resp.Message.Thinking
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %v", err)
	}
	if content == "" && thinking == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	text := content
	if thinking != "" {
		text = "<think>" + thinking + "</think>\n" + content
	}
	return c.codec.Encode(text), nil
}
