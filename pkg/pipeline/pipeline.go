// Package pipeline runs the full localization transformation: screenshot
// plus task description in, validated coordinate bundle out. One synchronous
// pass per call, no cross-request state.
package pipeline

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/generation"
	"github.com/menta2k/gui-locator/pkg/geometry"
	"github.com/menta2k/gui-locator/pkg/processing"
	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/result"
	"github.com/menta2k/gui-locator/pkg/tokenstream"
	"github.com/menta2k/gui-locator/pkg/types"
	"github.com/menta2k/gui-locator/pkg/vocab"
)

// Config holds pipeline tuning knobs.
type Config struct {
	Geometry  geometry.Config
	MaxTokens int
	Codec     vocab.Codec
	// Sentinel ids delimiting the reasoning segment in the token stream.
	ReasoningStartID int32
	ReasoningEndID   int32
}

// DefaultConfig returns the Holo2 pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Geometry:         geometry.DefaultConfig(),
		MaxTokens:        generation.DefaultMaxTokens,
		Codec:            vocab.Default(),
		ReasoningStartID: vocab.ReasoningStartID,
		ReasoningEndID:   vocab.ReasoningEndID,
	}
}

// Pipeline transforms (image, task) pairs into coordinate results. It holds
// no mutable state; a single Pipeline may serve concurrent requests.
type Pipeline struct {
	cfg     Config
	invoker *generation.Invoker
	proc    *processing.Processor
}

// New creates a pipeline with default configuration around a generator.
func New(gen client.Generator) *Pipeline {
	return NewWithConfig(gen, DefaultConfig())
}

// NewWithConfig creates a pipeline with custom configuration.
func NewWithConfig(gen client.Generator, cfg Config) *Pipeline {
	if cfg.Codec == nil {
		cfg.Codec = vocab.Default()
	}
	if cfg.ReasoningStartID == 0 && cfg.ReasoningEndID == 0 {
		cfg.ReasoningStartID = vocab.ReasoningStartID
		cfg.ReasoningEndID = vocab.ReasoningEndID
	}
	return &Pipeline{
		cfg:     cfg,
		invoker: generation.NewInvoker(gen, cfg.MaxTokens),
		proc:    processing.NewProcessor(),
	}
}

// Locate runs the full pipeline for one request. Failures are typed:
// EmptyTaskError (before generation is ever invoked), InvalidImageError,
// GenerationError, or ParseError carrying the raw model output.
func (p *Pipeline) Locate(ctx context.Context, img image.Image, task string) (*types.LocateResult, error) {
	if strings.TrimSpace(task) == "" {
		return nil, &types.EmptyTaskError{}
	}

	processed, err := geometry.Normalize(img, p.cfg.Geometry)
	if err != nil {
		return nil, err
	}
	bounds := processed.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pr, err := prompt.Build(task, processed)
	if err != nil {
		return nil, err
	}

	tokens, err := p.invoker.Invoke(ctx, pr)
	if err != nil {
		return nil, err
	}

	parsed := tokenstream.Parse(tokens, p.cfg.ReasoningStartID, p.cfg.ReasoningEndID, p.cfg.Codec)

	coord, pixel, err := result.ValidateAndMap(parsed.Answer, width, height)
	if err != nil {
		var perr *types.ParseError
		if errors.As(err, &perr) {
			perr.Thinking = parsed.Reasoning
		}
		return nil, err
	}

	return &types.LocateResult{
		Task: task,
		Coordinates: types.CoordinateBundle{
			X:      coord.X,
			Y:      coord.Y,
			XPixel: pixel.X,
			YPixel: pixel.Y,
		},
		ProcessedImage: p.proc.DataURLFromPNG(pr.ImageData),
		ImageWidth:     width,
		ImageHeight:    height,
		Thinking:       parsed.Reasoning,
		RawContent:     parsed.Answer,
	}, nil
}
