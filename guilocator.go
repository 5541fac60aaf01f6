// Package guilocator turns a natural-language instruction and a screenshot
// into an on-screen coordinate using a vision-language model.
//
// The pipeline resizes the screenshot to model-compatible dimensions, builds
// a prompt embedding the coordinate JSON schema, drives bounded deterministic
// generation, splits the returned token stream into reasoning and answer
// segments, and validates the answer as a normalized [0,1000] coordinate pair
// mapped back to pixel space.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		guilocator "github.com/menta2k/gui-locator"
//		"github.com/menta2k/gui-locator/pkg/ollama"
//	)
//
//	func main() {
//		// The model is an injected capability; any client.Generator works.
//		gen, err := ollama.NewClient("http://localhost:11434", "hcompany/holo2-4b", nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		locator := guilocator.New(gen)
//		result, err := locator.LocateFile(context.Background(), "screenshot.png", "click the submit button")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("click at (%d,%d) normalized / (%.1f,%.1f) px\n",
//			result.Coordinates.X, result.Coordinates.Y,
//			result.Coordinates.XPixel, result.Coordinates.YPixel)
//	}
//
// The package consists of these main components:
//
// 1. Geometry (pkg/geometry): max-dimension pre-resize and patch/merge grid alignment
// 2. Prompt (pkg/prompt): instruction + schema + task + image prompt construction
// 3. Generation (pkg/client, pkg/generation): injected generation capability with lifecycle
// 4. Token stream (pkg/vocab, pkg/tokenstream): sentinel-based reasoning/answer split
// 5. Result (pkg/result): strict coordinate validation and pixel mapping
//
// Failures are typed and recoverable per request: InvalidImageError,
// EmptyTaskError, GenerationError, and ParseError (which carries the raw
// model output and reasoning text for debugging).
package guilocator

import (
	"context"
	"image"

	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/pipeline"
	"github.com/menta2k/gui-locator/pkg/processing"
	"github.com/menta2k/gui-locator/pkg/types"
)

// Version of the gui-locator library
const Version = "1.0.0"

// Locator provides a high-level interface for GUI element localization
type Locator struct {
	pipeline  *pipeline.Pipeline
	processor *processing.Processor
}

// New creates a new Locator with default configuration around a generator
func New(gen client.Generator) *Locator {
	return NewWithConfig(gen, pipeline.DefaultConfig())
}

// NewWithConfig creates a new Locator with custom pipeline configuration
func NewWithConfig(gen client.Generator, cfg pipeline.Config) *Locator {
	return &Locator{
		pipeline:  pipeline.NewWithConfig(gen, cfg),
		processor: processing.NewProcessor(),
	}
}

// Locate runs the localization pipeline on an in-memory image
func (l *Locator) Locate(ctx context.Context, img image.Image, task string) (*types.LocateResult, error) {
	return l.pipeline.Locate(ctx, img, task)
}

// LocateFile loads a screenshot from a file path or URL and localizes the task
func (l *Locator) LocateFile(ctx context.Context, source, task string) (*types.LocateResult, error) {
	img, err := l.processor.LoadImageSmart(source)
	if err != nil {
		return nil, err
	}
	return l.pipeline.Locate(ctx, img, task)
}

// LocateBase64 decodes a base64 or data-URL screenshot and localizes the task
func (l *Locator) LocateBase64(ctx context.Context, data, task string) (*types.LocateResult, error) {
	img, err := l.processor.DecodeBase64(data)
	if err != nil {
		return nil, err
	}
	return l.pipeline.Locate(ctx, img, task)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
