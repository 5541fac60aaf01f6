package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/types"
	"github.com/menta2k/gui-locator/pkg/vocab"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}
	return img
}

// stubGenerator is a deterministic substitute for the generation capability.
type stubGenerator struct {
	tokens     types.TokenSequence
	err        error
	called     bool
	lastPrompt *prompt.Prompt
	lastOpts   client.Options
}

func (s *stubGenerator) Generate(ctx context.Context, p *prompt.Prompt, opts client.Options) (types.TokenSequence, error) {
	s.called = true
	s.lastPrompt = p
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

func TestLocateEndToEnd(t *testing.T) {
	codec := vocab.Default()
	stub := &stubGenerator{tokens: codec.Encode(`{"x":900,"y":10}`)}
	p := New(stub)

	// 2560x1440 pre-resizes to 1280x720 and grid-aligns to 1288x728.
	img := createTestImage(2560, 1440)
	result, err := p.Locate(context.Background(), img, "click the OK button")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if result.ImageWidth != 1288 || result.ImageHeight != 728 {
		t.Errorf("expected processed dimensions 1288x728, got %dx%d", result.ImageWidth, result.ImageHeight)
	}

	if result.Coordinates.X != 900 || result.Coordinates.Y != 10 {
		t.Errorf("expected coordinate (900,10), got (%d,%d)", result.Coordinates.X, result.Coordinates.Y)
	}

	wantX := 900.0 / 1000 * 1288
	wantY := 10.0 / 1000 * 728
	if math.Abs(result.Coordinates.XPixel-wantX) > 1e-9 || math.Abs(result.Coordinates.YPixel-wantY) > 1e-9 {
		t.Errorf("expected pixel (%.3f,%.3f), got (%.3f,%.3f)",
			wantX, wantY, result.Coordinates.XPixel, result.Coordinates.YPixel)
	}

	if result.Task != "click the OK button" {
		t.Errorf("expected task echoed, got %q", result.Task)
	}
	if !strings.Contains(stub.lastPrompt.Text, "click the OK button") {
		t.Error("prompt sent to the generator does not contain the task verbatim")
	}
	if !strings.HasPrefix(result.ProcessedImage, "data:image/png;base64,") {
		t.Error("processed image is not a PNG data URL")
	}
	if result.RawContent != `{"x":900,"y":10}` {
		t.Errorf("expected raw content preserved, got %q", result.RawContent)
	}
}

func TestLocateWithReasoning(t *testing.T) {
	codec := vocab.Default()
	stub := &stubGenerator{
		tokens: codec.Encode("<think>\nthe submit button is centered\n</think>\n" + `{"x":500,"y":500}`),
	}
	p := New(stub)

	result, err := p.Locate(context.Background(), createTestImage(800, 600), "click submit")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if result.Thinking != "the submit button is centered" {
		t.Errorf("expected reasoning text, got %q", result.Thinking)
	}
}

func TestLocateEmptyTaskSkipsGeneration(t *testing.T) {
	stub := &stubGenerator{}
	p := New(stub)

	_, err := p.Locate(context.Background(), createTestImage(800, 600), "   ")
	if err == nil {
		t.Fatal("expected empty task to fail")
	}

	var emptyTask *types.EmptyTaskError
	if !errors.As(err, &emptyTask) {
		t.Errorf("expected EmptyTaskError, got %T: %v", err, err)
	}
	if stub.called {
		t.Error("generation capability must not be called for an empty task")
	}
}

func TestLocateInvalidImage(t *testing.T) {
	stub := &stubGenerator{}
	p := New(stub)

	_, err := p.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)), "click ok")
	if err == nil {
		t.Fatal("expected degenerate image to fail")
	}

	var invalid *types.InvalidImageError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidImageError, got %T: %v", err, err)
	}
	if stub.called {
		t.Error("generation capability must not be called for an invalid image")
	}
}

func TestLocateGenerationFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("out of memory")}
	p := New(stub)

	_, err := p.Locate(context.Background(), createTestImage(800, 600), "click ok")
	if err == nil {
		t.Fatal("expected generation failure to propagate")
	}

	var genErr *types.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError, got %T: %v", err, err)
	}
}

func TestLocateParseFailureCarriesDiagnostics(t *testing.T) {
	codec := vocab.Default()
	stub := &stubGenerator{
		tokens: codec.Encode("<think>hmm</think>\nclick here"),
	}
	p := New(stub)

	_, err := p.Locate(context.Background(), createTestImage(800, 600), "click ok")
	if err == nil {
		t.Fatal("expected non-JSON answer to fail")
	}

	var perr *types.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if perr.RawContent != "click here" {
		t.Errorf("expected raw content %q, got %q", "click here", perr.RawContent)
	}
	if perr.Thinking != "hmm" {
		t.Errorf("expected reasoning %q, got %q", "hmm", perr.Thinking)
	}
}

func TestLocateDeterministicOptions(t *testing.T) {
	codec := vocab.Default()
	stub := &stubGenerator{tokens: codec.Encode(`{"x":1,"y":2}`)}
	p := New(stub)

	if _, err := p.Locate(context.Background(), createTestImage(800, 600), "click ok"); err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if !stub.lastOpts.Deterministic {
		t.Error("generation should be deterministic")
	}
	if stub.lastOpts.MaxTokens != 32 {
		t.Errorf("expected default token cap 32, got %d", stub.lastOpts.MaxTokens)
	}
}

func BenchmarkLocate(b *testing.B) {
	codec := vocab.Default()
	stub := &stubGenerator{tokens: codec.Encode(`{"x":500,"y":500}`)}
	p := New(stub)
	img := createTestImage(1920, 1080)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Locate(context.Background(), img, "click the OK button")
	}
}
