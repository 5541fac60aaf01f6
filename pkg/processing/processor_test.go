package processing

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/menta2k/gui-locator/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func encodePNGBase64(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeBase64(t *testing.T) {
	p := NewProcessor()
	encoded := encodePNGBase64(t, createTestImage(64, 48))

	img, err := p.DecodeBase64(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("expected 64x48, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecodeBase64DataURL(t *testing.T) {
	p := NewProcessor()
	encoded := "data:image/png;base64," + encodePNGBase64(t, createTestImage(32, 32))

	img, err := p.DecodeBase64(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64 with data URL prefix failed: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("expected width 32, got %d", img.Bounds().Dx())
	}
}

func TestDecodeBase64Invalid(t *testing.T) {
	p := NewProcessor()

	tests := []string{
		"not base64 at all!!!",
		base64.StdEncoding.EncodeToString([]byte("not an image")),
	}

	for _, input := range tests {
		_, err := p.DecodeBase64(input)
		if err == nil {
			t.Errorf("expected %q to be rejected", input)
			continue
		}
		var invalid *types.InvalidImageError
		if !errors.As(err, &invalid) {
			t.Errorf("expected InvalidImageError, got %T: %v", err, err)
		}
	}
}

func TestDataURLFromPNG(t *testing.T) {
	p := NewProcessor()

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(16, 16)); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	url := p.DataURLFromPNG(buf.Bytes())
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got %q", url[:min(len(url), 40)])
	}

	// Round trip through the decoder.
	img, err := p.DecodeBase64(url)
	if err != nil {
		t.Fatalf("decoding the data URL failed: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("expected 16x16, got %v", img.Bounds())
	}
}

func TestCreateClickOverlay(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(200, 100)

	overlay := p.CreateClickOverlay(img, 100, 50)

	if overlay.Bounds() != img.Bounds() {
		t.Errorf("overlay changed dimensions: %v vs %v", overlay.Bounds(), img.Bounds())
	}

	// The crosshair center pixel must be marked.
	r, g, b, _ := overlay.At(100, 50).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("expected red crosshair at click point, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// The source image must not be mutated.
	or, og, ob, _ := img.At(100, 50).RGBA()
	if or>>8 == 255 && og>>8 == 0 && ob>>8 == 0 {
		t.Error("source image was mutated by the overlay")
	}
}

func TestCreateClickOverlayClampsOutOfBounds(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(100, 100)

	// Must not panic for coordinates outside the image.
	overlay := p.CreateClickOverlay(img, -50, 500)
	if overlay == nil {
		t.Fatal("expected an overlay image")
	}
}
