package result

import (
	"errors"
	"strings"
	"testing"

	"github.com/menta2k/gui-locator/pkg/types"
)

func TestValidateAndMapSuccess(t *testing.T) {
	coord, pixel, err := ValidateAndMap(`{"x": 500, "y": 250}`, 800, 600)
	if err != nil {
		t.Fatalf("ValidateAndMap failed: %v", err)
	}

	if coord.X != 500 || coord.Y != 250 {
		t.Errorf("expected coordinate (500,250), got (%d,%d)", coord.X, coord.Y)
	}
	if pixel.X != 400.0 || pixel.Y != 150.0 {
		t.Errorf("expected pixel (400.0,150.0), got (%f,%f)", pixel.X, pixel.Y)
	}
}

func TestValidateAndMapBoundaries(t *testing.T) {
	coord, pixel, err := ValidateAndMap(`{"x": 0, "y": 1000}`, 1288, 728)
	if err != nil {
		t.Fatalf("boundary values should be accepted: %v", err)
	}
	if coord.X != 0 || coord.Y != 1000 {
		t.Errorf("expected (0,1000), got (%d,%d)", coord.X, coord.Y)
	}
	if pixel.X != 0.0 || pixel.Y != 728.0 {
		t.Errorf("expected pixel (0.0,728.0), got (%f,%f)", pixel.X, pixel.Y)
	}
}

func TestValidateAndMapRejections(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"out of range y", `{"x": 1000, "y": 1001}`},
		{"negative x", `{"x": -1, "y": 10}`},
		{"non JSON", `click here`},
		{"missing y", `{"x": 500}`},
		{"missing x", `{"y": 500}`},
		{"non-integer x", `{"x": 3.5, "y": 10}`},
		{"string value", `{"x": "500", "y": 250}`},
		{"empty text", ``},
		{"trailing garbage", `{"x": 1, "y": 2} trailing`},
		{"array", `[500, 250]`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := ValidateAndMap(test.answer, 800, 600)
			if err == nil {
				t.Fatalf("expected %q to be rejected", test.answer)
			}

			var perr *types.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if perr.RawContent != test.answer {
				t.Errorf("ParseError should carry the raw answer, got %q", perr.RawContent)
			}
		})
	}
}

func TestValidateAndMapNoClamping(t *testing.T) {
	// Out-of-range values fail validation instead of being clamped.
	_, _, err := ValidateAndMap(`{"x": 1500, "y": 500}`, 800, 600)
	if err == nil {
		t.Fatal("expected out-of-range value to be rejected, not clamped")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out-of-range message, got %v", err)
	}
}
