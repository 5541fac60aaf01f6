// Package result validates the model's final answer against the coordinate
// schema and maps it into pixel space.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/menta2k/gui-locator/pkg/types"
)

// answerSchema mirrors the ClickCoordinates contract. Pointers distinguish
// absent fields from zero values; json.Number keeps non-integers detectable.
type answerSchema struct {
	X *json.Number `json:"x"`
	Y *json.Number `json:"y"`
}

// ValidateAndMap parses answer as a JSON object with integer fields x and y
// in [0,1000] and maps it to pixel space against the processed image's
// dimensions. There is no coercion, clamping, or best-effort repair: any
// deviation from the schema is a ParseError carrying the raw answer text.
func ValidateAndMap(answer string, width, height int) (types.Coordinate, types.PixelCoordinate, error) {
	fail := func(format string, args ...any) (types.Coordinate, types.PixelCoordinate, error) {
		return types.Coordinate{}, types.PixelCoordinate{}, &types.ParseError{
			Message:    fmt.Sprintf(format, args...),
			RawContent: answer,
		}
	}

	var parsed answerSchema
	if err := json.Unmarshal([]byte(answer), &parsed); err != nil {
		return fail("invalid JSON: %v", err)
	}
	if parsed.X == nil || parsed.Y == nil {
		return fail("missing required field x or y")
	}

	x, err := intField("x", *parsed.X)
	if err != nil {
		return fail("%v", err)
	}
	y, err := intField("y", *parsed.Y)
	if err != nil {
		return fail("%v", err)
	}

	coord := types.Coordinate{X: x, Y: y}
	pixel := types.PixelCoordinate{
		X: float64(coord.X) / 1000 * float64(width),
		Y: float64(coord.Y) / 1000 * float64(height),
	}
	return coord, pixel, nil
}

func intField(name string, n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("field %s must be an integer, got %s", name, n.String())
	}
	if v < 0 || v > 1000 {
		return 0, fmt.Errorf("field %s out of range [0,1000]: %d", name, v)
	}
	return int(v), nil
}
