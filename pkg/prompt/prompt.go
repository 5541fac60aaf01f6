// Package prompt constructs the structured request sent to the vision model:
// a fixed localization instruction embedding the coordinate JSON schema, the
// task verbatim, and the processed image as a multimodal attachment.
package prompt

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/menta2k/gui-locator/pkg/types"
)

// SchemaJSON is the literal schema the model's answer must conform to:
// a JSON object with integer fields x and y, each in [0,1000]. Backends that
// support constrained decoding pass it through as the output format.
const SchemaJSON = `{"properties": {"x": {"description": "The x coordinate, normalized between 0 and 1000.", "maximum": 1000, "minimum": 0, "title": "X", "type": "integer"}, "y": {"description": "The y coordinate, normalized between 0 and 1000.", "maximum": 1000, "minimum": 0, "title": "Y", "type": "integer"}}, "required": ["x", "y"], "title": "ClickCoordinates", "type": "object"}`

// instruction is the fixed localization preamble. The task is appended on
// its own line.
const instruction = `Localize an element on the GUI image according to the provided target and output a click position.
 * You must output a valid JSON following the format: ` + SchemaJSON + `
 Your target is:`

// Prompt is a structured model request. It is regenerated per call and never
// cached. ImageData holds the PNG-encoded processed image so backends and the
// result bundle can reuse the same bytes.
type Prompt struct {
	Task      string
	Text      string
	Image     image.Image
	ImageData []byte
}

// Build assembles a prompt from a task description and the processed image.
// A blank task is the only failure mode.
func Build(task string, img image.Image) (*Prompt, error) {
	if strings.TrimSpace(task) == "" {
		return nil, &types.EmptyTaskError{}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode prompt image: %w", err)
	}

	return &Prompt{
		Task:      task,
		Text:      fmt.Sprintf("%s\n%s", instruction, task),
		Image:     img,
		ImageData: buf.Bytes(),
	}, nil
}
