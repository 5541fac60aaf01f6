package types

import "fmt"

// InvalidImageError reports malformed, undecodable, or degenerate image input.
type InvalidImageError struct {
	Reason string
	Err    error
}

func (e *InvalidImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid image: %s", e.Reason)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// EmptyTaskError reports a blank task instruction. It is raised before the
// generation backend is ever invoked.
type EmptyTaskError struct{}

func (e *EmptyTaskError) Error() string { return "task description must not be empty" }

// GenerationError reports a failure of the generation backend itself, as
// opposed to the model producing unusable output.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation failed: %v", e.Err) }

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError reports model output that did not conform to the coordinate
// schema. It carries the raw answer and reasoning text so callers can show
// what the model actually produced without re-running the request.
type ParseError struct {
	Message    string `json:"error"`
	RawContent string `json:"raw_content"`
	Thinking   string `json:"thinking"`
}

func (e *ParseError) Error() string { return fmt.Sprintf("failed to parse result: %s", e.Message) }
