package types

// TokenSequence is an ordered sequence of token identifiers produced by a
// generation backend. Immutable once produced.
type TokenSequence []int32

// ParsedContent is the result of splitting a generated token stream into a
// reasoning segment and a final-answer segment.
type ParsedContent struct {
	Answer    string
	Reasoning string
}

// Coordinate is a normalized screen-space location. Both components are
// integers in the closed range [0,1000], independent of image resolution.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PixelCoordinate is a location in pixel space, derived from a Coordinate and
// the processed image's dimensions: pixel = normalized/1000 * dimension.
type PixelCoordinate struct {
	X float64 `json:"x_pixel"`
	Y float64 `json:"y_pixel"`
}

// CoordinateBundle combines normalized and pixel-space locations the way the
// result bundle reports them.
type CoordinateBundle struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	XPixel float64 `json:"x_pixel"`
	YPixel float64 `json:"y_pixel"`
}

// LocateResult is the complete result bundle for a successful localization.
// ProcessedImage is the grid-aligned image encoded as a PNG data URL so
// callers can display exactly what the model saw.
type LocateResult struct {
	Task           string           `json:"task"`
	Coordinates    CoordinateBundle `json:"coordinates"`
	ProcessedImage string           `json:"processed_image"`
	ImageWidth     int              `json:"image_width"`
	ImageHeight    int              `json:"image_height"`
	Thinking       string           `json:"thinking"`
	RawContent     string           `json:"raw_content"`
}
