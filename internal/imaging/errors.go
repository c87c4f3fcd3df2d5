package imaging

import "errors"

// Errors returned by the compositing primitives. Callers should test for them
// with errors.Is; most are wrapped with details about the failing input.
var (
	// ErrDecode reports encoded bytes that are malformed or in an unsupported format.
	ErrDecode = errors.New("cannot decode image")

	// ErrEmptyImage reports an image with zero pixels passed to the palette analyzer.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrDegenerateImage reports a source with zero width or height passed to the scaler.
	ErrDegenerateImage = errors.New("image has zero width or height")

	// ErrInvalidDimensions reports a non-positive target width or height,
	// or a distance field whose size does not match its canvas.
	ErrInvalidDimensions = errors.New("invalid dimensions")
)
