package imaging

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
)

// DistanceField stores, for every pixel of a canvas, its distance from the
// canvas center normalised by the half-diagonal of a width × width square.
//
// Values are 0 at the center and reach 1 at the corners of a square canvas.
// They are not clamped: on a canvas taller than it is wide the far corners
// exceed 1. A DistanceField is never modified after construction and may be
// shared between goroutines.
type DistanceField struct {
	Width  int
	Height int
	values []float64
}

// NewDistanceField computes the field for a width × height canvas.
//
// The value at (x, y) is
//
//	hypot(x - width/2, y - height/2) / (sqrt(2) * width / 2)
//
// Normalisation always uses the width, whatever the aspect ratio.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if width or height is not positive.
func NewDistanceField(width, height int) (*DistanceField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: distance field %dx%d", ErrInvalidDimensions, width, height)
	}

	f := &DistanceField{
		Width:  width,
		Height: height,
		values: make([]float64, width*height),
	}
	cx, cy := float64(width)/2, float64(height)/2
	norm := math.Sqrt2 * float64(width) / 2

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			dy := float64(y) - cy
			row := f.values[y*width : (y+1)*width]
			for x := range row {
				row[x] = math.Hypot(float64(x)-cx, dy) / norm
			}
		}
	})
	return f, nil
}

// At returns the normalised distance of pixel (x, y).
func (f *DistanceField) At(x, y int) float64 {
	return f.values[y*f.Width+x]
}

// Row returns the values of row y. The slice must not be modified.
func (f *DistanceField) Row(y int) []float64 {
	return f.values[y*f.Width : (y+1)*f.Width]
}

// Max returns the largest value in the field.
func (f *DistanceField) Max() float64 {
	m := 0.0
	for _, v := range f.values {
		if v > m {
			m = v
		}
	}
	return m
}

// Fits reports whether the field was built for a canvas with bounds r.
func (f *DistanceField) Fits(r image.Rectangle) bool {
	return f.Width == r.Dx() && f.Height == r.Dy()
}

// DistanceFieldCache shares distance fields between renders of the same size.
//
// Lookups take a read lock. On a miss the field is built under the write lock
// after checking again, so concurrent misses for the same size build it once.
type DistanceFieldCache struct {
	mu     sync.RWMutex
	fields map[image.Point]*DistanceField
}

// NewDistanceFieldCache creates an empty cache.
func NewDistanceFieldCache() *DistanceFieldCache {
	return &DistanceFieldCache{
		fields: make(map[image.Point]*DistanceField),
	}
}

// Get returns the cached field for width × height, computing it on first use.
func (c *DistanceFieldCache) Get(width, height int) (*DistanceField, error) {
	key := image.Pt(width, height)

	c.mu.RLock()
	f, ok := c.fields[key]
	c.mu.RUnlock()
	if ok {
		return f, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fields[key]; ok {
		return f, nil
	}
	f, err := NewDistanceField(width, height)
	if err != nil {
		return nil, err
	}
	c.fields[key] = f
	return f, nil
}

// Len reports the number of cached sizes.
func (c *DistanceFieldCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fields)
}
