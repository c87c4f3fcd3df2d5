package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// GradientKind selects the shape of a generated background.
type GradientKind int

const (
	// LinearGradient blends along the anti-diagonals from the top-left corner.
	LinearGradient GradientKind = iota
	// RadialGradient blends outward from the canvas center.
	RadialGradient
)

func (k GradientKind) String() string {
	switch k {
	case LinearGradient:
		return "linear"
	case RadialGradient:
		return "radial"
	default:
		return fmt.Sprintf("GradientKind(%d)", int(k))
	}
}

// ParseGradientKind accepts "linear" or "radial".
func ParseGradientKind(s string) (GradientKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return LinearGradient, nil
	case "radial":
		return RadialGradient, nil
	default:
		return 0, fmt.Errorf("unknown gradient kind %q (want linear or radial)", s)
	}
}

// NewCanvas allocates an opaque black width × height canvas.
func NewCanvas(width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidDimensions, width, height)
	}
	return imaging.New(width, height, color.NRGBA{A: 255}), nil
}

// InterpolateColors returns steps colors going from `from` toward `to`.
//
// Entry i is from + (to - from) * i / steps per channel, rounded to the
// nearest integer. The first entry equals from; `to` itself is not reached.
// The result is a plain slice, so it can be walked any number of times.
func InterpolateColors(from, to RGBColor, steps int) []RGBColor {
	if steps <= 0 {
		return nil
	}
	a, b := from.colorful(), to.colorful()
	out := make([]RGBColor, steps)
	for i := range out {
		r, g, bl := a.BlendRgb(b, float64(i)/float64(steps)).RGB255()
		out[i] = RGBColor{R: r, G: g, B: bl}
	}
	return out
}

// RandomInversion flips an unbiased coin using rng.
func RandomInversion(rng *rand.Rand) bool {
	return rng.Intn(2) == 0
}

// DrawLinearGradient paints a diagonal two-color gradient over canvas.
//
// The gradient has 2*width steps. Step i covers the anti-diagonal running
// from (i, 0) to (0, i) in a single solid color, so color changes from line
// to line but never along a line. Pixels past the last anti-diagonal, which
// only exist when the canvas is more than one pixel taller than it is wide,
// keep the final step's color. With inversion the two colors are swapped.
func DrawLinearGradient(canvas *image.NRGBA, from, to RGBColor, inversion bool) {
	if inversion {
		from, to = to, from
	}
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	steps := InterpolateColors(from, to, 2*w)
	if len(steps) == 0 {
		return
	}
	last := len(steps) - 1

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := canvas.Pix[y*canvas.Stride:]
			for x := 0; x < w; x++ {
				c := steps[min(x+y, last)]
				p := row[x*4 : x*4+4 : x*4+4]
				p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
			}
		}
	})
}

// DrawRadialGradient paints a center-out two-color gradient over canvas.
//
// For each pixel with field value d, every channel is outer*d + inner*(1-d)
// truncated toward zero. Field values above 1 extrapolate past outer and are
// clamped to the 0-255 range. With inversion inner and outer are swapped.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if field was built for a different size.
func DrawRadialGradient(canvas *image.NRGBA, inner, outer RGBColor, inversion bool, field *DistanceField) error {
	if !field.Fits(canvas.Rect) {
		return fmt.Errorf("%w: field %dx%d for canvas %dx%d",
			ErrInvalidDimensions, field.Width, field.Height, canvas.Rect.Dx(), canvas.Rect.Dy())
	}
	if inversion {
		inner, outer = outer, inner
	}
	ir, ig, ib := float64(inner.R), float64(inner.G), float64(inner.B)
	or, og, ob := float64(outer.R), float64(outer.G), float64(outer.B)

	parallel.Line(field.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := canvas.Pix[y*canvas.Stride:]
			for x, d := range field.Row(y) {
				p := row[x*4 : x*4+4 : x*4+4]
				p[0] = blendChannel(ir, or, d)
				p[1] = blendChannel(ig, og, d)
				p[2] = blendChannel(ib, ob, d)
				p[3] = 255
			}
		}
	})
	return nil
}

func blendChannel(inner, outer, d float64) uint8 {
	v := outer*d + inner*(1-d)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// NewGradient allocates a width × height canvas and paints a gradient of the
// given kind from `from` to `to`. Radial gradients take their distance field
// from fields, which may be nil to compute a private one.
func NewGradient(kind GradientKind, width, height int, from, to RGBColor, inversion bool, fields *DistanceFieldCache) (*image.NRGBA, error) {
	canvas, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}

	switch kind {
	case LinearGradient:
		DrawLinearGradient(canvas, from, to, inversion)
	case RadialGradient:
		var field *DistanceField
		if fields != nil {
			field, err = fields.Get(width, height)
		} else {
			field, err = NewDistanceField(width, height)
		}
		if err != nil {
			return nil, err
		}
		if err := DrawRadialGradient(canvas, from, to, inversion, field); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown gradient kind: %v", kind)
	}
	return canvas, nil
}
