package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// CenterOffset returns the top-left position that centers an inner rectangle
// of size (iw, ih) inside an outer one of size (ow, oh). Offsets are floored
// and become negative when the inner rectangle is larger.
func CenterOffset(ow, oh, iw, ih int) image.Point {
	return image.Pt(floorDiv(ow-iw, 2), floorDiv(oh-ih, 2))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// PasteMasked blends src onto dst with its top-left corner at `at`.
//
// Each color channel becomes (src*m + dst*(255-m)) / 255, rounded, where m is
// the mask value of the source pixel. Pixels with m == 0 leave dst untouched
// and dst alpha is preserved. Parts of src falling outside dst are clipped.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if the mask size differs from the src size.
func PasteMasked(dst *image.NRGBA, src image.Image, mask *image.Alpha, at image.Point) error {
	sb := src.Bounds()
	if sb.Dx() != mask.Rect.Dx() || sb.Dy() != mask.Rect.Dy() {
		return fmt.Errorf("%w: mask %dx%d does not match source %dx%d",
			ErrInvalidDimensions, mask.Rect.Dx(), mask.Rect.Dy(), sb.Dx(), sb.Dy())
	}

	placed := image.Rect(0, 0, sb.Dx(), sb.Dy()).Add(at).Add(dst.Rect.Min)
	area := placed.Intersect(dst.Rect)
	if area.Empty() {
		return nil
	}

	s := asNRGBA(src)
	// offset of the clipped area inside the source
	sx, sy := area.Min.X-placed.Min.X, area.Min.Y-placed.Min.Y
	w := area.Dx()

	parallel.Line(area.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			d := dst.Pix[dst.PixOffset(area.Min.X, area.Min.Y+y):]
			sp := s.Pix[(sy+y)*s.Stride+sx*4:]
			m := mask.Pix[mask.PixOffset(mask.Rect.Min.X+sx, mask.Rect.Min.Y+sy+y):]
			for x := 0; x < w; x++ {
				a := uint32(m[x])
				if a == 0 {
					continue
				}
				i := x * 4
				if a == 255 {
					d[i], d[i+1], d[i+2] = sp[i], sp[i+1], sp[i+2]
					continue
				}
				for c := 0; c < 3; c++ {
					d[i+c] = uint8((uint32(sp[i+c])*a + uint32(d[i+c])*(255-a) + 127) / 255)
				}
			}
		}
	})
	return nil
}

// asNRGBA returns an NRGBA view of img with its origin at (0, 0),
// converting only when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// Opaque forces every pixel of img to full opacity in place.
func Opaque(img *image.NRGBA) {
	w := img.Rect.Dx()
	parallel.Line(img.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < w; x++ {
				row[x*4+3] = 255
			}
		}
	})
}
