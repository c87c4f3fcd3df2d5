package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// SmoothRate is the oversampling factor used when drawing the circle mask.
const SmoothRate = 5

// CircleMask builds an anti-aliased elliptical alpha mask of width × height.
//
// The ellipse inscribed in the mask rectangle is first rasterised as a hard
// 0/255 shape at SmoothRate times the target resolution, then reduced to the
// target size with an area-averaging (box) filter. Pixels crossing the edge
// end up with intermediate alpha values; pixels well inside are 255 and the
// corners are 0.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if width or height is not positive.
func CircleMask(width, height int) (*image.Alpha, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: mask %dx%d", ErrInvalidDimensions, width, height)
	}

	bigW, bigH := width*SmoothRate, height*SmoothRate
	big := image.NewGray(image.Rect(0, 0, bigW, bigH))
	rx, ry := float64(bigW)/2, float64(bigH)/2

	parallel.Line(bigH, func(start, end int) {
		for y := start; y < end; y++ {
			dy := (float64(y) + 0.5 - ry) / ry
			row := big.Pix[y*big.Stride : y*big.Stride+bigW]
			for x := range row {
				dx := (float64(x) + 0.5 - rx) / rx
				if dx*dx+dy*dy <= 1 {
					row[x] = 255
				}
			}
		}
	})

	small := imaging.Resize(big, width, height, imaging.Box)

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			src := small.Pix[y*small.Stride:]
			dst := mask.Pix[y*mask.Stride:]
			for x := 0; x < width; x++ {
				dst[x] = src[x*4]
			}
		}
	})
	return mask, nil
}

// ApplyMask returns a copy of img whose alpha channel is replaced by mask.
// The color channels are kept as they are.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if the mask size differs from the image size.
func ApplyMask(img image.Image, mask *image.Alpha) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() != mask.Rect.Dx() || b.Dy() != mask.Rect.Dy() {
		return nil, fmt.Errorf("%w: mask %dx%d does not match image %dx%d",
			ErrInvalidDimensions, mask.Rect.Dx(), mask.Rect.Dy(), b.Dx(), b.Dy())
	}

	out := imaging.Clone(img)
	w := out.Rect.Dx()
	parallel.Line(out.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Pix[y*out.Stride:]
			alpha := mask.Pix[y*mask.Stride:]
			for x := 0; x < w; x++ {
				row[x*4+3] = alpha[x]
			}
		}
	})
	return out, nil
}
