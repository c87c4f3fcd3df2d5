package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// BlurRadius is the Gaussian sigma applied to blurred backgrounds.
const BlurRadius = 8.0

// ScaleFactor returns the smallest integer magnification that makes a
// srcW × srcH image at least as large as dstW × dstH on both axes.
//
// The width factor alone would leave tall canvases uncovered when the source
// is wider than the canvas aspect ratio allows, so the larger of the width and
// height factors is used.
func ScaleFactor(srcW, srcH, dstW, dstH int) int {
	kw := (dstW + srcW - 1) / srcW
	kh := (dstH + srcH - 1) / srcH
	return max(kw, kh, 1)
}

// ScaleBlurCrop produces a width × height blurred backdrop from img.
//
// Steps:
//  1. Magnify by ScaleFactor so the image covers the canvas.
//  2. Resample with a Lanczos filter, keeping the aspect ratio.
//  3. Blur with a Gaussian of sigma BlurRadius.
//  4. Center-crop to exactly width × height, offsets (scaled - target) / 2.
//
// Only the crop window plus a three-sigma margin is blurred, which gives the
// same pixels inside the window as blurring the whole magnified image.
//
// # Errors
//
//   - Returns ErrInvalidDimensions if width or height is not positive.
//   - Returns ErrDegenerateImage if img has zero width or height.
func ScaleBlurCrop(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidDimensions, width, height)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrDegenerateImage, b.Dx(), b.Dy())
	}

	k := ScaleFactor(b.Dx(), b.Dy(), width, height)
	sw, sh := b.Dx()*k, b.Dy()*k
	scaled := imaging.Resize(img, sw, sh, imaging.Lanczos)

	x0, y0 := (sw-width)/2, (sh-height)/2
	margin := int(math.Ceil(3 * BlurRadius))
	window := image.Rect(x0-margin, y0-margin, x0+width+margin, y0+height+margin).Intersect(scaled.Bounds())

	blurred := imaging.Blur(imaging.Crop(scaled, window), BlurRadius)

	ox, oy := x0-window.Min.X, y0-window.Min.Y
	return imaging.Crop(blurred, image.Rect(ox, oy, ox+width, oy+height)), nil
}
