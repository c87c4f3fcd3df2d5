// Package imaging provides the pixel-level building blocks of a wallpaper:
// palette extraction, circular masks, blurred backdrops, distance fields,
// gradients and masked pasting.
//
// All operations work with standard Go image types. Canvases are
// *image.NRGBA values with their origin at (0, 0) and are fully opaque.
// The coordinate system places (0,0) at the top-left corner, X increases
// rightward and Y increases downward.
//
// # Pipeline Pieces
//
//   - AnalyzePalette: most and least frequent colors of an image
//   - CircleMask / ApplyMask: anti-aliased elliptical alpha mask
//   - ScaleBlurCrop: integer upscale, Gaussian blur, center crop
//   - NewDistanceField / DistanceFieldCache: normalised center distance per pixel
//   - DrawLinearGradient / DrawRadialGradient: two-color backgrounds
//   - PasteMasked: alpha-weighted paste with clipping
//   - Decode / Encode: byte-level codec for sources and results
//
// # Thread Safety
//
// ImageCache and DistanceFieldCache are safe for concurrent use. The other
// functions keep no state; rows of large rasters are processed in parallel
// internally, but each call only writes to the canvas it was given.
//
// # Error Handling
//
// Functions return errors wrapping one of ErrDecode, ErrEmptyImage,
// ErrDegenerateImage or ErrInvalidDimensions. Nothing is retried: the same
// input always fails the same way.
package imaging
