package wallpaper

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/ironsheep/album-wallpaper-mcp/internal/imaging"
	"github.com/rs/zerolog"
)

// ErrMissingBackground reports a PredefinedBackgroundWithCircle render
// without background image data.
var ErrMissingBackground = errors.New("mode requires a predefined background image")

// Request describes one wallpaper to render.
type Request struct {
	// Source holds the encoded album cover.
	Source []byte

	// Background holds the encoded predefined background. It is only read
	// for PredefinedBackgroundWithCircle.
	Background []byte

	// Width and Height are the canvas size in pixels.
	Width  int
	Height int

	// Mode selects the backdrop strategy.
	Mode Mode
}

// Result is a finished wallpaper together with what went into it.
type Result struct {
	// Canvas is the composed, fully opaque raster. The caller owns it.
	Canvas *image.NRGBA

	// Mode is the mode the canvas was rendered with.
	Mode Mode

	// Palette is set for the gradient modes.
	Palette *imaging.Palette

	// Inverted reports whether the gradient colors were swapped.
	Inverted bool

	// CoverOrigin is the top-left corner of the pasted cover on the canvas.
	CoverOrigin image.Point

	// Elapsed is the wall time spent composing, excluding decoding.
	Elapsed time.Duration
}

// Renderer composes wallpapers. It keeps no per-render state, so one
// Renderer may serve any number of goroutines.
type Renderer struct {
	logger zerolog.Logger
	fields *imaging.DistanceFieldCache

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithDistanceCache shares distance fields across renders of the same size.
// Without it each radial render computes a private field.
func WithDistanceCache(c *imaging.DistanceFieldCache) Option {
	return func(r *Renderer) { r.fields = c }
}

// WithRandomInversion makes gradient modes flip a coin drawn from rng to
// decide whether to swap their colors, instead of the fixed per-mode choice
// (linear: not inverted, radial: inverted).
func WithRandomInversion(rng *rand.Rand) Option {
	return func(r *Renderer) { r.rng = rng }
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render decodes the request's images and composes the wallpaper.
//
// # Errors
//
//   - imaging.ErrInvalidDimensions for a non-positive width or height
//   - imaging.ErrDecode for unreadable source or background bytes
//   - ErrMissingBackground when the mode needs a background and none is given
//   - ErrUnknownMode for an undeclared mode
func (r *Renderer) Render(req Request) (*Result, error) {
	if err := validate(req.Width, req.Height, req.Mode); err != nil {
		return nil, err
	}

	src, err := imaging.Decode(req.Source)
	if err != nil {
		return nil, fmt.Errorf("source image: %w", err)
	}

	var bg image.Image
	if req.Mode.NeedsBackground() {
		if len(req.Background) == 0 {
			return nil, ErrMissingBackground
		}
		if bg, err = imaging.Decode(req.Background); err != nil {
			return nil, fmt.Errorf("background image: %w", err)
		}
	}

	return r.RenderImage(src, bg, req.Width, req.Height, req.Mode)
}

// RenderImage composes a wallpaper from already decoded images. background
// is only used, and then required, for PredefinedBackgroundWithCircle.
//
// The cover is centered at ((width - coverWidth) / 2, (height - coverHeight) / 2),
// floored, and clipped when it is larger than the canvas.
func (r *Renderer) RenderImage(src, background image.Image, width, height int, mode Mode) (*Result, error) {
	if err := validate(width, height, mode); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{Mode: mode}

	sb := src.Bounds()
	r.logger.Debug().
		Str("mode", mode.String()).
		Int("width", width).
		Int("height", height).
		Int("cover_width", sb.Dx()).
		Int("cover_height", sb.Dy()).
		Msg("render start")

	canvas, err := r.backdrop(res, src, background, width, height)
	if err != nil {
		return nil, err
	}

	mask, err := imaging.CircleMask(sb.Dx(), sb.Dy())
	if err != nil {
		return nil, fmt.Errorf("cover mask: %w", err)
	}
	cover, err := imaging.ApplyMask(src, mask)
	if err != nil {
		return nil, err
	}

	res.CoverOrigin = imaging.CenterOffset(width, height, sb.Dx(), sb.Dy())
	if err := imaging.PasteMasked(canvas, cover, mask, res.CoverOrigin); err != nil {
		return nil, err
	}

	res.Canvas = canvas
	res.Elapsed = time.Since(start)

	r.logger.Debug().
		Str("mode", mode.String()).
		Int("width", width).
		Int("height", height).
		Bool("inverted", res.Inverted).
		Dur("elapsed", res.Elapsed).
		Msg("wallpaper rendered")

	return res, nil
}

// backdrop builds the canvas behind the cover for res.Mode.
func (r *Renderer) backdrop(res *Result, src, background image.Image, width, height int) (*image.NRGBA, error) {
	switch res.Mode {
	case CircleAndBlur:
		return blurred(src, width, height)

	case PredefinedBackgroundWithCircle:
		if background == nil {
			return nil, ErrMissingBackground
		}
		return blurred(background, width, height)

	case LinearGradientWithCircle:
		pal, err := imaging.AnalyzePalette(src)
		if err != nil {
			return nil, fmt.Errorf("cover palette: %w", err)
		}
		res.Palette = &pal
		res.Inverted = r.inversion(false)
		return imaging.NewGradient(imaging.LinearGradient, width, height, pal.Most, pal.Least, res.Inverted, r.fields)

	case RadialGradientWithCircle:
		pal, err := imaging.AnalyzePalette(src)
		if err != nil {
			return nil, fmt.Errorf("cover palette: %w", err)
		}
		res.Palette = &pal
		res.Inverted = r.inversion(true)
		return imaging.NewGradient(imaging.RadialGradient, width, height, pal.Most, pal.Least, res.Inverted, r.fields)

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(res.Mode))
	}
}

func blurred(img image.Image, width, height int) (*image.NRGBA, error) {
	canvas, err := imaging.ScaleBlurCrop(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("blurred background: %w", err)
	}
	imaging.Opaque(canvas)
	return canvas, nil
}

// inversion returns fixed unless the renderer was given a random source.
func (r *Renderer) inversion(fixed bool) bool {
	if r.rng == nil {
		return fixed
	}
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return imaging.RandomInversion(r.rng)
}

func validate(width, height int, mode Mode) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", imaging.ErrInvalidDimensions, width, height)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	return nil
}
