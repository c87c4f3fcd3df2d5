package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex formats the color as "#rrggbb".
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func (c RGBColor) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseHexColor reads "#rrggbb" or "#rgb".
func ParseHexColor(s string) (RGBColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Palette holds the extreme entries of an image's color histogram.
type Palette struct {
	Least RGBColor `json:"least_frequent"` // Color with the lowest pixel count
	Most  RGBColor `json:"most_frequent"`  // Color with the highest pixel count
}

// AnalyzePalette finds the most and least frequent colors in img.
//
// Every pixel is reduced to its 8-bit RGB value; alpha is ignored. Distinct
// colors are then visited in the order they first appear in a row-major scan
// of the image.
//
// # Tie-break
//
// The maximum is replaced only by a strictly larger count, so among equally
// frequent colors the one seen first wins. The minimum is replaced by any
// count less than or equal to the current one, so among equally rare colors
// the one seen last wins. A single-color image yields that color for both.
//
// # Errors
//
//   - Returns ErrEmptyImage if img has no pixels.
func AnalyzePalette(img image.Image) (Palette, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Palette{}, fmt.Errorf("%w: bounds %v", ErrEmptyImage, b)
	}

	src := imaging.Clone(img)
	counts := make(map[uint32]int)
	order := make([]uint32, 0, 256)

	for y := 0; y < src.Rect.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+src.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			key := uint32(row[i])<<16 | uint32(row[i+1])<<8 | uint32(row[i+2])
			n, seen := counts[key]
			if !seen {
				order = append(order, key)
			}
			counts[key] = n + 1
		}
	}

	most, least := order[0], order[0]
	for _, key := range order {
		n := counts[key]
		if n > counts[most] {
			most = key
		}
		if n <= counts[least] {
			least = key
		}
	}

	return Palette{Least: unpackRGB(least), Most: unpackRGB(most)}, nil
}

func unpackRGB(key uint32) RGBColor {
	return RGBColor{R: uint8(key >> 16), G: uint8(key >> 8), B: uint8(key)}
}
