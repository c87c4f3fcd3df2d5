package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultJPEGQuality is used by Encode when the caller passes a quality of zero.
const DefaultJPEGQuality = 92

// Format identifies an output encoding for a finished canvas.
type Format = imaging.Format

// Supported output formats.
const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
)

// Decode turns encoded image bytes into an image.
//
// PNG, JPEG, GIF, BMP and WebP are recognised by their content, not by any
// file name. JPEG EXIF orientation is applied so covers taken from phone
// photos come out upright.
//
// # Errors
//
//   - Returns ErrDecode (wrapped) if data is empty, truncated or in an
//     unsupported format.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// Dimensions reads only the header of encoded image bytes to report its size.
func Dimensions(data []byte) (*DimensionsResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &DimensionsResult{Width: cfg.Width, Height: cfg.Height}, nil
}

// FormatFromPath picks the output format from a file extension.
// Only PNG and JPEG outputs are produced; any other extension is an error.
func FormatFromPath(path string) (Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("unsupported output format for %q: %w", path, err)
	}
	if f != PNG && f != JPEG {
		return 0, fmt.Errorf("unsupported output format for %q: only png and jpeg are written", path)
	}
	return f, nil
}

// Encode writes img to w in the given format. quality applies to JPEG only;
// zero selects DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img and writes it to path, returning the encoded size.
//
// The bytes go to a temporary file in the same directory which is then
// renamed over path, so a wallpaper setter watching path never reads a
// half-written file and a failed encode leaves any previous file in place.
// Missing parent directories are created.
func Save(path string, img image.Image, format Format, quality int) (int, error) {
	data, err := EncodeBytes(img, format, quality)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wallpaper-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
