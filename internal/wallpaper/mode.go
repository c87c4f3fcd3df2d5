package wallpaper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode reports a mode key or value that names no rendering strategy.
var ErrUnknownMode = errors.New("unknown render mode")

// Mode selects how the backdrop behind the circular cover is produced.
type Mode int

const (
	// CircleAndBlur puts the cover on a blurred, enlarged copy of itself.
	CircleAndBlur Mode = iota
	// PredefinedBackgroundWithCircle puts the cover on a blurred, enlarged
	// copy of a caller-supplied background image.
	PredefinedBackgroundWithCircle
	// LinearGradientWithCircle puts the cover on a diagonal gradient from the
	// cover's most frequent color to its least frequent one.
	LinearGradientWithCircle
	// RadialGradientWithCircle puts the cover on a radial gradient with the
	// least frequent color at the center and the most frequent at the edges.
	RadialGradientWithCircle
)

var modeKeys = [...]string{
	CircleAndBlur:                  "sblur",
	PredefinedBackgroundWithCircle: "bgblur",
	LinearGradientWithCircle:       "lgrad",
	RadialGradientWithCircle:       "rgrad",
}

var modeDescriptions = [...]string{
	CircleAndBlur:                  "Album cover cropped in a circle at the center of the screen, over a blurred and scaled-up copy of the same cover.",
	PredefinedBackgroundWithCircle: "Album cover cropped in a circle over a blurred and scaled-up predefined background image.",
	LinearGradientWithCircle:       "Album cover cropped in a circle over a diagonal gradient between the cover's most and least frequent colors.",
	RadialGradientWithCircle:       "Album cover cropped in a circle over a radial gradient between the cover's least and most frequent colors.",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{
		CircleAndBlur,
		PredefinedBackgroundWithCircle,
		LinearGradientWithCircle,
		RadialGradientWithCircle,
	}
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m >= CircleAndBlur && m <= RadialGradientWithCircle
}

// String returns the short command-line key of the mode, e.g. "sblur".
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeKeys[m]
}

// Description is a one-sentence human-readable summary of the mode.
func (m Mode) Description() string {
	if !m.Valid() {
		return ""
	}
	return modeDescriptions[m]
}

// NeedsBackground reports whether the mode requires a predefined background.
func (m Mode) NeedsBackground() bool {
	return m == PredefinedBackgroundWithCircle
}

// ParseMode converts a short key such as "rgrad" into a Mode.
// Matching ignores case and surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if modeKeys[m] == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownMode, s, strings.Join(modeKeys[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
