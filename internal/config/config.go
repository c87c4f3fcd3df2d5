// Package config loads program settings from defaults, an optional TOML
// file and environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ironsheep/album-wallpaper-mcp/internal/logging"
	"github.com/ironsheep/album-wallpaper-mcp/internal/wallpaper"
)

// Environment variable names.
const (
	EnvConfigFile = "ALBUM_WALLPAPER_CONFIG"
	EnvLogLevel   = "ALBUM_WALLPAPER_LOG_LEVEL"
	EnvLogFormat  = "ALBUM_WALLPAPER_LOG_FORMAT"
	EnvMode       = "ALBUM_WALLPAPER_MODE"
	EnvWidth      = "ALBUM_WALLPAPER_WIDTH"
	EnvHeight     = "ALBUM_WALLPAPER_HEIGHT"
	EnvBackground = "ALBUM_WALLPAPER_BACKGROUND"
	EnvOutput     = "ALBUM_WALLPAPER_OUTPUT"
)

// Config holds the defaults applied when a render request leaves a field out.
type Config struct {
	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is "json" or "console".
	LogFormat string `toml:"log_format"`

	// Mode is the render mode used when none is requested.
	Mode wallpaper.Mode `toml:"mode"`

	// Width and Height are the canvas size used when none is requested.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// BackgroundPath is the predefined background for the bgblur mode.
	BackgroundPath string `toml:"background_path"`

	// OutputPath is where the finished wallpaper is written by default.
	OutputPath string `toml:"output_path"`

	// JPEGQuality applies when the output path ends in .jpg or .jpeg.
	JPEGQuality int `toml:"jpeg_quality"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   logging.FormatJSON,
		Mode:        wallpaper.CircleAndBlur,
		Width:       1920,
		Height:      1080,
		OutputPath:  filepath.Join(os.TempDir(), "music_bg.png"),
		JPEGQuality: 92,
	}
}

// DefaultPath is the config file looked up when EnvConfigFile is unset.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "album-wallpaper", "config.toml")
}

// Load builds the effective configuration.
//
// The file named by ALBUM_WALLPAPER_CONFIG is required to exist when the
// variable is set; the default location is optional.
func Load() (Config, error) {
	cfg := Default()

	path, explicit := os.LookupEnv(EnvConfigFile)
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a TOML file over the defaults, without environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvMode); ok {
		m, err := wallpaper.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMode, err)
		}
		c.Mode = m
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{EnvWidth, &c.Width},
		{EnvHeight, &c.Height},
	} {
		v, ok := lookup(f.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = n
	}
	if v, ok := lookup(EnvBackground); ok {
		c.BackgroundPath = v
	}
	if v, ok := lookup(EnvOutput); ok {
		c.OutputPath = v
	}
	return nil
}

// Validate rejects settings no render could use.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d: width and height must be positive", c.Width, c.Height)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %d", wallpaper.ErrUnknownMode, int(c.Mode))
	}
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("invalid log_format %q: want %s or %s", c.LogFormat, logging.FormatJSON, logging.FormatConsole)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg_quality %d: must be within 1-100", c.JPEGQuality)
	}
	return nil
}
