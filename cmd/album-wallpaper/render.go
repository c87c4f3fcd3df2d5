package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/ironsheep/album-wallpaper-mcp/internal/config"
	"github.com/ironsheep/album-wallpaper-mcp/internal/imaging"
	"github.com/ironsheep/album-wallpaper-mcp/internal/wallpaper"
	"github.com/rs/zerolog"
)

// runRender implements the render subcommand. Flags left unset use cfg.
func runRender(args []string, cfg config.Config, logger zerolog.Logger, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	in := fs.String("in", "", "album cover image")
	out := fs.String("out", cfg.OutputPath, "output file")
	width := fs.Int("width", cfg.Width, "canvas width")
	height := fs.Int("height", cfg.Height, "canvas height")
	mode := cfg.Mode
	fs.TextVar(&mode, "mode", cfg.Mode, "render mode")
	background := fs.String("background", cfg.BackgroundPath, "predefined background image")
	randomInversion := fs.Bool("random-inversion", false, "flip gradient direction at random")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	format, err := imaging.FormatFromPath(*out)
	if err != nil {
		return err
	}

	req := wallpaper.Request{Width: *width, Height: *height, Mode: mode}
	if req.Source, err = os.ReadFile(*in); err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	if mode.NeedsBackground() && *background != "" {
		if req.Background, err = os.ReadFile(*background); err != nil {
			return fmt.Errorf("failed to open background: %w", err)
		}
	}

	opts := []wallpaper.Option{wallpaper.WithLogger(logger)}
	if *randomInversion {
		opts = append(opts, wallpaper.WithRandomInversion(rand.New(rand.NewSource(time.Now().UnixNano()))))
	}
	res, err := wallpaper.NewRenderer(opts...).Render(req)
	if err != nil {
		return err
	}

	size, err := imaging.Save(*out, res.Canvas, format, cfg.JPEGQuality)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %dx%d %s, %d bytes in %s\n", *out, *width, *height, mode, size, res.Elapsed.Round(time.Millisecond))
	return nil
}
