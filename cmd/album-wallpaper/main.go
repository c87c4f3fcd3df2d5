package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/album-wallpaper-mcp/internal/config"
	"github.com/ironsheep/album-wallpaper-mcp/internal/logging"
	"github.com/ironsheep/album-wallpaper-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("album-wallpaper %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "album-wallpaper: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger := logging.NewFormat(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "render" {
		if err := runRender(os.Args[2:], cfg, logger, os.Stdout); err != nil {
			logger.Error().Err(err).Msg("render failed")
			os.Exit(1)
		}
		return
	}

	server.Version = Version
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("album wallpaper MCP server starting")

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func printUsage() {
	fmt.Println("album-wallpaper - render desktop wallpapers from album covers")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  album-wallpaper [options]          Run the MCP server on stdin/stdout")
	fmt.Println("  album-wallpaper render [flags]     Render one wallpaper and exit")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Render flags:")
	fmt.Println("  -in PATH             Album cover image (required)")
	fmt.Println("  -out PATH            Output file, .png or .jpg")
	fmt.Println("  -width N, -height N  Canvas size")
	fmt.Println("  -mode KEY            sblur, bgblur, lgrad or rgrad")
	fmt.Println("  -background PATH     Predefined background for bgblur")
	fmt.Println("  -random-inversion    Flip gradient direction at random")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=PATH    Config file (TOML)\n", config.EnvConfigFile)
	fmt.Printf("  %s=debug   Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=console   Human-readable logs\n", config.EnvLogFormat)
	fmt.Printf("  %s, %s, %s,\n", config.EnvMode, config.EnvWidth, config.EnvHeight)
	fmt.Printf("  %s, %s override config defaults\n", config.EnvBackground, config.EnvOutput)
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
