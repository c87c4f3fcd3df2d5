package server

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/album-wallpaper-mcp/internal/imaging"
	"github.com/ironsheep/album-wallpaper-mcp/internal/wallpaper"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wallpaper_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "wallpaper_render":
		return s.handleWallpaperRender(args)
	case "wallpaper_gradient":
		return s.handleWallpaperGradient(args)
	case "wallpaper_palette":
		return s.handleWallpaperPalette(args)
	case "wallpaper_modes":
		return s.handleWallpaperModes(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating absent arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// colorResult is a color in hex and RGB form.
type colorResult struct {
	Hex string           `json:"hex"`
	RGB imaging.RGBColor `json:"rgb"`
}

func newColorResult(c imaging.RGBColor) colorResult {
	return colorResult{Hex: c.Hex(), RGB: c}
}

// paletteResult is the JSON form of imaging.Palette.
type paletteResult struct {
	MostFrequent  colorResult `json:"most_frequent"`
	LeastFrequent colorResult `json:"least_frequent"`
}

func newPaletteResult(p imaging.Palette) *paletteResult {
	return &paletteResult{
		MostFrequent:  newColorResult(p.Most),
		LeastFrequent: newColorResult(p.Least),
	}
}

// === Wallpaper Handlers ===

type wallpaperRenderArgs struct {
	SourcePath     string `json:"source_path"`
	OutputPath     string `json:"output_path"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Mode           string `json:"mode"`
	BackgroundPath string `json:"background_path"`
}

// renderResult describes a wallpaper written to disk.
type renderResult struct {
	OutputPath string         `json:"output_path"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Mode       wallpaper.Mode `json:"mode"`
	Palette    *paletteResult `json:"palette,omitempty"`
	Inverted   bool           `json:"inverted"`
	CoverX     int            `json:"cover_x"`
	CoverY     int            `json:"cover_y"`
	ElapsedMS  int64          `json:"elapsed_ms"`
	SizeBytes  int            `json:"size_bytes"`
}

func (s *Server) handleWallpaperRender(args json.RawMessage) (interface{}, error) {
	var a wallpaperRenderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.SourcePath == "" {
		return nil, fmt.Errorf("source_path is required")
	}

	// Apply configured defaults
	if a.Width == 0 {
		a.Width = s.cfg.Width
	}
	if a.Height == 0 {
		a.Height = s.cfg.Height
	}
	if a.OutputPath == "" {
		a.OutputPath = s.cfg.OutputPath
	}
	if a.BackgroundPath == "" {
		a.BackgroundPath = s.cfg.BackgroundPath
	}
	mode := s.cfg.Mode
	if a.Mode != "" {
		m, err := wallpaper.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}

	format, err := imaging.FormatFromPath(a.OutputPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	src, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("source image %s: %w", a.SourcePath, err)
	}

	var bg image.Image
	if mode.NeedsBackground() {
		if a.BackgroundPath == "" {
			return nil, wallpaper.ErrMissingBackground
		}
		if bg, err = s.cache.Load(a.BackgroundPath); err != nil {
			return nil, err
		}
	}

	res, err := s.renderer.RenderImage(src, bg, a.Width, a.Height, mode)
	if err != nil {
		return nil, err
	}

	size, err := imaging.Save(a.OutputPath, res.Canvas, format, s.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("mode", mode.String()).
		Str("output", a.OutputPath).
		Int("width", a.Width).
		Int("height", a.Height).
		Dur("elapsed", res.Elapsed).
		Msg("wallpaper written")

	out := &renderResult{
		OutputPath: a.OutputPath,
		Width:      res.Canvas.Bounds().Dx(),
		Height:     res.Canvas.Bounds().Dy(),
		Mode:       res.Mode,
		Inverted:   res.Inverted,
		CoverX:     res.CoverOrigin.X,
		CoverY:     res.CoverOrigin.Y,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		SizeBytes:  size,
	}
	if res.Palette != nil {
		out.Palette = newPaletteResult(*res.Palette)
	}
	return out, nil
}

type wallpaperGradientArgs struct {
	Kind       string `json:"kind"`
	From       string `json:"from"`
	To         string `json:"to"`
	Inverted   bool   `json:"inverted"`
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// gradientResult describes a gradient written to disk.
type gradientResult struct {
	OutputPath string      `json:"output_path"`
	Kind       string      `json:"kind"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	From       colorResult `json:"from"`
	To         colorResult `json:"to"`
	Inverted   bool        `json:"inverted"`
	SizeBytes  int         `json:"size_bytes"`
}

func (s *Server) handleWallpaperGradient(args json.RawMessage) (interface{}, error) {
	var a wallpaperGradientArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	kind, err := imaging.ParseGradientKind(a.Kind)
	if err != nil {
		return nil, err
	}
	from, err := imaging.ParseHexColor(a.From)
	if err != nil {
		return nil, err
	}
	to, err := imaging.ParseHexColor(a.To)
	if err != nil {
		return nil, err
	}

	if a.Width == 0 {
		a.Width = s.cfg.Width
	}
	if a.Height == 0 {
		a.Height = s.cfg.Height
	}
	if a.OutputPath == "" {
		a.OutputPath = s.cfg.OutputPath
	}
	format, err := imaging.FormatFromPath(a.OutputPath)
	if err != nil {
		return nil, err
	}

	canvas, err := imaging.NewGradient(kind, a.Width, a.Height, from, to, a.Inverted, s.fields)
	if err != nil {
		return nil, err
	}
	size, err := imaging.Save(a.OutputPath, canvas, format, s.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("kind", kind.String()).
		Str("output", a.OutputPath).
		Msg("gradient written")

	return &gradientResult{
		OutputPath: a.OutputPath,
		Kind:       kind.String(),
		Width:      a.Width,
		Height:     a.Height,
		From:       newColorResult(from),
		To:         newColorResult(to),
		Inverted:   a.Inverted,
		SizeBytes:  size,
	}, nil
}

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleWallpaperPalette(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	p, err := imaging.AnalyzePalette(img)
	if err != nil {
		return nil, err
	}
	return newPaletteResult(p), nil
}

// modeInfo describes one render mode.
type modeInfo struct {
	Key             string `json:"key"`
	Description     string `json:"description"`
	NeedsBackground bool   `json:"needs_background"`
	Default         bool   `json:"default"`
}

func (s *Server) handleWallpaperModes(_ json.RawMessage) (interface{}, error) {
	modes := wallpaper.Modes()
	out := make([]modeInfo, len(modes))
	for i, m := range modes {
		out[i] = modeInfo{
			Key:             m.String(),
			Description:     m.Description(),
			NeedsBackground: m.NeedsBackground(),
			Default:         m == s.cfg.Mode,
		}
	}
	return map[string]interface{}{"modes": out}, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Dimensions(data)
}
