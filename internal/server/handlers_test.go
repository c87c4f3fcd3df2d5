package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// createTestImageFile creates a solid test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestPNG(t, img)
}

// createTwoColorImageFile creates an image whose left three quarters are
// major and the rest minor.
func createTwoColorImageFile(t *testing.T, width, height int, major, minor color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width*3/4 {
				img.Set(x, y, major)
			} else {
				img.Set(x, y, minor)
			}
		}
	}
	return writeTestPNG(t, img)
}

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// callTool runs a tools/call request and returns the response
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult decodes the JSON text content of a successful tool response
func toolResult(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatal("content text should be a string")
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	return out
}

func decodeOutput(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	return img
}

func TestHandleToolsCall_WallpaperRender(t *testing.T) {
	s := newTestServer(t)
	src := createTwoColorImageFile(t, 16, 16, color.RGBA{200, 30, 30, 255}, color.RGBA{10, 10, 90, 255})

	modes := []string{"sblur", "lgrad", "rgrad"}
	for _, mode := range modes {
		t.Run(mode, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "wall.png")
			result := toolResult(t, callTool(t, s, "wallpaper_render", map[string]interface{}{
				"source_path": src,
				"output_path": out,
				"width":       48,
				"height":      32,
				"mode":        mode,
			}))

			if result["mode"] != mode {
				t.Errorf("mode: got %v, want %s", result["mode"], mode)
			}
			if result["width"] != float64(48) || result["height"] != float64(32) {
				t.Errorf("size: got %vx%v, want 48x32", result["width"], result["height"])
			}
			if result["cover_x"] != float64(16) || result["cover_y"] != float64(8) {
				t.Errorf("cover origin: got (%v,%v), want (16,8)", result["cover_x"], result["cover_y"])
			}

			img := decodeOutput(t, out)
			if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
				t.Errorf("output bounds: got %v", b)
			}

			_, hasPalette := result["palette"]
			if wantPalette := mode != "sblur"; hasPalette != wantPalette {
				t.Errorf("palette present: got %v, want %v", hasPalette, wantPalette)
			}
		})
	}
}

func TestHandleToolsCall_WallpaperRenderDefaults(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 8, 8, color.RGBA{0, 128, 0, 255})

	result := toolResult(t, callTool(t, s, "wallpaper_render", map[string]interface{}{
		"source_path": src,
	}))

	if result["output_path"] != s.cfg.OutputPath {
		t.Errorf("output_path: got %v, want %s", result["output_path"], s.cfg.OutputPath)
	}
	if result["mode"] != s.cfg.Mode.String() {
		t.Errorf("mode: got %v, want %s", result["mode"], s.cfg.Mode)
	}
	img := decodeOutput(t, s.cfg.OutputPath)
	if b := img.Bounds(); b.Dx() != s.cfg.Width || b.Dy() != s.cfg.Height {
		t.Errorf("output bounds: got %v, want %dx%d", b, s.cfg.Width, s.cfg.Height)
	}
}

func TestHandleToolsCall_WallpaperRenderBackground(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 8, 8, color.RGBA{255, 0, 0, 255})
	bg := createTestImageFile(t, 10, 10, color.RGBA{0, 0, 255, 255})

	for i := 0; i < 2; i++ {
		out := filepath.Join(t.TempDir(), "wall.png")
		toolResult(t, callTool(t, s, "wallpaper_render", map[string]interface{}{
			"source_path":     src,
			"background_path": bg,
			"output_path":     out,
			"width":           40,
			"height":          20,
			"mode":            "bgblur",
		}))

		img := decodeOutput(t, out)
		r, g, b, _ := img.At(0, 0).RGBA()
		if r>>8 > 2 || g>>8 > 2 || b>>8 < 253 {
			t.Errorf("corner: got (%d,%d,%d), want background blue", r>>8, g>>8, b>>8)
		}
		r, g, b, _ = img.At(20, 10).RGBA()
		if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
			t.Errorf("center: got (%d,%d,%d), want cover red", r>>8, g>>8, b>>8)
		}
	}

	if s.cache.Len() != 1 {
		t.Errorf("background cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_WallpaperRenderErrors(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 8, 8, color.RGBA{255, 0, 0, 255})
	out := filepath.Join(t.TempDir(), "wall.png")

	notImage := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{"missing source", map[string]interface{}{"output_path": out}, "source_path is required"},
		{"unknown mode", map[string]interface{}{"source_path": src, "output_path": out, "mode": "tile"}, "unknown render mode"},
		{"no background", map[string]interface{}{"source_path": src, "output_path": out, "mode": "bgblur"}, "background"},
		{"bad extension", map[string]interface{}{"source_path": src, "output_path": filepath.Join(t.TempDir(), "wall.tiff")}, "format"},
		{"missing file", map[string]interface{}{"source_path": "/nonexistent/cover.png", "output_path": out}, "failed to open image"},
		{"undecodable", map[string]interface{}{"source_path": notImage, "output_path": out}, "decode"},
		{"negative width", map[string]interface{}{"source_path": src, "output_path": out, "width": -5}, "dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "wallpaper_render", tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error.Code: got %d, want -32000", resp.Error.Code)
			}
			data, _ := resp.Error.Data.(string)
			if !strings.Contains(strings.ToLower(data), tt.wantMsg) {
				t.Errorf("Error.Data: got %q, want it to contain %q", data, tt.wantMsg)
			}
		})
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed renders should not write %s", out)
	}
}

func TestHandleToolsCall_WallpaperPalette(t *testing.T) {
	s := newTestServer(t)
	path := createTwoColorImageFile(t, 8, 4, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255})

	result := toolResult(t, callTool(t, s, "wallpaper_palette", map[string]interface{}{"path": path}))

	most, ok := result["most_frequent"].(map[string]interface{})
	if !ok {
		t.Fatalf("most_frequent: got %v", result["most_frequent"])
	}
	if most["hex"] != "#ff0000" {
		t.Errorf("most_frequent hex: got %v, want #ff0000", most["hex"])
	}
	least, ok := result["least_frequent"].(map[string]interface{})
	if !ok {
		t.Fatalf("least_frequent: got %v", result["least_frequent"])
	}
	if least["hex"] != "#0000ff" {
		t.Errorf("least_frequent hex: got %v, want #0000ff", least["hex"])
	}
}

func TestHandleToolsCall_WallpaperModes(t *testing.T) {
	s := newTestServer(t)
	result := toolResult(t, callTool(t, s, "wallpaper_modes", nil))

	modes, ok := result["modes"].([]interface{})
	if !ok {
		t.Fatalf("modes: got %v", result["modes"])
	}
	if len(modes) != 4 {
		t.Fatalf("got %d modes, want 4", len(modes))
	}

	defaults := 0
	for _, m := range modes {
		info := m.(map[string]interface{})
		if info["description"] == "" {
			t.Errorf("mode %v has no description", info["key"])
		}
		if info["needs_background"] != (info["key"] == "bgblur") {
			t.Errorf("mode %v: needs_background %v", info["key"], info["needs_background"])
		}
		if info["default"] == true {
			defaults++
			if info["key"] != s.cfg.Mode.String() {
				t.Errorf("default mode: got %v, want %s", info["key"], s.cfg.Mode)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("got %d default modes, want 1", defaults)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	result := toolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}))

	if result["width"] != float64(200) {
		t.Errorf("width: got %v, want 200", result["width"])
	}
	if result["height"] != float64(150) {
		t.Errorf("height: got %v, want 150", result["height"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_dimensions", map[string]interface{}{"path": "/nonexistent/image.png"})
	if resp.Error == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error.Code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_load", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("Error.Data: got %q", data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`[1,2,3]`),
	})
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_WallpaperRenderReplacedBackground(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 8, 8, color.RGBA{255, 255, 255, 255})
	bg := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	render := func() image.Image {
		t.Helper()
		out := filepath.Join(t.TempDir(), "wall.png")
		toolResult(t, callTool(t, s, "wallpaper_render", map[string]interface{}{
			"source_path":     src,
			"background_path": bg,
			"output_path":     out,
			"width":           40,
			"height":          20,
			"mode":            "bgblur",
		}))
		return decodeOutput(t, out)
	}

	if r, g, _, _ := render().At(0, 0).RGBA(); r>>8 < 253 || g>>8 > 2 {
		t.Fatalf("first corner: got r=%d g=%d, want red", r>>8, g>>8)
	}

	// Replace the background in place, as a user swapping the file would.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	f, err := os.Create(bg)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(bg, later, later); err != nil {
		t.Fatal(err)
	}

	if r, g, _, _ := render().At(0, 0).RGBA(); r>>8 > 2 || g>>8 < 253 {
		t.Errorf("second corner: got r=%d g=%d, want the new green background", r>>8, g>>8)
	}
	if s.cache.Len() != 1 {
		t.Errorf("background cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_WallpaperGradient(t *testing.T) {
	s := newTestServer(t)

	for _, kind := range []string{"linear", "radial"} {
		t.Run(kind, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "gradient.png")
			result := toolResult(t, callTool(t, s, "wallpaper_gradient", map[string]interface{}{
				"kind":        kind,
				"from":        "#ff0000",
				"to":          "#0000FF",
				"output_path": out,
				"width":       20,
				"height":      10,
			}))

			if result["kind"] != kind {
				t.Errorf("kind: got %v, want %s", result["kind"], kind)
			}
			to := result["to"].(map[string]interface{})
			if to["hex"] != "#0000ff" {
				t.Errorf("to hex: got %v, want #0000ff", to["hex"])
			}

			img := decodeOutput(t, out)
			if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
				t.Errorf("output bounds: got %v", b)
			}
		})
	}

	if s.fields.Len() != 1 {
		t.Errorf("distance field cache: got %d entries, want 1", s.fields.Len())
	}
}

func TestHandleToolsCall_WallpaperGradientErrors(t *testing.T) {
	s := newTestServer(t)
	out := filepath.Join(t.TempDir(), "gradient.png")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown kind", map[string]interface{}{"kind": "conic", "from": "#000000", "to": "#ffffff", "output_path": out}},
		{"bad from", map[string]interface{}{"kind": "linear", "from": "red", "to": "#ffffff", "output_path": out}},
		{"bad to", map[string]interface{}{"kind": "linear", "from": "#000000", "to": "#12", "output_path": out}},
		{"zero size", map[string]interface{}{"kind": "radial", "from": "#000000", "to": "#ffffff", "output_path": out, "width": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "wallpaper_gradient", tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error response")
			}
		})
	}
}
